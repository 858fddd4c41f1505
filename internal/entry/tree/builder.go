package tree

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type RootLoader interface {
	FindRootEntries(ctx context.Context, menuID int64) ([]*model.Entry, error)
}

// Builder produces the root entries of a menu, ready for formatting.
type Builder struct {
	loader RootLoader
}

func NewBuilder(loader RootLoader) *Builder {
	return &Builder{loader: loader}
}

// Build is read-only. A menu without entries, or one that does not exist,
// yields an empty slice.
func (b *Builder) Build(ctx context.Context, menuID int64) ([]*model.Entry, error) {
	if menuID <= 0 {
		return nil, entry.ErrInvalidMenuID
	}

	roots, err := b.loader.FindRootEntries(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if roots == nil {
		return []*model.Entry{}, nil
	}

	SortSiblings(roots)
	return roots, nil
}
