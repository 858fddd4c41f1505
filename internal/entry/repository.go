package entry

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

// Repository is the entry store. Tree reads only ever materialize three
// levels: the requested entries, their children and their grandchildren.
type Repository interface {
	// FindRootEntries loads every root entry of the menu with two levels of
	// descendants and their tags, in a constant number of queries.
	FindRootEntries(ctx context.Context, menuID int64) ([]*model.Entry, error)
	// FindWithTagsAndChildren loads one entry with the same two-level window.
	FindWithTagsAndChildren(ctx context.Context, id int64) (*model.Entry, error)
	FindByID(ctx context.Context, id int64) (*model.Entry, error)
	Create(ctx context.Context, entry *model.Entry) error
	Update(ctx context.Context, entry *model.Entry) error
	// Delete removes the entry, its descendants and their tag associations.
	Delete(ctx context.Context, id int64) error

	SyncTags(ctx context.Context, entryID int64, tagIDs []int64) error
	FindOrCreateTag(ctx context.Context, name, tagType string) (*model.Tag, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
}
