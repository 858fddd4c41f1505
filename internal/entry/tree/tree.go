package tree

import (
	"context"
	"slices"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

// Source is the batched read surface a store exposes to the loader.
type Source interface {
	// ChildEntries returns the direct children of all given parents in one read.
	ChildEntries(ctx context.Context, parentIDs []int64) ([]*model.Entry, error)
	// EntryTags returns tags per entry id, each list in association order.
	EntryTags(ctx context.Context, entryIDs []int64) (map[int64][]model.Tag, error)
}

// Load completes already-fetched top-level entries with their children,
// grandchildren and tags. It issues at most three reads whatever the number
// of tops, and never descends further.
func Load(ctx context.Context, src Source, tops []*model.Entry) ([]*model.Entry, error) {
	if len(tops) == 0 {
		return []*model.Entry{}, nil
	}

	children, err := src.ChildEntries(ctx, IDs(tops))
	if err != nil {
		return nil, err
	}

	var grandchildren []*model.Entry
	if len(children) > 0 {
		grandchildren, err = src.ChildEntries(ctx, IDs(children))
		if err != nil {
			return nil, err
		}
	}

	all := make([]*model.Entry, 0, len(tops)+len(children)+len(grandchildren))
	all = append(all, tops...)
	all = append(all, children...)
	all = append(all, grandchildren...)

	tags, err := src.EntryTags(ctx, IDs(all))
	if err != nil {
		return nil, err
	}

	return Assemble(tops, children, grandchildren, tags), nil
}

// Assemble links flat rows into trees at most three levels deep. Rows whose
// parent is not part of the previous level are dropped. Every sibling list,
// including tops, comes back sorted by (order, id).
func Assemble(tops, children, grandchildren []*model.Entry, tags map[int64][]model.Tag) []*model.Entry {
	out := make([]*model.Entry, 0, len(tops))
	level := make(map[int64]*model.Entry, len(tops))
	for _, e := range tops {
		if e == nil {
			continue
		}
		if _, dup := level[e.ID]; dup {
			continue
		}
		prepare(e, tags)
		level[e.ID] = e
		out = append(out, e)
	}

	level = attach(level, children, tags)
	attach(level, grandchildren, tags)

	SortSiblings(out)
	return out
}

func attach(parents map[int64]*model.Entry, rows []*model.Entry, tags map[int64][]model.Tag) map[int64]*model.Entry {
	next := make(map[int64]*model.Entry, len(rows))
	for _, row := range rows {
		if row == nil || row.ParentID == nil {
			continue
		}
		parent, ok := parents[*row.ParentID]
		if !ok {
			continue
		}
		if _, dup := next[row.ID]; dup {
			continue
		}
		prepare(row, tags)
		parent.Children = append(parent.Children, row)
		next[row.ID] = row
	}
	return next
}

func prepare(e *model.Entry, tags map[int64][]model.Tag) {
	e.Children = nil
	e.Tags = append([]model.Tag{}, tags[e.ID]...)
}

// SortSiblings sorts entries and, recursively, their children.
func SortSiblings(entries []*model.Entry) {
	slices.SortStableFunc(entries, model.CompareEntries)
	for _, e := range entries {
		SortSiblings(e.Children)
	}
}

func IDs(entries []*model.Entry) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
