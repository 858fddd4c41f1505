package usecase

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/entry/tree"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/search"
)

type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]model.Entry
	tags    []model.Tag
	links   map[int64][]int64

	tagErr  error
	syncErr error
	loadErr error
}

func newMemRepo() *memRepo {
	return &memRepo{entries: map[int64]model.Entry{}, links: map[int64][]int64{}}
}

func (r *memRepo) FindRootEntries(ctx context.Context, menuID int64) ([]*model.Entry, error) {
	r.mu.Lock()
	var roots []*model.Entry
	for _, e := range r.entries {
		if e.MenuID == menuID && e.ParentID == nil {
			roots = append(roots, copyEntry(e))
		}
	}
	r.mu.Unlock()
	return tree.Load(ctx, r, roots)
}

func (r *memRepo) FindWithTagsAndChildren(ctx context.Context, id int64) (*model.Entry, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	e, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loaded, err := tree.Load(ctx, r, []*model.Entry{e})
	if err != nil {
		return nil, err
	}
	return loaded[0], nil
}

func (r *memRepo) FindByID(_ context.Context, id int64) (*model.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, entry.ErrEntryNotFound
	}
	return copyEntry(e), nil
}

func (r *memRepo) ChildEntries(_ context.Context, parentIDs []int64) ([]*model.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Entry
	for _, e := range r.entries {
		if e.ParentID != nil && slices.Contains(parentIDs, *e.ParentID) {
			out = append(out, copyEntry(e))
		}
	}
	slices.SortFunc(out, func(a, b *model.Entry) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *memRepo) EntryTags(_ context.Context, entryIDs []int64) (map[int64][]model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[int64][]model.Tag{}
	for _, id := range entryIDs {
		for _, tagID := range r.links[id] {
			out[id] = append(out[id], r.tags[tagID-1])
		}
	}
	return out, nil
}

func (r *memRepo) Create(_ context.Context, e *model.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.entries[e.ID] = *copyEntry(*e)
	return nil
}

func (r *memRepo) Update(_ context.Context, e *model.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.ID]; !ok {
		return entry.ErrEntryNotFound
	}
	r.entries[e.ID] = *copyEntry(*e)
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return entry.ErrEntryNotFound
	}
	doomed := []int64{id}
	for i := 0; i < len(doomed); i++ {
		for _, e := range r.entries {
			if e.ParentID != nil && *e.ParentID == doomed[i] {
				doomed = append(doomed, e.ID)
			}
		}
	}
	for _, d := range doomed {
		delete(r.entries, d)
		delete(r.links, d)
	}
	return nil
}

func (r *memRepo) SyncTags(_ context.Context, entryID int64, tagIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.syncErr != nil {
		return r.syncErr
	}
	r.links[entryID] = append([]int64(nil), tagIDs...)
	return nil
}

func (r *memRepo) FindOrCreateTag(_ context.Context, name, tagType string) (*model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tagErr != nil {
		return nil, r.tagErr
	}
	for _, t := range r.tags {
		if t.Name == name && t.Type == tagType {
			return &t, nil
		}
	}
	t := model.Tag{ID: int64(len(r.tags) + 1), Name: name, Type: tagType}
	r.tags = append(r.tags, t)
	return &t, nil
}

func (r *memRepo) ListTags(context.Context) ([]model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Tag(nil), r.tags...), nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func copyEntry(e model.Entry) *model.Entry {
	e.Children = nil
	e.Tags = nil
	return &e
}

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]any
	deleted []string
	result  *search.SearchResult
	err     error
	query   map[string]any
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]any{}}
}

func (f *fakeIndex) CreateIndex(context.Context, string, string) error {
	return search.ErrIndexAlreadyExists
}

func (f *fakeIndex) Index(_ context.Context, _, id string, doc any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[id] = doc
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, query map[string]any) (*search.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = query
	return f.result, f.err
}

func (f *fakeIndex) indexed(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.docs[id]
	return ok
}

func (f *fakeIndex) deletedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}
