package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/entry/dto"
	"github.com/fekuna/omnipos-menu-service/internal/entry/format"
	"github.com/fekuna/omnipos-menu-service/internal/entry/structure"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T, index SearchIndex) (entry.UseCase, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	return NewEntryUseCase(repo, index, logger.NewNop()), repo
}

func create(t *testing.T, uc entry.UseCase, input dto.CreateEntryInput) *model.Entry {
	t.Helper()
	e, err := uc.CreateEntry(context.Background(), &input)
	require.NoError(t, err)
	return e
}

func TestGetMenuStructure(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t, nil)

	starters := create(t, uc, dto.CreateEntryInput{MenuID: 1, Name: "Starters", SortOrder: 1})
	create(t, uc, dto.CreateEntryInput{
		MenuID:   1,
		ParentID: &starters.ID,
		Name:     "Bruschetta",
		Price:    ptr(8.99),
		Tags:     []dto.TagInput{{Name: "Vegetarian", Type: "dietary"}},
	})
	pasta := create(t, uc, dto.CreateEntryInput{MenuID: 1, Name: "Build Your Pasta", SortOrder: 2})
	base := create(t, uc, dto.CreateEntryInput{MenuID: 1, ParentID: &pasta.ID, Name: "Pasta Base"})
	create(t, uc, dto.CreateEntryInput{MenuID: 1, ParentID: &base.ID, Name: "Marinara"})

	got, err := uc.GetMenuStructure(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.MenuID)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "Starters", got.Entries[0].Name)
	assert.Equal(t, format.KindCategory, got.Entries[0].Kind)
	require.Len(t, got.Entries[0].Items, 1)
	assert.Equal(t, "Vegetarian", got.Entries[0].Items[0].Tags[0].Name)

	assert.Equal(t, []structure.Category{
		{ID: starters.ID, Name: "Starters", ItemCount: 1, HasCustomizations: false},
		{ID: pasta.ID, Name: "Build Your Pasta", ItemCount: 1, HasCustomizations: true},
	}, got.Categories)
	assert.Equal(t, structure.Stats{TotalCategories: 2, TotalItems: 2, TotalCustomizations: 1}, got.Stats)
}

func TestGetMenuStructure_EmptyAndInvalid(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t, nil)

	got, err := uc.GetMenuStructure(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, got.Entries)
	assert.Empty(t, got.Entries)
	assert.NotNil(t, got.Categories)
	assert.Equal(t, structure.Stats{}, got.Stats)

	_, err = uc.GetMenuStructure(ctx, 0)
	assert.ErrorIs(t, err, entry.ErrInvalidMenuID)
}

func TestGetEntry(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t, nil)

	root := create(t, uc, dto.CreateEntryInput{MenuID: 1, Name: "Drinks"})
	item := create(t, uc, dto.CreateEntryInput{MenuID: 1, ParentID: &root.ID, Name: "Lemonade"})

	got, err := uc.GetEntry(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, format.KindEntry, got.Kind)
	assert.Equal(t, "Lemonade", got.Name)

	_, err = uc.GetEntry(ctx, 999)
	assert.ErrorIs(t, err, entry.ErrEntryNotFound)
}

func TestCreateEntry(t *testing.T) {
	ctx := context.Background()
	uc, repo := setup(t, nil)

	e, err := uc.CreateEntry(ctx, &dto.CreateEntryInput{
		MenuID:     1,
		Name:       "Curry",
		Properties: model.Properties(`{"spicy":true}`),
		Tags: []dto.TagInput{
			{Name: "Hot", Type: "spice_level"},
			{Name: "Vegan", Type: "dietary"},
			{Name: "Hot", Type: "spice_level"},
		},
	})
	require.NoError(t, err)

	assert.NotZero(t, e.ID)
	assert.True(t, e.IsAvailable, "availability defaults to true")
	assert.False(t, e.CreatedAt.IsZero())
	require.Len(t, e.Tags, 2)
	assert.Equal(t, "Hot", e.Tags[0].Name)
	assert.Equal(t, "Vegan", e.Tags[1].Name)
	assert.Equal(t, []int64{e.Tags[0].ID, e.Tags[1].ID}, repo.links[e.ID])

	unavailable, err := uc.CreateEntry(ctx, &dto.CreateEntryInput{MenuID: 1, Name: "Seasonal", IsAvailable: ptr(false)})
	require.NoError(t, err)
	assert.False(t, unavailable.IsAvailable)
}

func TestCreateEntry_Rejects(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t, nil)
	other := create(t, uc, dto.CreateEntryInput{MenuID: 2, Name: "Other"})

	tests := []struct {
		name  string
		input dto.CreateEntryInput
		err   error
	}{
		{"missing name", dto.CreateEntryInput{MenuID: 1}, entry.ErrInvalidInput},
		{"bad menu", dto.CreateEntryInput{MenuID: 0, Name: "x"}, entry.ErrInvalidInput},
		{"negative price", dto.CreateEntryInput{MenuID: 1, Name: "x", Price: ptr(-1.0)}, entry.ErrInvalidInput},
		{"unnamed tag", dto.CreateEntryInput{MenuID: 1, Name: "x", Tags: []dto.TagInput{{Type: "dietary"}}}, entry.ErrInvalidInput},
		{"missing parent", dto.CreateEntryInput{MenuID: 1, Name: "x", ParentID: ptr(int64(404))}, entry.ErrEntryNotFound},
		{"parent in other menu", dto.CreateEntryInput{MenuID: 1, Name: "x", ParentID: &other.ID}, entry.ErrParentMenuMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := uc.CreateEntry(ctx, &input)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestUpdateEntry_Partial(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t, nil)

	e := create(t, uc, dto.CreateEntryInput{
		MenuID:      1,
		Name:        "Soup",
		Description: ptr("Daily soup"),
		Price:       ptr(5.0),
		SortOrder:   3,
		Tags:        []dto.TagInput{{Name: "Warm", Type: "feature"}},
	})

	got, err := uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: e.ID, Name: ptr("Soup of the Day"), SortOrder: ptr(1)})
	require.NoError(t, err)

	assert.Equal(t, "Soup of the Day", got.Name)
	assert.Equal(t, 1, got.SortOrder)
	assert.Equal(t, "Daily soup", *got.Description)
	assert.Equal(t, 5.0, *got.Price)
	require.Len(t, got.Tags, 1, "tags are untouched when not given")

	got, err = uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: e.ID, Tags: &[]dto.TagInput{}})
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestUpdateEntry_ClearsNullableFields(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t, nil)

	e := create(t, uc, dto.CreateEntryInput{
		MenuID:      1,
		Name:        "Tiramisu",
		Description: ptr("Coffee soaked"),
		Price:       ptr(6.5),
		PhotoPath:   ptr("/img/tiramisu.jpg"),
	})

	got, err := uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: e.ID, ClearDescription: true, ClearPrice: true})
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.Price)
	require.NotNil(t, got.PhotoPath)

	got, err = uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: e.ID, ClearPhotoPath: true})
	require.NoError(t, err)
	assert.Nil(t, got.PhotoPath)

	display, err := uc.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, display.Price)
	assert.Nil(t, display.Description)

	_, err = uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: e.ID, Price: ptr(7.0), ClearPrice: true})
	assert.ErrorIs(t, err, entry.ErrInvalidInput)
}

func TestUpdateEntry_ReloadTagsError(t *testing.T) {
	uc, repo := setup(t, nil)
	e := create(t, uc, dto.CreateEntryInput{MenuID: 1, Name: "Soup", Tags: []dto.TagInput{{Name: "Warm"}}})

	repo.loadErr = errors.New("connection reset")
	_, err := uc.UpdateEntry(context.Background(), &dto.UpdateEntryInput{ID: e.ID, Name: ptr("Broth")})
	assert.ErrorIs(t, err, repo.loadErr)
}

func TestCreateEntry_TagFailureLeavesNoEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("resolve", func(t *testing.T) {
		uc, repo := setup(t, nil)
		repo.tagErr = errors.New("tags table locked")

		_, err := uc.CreateEntry(ctx, &dto.CreateEntryInput{MenuID: 1, Name: "Salad", Tags: []dto.TagInput{{Name: "Vegan"}}})
		assert.ErrorIs(t, err, repo.tagErr)
		assert.Zero(t, repo.count())
	})

	t.Run("sync", func(t *testing.T) {
		uc, repo := setup(t, nil)
		repo.syncErr = errors.New("link insert failed")

		_, err := uc.CreateEntry(ctx, &dto.CreateEntryInput{MenuID: 1, Name: "Salad", Tags: []dto.TagInput{{Name: "Vegan"}}})
		assert.ErrorIs(t, err, repo.syncErr)
		assert.Zero(t, repo.count())

		got, err := uc.GetMenuStructure(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, got.Entries)
	})
}

func TestUpdateEntry_Reparent(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t, nil)

	root := create(t, uc, dto.CreateEntryInput{MenuID: 1, Name: "Mains"})
	item := create(t, uc, dto.CreateEntryInput{MenuID: 1, ParentID: &root.ID, Name: "Steak"})
	side := create(t, uc, dto.CreateEntryInput{MenuID: 1, ParentID: &item.ID, Name: "Fries"})
	other := create(t, uc, dto.CreateEntryInput{MenuID: 2, Name: "Elsewhere"})
	sides := create(t, uc, dto.CreateEntryInput{MenuID: 1, Name: "Sides"})

	_, err := uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: root.ID, ParentID: &root.ID})
	assert.ErrorIs(t, err, entry.ErrCyclicParent)

	_, err = uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: root.ID, ParentID: &side.ID})
	assert.ErrorIs(t, err, entry.ErrCyclicParent)

	_, err = uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: item.ID, ParentID: &other.ID})
	assert.ErrorIs(t, err, entry.ErrParentMenuMismatch)

	moved, err := uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: side.ID, ParentID: &sides.ID})
	require.NoError(t, err)
	assert.Equal(t, sides.ID, *moved.ParentID)

	moved, err = uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: item.ID, MoveToRoot: true})
	require.NoError(t, err)
	assert.True(t, moved.IsRoot())

	_, err = uc.UpdateEntry(ctx, &dto.UpdateEntryInput{ID: 999, Name: ptr("x")})
	assert.ErrorIs(t, err, entry.ErrEntryNotFound)
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()
	index := newFakeIndex()
	uc, _ := setup(t, index)

	root := create(t, uc, dto.CreateEntryInput{MenuID: 1, Name: "Mains"})
	item := create(t, uc, dto.CreateEntryInput{MenuID: 1, ParentID: &root.ID, Name: "Steak"})
	create(t, uc, dto.CreateEntryInput{MenuID: 1, ParentID: &item.ID, Name: "Fries"})

	require.NoError(t, uc.DeleteEntry(ctx, root.ID))

	_, err := uc.GetEntry(ctx, item.ID)
	assert.ErrorIs(t, err, entry.ErrEntryNotFound)
	assert.Eventually(t, func() bool { return index.deletedCount() == 3 }, time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, uc.DeleteEntry(ctx, root.ID), entry.ErrEntryNotFound)
}

func TestCreateEntry_SyncsIndex(t *testing.T) {
	index := newFakeIndex()
	uc, _ := setup(t, index)

	e := create(t, uc, dto.CreateEntryInput{MenuID: 1, Name: "Pho"})

	assert.Eventually(t, func() bool { return index.indexed(docID(e.ID)) }, time.Second, 10*time.Millisecond)
}

func TestSearchEntries(t *testing.T) {
	ctx := context.Background()
	index := newFakeIndex()
	index.result = &search.SearchResult{}
	index.result.Hits.Hits = []search.Hit{
		{ID: "3", Score: 2.5, Source: json.RawMessage(`{"id":3,"menu_id":1,"parent_id":1,"name":"Bruschetta","price":8.99,"tags":["Vegetarian"]}`)},
		{ID: "4", Score: 1, Source: json.RawMessage(`not json`)},
	}
	uc, _ := setup(t, index)

	hits, err := uc.SearchEntries(ctx, &dto.SearchFilters{MenuID: 1, Query: " brus ", Limit: 500})
	require.NoError(t, err)

	require.Len(t, hits, 1)
	assert.Equal(t, int64(3), hits[0].ID)
	assert.Equal(t, int64(1), *hits[0].ParentID)
	assert.Equal(t, []string{"Vegetarian"}, hits[0].Tags)
	assert.Equal(t, 2.5, hits[0].Score)
	assert.Equal(t, maxSearchLimit, index.query["size"])
}

func TestSearchEntries_Fallbacks(t *testing.T) {
	ctx := context.Background()

	disabled, _ := setup(t, nil)
	hits, err := disabled.SearchEntries(ctx, &dto.SearchFilters{MenuID: 1, Query: "soup"})
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)

	failing := newFakeIndex()
	failing.err = errors.New("connection refused")
	uc, _ := setup(t, failing)
	hits, err = uc.SearchEntries(ctx, &dto.SearchFilters{MenuID: 1, Query: "soup"})
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = uc.SearchEntries(ctx, &dto.SearchFilters{MenuID: 0, Query: "soup"})
	assert.ErrorIs(t, err, entry.ErrInvalidMenuID)
	_, err = uc.SearchEntries(ctx, &dto.SearchFilters{MenuID: 1, Query: "  "})
	assert.ErrorIs(t, err, entry.ErrInvalidInput)
}
