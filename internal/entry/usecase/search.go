package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/entry/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/search"
	"go.uber.org/zap"
)

const (
	entryIndex         = "menu_entries"
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

const entryIndexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "long" },
			"menu_id": { "type": "long" },
			"parent_id": { "type": "long" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"price": { "type": "double" },
			"is_available": { "type": "boolean" },
			"tags": { "type": "keyword" },
			"updated_at": { "type": "date" }
		}
	}
}`

// SearchIndex is the slice of the search client the entry use case needs.
type SearchIndex interface {
	CreateIndex(ctx context.Context, index, body string) error
	Index(ctx context.Context, index, id string, doc any) error
	Delete(ctx context.Context, index, id string) error
	Search(ctx context.Context, index string, query map[string]any) (*search.SearchResult, error)
}

type searchDocument struct {
	ID          int64    `json:"id"`
	MenuID      int64    `json:"menu_id"`
	ParentID    *int64   `json:"parent_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	IsAvailable bool     `json:"is_available"`
	Tags        []string `json:"tags"`
	UpdatedAt   string   `json:"updated_at"`
}

func newSearchDocument(e *model.Entry) searchDocument {
	tags := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		tags = append(tags, t.Name)
	}
	return searchDocument{
		ID:          e.ID,
		MenuID:      e.MenuID,
		ParentID:    e.ParentID,
		Name:        e.Name,
		Description: e.Description,
		Price:       e.Price,
		IsAvailable: e.IsAvailable,
		Tags:        tags,
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (uc *entryUseCase) ensureIndex(ctx context.Context) {
	uc.indexOnce.Do(func() {
		err := uc.index.CreateIndex(ctx, entryIndex, entryIndexMapping)
		if err != nil && !errors.Is(err, search.ErrIndexAlreadyExists) {
			uc.logger.Warn("failed to create search index", zap.String("index", entryIndex), zap.Error(err))
		}
	})
}

func (uc *entryUseCase) syncToIndex(ctx context.Context, e *model.Entry) {
	if uc.index == nil {
		return
	}
	uc.ensureIndex(ctx)

	if err := uc.index.Index(ctx, entryIndex, docID(e.ID), newSearchDocument(e)); err != nil {
		uc.logger.Error("failed to index entry", zap.Int64("entry_id", e.ID), zap.Error(err))
	}
}

func (uc *entryUseCase) removeFromIndex(ctx context.Context, ids []int64) {
	if uc.index == nil {
		return
	}
	for _, id := range ids {
		if err := uc.index.Delete(ctx, entryIndex, docID(id)); err != nil {
			uc.logger.Error("failed to delete entry from index", zap.Int64("entry_id", id), zap.Error(err))
		}
	}
}

func (uc *entryUseCase) SearchEntries(ctx context.Context, filters *dto.SearchFilters) ([]dto.SearchHit, error) {
	if filters.MenuID <= 0 {
		return nil, entry.ErrInvalidMenuID
	}
	query := strings.TrimSpace(filters.Query)
	if query == "" {
		return nil, entry.ErrInvalidInput
	}

	hits := []dto.SearchHit{}
	if uc.index == nil {
		uc.logger.Warn("search is disabled, returning no hits", zap.Int64("menu_id", filters.MenuID))
		return hits, nil
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []map[string]any{
					{
						"multi_match": map[string]any{
							"query":     query,
							"fields":    []string{"name^3", "description", "tags^2"},
							"fuzziness": "AUTO",
						},
					},
				},
				"filter": []map[string]any{
					{"term": map[string]any{"menu_id": filters.MenuID}},
				},
			},
		},
		"size": limit,
	}

	res, err := uc.index.Search(ctx, entryIndex, q)
	if err != nil {
		uc.logger.Warn("search failed, returning no hits", zap.Int64("menu_id", filters.MenuID), zap.Error(err))
		return hits, nil
	}

	for _, h := range res.Hits.Hits {
		var doc searchDocument
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			uc.logger.Warn("skipping malformed search hit", zap.String("id", h.ID), zap.Error(err))
			continue
		}
		hits = append(hits, dto.SearchHit{
			ID:       doc.ID,
			MenuID:   doc.MenuID,
			ParentID: doc.ParentID,
			Name:     doc.Name,
			Price:    doc.Price,
			Tags:     doc.Tags,
			Score:    h.Score,
		})
	}
	return hits, nil
}
