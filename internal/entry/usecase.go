package entry

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/entry/dto"
	"github.com/fekuna/omnipos-menu-service/internal/entry/format"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type UseCase interface {
	GetMenuStructure(ctx context.Context, menuID int64) (*dto.MenuStructure, error)
	GetEntry(ctx context.Context, id int64) (*format.Display, error)
	CreateEntry(ctx context.Context, input *dto.CreateEntryInput) (*model.Entry, error)
	UpdateEntry(ctx context.Context, input *dto.UpdateEntryInput) (*model.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
	SearchEntries(ctx context.Context, filters *dto.SearchFilters) ([]dto.SearchHit, error)
}
