package handler

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/entry/dto"
	"github.com/fekuna/omnipos-menu-service/internal/entry/format"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type stubUseCase struct {
	structure *dto.MenuStructure
	display   *format.Display
	entry     *model.Entry
	hits      []dto.SearchHit
	err       error

	gotMenuID  int64
	gotID      int64
	gotCreate  *dto.CreateEntryInput
	gotUpdate  *dto.UpdateEntryInput
	gotFilters *dto.SearchFilters
}

func (s *stubUseCase) GetMenuStructure(_ context.Context, menuID int64) (*dto.MenuStructure, error) {
	s.gotMenuID = menuID
	return s.structure, s.err
}

func (s *stubUseCase) GetEntry(_ context.Context, id int64) (*format.Display, error) {
	s.gotID = id
	return s.display, s.err
}

func (s *stubUseCase) CreateEntry(_ context.Context, input *dto.CreateEntryInput) (*model.Entry, error) {
	s.gotCreate = input
	return s.entry, s.err
}

func (s *stubUseCase) UpdateEntry(_ context.Context, input *dto.UpdateEntryInput) (*model.Entry, error) {
	s.gotUpdate = input
	return s.entry, s.err
}

func (s *stubUseCase) DeleteEntry(_ context.Context, id int64) error {
	s.gotID = id
	return s.err
}

func (s *stubUseCase) SearchEntries(_ context.Context, filters *dto.SearchFilters) ([]dto.SearchHit, error) {
	s.gotFilters = filters
	return s.hits, s.err
}
