package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/entry/dto"
	"github.com/fekuna/omnipos-menu-service/internal/entry/format"
	"github.com/fekuna/omnipos-menu-service/internal/entry/structure"
	"github.com/fekuna/omnipos-menu-service/internal/entry/tree"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type entryUseCase struct {
	repo     entry.Repository
	builder  *tree.Builder
	index    SearchIndex
	validate *validator.Validate
	logger   logger.ZapLogger

	indexOnce sync.Once
}

// NewEntryUseCase wires the entry use case. index may be nil, which turns
// search off.
func NewEntryUseCase(repo entry.Repository, index SearchIndex, log logger.ZapLogger) entry.UseCase {
	return &entryUseCase{
		repo:     repo,
		builder:  tree.NewBuilder(repo),
		index:    index,
		validate: validator.New(),
		logger:   log,
	}
}

func (uc *entryUseCase) GetMenuStructure(ctx context.Context, menuID int64) (*dto.MenuStructure, error) {
	roots, err := uc.builder.Build(ctx, menuID)
	if err != nil {
		return nil, err
	}

	entries := format.Entries(roots)
	return &dto.MenuStructure{
		MenuID:    menuID,
		Entries:   entries,
		Structure: structure.Summarize(entries),
	}, nil
}

func (uc *entryUseCase) GetEntry(ctx context.Context, id int64) (*format.Display, error) {
	if id <= 0 {
		return nil, entry.ErrEntryNotFound
	}
	e, err := uc.repo.FindWithTagsAndChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	display := format.Entry(e)
	return &display, nil
}

func (uc *entryUseCase) CreateEntry(ctx context.Context, input *dto.CreateEntryInput) (*model.Entry, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", entry.ErrInvalidInput, err)
	}

	if input.ParentID != nil {
		parent, err := uc.repo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.MenuID != input.MenuID {
			return nil, entry.ErrParentMenuMismatch
		}
	}

	isAvailable := true
	if input.IsAvailable != nil {
		isAvailable = *input.IsAvailable
	}

	now := time.Now()
	e := &model.Entry{
		BaseModel:   model.BaseModel{CreatedAt: now, UpdatedAt: now},
		MenuID:      input.MenuID,
		ParentID:    input.ParentID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Properties:  input.Properties,
		PhotoPath:   input.PhotoPath,
		IsAvailable: isAvailable,
		SortOrder:   input.SortOrder,
		Tags:        []model.Tag{},
	}

	tags, tagIDs, err := uc.resolveTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	if len(tagIDs) > 0 {
		if err := uc.syncTags(ctx, e.ID, tagIDs); err != nil {
			if delErr := uc.repo.Delete(context.WithoutCancel(ctx), e.ID); delErr != nil {
				uc.logger.Error("failed to roll back entry after tag sync error",
					zap.Int64("entry_id", e.ID),
					zap.Error(delErr),
				)
			}
			return nil, err
		}
		e.Tags = tags
	}

	go uc.syncToIndex(context.Background(), e)

	return e, nil
}

func (uc *entryUseCase) UpdateEntry(ctx context.Context, input *dto.UpdateEntryInput) (*model.Entry, error) {
	if err := uc.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", entry.ErrInvalidInput, err)
	}

	e, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	switch {
	case input.MoveToRoot:
		e.ParentID = nil
	case input.ParentID != nil:
		if err := uc.checkParent(ctx, e, *input.ParentID); err != nil {
			return nil, err
		}
		parentID := *input.ParentID
		e.ParentID = &parentID
	}

	if input.Name != nil {
		e.Name = *input.Name
	}
	switch {
	case input.ClearDescription:
		e.Description = nil
	case input.Description != nil:
		e.Description = input.Description
	}
	switch {
	case input.ClearPrice:
		e.Price = nil
	case input.Price != nil:
		e.Price = input.Price
	}
	if input.Properties != nil {
		e.Properties = input.Properties
	}
	switch {
	case input.ClearPhotoPath:
		e.PhotoPath = nil
	case input.PhotoPath != nil:
		e.PhotoPath = input.PhotoPath
	}
	if input.IsAvailable != nil {
		e.IsAvailable = *input.IsAvailable
	}
	if input.SortOrder != nil {
		e.SortOrder = *input.SortOrder
	}
	e.UpdatedAt = time.Now()

	var (
		tags   []model.Tag
		tagIDs []int64
	)
	if input.Tags != nil {
		if tags, tagIDs, err = uc.resolveTags(ctx, *input.Tags); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	if input.Tags != nil {
		if err := uc.syncTags(ctx, e.ID, tagIDs); err != nil {
			return nil, err
		}
		e.Tags = tags
	} else {
		loaded, err := uc.repo.FindWithTagsAndChildren(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("reload tags of entry %d: %w", e.ID, err)
		}
		e.Tags = loaded.Tags
	}

	go uc.syncToIndex(context.Background(), e)

	return e, nil
}

// checkParent rejects a new parent that lives in another menu or that is the
// entry itself or one of its descendants.
func (uc *entryUseCase) checkParent(ctx context.Context, e *model.Entry, parentID int64) error {
	if parentID == e.ID {
		return entry.ErrCyclicParent
	}

	parent, err := uc.repo.FindByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.MenuID != e.MenuID {
		return entry.ErrParentMenuMismatch
	}

	seen := map[int64]bool{parent.ID: true}
	for cur := parent; cur.ParentID != nil; {
		if *cur.ParentID == e.ID {
			return entry.ErrCyclicParent
		}
		if seen[*cur.ParentID] {
			return fmt.Errorf("%w: ancestor chain of entry %d loops", entry.ErrCyclicParent, parent.ID)
		}
		seen[*cur.ParentID] = true

		cur, err = uc.repo.FindByID(ctx, *cur.ParentID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (uc *entryUseCase) DeleteEntry(ctx context.Context, id int64) error {
	e, err := uc.repo.FindWithTagsAndChildren(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	go uc.removeFromIndex(context.Background(), subtreeIDs(e))

	return nil
}

// resolveTags finds or creates every named tag, dropping duplicates while
// keeping input order.
func (uc *entryUseCase) resolveTags(ctx context.Context, inputs []dto.TagInput) ([]model.Tag, []int64, error) {
	tags := make([]model.Tag, 0, len(inputs))
	ids := make([]int64, 0, len(inputs))
	seen := make(map[int64]bool, len(inputs))
	for _, in := range inputs {
		tag, err := uc.repo.FindOrCreateTag(ctx, in.Name, in.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve tag %q: %w", in.Name, err)
		}
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		tags = append(tags, *tag)
		ids = append(ids, tag.ID)
	}
	return tags, ids, nil
}

func (uc *entryUseCase) syncTags(ctx context.Context, entryID int64, tagIDs []int64) error {
	if err := uc.repo.SyncTags(ctx, entryID, tagIDs); err != nil {
		return fmt.Errorf("sync tags of entry %d: %w", entryID, err)
	}
	return nil
}

func subtreeIDs(e *model.Entry) []int64 {
	ids := []int64{e.ID}
	for _, child := range e.Children {
		ids = append(ids, subtreeIDs(child)...)
	}
	return ids
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}
