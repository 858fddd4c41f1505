package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/entry/tree"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"gorm.io/gorm"
)

var (
	_ entry.Repository = (*GormRepository)(nil)
	_ tree.Source      = (*GormRepository)(nil)
)

type entryRow struct {
	ID          int64            `gorm:"primaryKey;autoIncrement"`
	MenuID      int64            `gorm:"not null;index"`
	ParentID    *int64           `gorm:"index"`
	Name        string           `gorm:"size:255;not null"`
	Description *string          `gorm:"type:text"`
	Price       *float64         `gorm:"type:real"`
	Properties  model.Properties `gorm:"type:text"`
	PhotoPath   *string          `gorm:"size:512"`
	IsAvailable bool             `gorm:"not null"`
	SortOrder   int              `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (entryRow) TableName() string { return "menu_entries" }

type tagRow struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:100;not null;uniqueIndex:idx_tags_name_type"`
	Type string `gorm:"size:50;not null;uniqueIndex:idx_tags_name_type"`
}

func (tagRow) TableName() string { return "tags" }

type entryTagRow struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	EntryID int64 `gorm:"not null;uniqueIndex:idx_entry_tags_pair"`
	TagID   int64 `gorm:"not null;uniqueIndex:idx_entry_tags_pair"`
}

func (entryTagRow) TableName() string { return "entry_tags" }

type tagJoinRow struct {
	EntryID int64
	ID      int64
	Name    string
	Type    string
}

// AutoMigrate creates the entry store tables for the GORM backend.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&entryRow{}, &tagRow{}, &entryTagRow{})
}

// GormRepository is the entry store for SQLite. SQLite does not enforce
// foreign keys by default, so cascades are done here.
type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) FindRootEntries(ctx context.Context, menuID int64) ([]*model.Entry, error) {
	var rows []entryRow
	err := r.DB.WithContext(ctx).
		Where("menu_id = ? AND parent_id IS NULL", menuID).
		Order("sort_order ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return tree.Load(ctx, r, toModels(rows))
}

func (r *GormRepository) FindWithTagsAndChildren(ctx context.Context, id int64) (*model.Entry, error) {
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

func (r *GormRepository) FindByID(ctx context.Context, id int64) (*model.Entry, error) {
	var row entryRow
	if err := r.DB.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entry.ErrEntryNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (r *GormRepository) ChildEntries(ctx context.Context, parentIDs []int64) ([]*model.Entry, error) {
	if len(parentIDs) == 0 {
		return []*model.Entry{}, nil
	}
	var rows []entryRow
	err := r.DB.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("parent_id ASC, sort_order ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

func (r *GormRepository) EntryTags(ctx context.Context, entryIDs []int64) (map[int64][]model.Tag, error) {
	out := make(map[int64][]model.Tag)
	if len(entryIDs) == 0 {
		return out, nil
	}
	var rows []tagJoinRow
	err := r.DB.WithContext(ctx).
		Table("entry_tags AS et").
		Select("et.entry_id, t.id, t.name, t.type").
		Joins("JOIN tags t ON t.id = et.tag_id").
		Where("et.entry_id IN ?", entryIDs).
		Order("et.entry_id ASC, et.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.EntryID] = append(out[row.EntryID], model.Tag{ID: row.ID, Name: row.Name, Type: row.Type})
	}
	return out, nil
}

func (r *GormRepository) Create(ctx context.Context, e *model.Entry) error {
	row := fromModel(e)
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	e.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *GormRepository) Update(ctx context.Context, e *model.Entry) error {
	res := r.DB.WithContext(ctx).
		Model(&entryRow{}).
		Where("id = ? AND menu_id = ?", e.ID, e.MenuID).
		Updates(map[string]any{
			"parent_id":    e.ParentID,
			"name":         e.Name,
			"description":  e.Description,
			"price":        e.Price,
			"properties":   e.Properties,
			"photo_path":   e.PhotoPath,
			"is_available": e.IsAvailable,
			"sort_order":   e.SortOrder,
			"updated_at":   e.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entry.ErrEntryNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entryRow{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entry.ErrEntryNotFound
		}

		ids := []int64{id}
		frontier := []int64{id}
		for len(frontier) > 0 {
			var next []int64
			if err := tx.Model(&entryRow{}).Where("parent_id IN ?", frontier).Pluck("id", &next).Error; err != nil {
				return err
			}
			ids = append(ids, next...)
			frontier = next
		}

		if err := tx.Where("entry_id IN ?", ids).Delete(&entryTagRow{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&entryRow{}).Error
	})
}

func (r *GormRepository) SyncTags(ctx context.Context, entryID int64, tagIDs []int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entryID).Delete(&entryTagRow{}).Error; err != nil {
			return err
		}
		seen := make(map[int64]bool, len(tagIDs))
		for _, tagID := range tagIDs {
			if seen[tagID] {
				continue
			}
			seen[tagID] = true
			if err := tx.Create(&entryTagRow{EntryID: entryID, TagID: tagID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepository) FindOrCreateTag(ctx context.Context, name, tagType string) (*model.Tag, error) {
	row := tagRow{Name: name, Type: tagType}
	err := r.DB.WithContext(ctx).
		Where("name = ? AND type = ?", name, tagType).
		FirstOrCreate(&row).Error
	if err != nil {
		return nil, err
	}
	return &model.Tag{ID: row.ID, Name: row.Name, Type: row.Type}, nil
}

func (r *GormRepository) ListTags(ctx context.Context) ([]model.Tag, error) {
	var rows []tagRow
	if err := r.DB.WithContext(ctx).Order("type ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	tags := make([]model.Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, model.Tag{ID: row.ID, Name: row.Name, Type: row.Type})
	}
	return tags, nil
}

func (row entryRow) toModel() *model.Entry {
	return &model.Entry{
		BaseModel: model.BaseModel{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
		MenuID:      row.MenuID,
		ParentID:    row.ParentID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		Properties:  row.Properties,
		PhotoPath:   row.PhotoPath,
		IsAvailable: row.IsAvailable,
		SortOrder:   row.SortOrder,
	}
}

func toModels(rows []entryRow) []*model.Entry {
	out := make([]*model.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out
}

func fromModel(e *model.Entry) entryRow {
	return entryRow{
		ID:          e.ID,
		MenuID:      e.MenuID,
		ParentID:    e.ParentID,
		Name:        e.Name,
		Description: e.Description,
		Price:       e.Price,
		Properties:  e.Properties,
		PhotoPath:   e.PhotoPath,
		IsAvailable: e.IsAvailable,
		SortOrder:   e.SortOrder,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
