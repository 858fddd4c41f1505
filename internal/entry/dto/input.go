package dto

import "github.com/fekuna/omnipos-menu-service/internal/model"

type TagInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"max=50"`
}

type CreateEntryInput struct {
	MenuID      int64            `json:"menu_id" validate:"gt=0"`
	ParentID    *int64           `json:"parent_id" validate:"omitempty,gt=0"`
	Name        string           `json:"name" validate:"required,max=255"`
	Description *string          `json:"description"`
	Price       *float64         `json:"price" validate:"omitempty,gte=0"`
	Properties  model.Properties `json:"properties"`
	PhotoPath   *string          `json:"photo_path" validate:"omitempty,max=512"`
	IsAvailable *bool            `json:"is_available"` // Defaults to true
	SortOrder   int              `json:"order"`
	Tags        []TagInput       `json:"tags" validate:"dive"`
}

// UpdateEntryInput is a partial update: nil fields are left untouched and
// the Clear flags reset nullable fields to null.
type UpdateEntryInput struct {
	ID               int64            `json:"id" validate:"gt=0"`
	ParentID         *int64           `json:"parent_id" validate:"omitempty,gt=0,excluded_with=MoveToRoot"`
	MoveToRoot       bool             `json:"move_to_root"`
	Name             *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description      *string          `json:"description" validate:"omitempty,excluded_with=ClearDescription"`
	ClearDescription bool             `json:"clear_description"`
	Price            *float64         `json:"price" validate:"omitempty,gte=0,excluded_with=ClearPrice"`
	ClearPrice       bool             `json:"clear_price"`
	Properties       model.Properties `json:"properties"`
	PhotoPath        *string          `json:"photo_path" validate:"omitempty,max=512,excluded_with=ClearPhotoPath"`
	ClearPhotoPath   bool             `json:"clear_photo_path"`
	IsAvailable      *bool            `json:"is_available"`
	SortOrder        *int             `json:"order"`
	Tags             *[]TagInput      `json:"tags" validate:"omitempty,dive"`
}
