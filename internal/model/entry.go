package model

import "cmp"

// Entry is one node of a menu: a category, an item or a customization,
// depending only on how deep it sits under a root.
type Entry struct {
	BaseModel
	MenuID      int64      `db:"menu_id" json:"menu_id"`
	ParentID    *int64     `db:"parent_id" json:"parent_id"` // Nil for root entries
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description"`
	Price       *float64   `db:"price" json:"price"`
	Properties  Properties `db:"properties" json:"properties"`
	PhotoPath   *string    `db:"photo_path" json:"photo_path"`
	IsAvailable bool       `db:"is_available" json:"is_available"`
	SortOrder   int        `db:"sort_order" json:"order"`
	Tags        []Tag      `db:"-" json:"tags"`               // Association order
	Children    []*Entry   `db:"-" json:"children,omitempty"` // Loaded window only, not in DB
}

func (e *Entry) IsRoot() bool {
	return e.ParentID == nil
}

type Tag struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Type string `db:"type" json:"type"`
}

// EntryTag is a tag association row; its ID defines the association order.
type EntryTag struct {
	ID      int64 `db:"id"`
	EntryID int64 `db:"entry_id"`
	TagID   int64 `db:"tag_id"`
}

// TaggedRow is a tag joined with the entry it is attached to.
type TaggedRow struct {
	EntryID int64 `db:"entry_id"`
	Tag
}

// CompareEntries orders siblings by sort order, then by id so rows inserted
// earlier win ties.
func CompareEntries(a, b *Entry) int {
	if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
