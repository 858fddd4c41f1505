package dto

import (
	"github.com/fekuna/omnipos-menu-service/internal/entry/format"
	"github.com/fekuna/omnipos-menu-service/internal/entry/structure"
)

// MenuStructure is what the presentation layer renders for a menu: the
// formatted entry tree plus its summary statistics.
type MenuStructure struct {
	MenuID  int64            `json:"menu_id"`
	Entries []format.Display `json:"entries"`
	structure.Structure
}

type SearchFilters struct {
	MenuID int64  `json:"menu_id"`
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
}

type SearchHit struct {
	ID       int64    `json:"id"`
	MenuID   int64    `json:"menu_id"`
	ParentID *int64   `json:"parent_id"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Tags     []string `json:"tags"`
	Score    float64  `json:"score"`
}
