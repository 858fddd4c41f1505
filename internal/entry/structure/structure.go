package structure

import "github.com/fekuna/omnipos-menu-service/internal/entry/format"

type Category struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	ItemCount         int    `json:"item_count"`
	HasCustomizations bool   `json:"has_customizations"`
}

type Stats struct {
	TotalCategories     int `json:"total_categories"`
	TotalItems          int `json:"total_items"`
	TotalCustomizations int `json:"total_customizations"`
}

type Structure struct {
	Categories []Category `json:"categories"`
	Stats      Stats      `json:"stats"`
}

// Summarize derives per-category counts and menu totals from formatted roots.
func Summarize(records []format.Display) Structure {
	s := Structure{Categories: make([]Category, 0, len(records))}

	for _, r := range records {
		c := Category{ID: r.ID, Name: r.Name, ItemCount: len(r.Items)}
		for _, item := range r.Items {
			if n := len(item.Customizations); n > 0 {
				c.HasCustomizations = true
				s.Stats.TotalCustomizations += n
			}
		}
		s.Stats.TotalItems += c.ItemCount
		s.Categories = append(s.Categories, c)
	}
	s.Stats.TotalCategories = len(records)

	return s
}
