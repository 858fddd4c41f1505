// Package format turns loaded entry trees into display records.
//
// A record's kind comes from its position in the formatted tree: the
// formatted entry is a category when it is a root, its children are items
// and their children are customizations. Nothing deeper is emitted.
package format

import (
	"slices"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type Kind string

const (
	KindCategory      Kind = "category"
	KindItem          Kind = "item"
	KindCustomization Kind = "customization"
	// KindEntry labels a formatted top that is not a root, whose depth is unknown.
	KindEntry Kind = "entry"
)

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Fields are the values shared by every level of a display record.
type Fields struct {
	ID          int64            `json:"id"`
	Kind        Kind             `json:"kind"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *float64         `json:"price"`
	Properties  model.Properties `json:"properties"`
	PhotoPath   *string          `json:"photo_path"`
	IsAvailable bool             `json:"is_available"`
	Order       int              `json:"order"`
	Tags        []Tag            `json:"tags"`
}

type Customization struct {
	Fields
}

type Item struct {
	Fields
	Customizations []Customization `json:"customizations"`
}

type Display struct {
	Fields
	Items []Item `json:"items"`
}

// Entry formats e and two levels below it. The input is not modified.
func Entry(e *model.Entry) Display {
	kind := KindCategory
	if !e.IsRoot() {
		kind = KindEntry
	}

	children := sorted(e.Children)
	d := Display{
		Fields: fields(e, kind),
		Items:  make([]Item, 0, len(children)),
	}
	for _, child := range children {
		grandchildren := sorted(child.Children)
		item := Item{
			Fields:         fields(child, KindItem),
			Customizations: make([]Customization, 0, len(grandchildren)),
		}
		for _, gc := range grandchildren {
			item.Customizations = append(item.Customizations, Customization{Fields: fields(gc, KindCustomization)})
		}
		d.Items = append(d.Items, item)
	}
	return d
}

// Entries formats each root in the given order.
func Entries(roots []*model.Entry) []Display {
	out := make([]Display, 0, len(roots))
	for _, r := range roots {
		if r == nil {
			continue
		}
		out = append(out, Entry(r))
	}
	return out
}

func Tags(tags []model.Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, Tag{ID: t.ID, Name: t.Name, Type: t.Type})
	}
	return out
}

func fields(e *model.Entry, kind Kind) Fields {
	f := Fields{
		ID:          e.ID,
		Kind:        kind,
		Name:        e.Name,
		Description: clone(e.Description),
		Price:       clone(e.Price),
		PhotoPath:   clone(e.PhotoPath),
		IsAvailable: e.IsAvailable,
		Order:       e.SortOrder,
		Tags:        Tags(e.Tags),
	}
	if !e.Properties.IsZero() {
		f.Properties = append(model.Properties(nil), e.Properties...)
	}
	return f
}

func sorted(entries []*model.Entry) []*model.Entry {
	out := make([]*model.Entry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, model.CompareEntries)
	return out
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
