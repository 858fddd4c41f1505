package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/entry/tree"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const entryColumns = `id, menu_id, parent_id, name, description, price, properties, photo_path, is_available, sort_order, created_at, updated_at`

var (
	_ entry.Repository = (*PGRepository)(nil)
	_ tree.Source      = (*PGRepository)(nil)
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindRootEntries(ctx context.Context, menuID int64) ([]*model.Entry, error) {
	var roots []*model.Entry
	query := `SELECT ` + entryColumns + ` FROM menu_entries WHERE menu_id = $1 AND parent_id IS NULL ORDER BY sort_order ASC, id ASC`
	if err := r.DB.SelectContext(ctx, &roots, query, menuID); err != nil {
		return nil, fmt.Errorf("select root entries: %w", err)
	}
	return tree.Load(ctx, r, roots)
}

func (r *PGRepository) FindWithTagsAndChildren(ctx context.Context, id int64) (*model.Entry, error) {
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

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Entry, error) {
	var e model.Entry
	query := `SELECT ` + entryColumns + ` FROM menu_entries WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &e, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entry.ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *PGRepository) ChildEntries(ctx context.Context, parentIDs []int64) ([]*model.Entry, error) {
	if len(parentIDs) == 0 {
		return []*model.Entry{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT `+entryColumns+` FROM menu_entries
        WHERE parent_id IN (?)
        ORDER BY parent_id ASC, sort_order ASC, id ASC
    `, parentIDs)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var children []*model.Entry
	if err := r.DB.SelectContext(ctx, &children, query, args...); err != nil {
		return nil, fmt.Errorf("select child entries: %w", err)
	}
	return children, nil
}

func (r *PGRepository) EntryTags(ctx context.Context, entryIDs []int64) (map[int64][]model.Tag, error) {
	out := make(map[int64][]model.Tag)
	if len(entryIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
        SELECT et.entry_id, t.id, t.name, t.type
        FROM entry_tags et
        JOIN tags t ON t.id = et.tag_id
        WHERE et.entry_id IN (?)
        ORDER BY et.entry_id ASC, et.id ASC
    `, entryIDs)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var rows []model.TaggedRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select entry tags: %w", err)
	}
	for _, row := range rows {
		out[row.EntryID] = append(out[row.EntryID], row.Tag)
	}
	return out, nil
}

func (r *PGRepository) Create(ctx context.Context, e *model.Entry) error {
	query := `
        INSERT INTO menu_entries (menu_id, parent_id, name, description, price, properties, photo_path, is_available, sort_order, created_at, updated_at)
        VALUES (:menu_id, :parent_id, :name, :description, :price, :properties, :photo_path, :is_available, :sort_order, :created_at, :updated_at)
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, e)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&e.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PGRepository) Update(ctx context.Context, e *model.Entry) error {
	query := `
        UPDATE menu_entries
        SET parent_id = :parent_id,
            name = :name,
            description = :description,
            price = :price,
            properties = :properties,
            photo_path = :photo_path,
            is_available = :is_available,
            sort_order = :sort_order,
            updated_at = :updated_at
        WHERE id = :id AND menu_id = :menu_id
    `
	res, err := r.DB.NamedExecContext(ctx, query, e)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// Delete relies on ON DELETE CASCADE for descendants and tag associations.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM menu_entries WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *PGRepository) SyncTags(ctx context.Context, entryID int64, tagIDs []int64) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = $1`, entryID); err != nil {
		return err
	}

	query := `INSERT INTO entry_tags (entry_id, tag_id) VALUES ($1, $2) ON CONFLICT (entry_id, tag_id) DO NOTHING`
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, query, entryID, tagID); err != nil {
			return fmt.Errorf("attach tag %d: %w", tagID, err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindOrCreateTag(ctx context.Context, name, tagType string) (*model.Tag, error) {
	var tag model.Tag
	query := `
        INSERT INTO tags (name, type) VALUES ($1, $2)
        ON CONFLICT (name, type) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, name, type
    `
	if err := r.DB.GetContext(ctx, &tag, query, name, tagType); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *PGRepository) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.DB.SelectContext(ctx, &tags, `SELECT id, name, type FROM tags ORDER BY type ASC, name ASC`); err != nil {
		return nil, err
	}
	return tags, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entry.ErrEntryNotFound
	}
	return nil
}
