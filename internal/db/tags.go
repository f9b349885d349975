package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
)

// Tags returns all tags ordered by name
func (db *DB) Tags(ctx context.Context) ([]models.Tag, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, name, color, created_at FROM tags ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// SaveTag inserts or updates a tag
func (db *DB) SaveTag(ctx context.Context, t *models.Tag) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, color = excluded.color
	`, t.ID, t.Name, t.Color, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("save tag: %w", err)
	}
	return nil
}

// DeleteTag deletes a tag and its task/template associations
func (db *DB) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// linkedTags loads the tags of every owner in one query, keyed by owner ID
// and kept in the order they were attached. table is task_tags or template_tags.
func (db *DB) linkedTags(ctx context.Context, table, ownerCol string) (map[uuid.UUID][]models.Tag, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
		SELECT l.%[2]s, t.id, t.name, t.color, t.created_at
		FROM %[1]s l
		JOIN tags t ON t.id = l.tag_id
		ORDER BY l.%[2]s, l.position
	`, table, ownerCol))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]models.Tag)
	for rows.Next() {
		var owner uuid.UUID
		var t models.Tag
		if err := rows.Scan(&owner, &t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out[owner] = append(out[owner], t)
	}
	return out, rows.Err()
}

// replaceTags rewrites the tag links of one owner inside tx
func replaceTags(ctx context.Context, tx *sql.Tx, table, ownerCol string, owner uuid.UUID, tags []models.Tag) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, ownerCol), owner); err != nil {
		return err
	}
	// deleted tags select no row and are skipped
	insert := fmt.Sprintf("INSERT OR IGNORE INTO %s (%s, tag_id, position) SELECT ?, id, ? FROM tags WHERE id = ?", table, ownerCol)
	for i, t := range tags {
		if _, err := tx.ExecContext(ctx, insert, owner, i, t.ID); err != nil {
			return err
		}
	}
	return nil
}
