package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
)

// Categories returns all categories ordered by name
func (db *DB) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, icon, color, created_at
		FROM categories ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SaveCategory inserts or updates a category
func (db *DB) SaveCategory(ctx context.Context, c *models.Category) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO categories (id, name, icon, color, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, icon = excluded.icon, color = excluded.color
	`, c.ID, c.Name, c.Icon, c.Color, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

// DeleteCategory deletes a category (tasks and templates in it have their category_id set to NULL)
func (db *DB) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// scanCategory builds a category from the nullable columns of a LEFT JOIN
func scanCategory(id uuid.NullUUID, name, icon, color sql.NullString, created sql.NullTime) *models.Category {
	if !id.Valid {
		return nil
	}
	return &models.Category{
		ID:        id.UUID,
		Name:      name.String,
		Icon:      icon.String,
		Color:     color.String,
		CreatedAt: created.Time,
	}
}
