package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
)

// Templates returns every template with its category, tags and supply
// templates, in insertion order
func (db *DB) Templates(ctx context.Context) ([]models.Template, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT tp.id, tp.name, tp.title, tp.description, tp.priority, tp.created_at, tp.use_count,
			c.id, c.name, c.icon, c.color, c.created_at
		FROM templates tp
		LEFT JOIN categories c ON c.id = tp.category_id
		ORDER BY tp.rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var (
			tpl              models.Template
			catID            uuid.NullUUID
			catName, catIcon sql.NullString
			catColor         sql.NullString
			catCreated       sql.NullTime
		)
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.Title, &tpl.Description, &tpl.Priority, &tpl.CreatedAt, &tpl.UseCount,
			&catID, &catName, &catIcon, &catColor, &catCreated); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		tpl.Category = scanCategory(catID, catName, catIcon, catColor, catCreated)
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	tags, err := db.linkedTags(ctx, "template_tags", "template_id")
	if err != nil {
		return nil, err
	}
	supplies, err := db.supplyTemplates(ctx)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		templates[i].Tags = tags[templates[i].ID]
		templates[i].Supplies = supplies[templates[i].ID]
	}
	return templates, nil
}

// SaveTemplate inserts or updates a template and replaces its supply
// templates and tag links
func (db *DB) SaveTemplate(ctx context.Context, tpl *models.Template) error {
	var categoryID uuid.NullUUID
	if tpl.Category != nil {
		categoryID = uuid.NullUUID{UUID: tpl.Category.ID, Valid: true}
	}

	return db.withTx(ctx, "save template", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO templates (id, name, title, description, priority, category_id, created_at, use_count)
			VALUES (?, ?, ?, ?, ?, (SELECT id FROM categories WHERE id = ?), ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				title = excluded.title,
				description = excluded.description,
				priority = excluded.priority,
				category_id = excluded.category_id,
				use_count = excluded.use_count
		`, tpl.ID, tpl.Name, tpl.Title, tpl.Description, tpl.Priority, categoryID, tpl.CreatedAt, tpl.UseCount)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM supply_templates WHERE template_id = ?", tpl.ID); err != nil {
			return err
		}
		for i, st := range tpl.Supplies {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO supply_templates (id, template_id, name, quantity, estimated_cost, supplier, position)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, st.ID, tpl.ID, st.Name, st.Quantity, nullFloat(st.EstimatedCost), nullString(st.Supplier), i)
			if err != nil {
				return err
			}
		}

		return replaceTags(ctx, tx, "template_tags", "template_id", tpl.ID, tpl.Tags)
	})
}

// DeleteTemplate deletes a template; its supply templates and tag links cascade
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

func (db *DB) supplyTemplates(ctx context.Context) (map[uuid.UUID][]models.SupplyTemplate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, template_id, name, quantity, estimated_cost, supplier
		FROM supply_templates
		ORDER BY template_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("list supply templates: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]models.SupplyTemplate)
	for rows.Next() {
		var (
			st        models.SupplyTemplate
			estimated sql.NullFloat64
			supplier  sql.NullString
		)
		if err := rows.Scan(&st.ID, &st.TemplateID, &st.Name, &st.Quantity, &estimated, &supplier); err != nil {
			return nil, fmt.Errorf("scan supply template: %w", err)
		}
		st.EstimatedCost = floatPtr(estimated)
		st.Supplier = stringPtr(supplier)
		out[st.TemplateID] = append(out[st.TemplateID], st)
	}
	return out, rows.Err()
}
