package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
)

const taskColumns = `
	t.id, t.title, t.description, t.notes, t.priority, t.status, t.created_at,
	t.completed_at, t.due_at, t.is_template, t.template_name, t.reminder_enabled,
	c.id, c.name, c.icon, c.color, c.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t                models.Task
		status           string
		completed, due   sql.NullTime
		catID            uuid.NullUUID
		catName, catIcon sql.NullString
		catColor         sql.NullString
		catCreated       sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Notes, &t.Priority, &status, &t.CreatedAt,
		&completed, &due, &t.IsTemplate, &t.TemplateName, &t.ReminderEnabled,
		&catID, &catName, &catIcon, &catColor, &catCreated)
	if err != nil {
		return t, err
	}
	// Unknown statuses read back as To Do
	t.Status, _ = models.ParseStatus(status)
	t.CompletedAt = timePtr(completed)
	t.DueAt = timePtr(due)
	t.Category = scanCategory(catID, catName, catIcon, catColor, catCreated)
	return t, nil
}

// Tasks returns every task with its category, tags and supplies, in insertion order
func (db *DB) Tasks(ctx context.Context) ([]models.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		ORDER BY t.rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	// Load tags and supplies for all tasks
	tags, err := db.linkedTags(ctx, "task_tags", "task_id")
	if err != nil {
		return nil, err
	}
	supplies, err := db.supplies(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Tags = tags[tasks[i].ID]
		tasks[i].Supplies = supplies[tasks[i].ID]
	}
	return tasks, nil
}

// Task retrieves a single task by ID, or nil when no row matches
func (db *DB) Task(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = ?
	`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	tags, err := db.taskTags(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Tags = tags
	supplies, err := db.supplies(ctx, &id)
	if err != nil {
		return nil, err
	}
	t.Supplies = supplies[id]
	return &t, nil
}

// taskTags returns the tags of one task in attach order
func (db *DB) taskTags(ctx context.Context, taskID uuid.UUID) ([]models.Tag, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT t.id, t.name, t.color, t.created_at
		FROM tags t
		JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id = ?
		ORDER BY tt.position
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// SaveTask inserts or updates a task and replaces its supplies and tag links
// in a single transaction. A category or tag that no longer exists is dropped
// instead of failing the write.
func (db *DB) SaveTask(ctx context.Context, task *models.Task) error {
	var categoryID uuid.NullUUID
	if task.Category != nil {
		categoryID = uuid.NullUUID{UUID: task.Category.ID, Valid: true}
	}

	return db.withTx(ctx, "save task", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, title, description, notes, priority, status, created_at,
				completed_at, due_at, category_id, is_template, template_name, reminder_enabled)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT id FROM categories WHERE id = ?), ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				notes = excluded.notes,
				priority = excluded.priority,
				status = excluded.status,
				completed_at = excluded.completed_at,
				due_at = excluded.due_at,
				category_id = excluded.category_id,
				is_template = excluded.is_template,
				template_name = excluded.template_name,
				reminder_enabled = excluded.reminder_enabled
		`, task.ID, task.Title, task.Description, task.Notes, task.Priority, task.Status.String(), task.CreatedAt,
			nullTime(task.CompletedAt), nullTime(task.DueAt), categoryID,
			task.IsTemplate, task.TemplateName, task.ReminderEnabled)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM supplies WHERE task_id = ?", task.ID); err != nil {
			return err
		}
		for i, s := range task.Supplies {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO supplies (id, task_id, name, quantity, is_obtained, estimated_cost,
					actual_cost, supplier, notes, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, s.ID, task.ID, s.Name, s.Quantity, s.IsObtained, nullFloat(s.EstimatedCost),
				nullFloat(s.ActualCost), nullString(s.Supplier), s.Notes, i)
			if err != nil {
				return err
			}
		}

		return replaceTags(ctx, tx, "task_tags", "task_id", task.ID, task.Tags)
	})
}

// DeleteTask deletes a task; its supplies and tag links cascade
func (db *DB) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// supplies loads supplies keyed by task ID, for one task or (taskID nil) all of them
func (db *DB) supplies(ctx context.Context, taskID *uuid.UUID) (map[uuid.UUID][]models.Supply, error) {
	query := `
		SELECT id, task_id, name, quantity, is_obtained, estimated_cost, actual_cost, supplier, notes
		FROM supplies
	`
	var args []any
	if taskID != nil {
		query += " WHERE task_id = ?"
		args = append(args, *taskID)
	}
	query += " ORDER BY task_id, position"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list supplies: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]models.Supply)
	for rows.Next() {
		var (
			s                 models.Supply
			estimated, actual sql.NullFloat64
			supplier          sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.TaskID, &s.Name, &s.Quantity, &s.IsObtained,
			&estimated, &actual, &supplier, &s.Notes); err != nil {
			return nil, fmt.Errorf("scan supply: %w", err)
		}
		s.EstimatedCost = floatPtr(estimated)
		s.ActualCost = floatPtr(actual)
		s.Supplier = stringPtr(supplier)
		out[s.TaskID] = append(out[s.TaskID], s)
	}
	return out, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
