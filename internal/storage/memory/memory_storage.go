// Package memory is a map-backed store used for tests and for running
// without a database file.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
)

type taskRecord struct {
	task       models.Task // Category and Tags are resolved on read
	categoryID *uuid.UUID
	tagIDs     []uuid.UUID
	order      int
}

type templateRecord struct {
	tpl        models.Template
	categoryID *uuid.UUID
	tagIDs     []uuid.UUID
	order      int
}

// Storage keeps everything in maps keyed by ID
type Storage struct {
	mu         sync.RWMutex
	tasks      map[uuid.UUID]*taskRecord
	categories map[uuid.UUID]models.Category
	tags       map[uuid.UUID]models.Tag
	templates  map[uuid.UUID]*templateRecord
	settings   map[string][]string
	values     map[string]string
	seq        int
}

func NewMemoryStorage() *Storage {
	return &Storage{
		tasks:      make(map[uuid.UUID]*taskRecord),
		categories: make(map[uuid.UUID]models.Category),
		tags:       make(map[uuid.UUID]models.Tag),
		templates:  make(map[uuid.UUID]*templateRecord),
		settings:   make(map[string][]string),
		values:     make(map[string]string),
	}
}

func (s *Storage) next() int {
	s.seq++
	return s.seq
}

// Task methods

// Tasks returns every task in insertion order
func (s *Storage) Tasks(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*taskRecord, 0, len(s.tasks))
	for _, r := range s.tasks {
		recs = append(recs, r)
	}
	sortByOrder(recs, func(r *taskRecord) int { return r.order })

	out := make([]models.Task, 0, len(recs))
	for _, r := range recs {
		t := *r.task.Clone()
		t.Category = s.category(r.categoryID)
		t.Tags = s.resolveTags(r.tagIDs)
		out = append(out, t)
	}
	return out, nil
}

// Task returns one task, or nil when the ID is unknown
func (s *Storage) Task(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	t := r.task.Clone()
	t.Category = s.category(r.categoryID)
	t.Tags = s.resolveTags(r.tagIDs)
	return t, nil
}

func (s *Storage) SaveTask(ctx context.Context, task *models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if task.ID == uuid.Nil {
		return fmt.Errorf("save task: missing id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tasks[task.ID]
	if !ok {
		rec = &taskRecord{order: s.next()}
		s.tasks[task.ID] = rec
	}
	rec.task = *task.Clone()
	for i := range rec.task.Supplies {
		rec.task.Supplies[i].TaskID = task.ID
	}
	rec.categoryID = nil
	if task.Category != nil {
		id := task.Category.ID
		rec.categoryID = &id
	}
	rec.tagIDs = tagIDs(task.Tags)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

// Category methods

func (s *Storage) Categories(ctx context.Context) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (s *Storage) SaveCategory(ctx context.Context, c *models.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = *c
	return nil
}

// DeleteCategory removes the category; tasks that still point at it read
// back as uncategorized
func (s *Storage) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.categories, id)
	return nil
}

// Tag methods

func (s *Storage) Tags(ctx context.Context) ([]models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, t)
	}
	return out, nil
}

func (s *Storage) SaveTag(ctx context.Context, t *models.Tag) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[t.ID] = *t
	return nil
}

func (s *Storage) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tags, id)
	return nil
}

// Template methods

func (s *Storage) Templates(ctx context.Context) ([]models.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*templateRecord, 0, len(s.templates))
	for _, r := range s.templates {
		recs = append(recs, r)
	}
	sortByOrder(recs, func(r *templateRecord) int { return r.order })

	out := make([]models.Template, 0, len(recs))
	for _, r := range recs {
		tpl := r.tpl
		tpl.Supplies = append([]models.SupplyTemplate(nil), r.tpl.Supplies...)
		tpl.Category = s.category(r.categoryID)
		tpl.Tags = s.resolveTags(r.tagIDs)
		out = append(out, tpl)
	}
	return out, nil
}

func (s *Storage) SaveTemplate(ctx context.Context, tpl *models.Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.templates[tpl.ID]
	if !ok {
		rec = &templateRecord{order: s.next()}
		s.templates[tpl.ID] = rec
	}
	rec.tpl = *tpl
	rec.tpl.Category = nil
	rec.tpl.Tags = nil
	rec.tpl.Supplies = append([]models.SupplyTemplate(nil), tpl.Supplies...)
	rec.categoryID = nil
	if tpl.Category != nil {
		id := tpl.Category.ID
		rec.categoryID = &id
	}
	rec.tagIDs = tagIDs(tpl.Tags)
	return nil
}

func (s *Storage) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.templates, id)
	return nil
}

// Settings methods

// GetSetting returns the value stored under key, or "" when unset
func (s *Storage) GetSetting(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

func (s *Storage) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// GetStringList returns the list stored under key, or nil
func (s *Storage) GetStringList(key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.settings[key]...), nil
}

// SetStringList stores a copy of list under key
func (s *Storage) SetStringList(key string, list []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = append([]string(nil), list...)
	return nil
}

// helpers; callers hold s.mu

func (s *Storage) category(id *uuid.UUID) *models.Category {
	if id == nil {
		return nil
	}
	c, ok := s.categories[*id]
	if !ok {
		return nil
	}
	return &c
}

func (s *Storage) resolveTags(ids []uuid.UUID) []models.Tag {
	var out []models.Tag
	for _, id := range ids {
		if t, ok := s.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

func tagIDs(tags []models.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func sortByOrder[T any](recs []T, order func(T) int) {
	sort.Slice(recs, func(i, j int) bool { return order(recs[i]) < order(recs[j]) })
}
