package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tgienger/honeydo/internal/models"
)

// Store is the persistence collaborator behind the Manager. Every method may
// fail; the Manager never lets those failures reach its callers.
//
// Tasks and templates come back fully populated: category, tags and supplies
// are resolved by the store from their IDs.
type Store interface {
	Tasks(ctx context.Context) ([]models.Task, error)
	Task(ctx context.Context, id uuid.UUID) (*models.Task, error) // nil, nil when missing
	SaveTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error

	Categories(ctx context.Context) ([]models.Category, error)
	SaveCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	Tags(ctx context.Context) ([]models.Tag, error)
	SaveTag(ctx context.Context, t *models.Tag) error
	DeleteTag(ctx context.Context, id uuid.UUID) error

	Templates(ctx context.Context) ([]models.Template, error)
	SaveTemplate(ctx context.Context, tpl *models.Template) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
}

var (
	ErrStoreRead  = errors.New("store read failed")
	ErrStoreWrite = errors.New("store write failed")
)

// StoreError records which store operation failed and whether it was a read or a write
type StoreError struct {
	Op   string
	Kind error // ErrStoreRead or ErrStoreWrite
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == e.Kind }

func readError(op string, err error) *StoreError {
	return &StoreError{Op: op, Kind: ErrStoreRead, Err: err}
}

func writeError(op string, err error) *StoreError {
	return &StoreError{Op: op, Kind: ErrStoreWrite, Err: err}
}
