// Package store is the data access gateway: uniform create/read/update/
// query operations against named record collections, parameterized by
// equality filters and ordering. Components above it never touch GORM
// directly, so tests can point the same gateway at an in-memory SQLite
// database.
package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cloudmentor/backend/apperr"
)

// Filter is a set of field-equality conditions (column -> value).
type Filter map[string]interface{}

type Order struct {
	Field      string
	Descending bool
}

// Collection is a typed view over one named record collection.
type Collection[T any] struct {
	db   *gorm.DB
	name string
}

func NewCollection[T any](db *gorm.DB, name string) *Collection[T] {
	return &Collection[T]{db: db, name: name}
}

// Query returns all rows matching the filter. No match is an empty
// slice, not an error.
func (c *Collection[T]) Query(ctx context.Context, filter Filter, order *Order) ([]T, error) {
	rows := []T{}
	q := c.db.WithContext(ctx)
	if len(filter) > 0 {
		q = q.Where(map[string]interface{}(filter))
	}
	if order != nil {
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Name: order.Field},
			Desc:   order.Descending,
		})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, c.translate(err)
	}
	return rows, nil
}

// Get is the single-row read: zero or multiple matches are both a
// NotFoundError.
func (c *Collection[T]) Get(ctx context.Context, filter Filter) (T, error) {
	var zero T
	rows := []T{}
	q := c.db.WithContext(ctx).Where(map[string]interface{}(filter)).Limit(2)
	if err := q.Find(&rows).Error; err != nil {
		return zero, c.translate(err)
	}
	if len(rows) != 1 {
		return zero, &apperr.NotFoundError{Resource: c.name}
	}
	return rows[0], nil
}

func (c *Collection[T]) Create(ctx context.Context, row *T) error {
	if err := c.db.WithContext(ctx).Create(row).Error; err != nil {
		return c.translate(err)
	}
	return nil
}

// Update applies the changes to the row selected by the filter and
// returns it re-read. A filter matching nothing is a NotFoundError.
func (c *Collection[T]) Update(ctx context.Context, filter Filter, changes map[string]interface{}) (T, error) {
	var zero T
	res := c.db.WithContext(ctx).Model(&zero).
		Where(map[string]interface{}(filter)).
		Updates(changes)
	if res.Error != nil {
		return zero, c.translate(res.Error)
	}
	// RowsAffected is 0 both for a missing row and for a no-op change;
	// the re-read distinguishes them.
	return c.Get(ctx, filter)
}

func (c *Collection[T]) Delete(ctx context.Context, filter Filter) error {
	var zero T
	if err := c.db.WithContext(ctx).Where(map[string]interface{}(filter)).Delete(&zero).Error; err != nil {
		return c.translate(err)
	}
	return nil
}

func (c *Collection[T]) translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &apperr.NotFoundError{Resource: c.name}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &apperr.ConflictError{Resource: c.name, Reason: "duplicate key"}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &apperr.ValidationError{Field: c.name, Reason: "check constraint violated"}
	}
	// SQLite does not go through GORM's error translation.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &apperr.ConflictError{Resource: c.name, Reason: "duplicate key"}
	}
	return err
}
