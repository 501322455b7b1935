package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ubigeo_app_go/models"
)

// PageSize is the number of rows per list page
const PageSize = 20

// Scope selects which rows a query sees
type Scope int

const (
	// ScopeActive hides soft-deleted rows
	ScopeActive Scope = iota
	// ScopeAll includes soft-deleted rows
	ScopeAll
)

// ListFilter narrows a list query
type ListFilter struct {
	Param string // substring searched in the search columns
	Page  int    // 1-based, clamped to the available pages
}

// Page is one page of query results
type Page[T any] struct {
	Items  []T
	Total  int64
	Number int
	Pages  int
}

// HasPrevious reports whether a previous page exists
func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

// HasNext reports whether a following page exists
func (p Page[T]) HasNext() bool { return p.Number < p.Pages }

// CatalogService implements the persistence rules shared by every maintained model
type CatalogService[T models.Record] struct {
	DB            *gorm.DB
	Log           *zap.Logger
	New           func() T
	Preload       []string
	OrderBy       []string
	SearchColumns []string
}

func (s *CatalogService[T]) meta() *models.ModelMeta {
	return s.New().Meta()
}

func (s *CatalogService[T]) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *CatalogService[T]) base(ctx context.Context, scope Scope, preload bool) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(s.New())
	if preload {
		for _, p := range s.Preload {
			q = q.Preload(p)
		}
	}
	if scope == ScopeActive {
		q = q.Where("is_active = ?", true)
	}
	return q
}

// Get loads one row by primary key
func (s *CatalogService[T]) Get(ctx context.Context, pk string, scope Scope) (T, error) {
	obj := s.New()
	meta := obj.Meta()
	err := s.base(ctx, scope, true).Where(meta.PKColumn+" = ?", pk).First(obj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var zero T
		return zero, ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to load %s %s: %w", meta.Name, pk, err)
	}
	return obj, nil
}

// filtered builds the list query; counting skips preloads and ordering
func (s *CatalogService[T]) filtered(ctx context.Context, scope Scope, param string, where map[string]interface{}, counting bool) *gorm.DB {
	q := s.base(ctx, scope, !counting)
	for column, value := range where {
		q = q.Where(column+" = ?", value)
	}
	if param = strings.TrimSpace(param); param != "" && len(s.SearchColumns) > 0 {
		like := "%" + strings.ToUpper(param) + "%"
		conds := make([]string, 0, len(s.SearchColumns))
		args := make([]interface{}, 0, len(s.SearchColumns))
		for _, col := range s.SearchColumns {
			conds = append(conds, "UPPER("+col+") LIKE ?")
			args = append(args, like)
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
	}
	if !counting {
		for _, o := range s.OrderBy {
			q = q.Order(o)
		}
	}
	return q
}

// List returns one page of rows. where holds exact column filters, used to scope rows to a parent.
func (s *CatalogService[T]) List(ctx context.Context, scope Scope, filter ListFilter, where map[string]interface{}) (Page[T], error) {
	page := Page[T]{Number: 1, Pages: 1}

	if err := s.filtered(ctx, scope, filter.Param, where, true).Count(&page.Total).Error; err != nil {
		return page, fmt.Errorf("failed to count %s: %w", s.meta().Name, err)
	}
	if page.Total > 0 {
		page.Pages = int((page.Total + PageSize - 1) / PageSize)
	}
	page.Number = filter.Page
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Number > page.Pages {
		page.Number = page.Pages
	}

	var items []T
	err := s.filtered(ctx, scope, filter.Param, where, false).
		Offset((page.Number - 1) * PageSize).
		Limit(PageSize).
		Find(&items).Error
	if err != nil {
		return page, fmt.Errorf("failed to list %s: %w", s.meta().Name, err)
	}
	page.Items = items
	return page, nil
}

// All returns every row in scope, ordered, for exports and selects
func (s *CatalogService[T]) All(ctx context.Context, scope Scope, where map[string]interface{}) ([]T, error) {
	var items []T
	if err := s.filtered(ctx, scope, "", where, false).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.meta().Name, err)
	}
	return items, nil
}

// Create inserts a new active row. The parent must exist, soft-deleted parents are accepted.
func (s *CatalogService[T]) Create(ctx context.Context, obj T) error {
	meta := obj.Meta()
	obj.SetActive(true)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkParent(tx, obj); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(obj).Error; err != nil {
			return err
		}
		return RecordHistory(ctx, tx, obj, models.HistoryInsert, nil)
	})
	return s.translate(meta, err)
}

// Update writes every field of obj and records the changed ones
func (s *CatalogService[T]) Update(ctx context.Context, obj T) error {
	return s.write(ctx, obj, models.HistoryUpdate, nil)
}

// SoftDelete marks obj inactive. It is refused while active rows still reference obj.
func (s *CatalogService[T]) SoftDelete(ctx context.Context, obj T) error {
	return s.write(ctx, obj, models.HistoryDelete, func(tx *gorm.DB) error {
		for _, child := range obj.Meta().Children {
			var count int64
			err := tx.Table(child.Table).
				Where(child.Column+" = ? AND is_active = ?", obj.PrimaryKey(), true).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrHasActiveChildren
			}
		}
		obj.SetActive(false)
		return nil
	})
}

// Reactivate marks obj active again
func (s *CatalogService[T]) Reactivate(ctx context.Context, obj T) error {
	return s.write(ctx, obj, models.HistoryUpdate, func(tx *gorm.DB) error {
		obj.SetActive(true)
		return nil
	})
}

// write saves obj in a transaction together with its history event. mutate runs
// after the stored snapshot is read and before the row is saved.
func (s *CatalogService[T]) write(ctx context.Context, obj T, label models.HistoryLabel, mutate func(tx *gorm.DB) error) error {
	meta := obj.Meta()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored := s.New()
		err := tx.Where(meta.PKColumn+" = ?", obj.PrimaryKey()).First(stored).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if mutate != nil {
			if err := mutate(tx); err != nil {
				return err
			}
		}
		if err := checkParent(tx, obj); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(obj).Error; err != nil {
			return err
		}
		return RecordHistory(ctx, tx, obj, label, stored.Snapshot())
	})
	return s.translate(meta, err)
}

func (s *CatalogService[T]) translate(meta *models.ModelMeta, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrHasActiveChildren) || errors.Is(err, ErrParentNotFound) {
		return err
	}
	return TranslateConstraint(s.logger(), meta.Verbose, err)
}

// checkParent verifies that the parent referenced by obj exists in any scope
func checkParent(tx *gorm.DB, obj models.Record) error {
	p, ok := obj.(models.Parented)
	if !ok {
		return nil
	}
	parent := p.ParentMeta()
	if p.ParentKey() == "" {
		return ErrParentNotFound
	}

	var count int64
	if err := tx.Table(parent.Table).Where(parent.PKColumn+" = ?", p.ParentKey()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrParentNotFound
	}
	return nil
}
