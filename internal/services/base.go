package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"draperads/internal/events"
)

var ErrNotFound = errors.New("record not found")

// BaseService interface defines common CRUD operations
type BaseService[T any] interface {
	Create(ctx context.Context, entity *T) error
	Get(ctx context.Context, id uint, includes ...string) (*T, error)
	List(ctx context.Context, opts ListOptions) ([]T, int64, error)
	Update(ctx context.Context, id uint, entity *T) error
	Delete(ctx context.Context, id uint) error
}

// ListOptions narrows a List call. Zero values mean no paging, filters or sort.
type ListOptions struct {
	Page     int
	Limit    int
	Filters  map[string]interface{}
	Sort     string
	Order    string
	Includes []string
}

// BaseServiceImpl implements BaseService
type BaseServiceImpl[T any] struct {
	db         *gorm.DB
	modelType  T
	updateOmit []string
}

type Option[T any] func(*BaseServiceImpl[T])

// WithUpdateOmit protects server-owned columns from Update.
func WithUpdateOmit[T any](columns ...string) Option[T] {
	return func(s *BaseServiceImpl[T]) {
		s.updateOmit = append(s.updateOmit, columns...)
	}
}

func GormTableName(db *gorm.DB, v any) string {
	structName := reflect.TypeOf(v).Name()
	return db.NamingStrategy.TableName(structName)
}

// NewBaseService creates a new base service
func NewBaseService[T any](db *gorm.DB, modelType T, opts ...Option[T]) *BaseServiceImpl[T] {
	s := &BaseServiceImpl[T]{
		db:        db,
		modelType: modelType,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BaseServiceImpl[T]) event(action string) string {
	return fmt.Sprintf("%s.%s", GormTableName(s.db, s.modelType), action)
}

// applyIncludes adds preload statements to the query for each include
func (s *BaseServiceImpl[T]) applyIncludes(query *gorm.DB, includes ...string) *gorm.DB {
	for _, include := range includes {
		query = query.Preload(include)
	}
	return query
}

func (s *BaseServiceImpl[T]) Create(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return err
	}

	events.Emit(s.event("created"), entity)
	return nil
}

func (s *BaseServiceImpl[T]) Get(ctx context.Context, id uint, includes ...string) (*T, error) {
	var entity T
	query := s.applyIncludes(s.db.WithContext(ctx), includes...)

	if err := query.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (s *BaseServiceImpl[T]) List(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	entities := make([]T, 0)
	var total int64

	query := s.db.WithContext(ctx).Model(new(T))

	for key, value := range opts.Filters {
		query = query.Where(clause.Eq{Column: clause.Column{Name: key}, Value: value})
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = s.applyIncludes(query, opts.Includes...)

	if opts.Page > 0 && opts.Limit > 0 {
		query = query.Offset((opts.Page - 1) * opts.Limit).Limit(opts.Limit)
	}

	sort := opts.Sort
	if sort == "" {
		sort = "id"
	}
	query = query.Order(clause.OrderByColumn{
		Column: clause.Column{Name: sort},
		Desc:   opts.Order == "desc",
	})

	if err := query.Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

// Update overwrites every updatable column of the row with entity, including
// zero values, then reloads entity from the database.
func (s *BaseServiceImpl[T]) Update(ctx context.Context, id uint, entity *T) error {
	var existing T
	db := s.db.WithContext(ctx)
	if err := db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	omit := append([]string{"id", "created_at", clause.Associations}, s.updateOmit...)
	if err := db.Model(&existing).Select("*").Omit(omit...).Updates(entity).Error; err != nil {
		return err
	}

	var fresh T
	if err := db.First(&fresh, id).Error; err != nil {
		return err
	}
	*entity = fresh

	events.Emit(s.event("updated"), entity)
	return nil
}

func (s *BaseServiceImpl[T]) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	events.Emit(s.event("deleted"), id)
	return nil
}
