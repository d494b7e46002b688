package query

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Scope func(*gorm.DB) *gorm.DB

// Query acumula escopos sobre uma tabela e só monta o *gorm.DB na execução.
type Query[T any] struct {
	db      *gorm.DB
	ctx     context.Context
	table   string
	orderBy string
	scopes  []Scope
}

func New[T any](db *gorm.DB, table string) *Query[T] {
	return &Query[T]{
		db:     db,
		ctx:    context.Background(),
		table:  table,
		scopes: make([]Scope, 0),
	}
}

func (q *Query[T]) Context(ctx context.Context) *Query[T] {
	q.ctx = ctx
	return q
}

func (q *Query[T]) Where(query interface{}, args ...interface{}) *Query[T] {
	q.scopes = append(q.scopes, func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	})
	return q
}

// Between restringe column ao intervalo fechado [from, to]; limites nil são ignorados.
func (q *Query[T]) Between(column string, from, to *time.Time) *Query[T] {
	if from != nil {
		q.Where(column+" >= ?", *from)
	}
	if to != nil {
		q.Where(column+" <= ?", *to)
	}
	return q
}

// Contains filtra column por substring sem diferenciar maiúsculas.
func (q *Query[T]) Contains(column, term string) *Query[T] {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return q
	}
	return q.Where("LOWER("+column+") LIKE ?", "%"+term+"%")
}

func (q *Query[T]) Order(order string) *Query[T] {
	q.orderBy = order
	return q
}

func (q *Query[T]) build() *gorm.DB {
	db := q.db.WithContext(q.ctx).Table(q.table)
	for _, scope := range q.scopes {
		db = scope(db)
	}
	return db
}

func (q *Query[T]) ordered() *gorm.DB {
	db := q.build()
	if q.orderBy != "" {
		db = db.Order(q.orderBy)
	}
	return db
}

func (q *Query[T]) Count() (int64, error) {
	var count int64
	err := q.build().Count(&count).Error
	return count, err
}

func (q *Query[T]) First() (*T, error) {
	var result T
	if err := q.build().First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (q *Query[T]) Find() ([]T, error) {
	var results []T
	err := q.ordered().Find(&results).Error
	return results, err
}

func (q *Query[T]) FindWithLimit(limit int) ([]T, error) {
	var results []T
	err := q.ordered().Limit(limit).Find(&results).Error
	return results, err
}

func (q *Query[T]) Exists() (bool, error) {
	var count int64
	err := q.build().Limit(1).Count(&count).Error
	return count > 0, err
}
