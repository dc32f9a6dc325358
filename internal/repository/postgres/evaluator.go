package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prathmeshnaik91/skinet/internal/repository/specification"
)

// Apply translates spec onto db: filter, ordering, paging, then preloads.
// An explicit ordering is followed by the primary key so pages are stable.
func Apply[T any](db *gorm.DB, spec specification.Specification[T]) *gorm.DB {
	if c := spec.Criteria(); !c.IsZero() {
		db = db.Where(c.SQL, c.Args...)
	}

	ordered := false
	if col := spec.OrderBy(); col != "" {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col, Raw: true}})
		ordered = true
	}
	if col := spec.OrderByDescending(); col != "" {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col, Raw: true}, Desc: true})
		ordered = true
	}
	if ordered {
		db = db.Order(clause.OrderByColumn{Column: clause.PrimaryColumn})
	}

	if spec.IsPagingEnabled() {
		db = db.Offset(spec.Skip()).Limit(spec.Take())
	}

	for _, inc := range spec.Includes() {
		db = db.Preload(inc)
	}
	return db
}

// applyCriteria applies the filter only. It is what Count uses.
func applyCriteria[T any](db *gorm.DB, spec specification.Specification[T]) *gorm.DB {
	if c := spec.Criteria(); !c.IsZero() {
		db = db.Where(c.SQL, c.Args...)
	}
	return db
}
