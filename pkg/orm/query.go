// Package orm holds gorm helpers shared by the repositories: pagination,
// locking reads and error classification.
package orm

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Pagination is the metadata returned next to a page of rows.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// Page normalizes a requested page/perPage pair.
func Page(page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.PerPage }

// Paginate counts the rows matched by q and loads one page into dest.
// scopes apply to the page query only, which keeps Preload off the COUNT.
func Paginate(q *gorm.DB, p Pagination, dest interface{}, scopes ...func(*gorm.DB) *gorm.DB) (Pagination, error) {
	p = Page(p.Page, p.PerPage)

	if err := q.Session(&gorm.Session{}).Count(&p.Total).Error; err != nil {
		return p, err
	}
	p.LastPage = int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if p.LastPage == 0 {
		p.LastPage = 1
	}

	err := q.Session(&gorm.Session{}).
		Scopes(scopes...).
		Offset(p.Offset()).
		Limit(p.PerPage).
		Find(dest).Error
	return p, err
}

// ForUpdate adds a row lock to the SELECT. Dialects without row locks
// (sqlite) drop the clause and rely on their database-level write lock.
func ForUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
