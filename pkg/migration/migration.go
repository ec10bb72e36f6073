// Package migration runs and tracks schema migrations.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20260101000000_create_categories_table", &CreateCategoriesTable{})
//	}
//
// and run in name order, one batch per Run. Rollback reverses the latest
// batch in reverse order.
package migration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "storefront_migrations" }

type entry struct {
	name string
	m    Migration
}

var registry []entry

// Register adds m under name. Names are timestamp-prefixed so they sort
// chronologically.
func Register(name string, m Migration) {
	registry = append(registry, entry{name: name, m: m})
}

// Status is one row of the migrate:status listing.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

func sorted() []entry {
	out := append([]entry(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Run applies every pending migration as one batch and returns the names
// it applied. Each migration and its tracking row commit together.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}
	done, err := r.ran()
	if err != nil {
		return nil, fmt.Errorf("migration: read state: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil {
		return nil, err
	}
	batch++

	var applied []string
	for _, e := range sorted() {
		if _, ok := done[e.name]; ok {
			continue
		}
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := e.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.name, Batch: batch}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		logger.Info("migration: applied", "name", e.name, "batch", batch)
		applied = append(applied, e.name)
	}
	return applied, nil
}

// Rollback reverses the most recent batch and returns the names it undid.
func (r *Runner) Rollback(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}
	batch, err := r.lastBatch()
	if err != nil || batch == 0 {
		return nil, err
	}

	var rows []record
	if err := r.db.Where("batch = ?", batch).Order("name desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	known := make(map[string]Migration, len(registry))
	for _, e := range registry {
		known[e.name] = e.m
	}

	var undone []string
	for _, row := range rows {
		m, ok := known[row.Name]
		if !ok {
			return undone, fmt.Errorf("migration: %s is not registered", row.Name)
		}
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, row.ID).Error
		})
		if err != nil {
			return undone, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		logger.Info("migration: rolled back", "name", row.Name, "batch", batch)
		undone = append(undone, row.Name)
	}
	return undone, nil
}

func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}
	var out []Status
	for _, e := range sorted() {
		row, ok := done[e.name]
		out = append(out, Status{Name: e.name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max struct{ Max int }
	if err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	return max.Max, nil
}
