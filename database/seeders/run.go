// Package seeders holds the registry of database seed functions. Seeders
// register from init and must be safe to run more than once.
//
//	func init() {
//	    Register("categories", seedCategories)
//	}
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc inserts rows through db.
type SeederFunc func(ctx context.Context, db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder. Seeders run in registration order.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll runs every registered seeder inside one transaction, writing
// progress to out. It stops on the first error and nothing is kept.
func RunAll(ctx context.Context, db *gorm.DB, out io.Writer) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range current {
			fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
			if err := e.fn(ctx, tx); err != nil {
				fmt.Fprintln(out, "FAILED")
				return fmt.Errorf("seeder %q: %w", e.name, err)
			}
			fmt.Fprintln(out, "done")
		}
		return nil
	})
}
