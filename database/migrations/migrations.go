// Package migrations registers the storefront schema. Import it for its
// side effects before running the migration runner.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", table(&models.User{}))
	migration.Register("20260101000001_create_customers_table", table(&models.Customer{}))
	migration.Register("20260101000002_create_categories_table", table(&models.Category{}))
	migration.Register("20260101000003_create_products_table", table(&models.Product{}))
	migration.Register("20260101000004_create_comments_table", table(&models.Comment{}))
	migration.Register("20260101000005_create_carts_table", table(&models.Cart{}))
	migration.Register("20260101000006_create_cart_items_table", table(&models.CartItem{}))
	migration.Register("20260101000007_create_orders_table", table(&models.Order{}))
	migration.Register("20260101000008_create_order_items_table", table(&models.OrderItem{}))
}

// createTable migrates a single model. Down drops its table.
type createTable struct {
	model interface{}
}

func table(model interface{}) *createTable { return &createTable{model: model} }

func (m *createTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *createTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.model)
}
