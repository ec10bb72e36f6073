package seeders

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

func init() {
	Register("admin", seedAdmin)
	Register("catalog", seedCatalog)
}

type seedProduct struct {
	name      string
	price     string
	inventory int
}

var catalog = []struct {
	title    string
	products []seedProduct
}{
	{"Kitchen", []seedProduct{
		{"Ceramic Mug", "9.50", 40},
		{"Chef Knife", "54.99", 12},
		{"Cutting Board", "19.99", 25},
	}},
	{"Stationery", []seedProduct{
		{"Notebook A5", "4.25", 100},
		{"Fountain Pen", "32.00", 8},
	}},
	{"Garden", []seedProduct{
		{"Garden Hose", "27.90", 15},
		{"Pruning Shears", "18.75", 0},
	}},
}

// seedAdmin creates the admin account from SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD unless that email already exists.
func seedAdmin(ctx context.Context, db *gorm.DB) error {
	email := strings.ToLower(config.Get("SEED_ADMIN_EMAIL", "admin@storefront.local"))

	var n int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("SEED_ADMIN_PASSWORD", "change-me-now"))
	if err != nil {
		return err
	}
	admin := models.User{Name: "Administrator", Email: email, Password: hash, Role: auth.RoleAdmin}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Create(&models.Customer{UserID: admin.ID, FirstName: "Store", LastName: "Admin"}).Error
}

// seedCatalog creates the demo categories and products, skipping any that
// already exist by title or slug.
func seedCatalog(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	for _, c := range catalog {
		cat := models.Category{Title: c.title}
		if err := db.Where("title = ?", c.title).FirstOrCreate(&cat).Error; err != nil {
			return err
		}

		var top *uint
		for _, sp := range c.products {
			p := models.Product{
				Name:       sp.name,
				Slug:       services.Slugify(sp.name),
				UnitPrice:  models.MustMoney(sp.price),
				Inventory:  sp.inventory,
				CategoryID: cat.ID,
			}
			if err := db.Omit("Category").Where("slug = ?", p.Slug).FirstOrCreate(&p).Error; err != nil {
				return err
			}
			if top == nil {
				id := p.ID
				top = &id
			}
		}

		if cat.TopProductID == nil && top != nil {
			if err := db.Model(&cat).Update("top_product_id", *top).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
