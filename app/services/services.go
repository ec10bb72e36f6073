package services

import (
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/mail"
)

// Services bundles every service over one repository set.
type Services struct {
	Catalog   *CatalogService
	Carts     *CartService
	Orders    *OrderService
	Customers *CustomerService
	Auth      *AuthService
}

// New wires every service. events and mailer may be nil.
func New(repo *repositories.Repository, store cache.Store, events event.Publisher, mailer mail.Sender) *Services {
	return &Services{
		Catalog:   NewCatalogService(repo, store),
		Carts:     NewCartService(repo),
		Orders:    NewOrderService(repo, events),
		Customers: NewCustomerService(repo, mailer),
		Auth:      NewAuthService(repo),
	}
}
