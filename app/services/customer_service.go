package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/mail"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type CustomerInput struct {
	FirstName   string `json:"first_name"   validate:"max=255"`
	LastName    string `json:"last_name"    validate:"max=255"`
	BirthDate   string `json:"birth_date"   validate:"date"`
	PhoneNumber string `json:"phone_number" validate:"max=32"`
}

type CustomerService struct {
	repo   *repositories.Repository
	mailer mail.Sender
}

// NewCustomerService builds the service. A nil mailer turns
// SendPrivateEmail into an acknowledgement only.
func NewCustomerService(repo *repositories.Repository, mailer mail.Sender) *CustomerService {
	return &CustomerService{repo: repo, mailer: mailer}
}

// Provision returns the customer profile of userID, creating an empty one
// when none exists.
func (s *CustomerService) Provision(ctx context.Context, userID uint, first, last string) (*models.Customer, error) {
	return provisionCustomer(ctx, s.repo, userID, first, last)
}

func provisionCustomer(ctx context.Context, repo *repositories.Repository, userID uint, first, last string) (*models.Customer, error) {
	c, err := repo.Customers.GetByUserID(ctx, userID)
	if err != nil || c != nil {
		return c, err
	}
	c = &models.Customer{UserID: userID, FirstName: first, LastName: last}
	if err := repo.Customers.Create(ctx, c); err != nil {
		if orm.IsDuplicate(err) {
			return repo.Customers.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Me(ctx context.Context, userID uint) (*models.Customer, error) {
	c, err := s.repo.Customers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

func (s *CustomerService) UpdateMe(ctx context.Context, userID uint, in CustomerInput) (*models.Customer, error) {
	c, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, c, in)
}

func (s *CustomerService) List(ctx context.Context, p orm.Pagination) ([]models.Customer, orm.Pagination, error) {
	return s.repo.Customers.List(ctx, p)
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	c, err := s.repo.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput) (*models.Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, c, in)
}

func (s *CustomerService) save(ctx context.Context, c *models.Customer, in CustomerInput) (*models.Customer, error) {
	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	c.BirthDate = nil
	if in.BirthDate != "" {
		d, err := time.Parse(time.DateOnly, in.BirthDate)
		if err != nil {
			return nil, invalid("birth_date must be YYYY-MM-DD")
		}
		c.BirthDate = &d
	}
	if err := s.repo.Customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete refuses while the customer has orders; orders are permanent.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	return s.repo.WithTx(ctx, func(tx *repositories.Repository) error {
		n, err := tx.Orders.CountByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrCustomerHasOrders
		}
		deleted, err := tx.Customers.Delete(ctx, id)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrCustomerNotFound
		}
		return nil
	})
}

// SendPrivateEmail queues a message to the customer's login address. Without
// a mailer the request is only acknowledged.
func (s *CustomerService) SendPrivateEmail(ctx context.Context, id uint) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	ack := fmt.Sprintf("Sending email to customer pk=%d", id)
	log := logger.WithCtx(ctx)
	if s.mailer == nil {
		log.Info("customer: private email requested", "customer_id", id, "delivery", "none")
		return ack, nil
	}

	u, err := s.repo.Users.GetByID(ctx, c.UserID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrCustomerNotFound
	}
	name := strings.TrimSpace(c.FirstName)
	if name == "" {
		name = u.Name
	}
	msg := mail.To(u.Email).
		Subject("A message from Storefront").
		Text(fmt.Sprintf("Hello %s,\n\nThis is a private message from the Storefront team.\n", name))
	if err := s.mailer.Send(ctx, msg); err != nil {
		return "", fmt.Errorf("customer: send private email: %w", err)
	}
	log.Info("customer: private email queued", "customer_id", id)
	return ack, nil
}
