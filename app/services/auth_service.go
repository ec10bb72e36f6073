package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type RegisterInput struct {
	Name      string `json:"name"       validate:"required,max=255"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=255"`
	LastName  string `json:"last_name"  validate:"max=255"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	repo *repositories.Repository
}

func NewAuthService(repo *repositories.Repository) *AuthService {
	return &AuthService{repo: repo}
}

// Register creates the user and its customer profile together.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.repo.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     auth.RoleUser,
	}

	err = s.repo.WithTx(ctx, func(tx *repositories.Repository) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			if orm.IsDuplicate(err) {
				return ErrEmailTaken
			}
			return err
		}
		_, err := provisionCustomer(ctx, tx, user.ID, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName))
		return err
	})
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("auth: user registered", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.repo.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.Password, in.Password) {
		return nil, ErrBadCredentials
	}
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
