package service

import (
	"context"
	"strings"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

type userStore interface {
	GetVillage(ctx context.Context, id int64) (*domain.Village, error)
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context, villageID *int64) ([]domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error
}

type UserService struct {
	store userStore
}

// validateUser enforces that a GP admin belongs to an existing village and a super admin to none.
func (s *UserService) validateUser(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if strings.TrimSpace(u.Name) == "" || u.Email == "" {
		return invalidf("user name and email are required")
	}
	switch u.Role {
	case domain.RoleSuperAdmin:
		if u.VillageID != nil {
			return invalidf("a super admin is not bound to a village")
		}
	case domain.RoleGPAdmin:
		if u.VillageID == nil {
			return invalidf("a GP admin must belong to a village")
		}
		if _, err := s.store.GetVillage(ctx, *u.VillageID); err != nil {
			return err
		}
	default:
		return invalidf("unknown role %q", u.Role)
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, u *domain.User) error {
	if err := s.validateUser(ctx, u); err != nil {
		return err
	}
	u.Active = true
	return s.store.CreateUser(ctx, u)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) List(ctx context.Context, villageID *int64) ([]domain.User, error) {
	return s.store.ListUsers(ctx, villageID)
}

func (s *UserService) Update(ctx context.Context, u *domain.User) error {
	if err := s.validateUser(ctx, u); err != nil {
		return err
	}
	return s.store.UpdateUser(ctx, u)
}
