package repository

import (
	"context"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

const userColumns = `id, name, email, phone, role, village_id, active, created_at`

func (r *Repos) CreateUser(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users(name, email, phone, role, village_id, active) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at`,
		u.Name, u.Email, u.Phone, u.Role, u.VillageID, u.Active,
	).Scan(&u.ID, &u.CreatedAt)
	return translate(err, "insert user %q", u.Email)
}

func (r *Repos) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		return nil, translate(err, "user %d", id)
	}
	return &u, nil
}

func (r *Repos) ListUsers(ctx context.Context, villageID *int64) ([]domain.User, error) {
	out := []domain.User{}
	var err error
	if villageID != nil {
		err = r.db.SelectContext(ctx, &out, `SELECT `+userColumns+` FROM users WHERE village_id = $1 ORDER BY id`, *villageID)
	} else {
		err = r.db.SelectContext(ctx, &out, `SELECT `+userColumns+` FROM users ORDER BY id`)
	}
	return out, translate(err, "list users")
}

func (r *Repos) UpdateUser(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE users SET name = $2, email = $3, phone = $4, role = $5, village_id = $6, active = $7
		 WHERE id = $1 RETURNING created_at`,
		u.ID, u.Name, u.Email, u.Phone, u.Role, u.VillageID, u.Active,
	).Scan(&u.CreatedAt)
	return translate(err, "update user %d", u.ID)
}
