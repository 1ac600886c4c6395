package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quocphungccq1911h/mobi/internal/domain"
)

// RoleRepository defines persistence access for role records.
type RoleRepository interface {
	GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	const query = `SELECT id, name FROM roles WHERE name=$1`
	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, string(name)).Scan(&role.ID, &role.Name); err != nil {
		return nil, err
	}
	return &role, nil
}
