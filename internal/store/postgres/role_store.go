package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/mosaicdev/mosaic/internal/models"
)

// RoleStore implements store.RoleStore using PostgreSQL.
type RoleStore struct {
	db Querier
}

// NewRoleStore creates a PostgreSQL-backed role store.
func NewRoleStore(db Querier) *RoleStore {
	return &RoleStore{db: db}
}

// CreateRoles inserts the given roles.
func (s *RoleStore) CreateRoles(ctx context.Context, roles []*models.Role) error {
	query := `
		INSERT INTO roles (
			identifier, own, name, description, organization,
			default_role, is_project_set_role, creator, gmt_create
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	for _, role := range roles {
		var own any
		if role.Own != "" {
			own = role.Own
		}
		_, err := s.db.Exec(ctx, query,
			role.ID,
			own,
			role.Name,
			role.Description,
			role.Organization,
			role.DefaultRole,
			role.IsProjectSetRole,
			role.Creator,
			role.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create role: %w", mapPostgresError(err))
		}
	}

	log.Debug().
		Int("count", len(roles)).
		Msg("Created roles")

	return nil
}

// ListGlobalRoles returns the organization's roles with no Own link.
func (s *RoleStore) ListGlobalRoles(ctx context.Context, org string) ([]*models.Role, error) {
	return s.list(ctx, `
		SELECT identifier, own, name, description, organization,
		       default_role, is_project_set_role, creator, gmt_create
		FROM roles
		WHERE organization = $1 AND own IS NULL
		ORDER BY gmt_create
	`, org)
}

// ListRolesByOwn returns the roles owned by the given entity.
func (s *RoleStore) ListRolesByOwn(ctx context.Context, org, own string) ([]*models.Role, error) {
	return s.list(ctx, `
		SELECT identifier, own, name, description, organization,
		       default_role, is_project_set_role, creator, gmt_create
		FROM roles
		WHERE organization = $1 AND own = $2
		ORDER BY gmt_create
	`, org, own)
}

func (s *RoleStore) list(ctx context.Context, query string, args ...any) ([]*models.Role, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}

	return roles, nil
}

func scanRole(row pgx.Row) (*models.Role, error) {
	var role models.Role
	var own *string
	err := row.Scan(
		&role.ID,
		&own,
		&role.Name,
		&role.Description,
		&role.Organization,
		&role.DefaultRole,
		&role.IsProjectSetRole,
		&role.Creator,
		&role.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan role: %w", err)
	}
	if own != nil {
		role.Own = *own
	}
	return &role, nil
}
