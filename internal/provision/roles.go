package provision

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/store"
)

// SeedGlobalRoles creates the organization's default global roles. Role
// management normally belongs to the user service; this seeds just enough
// for provisioning to have roles to clone into templates. It is a no-op
// when the organization already has global roles.
func (s *Service) SeedGlobalRoles(ctx context.Context, org string) error {
	if org == "" {
		return fmt.Errorf("%w: organization is required", ErrIllegalArgument)
	}

	return s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		existing, err := st.Roles.ListGlobalRoles(ctx, org)
		if err != nil {
			return fmt.Errorf("%w: list global roles: %v", ErrCallClient, err)
		}
		if len(existing) > 0 {
			return nil
		}

		roles := models.DefaultGlobalRoles(org)
		if err := st.Roles.CreateRoles(ctx, roles); err != nil {
			return fmt.Errorf("%w: create global roles: %v", ErrCallClient, err)
		}

		log.Debug().Str("organization", org).Int("roles", len(roles)).Msg("Seeded global roles")
		return nil
	})
}
