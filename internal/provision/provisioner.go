package provision

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/store"
)

// InitGlobalConfig seeds an organization's default configuration: the global
// config document, the default template set derived from it, and one clone
// of each global (non-project-set) role per default template.
//
// The operation is not idempotent: running it again for an initialized
// organization appends a new global config version and a second, disjoint
// set of default templates. Callers gate re-invocation with SysIsInit; the
// provisioner itself does not check.
func (s *Service) InitGlobalConfig(ctx context.Context, org string) error {
	if org == "" {
		return fmt.Errorf("%w: organization is required", ErrIllegalArgument)
	}

	return s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		global := models.NewDefaultGlobalConfig(org)
		if err := saveGlobalConfig(ctx, st.Documents, global); err != nil {
			return err
		}

		globalRoles, err := st.Roles.ListGlobalRoles(ctx, org)
		if err != nil {
			return fmt.Errorf("%w: list global roles: %v", ErrCallClient, err)
		}

		templates := models.DefaultTemplates(org, global)

		var clones []*models.Role
		for _, tmpl := range templates {
			clones = append(clones, models.CloneRolesFor(globalRoles, tmpl.ID)...)
		}
		if len(clones) > 0 {
			if err := st.Roles.CreateRoles(ctx, clones); err != nil {
				return fmt.Errorf("%w: create template roles: %v", ErrCallClient, err)
			}
		}

		for _, tmpl := range templates {
			if err := saveTemplate(ctx, st.Documents, tmpl); err != nil {
				return err
			}
		}

		log.Info().
			Str("organization", org).
			Int("templates", len(templates)).
			Int("cloned_roles", len(clones)).
			Msg("Provisioned global configuration")

		return nil
	})
}
