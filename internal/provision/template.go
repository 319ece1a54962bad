package provision

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/store"
)

// CreateTemplate derives a new template from the organization's global
// configuration and clones the global non-project-set roles under it. Every
// clone and the template itself receive fresh identifiers; no source
// identifier is ever reused. Returns the new template's identifier.
func (s *Service) CreateTemplate(ctx context.Context, param models.CreateTemplateParam, creator string) (string, error) {
	if param.Organization == "" {
		return "", fmt.Errorf("%w: organization is required", ErrIllegalArgument)
	}
	if param.Name == "" {
		return "", fmt.Errorf("%w: template name is required", ErrIllegalArgument)
	}

	var templateID string
	err := s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		global, err := loadGlobalConfig(ctx, st.Documents, param.Organization)
		if err != nil {
			return err
		}
		if global == nil {
			return fmt.Errorf("%w: organization %s has no global config", ErrAppNotInitialized, param.Organization)
		}

		globalRoles, err := st.Roles.ListGlobalRoles(ctx, param.Organization)
		if err != nil {
			return fmt.Errorf("%w: list global roles: %v", ErrCallClient, err)
		}

		tmpl := models.NewTemplateFromGlobal(param, global, creator)

		clones := models.CloneRolesFor(globalRoles, tmpl.ID)
		if len(clones) > 0 {
			if err := st.Roles.CreateRoles(ctx, clones); err != nil {
				return fmt.Errorf("%w: create template roles: %v", ErrCallClient, err)
			}
		}

		if err := saveTemplate(ctx, st.Documents, tmpl); err != nil {
			return err
		}

		templateID = tmpl.ID

		log.Debug().
			Str("organization", param.Organization).
			Str("template", tmpl.ID).
			Int("cloned_roles", len(clones)).
			Msg("Created template")

		return nil
	})
	if err != nil {
		return "", err
	}

	return templateID, nil
}

// FindAllTemplates returns every template of an organization, latest
// versions first.
func (s *Service) FindAllTemplates(ctx context.Context, org string) ([]*models.Template, error) {
	var templates []*models.Template
	err := s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		var err error
		templates, err = listTemplates(ctx, st.Documents, org)
		return err
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// FindTemplate returns one template with the roles it owns attached.
// Returns ErrDataNotFound when the template does not exist.
func (s *Service) FindTemplate(ctx context.Context, org, templateID string) (*models.Template, error) {
	var tmpl *models.Template
	err := s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		var err error
		tmpl, err = loadTemplate(ctx, st.Documents, org, templateID)
		if err != nil {
			return err
		}
		if tmpl == nil {
			return fmt.Errorf("%w: template %s", ErrDataNotFound, templateID)
		}

		roles, err := st.Roles.ListRolesByOwn(ctx, org, templateID)
		if err != nil {
			return fmt.Errorf("%w: list template roles: %v", ErrCallClient, err)
		}
		tmpl.ProjectRoles = make([]models.Role, 0, len(roles))
		for _, role := range roles {
			tmpl.ProjectRoles = append(tmpl.ProjectRoles, *role)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}
