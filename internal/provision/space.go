package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/store"
)

// CreateProject instantiates a project from the named template. The project
// gets a fresh identifier, its status is the first node of the template's
// project flow, and the template's catalogs are copied by value.
func (s *Service) CreateProject(ctx context.Context, param models.CreateProjectParam, creator string) (*models.Project, error) {
	if param.Organization == "" {
		return nil, fmt.Errorf("%w: organization is required", ErrIllegalArgument)
	}
	if param.Template == "" {
		return nil, fmt.Errorf("%w: template is required", ErrIllegalArgument)
	}

	var project *models.Project
	err := s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		tmpl, err := loadTemplate(ctx, st.Documents, param.Organization, param.Template)
		if err != nil {
			return err
		}
		if tmpl == nil {
			return fmt.Errorf("%w: template %s not found for %s", ErrAppNotInitialized, param.Template, param.Organization)
		}

		project, err = models.NewProject(param, tmpl, creator)
		if err != nil {
			if errors.Is(err, models.ErrEmptyStatusFlow) {
				return fmt.Errorf("%w: template %s has an empty status flow", ErrAppNotInitialized, tmpl.ID)
			}
			return err
		}

		if err := st.Spaces.SaveProject(ctx, project); err != nil {
			return err
		}

		log.Debug().
			Str("organization", param.Organization).
			Str("project", project.ID).
			Str("status", project.StatusID).
			Msg("Created project")

		return nil
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// CreateProjectSet instantiates a project set from the organization's global
// configuration. Project sets have no template concept.
func (s *Service) CreateProjectSet(ctx context.Context, param models.CreateProjectSetParam, creator string) (*models.ProjectSet, error) {
	if param.Organization == "" {
		return nil, fmt.Errorf("%w: organization is required", ErrIllegalArgument)
	}

	var set *models.ProjectSet
	err := s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		global, err := loadGlobalConfig(ctx, st.Documents, param.Organization)
		if err != nil {
			return err
		}
		if global == nil {
			return fmt.Errorf("%w: organization %s has no global config", ErrAppNotInitialized, param.Organization)
		}

		set, err = models.NewProjectSet(param, global, creator)
		if err != nil {
			if errors.Is(err, models.ErrEmptyStatusFlow) {
				return fmt.Errorf("%w: project set status flow is empty", ErrAppNotInitialized)
			}
			return err
		}

		if err := st.Spaces.SaveProjectSet(ctx, set); err != nil {
			return err
		}

		log.Debug().
			Str("organization", param.Organization).
			Str("project_set", set.ID).
			Str("status", set.StatusID).
			Msg("Created project set")

		return nil
	})
	if err != nil {
		return nil, err
	}

	return set, nil
}

// ListProjects returns the organization's projects, filtered to one project
// set when projectSet is non-empty.
func (s *Service) ListProjects(ctx context.Context, org, projectSet string) ([]*models.Project, error) {
	var projects []*models.Project
	err := s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		var err error
		projects, err = st.Spaces.ListProjects(ctx, org, projectSet)
		return err
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// ListProjectSets returns the organization's project sets.
func (s *Service) ListProjectSets(ctx context.Context, org string) ([]*models.ProjectSet, error) {
	var sets []*models.ProjectSet
	err := s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		var err error
		sets, err = st.Spaces.ListProjectSets(ctx, org)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// SpaceStatusFlow returns the status flow a space was created with. The flow
// is advisory: status mutations are not validated against it.
func (s *Service) SpaceStatusFlow(ctx context.Context, spaceType, spaceID string) (models.StatusFlow, error) {
	var flow models.StatusFlow
	err := s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		switch spaceType {
		case models.SpaceTypeProject:
			project, err := st.Spaces.FindProject(ctx, spaceID)
			if err != nil {
				if errors.Is(err, store.ErrSpaceNotFound) {
					return fmt.Errorf("%w: project %s", ErrDataNotFound, spaceID)
				}
				return err
			}
			flow = project.StatusFlow
		case models.SpaceTypeProjectSet:
			set, err := st.Spaces.FindProjectSet(ctx, spaceID)
			if err != nil {
				if errors.Is(err, store.ErrSpaceNotFound) {
					return fmt.Errorf("%w: project set %s", ErrDataNotFound, spaceID)
				}
				return err
			}
			flow = set.StatusFlow
		default:
			return fmt.Errorf("%w: unknown space type %q", ErrIllegalArgument, spaceType)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flow, nil
}

// AddSpaceMembers adds users to a project or project set, verifying the
// space exists first.
func (s *Service) AddSpaceMembers(ctx context.Context, spaceType, spaceID string, userIDs []string, operator string) error {
	return s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		if err := s.checkSpaceExists(ctx, st, spaceType, spaceID); err != nil {
			return err
		}
		return st.Spaces.AddMembers(ctx, spaceID, userIDs, operator)
	})
}

// RemoveSpaceMembers removes users from a project or project set.
func (s *Service) RemoveSpaceMembers(ctx context.Context, spaceType, spaceID string, userIDs []string) error {
	return s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		if err := s.checkSpaceExists(ctx, st, spaceType, spaceID); err != nil {
			return err
		}
		return st.Spaces.RemoveMembers(ctx, spaceID, userIDs)
	})
}

// SpaceMemberIDs returns the user ids of a space's members.
func (s *Service) SpaceMemberIDs(ctx context.Context, spaceID string) ([]string, error) {
	var ids []string
	err := s.runner.RunInTx(ctx, func(ctx context.Context, st store.Stores) error {
		var err error
		ids, err = st.Spaces.ListMemberIDs(ctx, spaceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Service) checkSpaceExists(ctx context.Context, st store.Stores, spaceType, spaceID string) error {
	var err error
	switch spaceType {
	case models.SpaceTypeProject:
		_, err = st.Spaces.FindProject(ctx, spaceID)
	case models.SpaceTypeProjectSet:
		_, err = st.Spaces.FindProjectSet(ctx, spaceID)
	default:
		return fmt.Errorf("%w: unknown space type %q", ErrIllegalArgument, spaceType)
	}
	if err != nil {
		if errors.Is(err, store.ErrSpaceNotFound) {
			return fmt.Errorf("%w: space %s", ErrDataNotFound, spaceID)
		}
		return err
	}
	return nil
}
