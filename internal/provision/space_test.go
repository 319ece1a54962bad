package provision

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaicdev/mosaic/internal/models"
)

// defaultTemplateID finds the "Default" template seeded at init.
func defaultTemplateID(t *testing.T, env *testEnv, org string) string {
	t.Helper()
	templates, err := env.svc.FindAllTemplates(context.Background(), org)
	require.NoError(t, err)
	for _, tmpl := range templates {
		if tmpl.Name == "Default" {
			return tmpl.ID
		}
	}
	t.Fatalf("no Default template for %s", org)
	return ""
}

func TestCreateProject(t *testing.T) {
	t.Run("instantiates from the named template", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.initOrg(t, "org-1")
		templateID := defaultTemplateID(t, env, "org-1")

		project, err := env.svc.CreateProject(ctx, models.CreateProjectParam{
			Name:         "Apollo",
			CustomCode:   "APL",
			Organization: "org-1",
			Template:     templateID,
		}, "user-1")
		require.NoError(t, err)

		require.NotEmpty(t, project.ID)
		require.Equal(t, "NotStarted", project.StatusID)
		require.Equal(t, templateID, project.Template)
		require.Equal(t, "user-1", project.Creator)
		require.NotEmpty(t, project.WorkItemSets)
		for _, set := range project.WorkItemSets {
			require.Equal(t, project.ID, set.Space)
		}

		found, err := env.spaces.FindProject(ctx, project.ID)
		require.NoError(t, err)
		require.Equal(t, project.ID, found.ID)
	})

	t.Run("missing template", func(t *testing.T) {
		env := newTestEnv(t)
		env.initOrg(t, "org-1")

		_, err := env.svc.CreateProject(context.Background(), models.CreateProjectParam{
			Name:         "Apollo",
			Organization: "org-1",
			Template:     "nope",
		}, "user-1")
		require.ErrorIs(t, err, ErrAppNotInitialized)
	})

	t.Run("template with an empty status flow", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.initOrg(t, "org-1")

		// Write a broken template document directly.
		broken := models.Template{
			ID:           models.NewID(),
			Name:         "Broken",
			Organization: "org-1",
		}
		value, err := json.Marshal(broken)
		require.NoError(t, err)
		require.NoError(t, env.docs.Save(ctx, models.TemplateKey+"/org-1/"+broken.ID, value))

		_, err = env.svc.CreateProject(ctx, models.CreateProjectParam{
			Name:         "Apollo",
			Organization: "org-1",
			Template:     broken.ID,
		}, "user-1")
		require.ErrorIs(t, err, ErrAppNotInitialized)
	})
}

func TestCreateProjectSet(t *testing.T) {
	t.Run("instantiates from the global config", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		env.initOrg(t, "org-1")

		set, err := env.svc.CreateProjectSet(ctx, models.CreateProjectSetParam{
			Name:         "Platform",
			Organization: "org-1",
		}, "user-1")
		require.NoError(t, err)
		require.Equal(t, "NotStarted", set.StatusID)
		require.Len(t, set.StatusFlow, 3)
	})

	t.Run("requires a provisioned organization", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.svc.CreateProjectSet(context.Background(), models.CreateProjectSetParam{
			Name:         "Platform",
			Organization: "org-1",
		}, "user-1")
		require.ErrorIs(t, err, ErrAppNotInitialized)
	})
}

func TestListProjects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.initOrg(t, "org-1")
	templateID := defaultTemplateID(t, env, "org-1")

	set, err := env.svc.CreateProjectSet(ctx, models.CreateProjectSetParam{
		Name: "Platform", Organization: "org-1",
	}, "user-1")
	require.NoError(t, err)

	_, err = env.svc.CreateProject(ctx, models.CreateProjectParam{
		Name: "Grouped", Organization: "org-1", Template: templateID, ProjectSet: set.ID,
	}, "user-1")
	require.NoError(t, err)

	_, err = env.svc.CreateProject(ctx, models.CreateProjectParam{
		Name: "Loose", Organization: "org-1", Template: templateID,
	}, "user-1")
	require.NoError(t, err)

	t.Run("all projects", func(t *testing.T) {
		projects, err := env.svc.ListProjects(ctx, "org-1", "")
		require.NoError(t, err)
		require.Len(t, projects, 2)
	})

	t.Run("filtered by project set", func(t *testing.T) {
		projects, err := env.svc.ListProjects(ctx, "org-1", set.ID)
		require.NoError(t, err)
		require.Len(t, projects, 1)
		require.Equal(t, "Grouped", projects[0].Name)
	})
}

func TestSpaceStatusFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.initOrg(t, "org-1")
	templateID := defaultTemplateID(t, env, "org-1")

	project, err := env.svc.CreateProject(ctx, models.CreateProjectParam{
		Name: "Apollo", Organization: "org-1", Template: templateID,
	}, "user-1")
	require.NoError(t, err)

	t.Run("project flow", func(t *testing.T) {
		flow, err := env.svc.SpaceStatusFlow(ctx, models.SpaceTypeProject, project.ID)
		require.NoError(t, err)
		require.Len(t, flow, 3)
	})

	t.Run("unknown space", func(t *testing.T) {
		_, err := env.svc.SpaceStatusFlow(ctx, models.SpaceTypeProject, "nope")
		require.ErrorIs(t, err, ErrDataNotFound)
	})

	t.Run("unknown space type", func(t *testing.T) {
		_, err := env.svc.SpaceStatusFlow(ctx, "folder", project.ID)
		require.ErrorIs(t, err, ErrIllegalArgument)
	})
}

func TestSpaceMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.initOrg(t, "org-1")
	templateID := defaultTemplateID(t, env, "org-1")

	project, err := env.svc.CreateProject(ctx, models.CreateProjectParam{
		Name: "Apollo", Organization: "org-1", Template: templateID,
	}, "user-1")
	require.NoError(t, err)

	t.Run("add, list, remove", func(t *testing.T) {
		err := env.svc.AddSpaceMembers(ctx, models.SpaceTypeProject, project.ID, []string{"u1", "u2"}, "user-1")
		require.NoError(t, err)

		ids, err := env.svc.SpaceMemberIDs(ctx, project.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"u1", "u2"}, ids)

		err = env.svc.RemoveSpaceMembers(ctx, models.SpaceTypeProject, project.ID, []string{"u1"})
		require.NoError(t, err)

		ids, err = env.svc.SpaceMemberIDs(ctx, project.ID)
		require.NoError(t, err)
		require.Equal(t, []string{"u2"}, ids)
	})

	t.Run("adding to a missing space", func(t *testing.T) {
		err := env.svc.AddSpaceMembers(ctx, models.SpaceTypeProject, "nope", []string{"u1"}, "user-1")
		require.ErrorIs(t, err, ErrDataNotFound)
	})
}
