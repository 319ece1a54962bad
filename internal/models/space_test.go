package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	global := NewDefaultGlobalConfig("org-1")
	tmpl := NewTemplateFromGlobal(CreateTemplateParam{
		Name:         "Default",
		Organization: "org-1",
	}, global, SystemCreator)

	param := CreateProjectParam{
		Name:         "Apollo",
		CustomCode:   "APL",
		Organization: "org-1",
		Template:     tmpl.ID,
	}

	t.Run("status is the first node of the template flow", func(t *testing.T) {
		project, err := NewProject(param, tmpl, "user-1")
		require.NoError(t, err)
		require.Equal(t, "NotStarted", project.StatusID)
		require.Equal(t, tmpl.ID, project.Template)
		require.Equal(t, "user-1", project.Creator)
	})

	t.Run("projects from the same template never share identifiers", func(t *testing.T) {
		first, err := NewProject(param, tmpl, "user-1")
		require.NoError(t, err)
		second, err := NewProject(param, tmpl, "user-1")
		require.NoError(t, err)

		require.NotEqual(t, first.ID, second.ID)

		// Work item set copies are re-keyed per project.
		require.Len(t, second.WorkItemSets, len(first.WorkItemSets))
		firstSetIDs := make(map[string]bool)
		for _, set := range first.WorkItemSets {
			require.Equal(t, first.ID, set.Space)
			firstSetIDs[set.ID] = true
		}
		for _, set := range second.WorkItemSets {
			require.Equal(t, second.ID, set.Space)
			require.False(t, firstSetIDs[set.ID])
		}
	})

	t.Run("template work item sets keep their source identifiers", func(t *testing.T) {
		project, err := NewProject(param, tmpl, "user-1")
		require.NoError(t, err)

		templateSetIDs := make(map[string]bool)
		for _, set := range tmpl.ProjectWorkItemSet {
			templateSetIDs[set.ID] = true
		}
		for _, set := range project.WorkItemSets {
			require.False(t, templateSetIDs[set.ID])
		}
	})

	t.Run("empty status flow is rejected", func(t *testing.T) {
		broken := *tmpl
		broken.ProjectStatusFlow = nil

		_, err := NewProject(param, &broken, "user-1")
		require.ErrorIs(t, err, ErrEmptyStatusFlow)
	})
}

func TestNewProjectSet(t *testing.T) {
	global := NewDefaultGlobalConfig("org-1")

	param := CreateProjectSetParam{
		Name:         "Platform",
		Organization: "org-1",
	}

	t.Run("status and flow come from the global config", func(t *testing.T) {
		set, err := NewProjectSet(param, global, "user-1")
		require.NoError(t, err)
		require.NotEmpty(t, set.ID)
		require.Equal(t, "NotStarted", set.StatusID)
		require.Equal(t, global.ProjectSetStatusFlow, set.StatusFlow)
	})

	t.Run("empty status flow is rejected", func(t *testing.T) {
		broken := *global
		broken.ProjectSetStatusFlow = nil

		_, err := NewProjectSet(param, &broken, "user-1")
		require.ErrorIs(t, err, ErrEmptyStatusFlow)
	})
}
