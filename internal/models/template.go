package models

import "time"

// TemplateKey is the document key namespace for templates. The full key is
// TemplateKey + "/" + organization + "/" + template id. The format is shared
// with other readers and must not change.
const TemplateKey = "/template/v1"

// Template is a named, cloneable configuration bundle scoped to an
// organization. Its catalogs are by-value copies of the global configuration
// at creation time; later global edits do not flow into existing templates.
type Template struct {
	ID           string    `json:"identifier"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Enable       bool      `json:"enable"`
	Organization string    `json:"organization"`
	Creator      string    `json:"creator"`
	CreatedAt    time.Time `json:"gmt_create"`

	ProjectFields      []Field       `json:"project_fields"`
	ProjectRoles       []Role        `json:"project_roles"`
	ProjectStatusFlow  StatusFlow    `json:"project_status_flow"`
	ProjectWorkItemSet []WorkItemSet `json:"project_work_item_set"`
}

// CreateTemplateParam carries the caller-supplied attributes of a new
// template.
type CreateTemplateParam struct {
	Name         string
	Description  string
	Icon         string
	Organization string
}

// NewTemplateFromGlobal derives a template from an organization's global
// configuration. The template receives a fresh identifier; catalogs are
// copied by value. The role list starts empty and is populated by the role
// clones that link back via their Own field.
func NewTemplateFromGlobal(param CreateTemplateParam, global *GlobalConfig, creator string) *Template {
	return &Template{
		ID:                 NewID(),
		Name:               param.Name,
		DisplayName:        param.Name,
		Description:        param.Description,
		Icon:               param.Icon,
		Enable:             true,
		Organization:       param.Organization,
		Creator:            creator,
		CreatedAt:          time.Now().UTC(),
		ProjectFields:      append([]Field(nil), global.ProjectFields...),
		ProjectRoles:       []Role{},
		ProjectStatusFlow:  global.ProjectStatusFlow.Clone(),
		ProjectWorkItemSet: append([]WorkItemSet(nil), global.ProjectWorkItemSet...),
	}
}

// DefaultTemplates derives the template set seeded at organization init.
func DefaultTemplates(org string, global *GlobalConfig) []*Template {
	names := []string{"Default", "Scrum"}
	templates := make([]*Template, 0, len(names))
	for _, name := range names {
		templates = append(templates, NewTemplateFromGlobal(CreateTemplateParam{
			Name:         name,
			Organization: org,
		}, global, SystemCreator))
	}
	return templates
}
