package models

import (
	"errors"
	"time"
)

// ErrEmptyStatusFlow is returned when a space cannot be given an initial
// status because the source status flow has no nodes.
var ErrEmptyStatusFlow = errors.New("status flow has no nodes")

// Space type discriminators used on the query surface.
const (
	SpaceTypeProject    = "project"
	SpaceTypeProjectSet = "project_set"
)

// Project is a live project instantiated from a template. Catalogs are
// by-value copies taken at creation time.
type Project struct {
	ID           string    `json:"identifier"`
	Organization string    `json:"organization"`
	Name         string    `json:"name"`
	CustomCode   string    `json:"custom_code"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Creator      string    `json:"creator"`
	CreatedAt    time.Time `json:"gmt_create"`

	Template string `json:"template"`
	// ProjectSet links to the parent project set, empty when the project is
	// not grouped.
	ProjectSet string `json:"project_set,omitempty"`
	StatusID   string `json:"status_identifier"`

	Fields       []Field       `json:"fields"`
	StatusFlow   StatusFlow    `json:"status_flow"`
	WorkItemSets []WorkItemSet `json:"work_item_sets"`
}

// ProjectSet is a live project grouping instantiated from the organization's
// global configuration. Project sets have no template concept.
type ProjectSet struct {
	ID           string    `json:"identifier"`
	Organization string    `json:"organization"`
	Name         string    `json:"name"`
	CustomCode   string    `json:"custom_code"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Creator      string    `json:"creator"`
	CreatedAt    time.Time `json:"gmt_create"`

	StatusID   string     `json:"status_identifier"`
	StatusFlow StatusFlow `json:"status_flow"`
}

// CreateProjectParam carries the caller-supplied attributes of a new project.
type CreateProjectParam struct {
	Name         string
	CustomCode   string
	Description  string
	Icon         string
	Organization string
	ProjectSet   string
	Template     string
}

// CreateProjectSetParam carries the caller-supplied attributes of a new
// project set.
type CreateProjectSetParam struct {
	Name         string
	CustomCode   string
	Description  string
	Icon         string
	Organization string
}

// NewProject instantiates a project from a template. The project receives a
// fresh identifier, its status is the first node of the template's project
// flow, and every work item set copy is re-keyed so projects created from
// the same template never share a set identity. Returns ErrEmptyStatusFlow
// when the template's flow has no nodes.
func NewProject(param CreateProjectParam, tmpl *Template, creator string) (*Project, error) {
	status, ok := tmpl.ProjectStatusFlow.Initial()
	if !ok {
		return nil, ErrEmptyStatusFlow
	}
	id := NewID()
	sets := make([]WorkItemSet, 0, len(tmpl.ProjectWorkItemSet))
	for _, set := range tmpl.ProjectWorkItemSet {
		sets = append(sets, set.CloneForSpace(id))
	}
	return &Project{
		ID:           id,
		Organization: param.Organization,
		Name:         param.Name,
		CustomCode:   param.CustomCode,
		Description:  param.Description,
		Icon:         param.Icon,
		Creator:      creator,
		CreatedAt:    time.Now().UTC(),
		Template:     tmpl.ID,
		ProjectSet:   param.ProjectSet,
		StatusID:     status,
		Fields:       append([]Field(nil), tmpl.ProjectFields...),
		StatusFlow:   tmpl.ProjectStatusFlow.Clone(),
		WorkItemSets: sets,
	}, nil
}

// NewProjectSet instantiates a project set from the organization's global
// configuration. Returns ErrEmptyStatusFlow when the project-set flow has no
// nodes.
func NewProjectSet(param CreateProjectSetParam, global *GlobalConfig, creator string) (*ProjectSet, error) {
	status, ok := global.ProjectSetStatusFlow.Initial()
	if !ok {
		return nil, ErrEmptyStatusFlow
	}
	return &ProjectSet{
		ID:           NewID(),
		Organization: param.Organization,
		Name:         param.Name,
		CustomCode:   param.CustomCode,
		Description:  param.Description,
		Icon:         param.Icon,
		Creator:      creator,
		CreatedAt:    time.Now().UTC(),
		StatusID:     status,
		StatusFlow:   global.ProjectSetStatusFlow.Clone(),
	}, nil
}
