package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemCreator is recorded as the creator of configuration seeded at
// organization init.
const SystemCreator = "system"

// Field is a single field definition in a project or work item catalog.
type Field struct {
	ID           string    `json:"identifier"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	FieldType    string    `json:"field_type"`
	Required     bool      `json:"required"`
	Options      []string  `json:"options,omitempty"`
	Organization string    `json:"organization"`
	Creator      string    `json:"creator"`
	CreatedAt    time.Time `json:"gmt_create"`
}

// Status is an entry in a status catalog for one resource category.
type Status struct {
	ID           string    `json:"identifier"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	StageCode    string    `json:"stage_code"`
	Organization string    `json:"organization"`
	ResourceType string    `json:"resource_type"`
	Creator      string    `json:"creator"`
	CreatedAt    time.Time `json:"gmt_create"`
}

// Resource categories carried in Status.ResourceType.
const (
	ResourceTypeProject    = "project"
	ResourceTypeProjectSet = "project_set"
	ResourceTypeWorkItem   = "work_item"
)

// Stage codes used by the default status catalogs.
const (
	StageAck         = "ack"
	StageHandle      = "handle"
	StageNormalEnd   = "normal_end"
	StageAbnormalEnd = "abnormal_end"
)

// WorkItemSet is a work item category configuration: its field catalog and
// the status flow its work items follow.
type WorkItemSet struct {
	ID           string     `json:"identifier"`
	Category     string     `json:"category"`
	Name         string     `json:"name"`
	DisplayName  string     `json:"display_name"`
	Description  string     `json:"description"`
	Space        string     `json:"space"`
	IsSystem     bool       `json:"is_system"`
	Fields       []Field    `json:"work_item_fields"`
	StatusFlow   StatusFlow `json:"work_item_status_flow"`
	Organization string     `json:"organization"`
	Creator      string     `json:"creator"`
	CreatedAt    time.Time  `json:"gmt_create"`
}

// CloneForSpace returns a copy of the set owned by the given space. The copy
// always carries a fresh identifier so sets instantiated from the same
// template never alias each other.
func (w WorkItemSet) CloneForSpace(space string) WorkItemSet {
	clone := w
	clone.ID = NewID()
	clone.Space = space
	clone.Fields = append([]Field(nil), w.Fields...)
	clone.StatusFlow = w.StatusFlow.Clone()
	return clone
}

// WorkTimeType is an entry in the work-time classification catalog.
type WorkTimeType struct {
	ID           string `json:"identifier"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Creator      string `json:"creator"`
}

// NewID generates an identifier for a newly created entity. UUIDv7 keeps
// identifiers roughly time-ordered, which helps index locality.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func newField(org, name, displayName, fieldType string, required bool) Field {
	return Field{
		ID:           NewID(),
		Name:         name,
		DisplayName:  displayName,
		FieldType:    fieldType,
		Required:     required,
		Organization: org,
		Creator:      SystemCreator,
		CreatedAt:    time.Now().UTC(),
	}
}

func newStatus(org, id, name, stageCode, resourceType string) Status {
	return Status{
		ID:           id,
		Name:         name,
		Description:  name,
		StageCode:    stageCode,
		Organization: org,
		ResourceType: resourceType,
		Creator:      SystemCreator,
		CreatedAt:    time.Now().UTC(),
	}
}

// DefaultProjectFields is the field catalog applied to projects at init.
func DefaultProjectFields(org string) []Field {
	return []Field{
		newField(org, "name", "Name", "text", true),
		newField(org, "owner", "Owner", "member", true),
		newField(org, "start_date", "Start date", "date", false),
		newField(org, "due_date", "Due date", "date", false),
		newField(org, "priority", "Priority", "select", false),
	}
}

// DefaultWorkItemFields is the field catalog applied to work items at init.
func DefaultWorkItemFields(org string) []Field {
	return []Field{
		newField(org, "title", "Title", "text", true),
		newField(org, "assignee", "Assignee", "member", false),
		newField(org, "estimate", "Estimate", "number", false),
		newField(org, "due_date", "Due date", "date", false),
		newField(org, "severity", "Severity", "select", false),
	}
}

// DefaultProjectStatuses is the project status catalog seeded at init.
func DefaultProjectStatuses(org string) []Status {
	return []Status{
		newStatus(org, "NotStarted", "Not started", StageAck, ResourceTypeProject),
		newStatus(org, "InProgress", "In progress", StageHandle, ResourceTypeProject),
		newStatus(org, "Completed", "Completed", StageNormalEnd, ResourceTypeProject),
	}
}

// DefaultProjectSetStatuses is the project-set status catalog seeded at init.
func DefaultProjectSetStatuses(org string) []Status {
	return []Status{
		newStatus(org, "NotStarted", "Not started", StageAck, ResourceTypeProjectSet),
		newStatus(org, "InProgress", "In progress", StageHandle, ResourceTypeProjectSet),
		newStatus(org, "Completed", "Completed", StageNormalEnd, ResourceTypeProjectSet),
	}
}

// DefaultWorkItemStatuses is the work item status catalog seeded at init.
func DefaultWorkItemStatuses(org string) []Status {
	return []Status{
		newStatus(org, "Pending", "Pending", StageAck, ResourceTypeWorkItem),
		newStatus(org, "Selected", "Selected", StageAck, ResourceTypeWorkItem),
		newStatus(org, "Processing", "Processing", StageHandle, ResourceTypeWorkItem),
		newStatus(org, "Completed", "Completed", StageNormalEnd, ResourceTypeWorkItem),
		newStatus(org, "Canceled", "Canceled", StageAbnormalEnd, ResourceTypeWorkItem),
		newStatus(org, "Rejected", "Rejected", StageAbnormalEnd, ResourceTypeWorkItem),
		newStatus(org, "Reopened", "Reopened", StageAck, ResourceTypeWorkItem),
		newStatus(org, "Closed", "Closed", StageNormalEnd, ResourceTypeWorkItem),
	}
}

// DefaultWorkTimeTypes is the work-time classification catalog seeded at init.
func DefaultWorkTimeTypes(org string) []WorkTimeType {
	names := []string{"Development", "Design", "Testing", "Review", "Meeting"}
	types := make([]WorkTimeType, 0, len(names))
	for _, name := range names {
		types = append(types, WorkTimeType{
			ID:           NewID(),
			Name:         name,
			Organization: org,
			Creator:      SystemCreator,
		})
	}
	return types
}

func defaultWorkItemFlow() StatusFlow {
	return StatusFlow{
		{CurrentStatusID: "Pending", NextStatusIDs: []string{"Selected", "Canceled"}},
		{CurrentStatusID: "Selected", NextStatusIDs: []string{"Pending", "Processing", "Canceled"}},
		{CurrentStatusID: "Processing", NextStatusIDs: []string{"Selected", "Completed", "Canceled"}},
		{CurrentStatusID: "Completed", NextStatusIDs: []string{"Reopened", "Closed"}},
		{CurrentStatusID: "Reopened", NextStatusIDs: []string{"Processing", "Canceled"}},
		{CurrentStatusID: "Canceled", NextStatusIDs: []string{"Reopened"}},
		{CurrentStatusID: "Closed", NextStatusIDs: nil},
	}
}

// DefaultWorkItemSets builds the system work item set catalog for an
// organization. Every set shares the supplied work item field catalog and the
// default work item flow.
func DefaultWorkItemSets(org string, fields []Field) []WorkItemSet {
	categories := []struct {
		category string
		name     string
	}{
		{"demand", "Demand"},
		{"task", "Task"},
		{"bug", "Bug"},
		{"risk", "Risk"},
	}
	sets := make([]WorkItemSet, 0, len(categories))
	for _, c := range categories {
		sets = append(sets, WorkItemSet{
			ID:           NewID(),
			Category:     c.category,
			Name:         c.name,
			DisplayName:  c.name,
			Description:  c.name,
			Space:        SystemCreator,
			IsSystem:     true,
			Fields:       append([]Field(nil), fields...),
			StatusFlow:   defaultWorkItemFlow(),
			Organization: org,
			Creator:      SystemCreator,
			CreatedAt:    time.Now().UTC(),
		})
	}
	return sets
}
