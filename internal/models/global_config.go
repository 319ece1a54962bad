package models

// GlobalKey is the document key namespace for organization global
// configuration. The full key is GlobalKey + "/" + organization id. The
// format is shared with other readers and must not change.
const GlobalKey = "/global/v1"

// GlobalConfig is the canonical configuration for one organization: the
// field catalogs, status catalogs, status flows, and system work item sets
// every template and space derives from. Created exactly once at
// organization init and read-mostly afterwards.
type GlobalConfig struct {
	Organization string `json:"organization"`

	ProjectSetStatusFlow StatusFlow `json:"project_set_status_flow"`

	ProjectFields      []Field       `json:"project_fields"`
	ProjectStatusFlow  StatusFlow    `json:"project_status_flow"`
	ProjectWorkItemSet []WorkItemSet `json:"project_work_item_set"`

	WorkItemFields   []Field  `json:"work_item_fields"`
	WorkItemStatus   []Status `json:"work_item_status"`
	ProjectSetStatus []Status `json:"project_set_status"`
	ProjectStatus    []Status `json:"project_status"`

	WorkTimeTypes []WorkTimeType `json:"global_work_item_work_time_type"`
}

// NewDefaultGlobalConfig assembles the default global configuration for an
// organization. The result is deterministic in structure for a given org id;
// only generated identifiers and timestamps differ between invocations.
func NewDefaultGlobalConfig(org string) *GlobalConfig {
	workItemFields := DefaultWorkItemFields(org)
	spaceFlow := DefaultSpaceFlow()
	return &GlobalConfig{
		Organization:         org,
		ProjectSetStatusFlow: spaceFlow.Clone(),
		ProjectFields:        DefaultProjectFields(org),
		ProjectStatusFlow:    spaceFlow.Clone(),
		ProjectWorkItemSet:   DefaultWorkItemSets(org, workItemFields),
		WorkItemFields:       workItemFields,
		WorkItemStatus:       DefaultWorkItemStatuses(org),
		ProjectSetStatus:     DefaultProjectSetStatuses(org),
		ProjectStatus:        DefaultProjectStatuses(org),
		WorkTimeTypes:        DefaultWorkTimeTypes(org),
	}
}
