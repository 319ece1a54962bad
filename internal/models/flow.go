package models

// FlowItem is one node of a status-flow graph: the status it represents and
// the statuses a resource in that status may move to.
type FlowItem struct {
	CurrentStatusID string   `json:"current_status_identifier"`
	NextStatusIDs   []string `json:"next_status_identifiers"`
}

// StatusFlow is a directed graph of allowed status transitions. Order is
// significant: the first item is the initial status assigned to newly created
// resources, and must be preserved across clone operations. No reachability
// or cycle validation is performed on the graph.
type StatusFlow []FlowItem

// Initial returns the identifier of the first node. The second return value
// is false when the flow is empty.
func (f StatusFlow) Initial() (string, bool) {
	if len(f) == 0 {
		return "", false
	}
	return f[0].CurrentStatusID, true
}

// Transitions returns the next status identifiers for the given status, or
// nil when the status is not a node of the graph.
func (f StatusFlow) Transitions(statusID string) []string {
	for _, item := range f {
		if item.CurrentStatusID == statusID {
			return item.NextStatusIDs
		}
	}
	return nil
}

// Clone returns a deep copy of the flow.
func (f StatusFlow) Clone() StatusFlow {
	if f == nil {
		return nil
	}
	out := make(StatusFlow, len(f))
	for i, item := range f {
		out[i] = FlowItem{
			CurrentStatusID: item.CurrentStatusID,
			NextStatusIDs:   append([]string(nil), item.NextStatusIDs...),
		}
	}
	return out
}

// DefaultSpaceFlow returns the status flow assigned to projects and project
// sets at organization init.
func DefaultSpaceFlow() StatusFlow {
	return StatusFlow{
		{CurrentStatusID: "NotStarted", NextStatusIDs: []string{"InProgress", "Completed"}},
		{CurrentStatusID: "InProgress", NextStatusIDs: []string{"NotStarted", "Completed"}},
		{CurrentStatusID: "Completed", NextStatusIDs: []string{"NotStarted", "InProgress"}},
	}
}
