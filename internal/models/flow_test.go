package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusFlow_Initial(t *testing.T) {
	t.Run("first node is the initial status", func(t *testing.T) {
		flow := DefaultSpaceFlow()

		initial, ok := flow.Initial()
		require.True(t, ok)
		require.Equal(t, "NotStarted", initial)
	})

	t.Run("empty flow has no initial status", func(t *testing.T) {
		var flow StatusFlow

		_, ok := flow.Initial()
		require.False(t, ok)
	})
}

func TestStatusFlow_Transitions(t *testing.T) {
	flow := DefaultSpaceFlow()

	t.Run("known status returns its successors", func(t *testing.T) {
		require.Equal(t, []string{"InProgress", "Completed"}, flow.Transitions("NotStarted"))
		require.Equal(t, []string{"NotStarted", "Completed"}, flow.Transitions("InProgress"))
	})

	t.Run("unknown status returns nil", func(t *testing.T) {
		require.Nil(t, flow.Transitions("Archived"))
	})
}

func TestStatusFlow_Clone(t *testing.T) {
	t.Run("clone is independent of the original", func(t *testing.T) {
		flow := DefaultSpaceFlow()
		clone := flow.Clone()
		require.Equal(t, flow, clone)

		clone[0].CurrentStatusID = "Changed"
		clone[1].NextStatusIDs[0] = "Changed"

		require.Equal(t, "NotStarted", flow[0].CurrentStatusID)
		require.Equal(t, "NotStarted", flow[1].NextStatusIDs[0])
	})

	t.Run("nil flow clones to nil", func(t *testing.T) {
		var flow StatusFlow
		require.Nil(t, flow.Clone())
	})
}

func TestDefaultSpaceFlow(t *testing.T) {
	flow := DefaultSpaceFlow()
	require.Len(t, flow, 3)

	// Every node connects to the two others.
	for _, item := range flow {
		require.Len(t, item.NextStatusIDs, 2)
		require.NotContains(t, item.NextStatusIDs, item.CurrentStatusID)
	}
}
