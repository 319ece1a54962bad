package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitSystem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	initialized, err := env.svc.SysIsInit(ctx)
	require.NoError(t, err)
	require.False(t, initialized)

	require.NoError(t, env.svc.InitSystem(ctx))

	initialized, err = env.svc.SysIsInit(ctx)
	require.NoError(t, err)
	require.True(t, initialized)

	// A second init is rejected.
	err = env.svc.InitSystem(ctx)
	require.ErrorIs(t, err, ErrAppInitialized)
}
