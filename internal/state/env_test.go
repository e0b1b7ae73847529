package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gompdf/photolog/internal/config"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	require.NotNil(t, env)
	assert.False(t, env.start.IsZero())
	assert.NotNil(t, env.Log)
}

func TestEnvFromContextPanicsWithoutEnv(t *testing.T) {
	assert.Panics(t, func() { EnvFromContext(context.Background()) })
}

func TestStoreNeedsConfiguration(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	_, err := env.Store(context.Background())
	assert.Error(t, err)
	assert.NoError(t, env.CloseStore())
}

func TestStoreOpenedOnce(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.LoadConfiguration("")
	require.NoError(t, err)
	cfg.Store.Path = filepath.Join(t.TempDir(), "nested", "projects.db")
	cfg.Store.Capacity = 5

	env := &LocalEnv{Cfg: cfg, Log: zaptest.NewLogger(t)}
	first, err := env.Store(ctx)
	require.NoError(t, err)
	second, err := env.Store(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 5, first.Capacity())

	require.NoError(t, env.CloseStore())
	assert.FileExists(t, cfg.Store.Path)
}

func TestRedirectStdLog(t *testing.T) {
	env := &LocalEnv{Log: zaptest.NewLogger(t)}
	env.RedirectStdLog()
	assert.NotNil(t, env.restoreStdLog)
	env.RestoreStdLog()
}
