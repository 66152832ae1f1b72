package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pathlab/internal/testutil"
)

func TestNewApp_FlagsOverrideConfigFile(t *testing.T) {
	path := testutil.WriteConfigFile(t, `
listen_addr = ":7070"
solver_url  = "http://solver:9000"

replay {
  speed = 3
}
`)

	var out testutil.SafeBuffer
	a, err := NewApp(&out, &Config{
		Mode:       "serve",
		ConfigPath: path,
		ListenAddr: ":6060",
		LogLevel:   "debug",
		LogFormat:  "text",
	})
	require.NoError(t, err)

	assert.Equal(t, ":6060", a.cfg.ListenAddr, "the flag wins over the file")
	assert.Equal(t, "http://solver:9000", a.cfg.SolverURL, "the file wins over the default")
	assert.Equal(t, 3, a.speed)
}

func TestNewApp_SpeedFlagWins(t *testing.T) {
	var out testutil.SafeBuffer
	a, err := NewApp(&out, &Config{Mode: "solve", Speed: 9})
	require.NoError(t, err)
	assert.Equal(t, 9, a.speed)
}

func TestNewApp_BadConfigFile(t *testing.T) {
	var out testutil.SafeBuffer
	_, err := NewApp(&out, &Config{Mode: "serve", ConfigPath: "/nonexistent/pathlab.hcl"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRun_UnknownMode(t *testing.T) {
	var out testutil.SafeBuffer
	a, err := NewApp(&out, &Config{Mode: "replay"})
	require.NoError(t, err)

	err = a.Run(context.Background())
	assert.ErrorContains(t, err, `unknown mode "replay"`)
}
