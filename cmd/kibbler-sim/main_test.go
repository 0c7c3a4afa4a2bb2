package main

import (
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLog(t *testing.T) {
	t.Run("discard without a file", func(t *testing.T) {
		require.NoError(t, setupLog(""))
	})

	t.Run("append to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sim.log")
		require.NoError(t, setupLog(path))

		log.Printf("[INFO] hello from the simulator")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello from the simulator")
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := setupLog(filepath.Join(t.TempDir(), "missing", "sim.log"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open log file")
	})
}

func TestOptsDefaults(t *testing.T) {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	_, err := parser.ParseArgs([]string{})
	require.NoError(t, err)

	assert.Equal(t, "kibbler-sim.db", opts.DB)
	assert.Equal(t, 45*time.Second, opts.Idle)
	assert.Equal(t, 400*time.Millisecond, opts.Spin)
	assert.Empty(t, opts.Log)
}
