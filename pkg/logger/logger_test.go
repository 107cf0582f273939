package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamed(t *testing.T) {
	_, err := Named(" ")
	assert.Error(t, err)

	l, err := Named("search")
	require.NoError(t, err)
	assert.NotNil(t, l.Unwrap())
}

func TestSetup(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		assert.Error(t, Setup(Config{Level: "loud"}))
	})

	t.Run("invalid format", func(t *testing.T) {
		assert.Error(t, Setup(Config{Format: "xml"}))
	})

	t.Run("rotating file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "clearfashion.log")
		require.NoError(t, Setup(Config{Level: "debug", Format: "console", File: file, MaxSizeMB: 1}))
		MustNamed("test").Infow("hello", "k", "v")
		require.NoError(t, Setup(Config{}))
		assert.FileExists(t, file)
	})
}
