package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	t.Run("valid level", func(t *testing.T) {
		require.NoError(t, Initialize("debug"))
		assert.NotNil(t, Log)
	})

	t.Run("invalid level", func(t *testing.T) {
		assert.Error(t, Initialize("loud"))
	})
}
