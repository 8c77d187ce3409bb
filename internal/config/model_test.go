package config

import (
	"testing"

	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	require.NoError(t, Default().Validate())
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	// Arrange
	m := Default()
	m.Log.Level = "loud"
	m.Output = "xml"
	m.CacheSize = 0

	// Act
	err := m.Validate()

	// Assert
	require.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "log level")
	assert.ErrorContains(t, err, "output")
	assert.ErrorContains(t, err, "cache size")
	assert.NotContains(t, err.Error(), "log format")
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	// Arrange
	m := Default()
	m.Roots[pbx.SDKRoot] = "/sdk"

	// Act
	c := m.Clone()
	c.Roots[pbx.SDKRoot] = "/other"
	c.Env["X"] = "1"

	// Assert
	assert.Equal(t, "/sdk", m.Roots[pbx.SDKRoot])
	assert.Empty(t, m.Env)
}
