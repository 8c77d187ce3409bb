package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/pbxgraph/internal/cli"
	"github.com/specialistvlad/pbxgraph/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// Arrange
	out := &bytes.Buffer{}

	// Act
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	// Assert
	require.NoError(t, err, "run() should return a nil error when printing help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// Arrange
	out := &bytes.Buffer{}

	// Act
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	// Assert
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_Summary(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := testutil.ProjectDir(t, "Demo", testutil.NewDoc().OpenStep())
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// Act
	err := run(context.Background(), out, logs, []string{"summary", dir})

	// Assert
	require.NoError(t, err)
	require.Contains(t, out.String(), "Demo")
}

func TestRun_InvalidDocument(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := testutil.ProjectDir(t, "Broken", "{ objects = (")

	// Act
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"summary", dir})

	// Assert
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitFailure, exitErr.Code)
}
