package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCanMissingFile(t *testing.T) {
	err := runCan(CanCmd, []string{filepath.Join(t.TempDir(), "missing.ast.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read input")
}

func TestRunCanRejectsBadSyntaxTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ast.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"kind":"mystery"}`), 0o644))
	err := runCan(CanCmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not decode syntax tree")
}

func TestRunCanCanonicalizesDeclaration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.ast.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"kind":"int","raw":"1"}`), 0o644))
	require.NoError(t, runCan(CanCmd, []string{path}))
}
