// pkg/commands/genconfig/genconfig_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Temp dirs only
// PURPOSE: Test starter config generation: both formats, write mode,
// existing-file protection and format validation

package genconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/onefile/pkg/commands/genconfig"
	"github.com/arthur-debert/onefile/pkg/errors"
)

func TestGenerate_TOMLContent(t *testing.T) {
	result, err := genconfig.Generate(genconfig.Options{Format: genconfig.FormatTOML})
	require.NoError(t, err)

	assert.Contains(t, result.Content, "[global]")
	assert.Contains(t, result.Content, "security_check")
	assert.False(t, result.Written)
	assert.Empty(t, result.Path)
}

func TestGenerate_DefaultFormatIsTOML(t *testing.T) {
	result, err := genconfig.Generate(genconfig.Options{})
	require.NoError(t, err)
	assert.Contains(t, result.Content, "[global]")
}

func TestGenerate_PresetContent(t *testing.T) {
	result, err := genconfig.Generate(genconfig.Options{Format: genconfig.FormatPreset})
	require.NoError(t, err)

	assert.Contains(t, result.Content, "rule")
	assert.Contains(t, result.Content, "extensions")
}

func TestGenerate_WriteMode(t *testing.T) {
	root := t.TempDir()

	result, err := genconfig.Generate(genconfig.Options{Root: root, Write: true})
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.Equal(t, filepath.Join(root, ".onefile.toml"), result.Path)
	content, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, result.Content, string(content))
}

func TestGenerate_WritePreset(t *testing.T) {
	root := t.TempDir()

	result, err := genconfig.Generate(genconfig.Options{
		Root:   root,
		Format: genconfig.FormatPreset,
		Write:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "onefile-presets.yaml"), result.Path)
}

func TestGenerate_NeverOverwrites(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, ".onefile.toml")
	require.NoError(t, os.WriteFile(existing, []byte("mine"), 0o644))

	_, err := genconfig.Generate(genconfig.Options{Root: root, Write: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(content))
}

func TestGenerate_UnknownFormat(t *testing.T) {
	_, err := genconfig.Generate(genconfig.Options{Format: "ini"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
