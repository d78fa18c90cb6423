// pkg/actions/actions_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test the action pipeline (ordering, failure modes, truncation)

package actions_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/onefile/pkg/actions"
	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/registry"
	"github.com/arthur-debert/onefile/pkg/types"
)

func testFile(path string) types.FileEntry {
	f := types.FileEntry{Path: path}
	if i := strings.LastIndex(path, "."); i >= 0 {
		f.Extension = strings.ToLower(path[i:])
	}
	return f
}

func TestIsBuiltinAction(t *testing.T) {
	for _, name := range actions.BuiltinActions() {
		assert.True(t, actions.IsBuiltinAction(name), "expected %q to be built in", name)
	}
	assert.False(t, actions.IsBuiltinAction("uglify"))
	assert.False(t, actions.IsBuiltinAction(""))
}

func TestApply_NoActions(t *testing.T) {
	settings := types.DefaultSettings()
	out, err := actions.Apply(context.Background(), "unchanged", testFile("a.txt"), &settings)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", out)
}

func TestApply_ActionsRunInListOrder(t *testing.T) {
	// truncate-to-one-line and remove_empty_lines do not commute on
	// content whose first lines are blank
	content := "\n\nkeep me"

	settings := types.DefaultSettings()
	settings.Actions = []string{"remove_empty_lines", "custom"}
	settings.CustomProcessor = "truncate"
	settings.ProcessorArgs = map[string]interface{}{"max_lines": 1, "add_marker": false}

	out, err := actions.Apply(context.Background(), content, testFile("a.txt"), &settings)
	require.NoError(t, err)
	assert.Equal(t, "keep me", out)

	settings.Actions = []string{"custom", "remove_empty_lines"}
	out, err = actions.Apply(context.Background(), content, testFile("a.txt"), &settings)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestApply_UnknownActionName(t *testing.T) {
	settings := types.DefaultSettings()
	settings.Actions = []string{"no_such_action"}

	_, err := actions.Apply(context.Background(), "x", testFile("a.txt"), &settings)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrActionInvalid))
	assert.Contains(t, err.Error(), "no_such_action")
}

func TestApply_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	settings := types.DefaultSettings()
	settings.Actions = []string{"compress_whitespace"}

	_, err := actions.Apply(ctx, "x", testFile("a.txt"), &settings)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrActionExecute))
}

func TestApply_MaxLinesTruncation(t *testing.T) {
	settings := types.DefaultSettings()
	settings.MaxLines = 2

	out, err := actions.Apply(context.Background(), "l1\nl2\nl3\nl4", testFile("a.txt"), &settings)
	require.NoError(t, err)
	assert.Equal(t, "l1\nl2\n"+actions.TruncationMarker, out)
}

func TestApply_MaxLinesShortContentUntouched(t *testing.T) {
	settings := types.DefaultSettings()
	settings.MaxLines = 10

	out, err := actions.Apply(context.Background(), "l1\nl2", testFile("a.txt"), &settings)
	require.NoError(t, err)
	assert.Equal(t, "l1\nl2", out)
}

func TestApply_RemoveScrapedMetadata(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "leading html comment",
			content: "<!-- scraped from https://example.com -->\nreal content",
			want:    "real content",
		},
		{
			name:    "yaml front matter",
			content: "---\nsource: scraper\n---\nreal content",
			want:    "real content",
		},
		{
			name:    "no metadata",
			content: "real content",
			want:    "real content",
		},
		{
			name:    "dashes without closing fence stay",
			content: "---\nonly dashes once",
			want:    "---\nonly dashes once",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := types.DefaultSettings()
			settings.RemoveScrapedMetadata = true

			out, err := actions.Apply(context.Background(), tt.content, testFile("a.md"), &settings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestApply_CustomProcessorMissingName(t *testing.T) {
	settings := types.DefaultSettings()
	settings.Actions = []string{"custom"}

	_, err := actions.Apply(context.Background(), "x", testFile("a.txt"), &settings)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownProcessor))
}

func TestApply_CustomProcessorNotRegistered(t *testing.T) {
	settings := types.DefaultSettings()
	settings.Actions = []string{"custom"}
	settings.CustomProcessor = "definitely_not_registered"

	_, err := actions.Apply(context.Background(), "x", testFile("a.txt"), &settings)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownProcessor))
	details := errors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "definitely_not_registered", details["processor"])
}

func TestApply_ProcessorPanicIsRecovered(t *testing.T) {
	registry.RegisterProcessor("test_panics", func(_ context.Context, _ string, _ types.FileEntry, _ map[string]interface{}) (string, error) {
		panic("boom")
	})

	settings := types.DefaultSettings()
	settings.Actions = []string{"custom"}
	settings.CustomProcessor = "test_panics"

	_, err := actions.Apply(context.Background(), "x", testFile("a.txt"), &settings)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProcessorExecution))
	assert.Contains(t, err.Error(), "boom")
}

func TestApply_ProcessorErrorIsWrapped(t *testing.T) {
	registry.RegisterProcessor("test_fails", func(_ context.Context, _ string, _ types.FileEntry, _ map[string]interface{}) (string, error) {
		return "", fmt.Errorf("backend unavailable")
	})

	settings := types.DefaultSettings()
	settings.Actions = []string{"custom"}
	settings.CustomProcessor = "test_fails"

	_, err := actions.Apply(context.Background(), "x", testFile("a.txt"), &settings)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProcessorExecution))
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestApply_FailedActionReturnsNoContent(t *testing.T) {
	settings := types.DefaultSettings()
	settings.Actions = []string{"custom"}
	settings.CustomProcessor = "definitely_not_registered"

	out, err := actions.Apply(context.Background(), "original", testFile("a.txt"), &settings)
	require.Error(t, err)
	assert.Empty(t, out, "failed pipeline must not hand back untransformed content")
}
