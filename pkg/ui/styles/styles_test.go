package styles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/onefile/pkg/ui/styles"
)

func TestRegistry(t *testing.T) {
	expectedStyles := []string{
		"Header", "Success", "Error", "Warning", "Muted",
		"FilePath", "GroupName", "RuleName", "Layer", "Count",
		"ExcludeReason",
	}

	for _, styleName := range expectedStyles {
		t.Run(styleName, func(t *testing.T) {
			_, exists := styles.Registry[styleName]
			assert.True(t, exists, "style %s should exist in registry", styleName)
		})
	}
}

func TestGetUnknownStyle(t *testing.T) {
	style := styles.Get("DoesNotExist")
	assert.Equal(t, "plain", style.Render("plain"))
}

func TestLoadFromData(t *testing.T) {
	err := styles.LoadFromData([]byte(`
colors:
  accent:
    light: "21"
    dark: "33"
styles:
  Custom:
    bold: true
    foreground: accent
`))
	require.NoError(t, err)
	_, exists := styles.Registry["Custom"]
	assert.True(t, exists)
}

func TestLoadFromDataInvalid(t *testing.T) {
	err := styles.LoadFromData([]byte("colors: [not, a, mapping"))
	assert.Error(t, err)
}
