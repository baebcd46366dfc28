package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/regionfmt/internal/ui/pretty"
)

func TestNoColorStylesArePlain(t *testing.T) {
	styles := pretty.NewStyles(false)

	for name, rendered := range map[string]string{
		"Error":    styles.Error.Render("x.c"),
		"FilePath": styles.FilePath.Render("x.c"),
		"Detail":   styles.Detail.Render("x.c"),
		"DiffAdd":  styles.DiffAdd.Render("x.c"),
		"Heading":  styles.Heading.Render("x.c"),
		"Flag":     styles.Flag.Render("x.c"),
		"Bold":     styles.Bold.Render("x.c"),
	} {
		assert.Equal(t, "x.c", rendered, "%s should render unchanged without color", name)
	}
}

func TestColorStylesKeepText(t *testing.T) {
	styles := pretty.NewStyles(true)

	// The renderer may strip ANSI codes off a TTY, but the text must survive.
	assert.Contains(t, styles.DiffRemove.Render("-old"), "-old")
	assert.Contains(t, styles.Success.Render("ok"), "ok")
	assert.Contains(t, styles.Command.Render("regionfmt"), "regionfmt")
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "a buffer is not a terminal")
	assert.False(t, pretty.IsColorEnabled("", &buf), "empty mode behaves like auto")
}

func TestIsColorEnabled_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
	assert.True(t, pretty.IsColorEnabled("always", os.Stdout), "always overrides NO_COLOR")
}

func TestForWriter(t *testing.T) {
	var buf bytes.Buffer

	assert.Equal(t, "a", pretty.ForWriter("never", &buf).Heading.Render("a"))
}
