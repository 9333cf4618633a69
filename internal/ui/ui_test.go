package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/todocrm/internal/ui"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ui.ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ui.ProgressBar(0, 0, 1))
	assert.Equal(t, "█████ 100%", ui.ProgressBar(7, 7, 5))
}

func TestPanelUsesThemeCorners(t *testing.T) {
	ui.SetTheme("mono")
	defer ui.SetTheme("classic")

	out := ui.Panel([]string{"a", "abc"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{
		"+-----+",
		"| a   |",
		"| abc |",
		"+-----+",
	}, lines)
}

func TestOKAndFailWithoutColor(t *testing.T) {
	ui.SetTheme("mono")
	defer ui.SetTheme("classic")

	var buf bytes.Buffer
	ui.OK(&buf, "saved")
	ui.Fail(&buf, "nope")
	assert.Equal(t, "✔ saved\n✖ nope\n", buf.String())
}

func TestOKAndFailFollowTheirWriter(t *testing.T) {
	ui.SetTheme("classic")

	var buf bytes.Buffer
	ui.Fail(&buf, "nope")
	assert.Equal(t, "✖ nope\n", buf.String(), "a buffer is never a terminal")

	ui.SetColorForcing(true, false)
	defer ui.SetColorForcing(false, false)
	buf.Reset()
	ui.Fail(&buf, "nope")
	assert.Contains(t, buf.String(), "\033[")
	assert.Contains(t, buf.String(), "✖ nope")
}

func TestUnknownThemeFallsBackToClassic(t *testing.T) {
	ui.SetTheme("sparkly")
	assert.Equal(t, "classic", ui.Current().Name)
	assert.Equal(t, "☑", ui.Current().BoxChecked)
}
