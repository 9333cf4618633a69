package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymUnchecked, SymFavorite            string

	// Lip Gloss side, used by the interactive screens.
	Border  lipgloss.Border
	Palette Palette
}

// Palette holds the 256-color codes the screens render with.
type Palette struct {
	Success, Pending, Accent, Error, Frame, Favorite lipgloss.TerminalColor
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	disableColor = false
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			BoxUnchecked: "◻", BoxChecked: "◼",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•", SymFavorite: "★",
			Border: lipgloss.RoundedBorder(),
			Palette: Palette{
				Success: lipgloss.Color("48"), Pending: lipgloss.Color("227"),
				Accent: lipgloss.Color("51"), Error: lipgloss.Color("197"),
				Frame: lipgloss.Color("201"), Favorite: lipgloss.Color("226"),
			},
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:  "mono",
			Title: "", Muted: "", Accent: "", Success: "", Error: "", Pending: "",
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "x", SymUnchecked: "-", SymFavorite: "*",
			Border: lipgloss.NormalBorder(),
			Palette: Palette{
				Success: lipgloss.NoColor{}, Pending: lipgloss.NoColor{},
				Accent: lipgloss.NoColor{}, Error: lipgloss.NoColor{},
				Frame: lipgloss.NoColor{}, Favorite: lipgloss.NoColor{},
			},
		}
	default: // classic
		current = Theme{
			Name:  "classic",
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow,
			BoxUnchecked: "☐", BoxChecked: "☑",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•", SymFavorite: "★",
			Border: lipgloss.RoundedBorder(),
			Palette: Palette{
				Success: lipgloss.Color("42"), Pending: lipgloss.Color("214"),
				Accent: lipgloss.Color("12"), Error: lipgloss.Color("9"),
				Frame: lipgloss.Color("8"), Favorite: lipgloss.Color("220"),
			},
		}
	}
	styles = newStyles(current)
}

// Expose what renderers need
func Current() Theme { return current }
