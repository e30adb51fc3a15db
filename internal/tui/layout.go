package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	modalMaxWidth  = 64
	formLabelWidth = 18
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			switch {
			case width <= 0:
				ln = ""
			case width == 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

func modalWidth(screenW int) int {
	w := screenW - 4
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// modalBodyWidth is the content width inside renderModalBox's padding.
func modalBodyWidth(width int) int {
	if w := width - 4; w > 0 {
		return w
	}
	return 1
}

func renderModalBox(width int, title, body string) string {
	header := lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Bold(true).
		Background(colorModalHeaderBg).
		Foreground(colorSurfaceFg).
		Render(title)
	content := lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Background(colorSurfaceBg).
		Foreground(colorSurfaceFg).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

// placeModal centers box over a blank screen of the given size.
func placeModal(screenW, screenH int, box string) string {
	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, box)
}
