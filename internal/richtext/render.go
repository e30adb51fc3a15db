package richtext

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	renderMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle is avoided because its terminal queries can
	// block; a fixed style plus a cache keeps preview rendering fast.
	renderers = map[string]*glamour.TermRenderer{}
)

// Render formats Markdown for the terminal, wrapped at width. HTML bodies are reduced to text
// first. On any renderer error the input is returned unchanged.
func Render(src string, width int) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	if looksLikeHTML.MatchString(src) {
		src = PlainText(src)
	}
	if width < 10 {
		width = 10
	}

	style := Style()
	key := style + ":" + strconv.Itoa(width)

	renderMu.Lock()
	r := renderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			renderMu.Unlock()
			return src
		}
		renderers[key] = rr
		r = rr
	}
	renderMu.Unlock()

	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

// Style picks "dark" or "light". SPORTADMIN_MD_STYLE wins, then COLORFGBG, then lipgloss's
// background detection.
func Style() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SPORTADMIN_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	case "notty", "ascii":
		return "notty"
	}
	// COLORFGBG is "fg;bg"; xterm palette 0-6 are dark backgrounds.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
