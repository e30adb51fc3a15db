package tui

import (
	"fmt"
	"strings"

	"sportadmin/internal/model"
	"sportadmin/internal/resource"
	"sportadmin/internal/workflow"

	"github.com/charmbracelet/bubbles/list"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// humanize turns an API key like "ticket_price" into "Ticket Price".
func humanize(key string) string {
	return titleCaser.String(strings.NewReplacer("_", " ", ".", " ").Replace(key))
}

type resourceItem struct {
	res    resource.Resource
	count  int
	loaded bool
}

func (i resourceItem) FilterValue() string { return i.res.Name }
func (i resourceItem) Title() string       { return titleCaser.String(i.res.Plural) }
func (i resourceItem) Description() string {
	if i.loaded {
		return fmt.Sprintf("%d loaded", i.count)
	}
	return ""
}

type recordItem struct {
	rec model.Record
	res resource.Resource
}

func (i recordItem) FilterValue() string { return i.res.Title(i.rec) + " " + i.rec.ID() }
func (i recordItem) Title() string       { return i.res.Title(i.rec) }

// Description is the remaining list columns, skipping blanks.
func (i recordItem) Description() string {
	var parts []string
	for n, c := range i.res.Columns {
		if n == 0 {
			parts = append(parts, "#"+i.rec.ID())
			continue
		}
		if v := strings.TrimSpace(c.Value(i.rec)); v != "" && v != i.Title() {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " · ")
}

func resourceItems(rs []resource.Resource, counts map[string]int) []list.Item {
	items := make([]list.Item, 0, len(rs))
	for _, r := range rs {
		n, ok := counts[r.Name]
		items = append(items, resourceItem{res: r, count: n, loaded: ok})
	}
	return items
}

func recordItems(r resource.Resource, coll workflow.Collection) []list.Item {
	recs := coll.Records()
	items := make([]list.Item, 0, len(recs))
	for _, rec := range recs {
		items = append(items, recordItem{rec: rec, res: r})
	}
	return items
}

func newList(title string, items []list.Item, delegate list.ItemDelegate) list.Model {
	l := list.New(items, delegate, 0, 0)
	l.Title = title
	// The app renders its own breadcrumb and footer.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("record", "records")
	// ESC is back, not quit.
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	// d deletes; keep it out of next-page.
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	return l
}
