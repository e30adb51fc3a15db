package tui

import (
	"fmt"
	"sort"
	"strings"

	"sportadmin/internal/model"
	"sportadmin/internal/resource"
	"sportadmin/internal/richtext"
	"sportadmin/internal/workflow"

	"github.com/charmbracelet/lipgloss"
)

const (
	helpPicker = "enter: open   q: quit"
	helpList   = "enter: view   d: delete   n: new   r: reload   /: filter   esc: back   q: quit"
	helpDetail = "↑/↓: scroll   d: delete   r: reload   esc: back   q: quit"
	helpCreate = "tab/shift+tab: field   ctrl+e: $EDITOR   ctrl+s: submit   esc: cancel"
)

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.modal == modalConfirmDelete && m.del != nil {
		w := modalWidth(m.width)
		box := renderConfirmModal(w, "Delete "+m.current.Noun, m.del.Prompt(), "Yes, I'm sure", "No, cancel", m.confirmFocus)
		return placeModal(m.width, m.height, box)
	}

	var body, help string
	switch m.view {
	case viewPicker:
		body, help = m.picker.View(), helpPicker
	case viewList:
		body, help = m.listBody(), helpList
		if !m.current.Creatable() {
			help = strings.Replace(help, "n: new   ", "", 1)
		}
	case viewDetail:
		body, help = m.detail.View(), helpDetail
	case viewCreate:
		if m.form != nil {
			body = m.form.view(m.width, m.bodyHeight())
		}
		help = helpCreate
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		normalizePane(m.breadcrumb(), m.width, 1),
		normalizePane(body, m.width, m.bodyHeight()),
		normalizePane(m.status(), m.width, 1),
		normalizePane(styleMuted().Render(help), m.width, 1),
	)
}

func (m appModel) breadcrumb() string {
	parts := []string{"sportadmin"}
	if m.view != viewPicker {
		parts = append(parts, titleCaser.String(m.current.Plural))
	}
	switch m.view {
	case viewDetail:
		if rec, ok := m.coll.Find(m.openID); ok {
			parts = append(parts, m.current.Title(rec))
		}
	case viewCreate:
		parts = append(parts, "New "+m.current.Noun)
	}
	return styleHeading().Render(strings.Join(parts, " › "))
}

func (m appModel) listBody() string {
	if m.loading && m.coll.Len() == 0 {
		return styleMuted().Render(fmt.Sprintf("Loading %s…", m.current.Plural))
	}
	if !m.loading && m.coll.Len() == 0 {
		return styleMuted().Render(fmt.Sprintf("No %s.", m.current.Plural))
	}
	return m.records.View()
}

func (m appModel) status() string {
	switch {
	case m.errMsg != "":
		return styleError().Render(m.errMsg)
	case m.notice != "":
		return styleNotice().Render(m.notice)
	case m.del != nil && m.del.State() == workflow.StateDeleting:
		return styleMuted().Render("Deleting…")
	case m.submitting:
		return styleMuted().Render("Submitting…")
	case m.loading:
		return styleMuted().Render("Loading…")
	case m.view == viewList:
		return styleMuted().Render(fmt.Sprintf("%d %s", m.coll.Len(), m.current.Plural))
	}
	return ""
}

func (m *appModel) refreshDetail() {
	rec, ok := m.coll.Find(m.openID)
	if !ok {
		m.detail.SetContent("")
		return
	}
	m.detail.SetContent(renderDetail(m.current, rec, m.width))
	m.detail.GotoTop()
}

// renderDetail is the record's fields as "Label: value" lines followed by the rendered body.
func renderDetail(r resource.Resource, rec model.Record, width int) string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		if k == r.BodyKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	label := lipgloss.NewStyle().Width(formLabelWidth).Foreground(colorChromeMutedFg)
	lines := []string{lipgloss.NewStyle().Bold(true).Render(r.Title(rec)), ""}
	for _, k := range keys {
		v := rec.String(k)
		if v == "" {
			continue
		}
		lines = append(lines, label.Render(humanize(k))+" "+v)
	}

	if r.BodyKey != "" {
		if body := strings.TrimSpace(rec.String(r.BodyKey)); body != "" {
			lines = append(lines, "", richtext.Render(body, width))
		}
	}
	return strings.Join(lines, "\n")
}
