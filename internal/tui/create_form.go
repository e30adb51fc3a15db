package tui

import (
	"fmt"
	"strings"

	"sportadmin/internal/form"
	"sportadmin/internal/richtext"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formModel is the create form: one textinput per schema field plus a textarea for the body.
// focus == len(inputs) means the body has focus.
type formModel struct {
	schema form.Schema
	inputs []textinput.Model
	body   textarea.Model
	focus  int
	scroll int

	errs    *form.ValidationError
	bodyErr string

	// draft is the temp file while the external editor is open.
	draft *richtext.Draft
}

func newFormModel(s form.Schema, width int) *formModel {
	f := &formModel{schema: s}
	for _, fld := range s.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder(fld)
		f.inputs = append(f.inputs, in)
	}
	f.body = textarea.New()
	f.body.Placeholder = "Markdown, or ctrl+e to open $EDITOR"
	f.body.ShowLineNumbers = false
	f.body.CharLimit = 0
	f.body.SetHeight(6)
	f.setWidth(width)
	f.setFocus(0)
	return f
}

func placeholder(fld form.Field) string {
	switch fld.Kind {
	case form.KindChoice:
		labels := make([]string, len(fld.Options))
		for i, o := range fld.Options {
			labels[i] = o.Label
		}
		return strings.Join(labels, " | ")
	case form.KindBool:
		return "true | false"
	case form.KindDate:
		return "YYYY-MM-DD"
	case form.KindURL:
		return "https://"
	case form.KindNumber, form.KindInt:
		return "0"
	}
	return ""
}

func (f *formModel) setWidth(width int) {
	w := width - formLabelWidth - 4
	if w < 10 {
		w = 10
	}
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
	f.body.SetWidth(width - 2)
}

func (f *formModel) fieldCount() int { return len(f.inputs) + 1 }

func (f *formModel) setFocus(i int) tea.Cmd {
	n := f.fieldCount()
	f.focus = ((i % n) + n) % n
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.body.Blur()
	if f.focus == len(f.inputs) {
		return f.body.Focus()
	}
	return f.inputs[f.focus].Focus()
}

func (f *formModel) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *formModel) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// setValue fills a field by its form name; it returns false for unknown names.
func (f *formModel) setValue(name, value string) bool {
	for i, fld := range f.schema.Fields {
		if fld.Name == name {
			f.inputs[i].SetValue(value)
			return true
		}
	}
	return false
}

func (f *formModel) values() form.Values {
	v := form.Values{}
	for i, fld := range f.schema.Fields {
		v[fld.Name] = f.inputs[i].Value()
	}
	return v
}

func (f *formModel) content() richtext.ContentFunc { return richtext.Static(f.body.Value()) }

func (f *formModel) setErrors(verr *form.ValidationError) {
	f.errs = verr
	f.bodyErr = ""
	// Jump to the first failing field.
	if verr != nil && len(verr.Fields) > 0 {
		for i, fld := range f.schema.Fields {
			if fld.Name == verr.Fields[0].Field {
				f.setFocus(i)
				break
			}
		}
	}
}

func (f *formModel) setBodyError(msg string) {
	f.errs = nil
	f.bodyErr = msg
	f.setFocus(len(f.inputs))
}

func (f *formModel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == len(f.inputs) {
		f.body, cmd = f.body.Update(msg)
		return cmd
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// openEditor writes the body to a draft file and suspends the program for $EDITOR.
func (f *formModel) openEditor() (tea.Cmd, error) {
	d, err := richtext.NewDraft(f.body.Value(), ".md")
	if err != nil {
		return nil, err
	}
	f.draft = d
	return tea.ExecProcess(richtext.EditorCommand(d.Path), func(err error) tea.Msg {
		return editorDoneMsg{err: err}
	}), nil
}

// finishEditor reads the draft back into the body. The draft is removed either way.
func (f *formModel) finishEditor(runErr error) error {
	d := f.draft
	f.draft = nil
	if d == nil {
		return nil
	}
	defer d.Remove()
	if runErr != nil {
		return fmt.Errorf("%s: %w", richtext.EditorName(), runErr)
	}
	s, err := d.Read()
	if err != nil {
		return err
	}
	f.body.SetValue(strings.TrimRight(s, "\n"))
	f.setFocus(len(f.inputs))
	return nil
}

func (f *formModel) view(width, height int) string {
	var rows []string
	focusRow := -1
	for i, fld := range f.schema.Fields {
		if i == f.focus {
			focusRow = len(rows)
		}
		label := fld.Label
		if fld.Required {
			label += "*"
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, styleLabel(i == f.focus).Render(label), " ", f.inputs[i].View())
		rows = append(rows, row)
		if msg := f.errs.For(fld.Name); msg != "" {
			rows = append(rows, strings.Repeat(" ", formLabelWidth+1)+styleError().Render(msg))
		}
	}

	// Keep the focused field visible when the form is taller than the screen.
	bodyRows := f.body.Height() + 2
	avail := height - bodyRows
	if avail < 3 {
		avail = 3
	}
	if focusRow >= 0 {
		if focusRow < f.scroll {
			f.scroll = focusRow
		}
		if focusRow >= f.scroll+avail {
			f.scroll = focusRow - avail + 1
		}
	}
	if f.scroll > len(rows) {
		f.scroll = 0
	}
	visible := rows[f.scroll:]
	if len(visible) > avail {
		visible = visible[:avail]
	}

	body := []string{
		strings.Join(visible, "\n"),
		"",
		styleLabel(f.focus == len(f.inputs)).Render(f.schema.Body.Label + "*"),
		f.body.View(),
	}
	if f.bodyErr != "" {
		body = append(body, styleError().Render(f.bodyErr))
	}
	return strings.Join(body, "\n")
}
