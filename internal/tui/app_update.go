package tui

import (
	"errors"
	"fmt"

	"sportadmin/internal/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		if m.view == viewDetail {
			m.refreshDetail()
		}
		return m, nil

	case loadedMsg:
		if msg.seq != m.loadSeq || msg.resource != m.current.Name {
			return m, nil
		}
		m.loading = false
		m.setCollection(workflow.NewCollection(msg.res.Records))
		// Network failures are logged only; the partial list is shown as is.
		if msg.res.Err != nil {
			m.log.Warn("load stopped early", "resource", m.current.Name, "records", len(msg.res.Records), "err", msg.res.Err)
		}
		if m.view == viewDetail {
			if _, ok := m.coll.Find(m.openID); !ok {
				m.view = viewList
			} else {
				m.refreshDetail()
			}
		}
		return m, nil

	case deletedMsg:
		// A delete outlives navigation: it is always finished (and journaled) on its own flow,
		// but only touches the view if that flow is still the current one.
		if msg.flow != m.del {
			// m.coll now belongs to another resource.
			msg.flow.Finish(m.ctx, workflow.NewCollection(nil), msg.err)
			return m, nil
		}
		res := msg.flow.Finish(m.ctx, m.coll, msg.err)
		if res.Err != nil {
			return m, nil
		}
		m.setCollection(res.Collection)
		m.notice = m.del.Notice()
		m.del.DismissNotice()
		if m.view == viewDetail && m.openID == res.ID {
			m.view, m.openID = viewList, ""
		}
		return m, nil

	case createdMsg:
		m.submitting = false
		if m.form == nil || m.create == nil {
			return m, nil
		}
		if verr := msg.res.Validation(); verr != nil {
			m.form.setErrors(verr)
			m.errMsg = "Fix the highlighted fields."
			return m, nil
		}
		if errors.Is(msg.res.Err, workflow.ErrEmptyBody) {
			m.form.setBodyError(m.current.Schema.Body.Label + " is required.")
			return m, nil
		}
		// Submit has logged the failure; the form stays open with the draft intact.
		if msg.res.Err != nil {
			return m, nil
		}
		m.notice = m.create.Notice()
		m.create.DismissNotice()
		m.form = nil
		m.view = viewList
		return m, m.load()

	case editorDoneMsg:
		if m.form != nil {
			if err := m.form.finishEditor(msg.err); err != nil {
				m.errMsg = fmt.Sprintf("Editor: %v", err)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		m.notice, m.errMsg = "", ""
		if m.modal == modalConfirmDelete {
			return m.updateConfirm(msg)
		}
		switch m.view {
		case viewPicker:
			return m.updatePicker(msg)
		case viewList:
			return m.updateList(msg)
		case viewDetail:
			return m.updateDetail(msg)
		case viewCreate:
			return m.updateCreate(msg)
		}
	}

	return m.forward(msg)
}

// forward hands non-key messages (cursor blink, list filtering) to the active component.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewPicker:
		m.picker, cmd = m.picker.Update(msg)
	case viewList:
		m.records, cmd = m.records.Update(msg)
	case viewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case viewCreate:
		if m.form != nil {
			cmd = m.form.update(msg)
		}
	}
	return m, cmd
}

func (m appModel) quit() (tea.Model, tea.Cmd) {
	if m.cancelLoad != nil {
		m.cancelLoad()
	}
	return m, tea.Quit
}

func (m appModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "enter":
		it, ok := m.picker.SelectedItem().(resourceItem)
		if !ok {
			return m, nil
		}
		return m, m.openResource(it.res)
	}
	return m.forward(msg)
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.records.SettingFilter() {
		return m.forward(msg)
	}
	switch msg.String() {
	case "q":
		return m.quit()
	case "esc":
		if m.records.IsFiltered() {
			return m.forward(msg)
		}
		if m.cancelLoad != nil {
			m.cancelLoad()
		}
		m.loading = false
		m.view = viewPicker
		return m, nil
	case "enter":
		id, ok := m.selectedRecordID()
		if !ok {
			return m, nil
		}
		m.openID = id
		m.view = viewDetail
		m.refreshDetail()
		return m, nil
	case "d":
		m.startDelete()
		return m, nil
	case "n":
		return m.startCreate()
	case "r":
		return m, m.load()
	}
	return m.forward(msg)
}

func (m appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "esc", "backspace":
		m.view, m.openID = viewList, ""
		return m, nil
	case "d":
		m.startDelete()
		return m, nil
	case "r":
		return m, m.load()
	}
	return m.forward(msg)
}

func (m *appModel) startDelete() {
	id, ok := m.selectedRecordID()
	if !ok || m.del == nil {
		return
	}
	if err := m.del.Select(id); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.modal = modalConfirmDelete
	m.confirmFocus = confirmFocusCancel
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case "y":
		return m.confirmDelete()
	case "n", "esc", "q":
		m.cancelDelete()
		return m, nil
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.cancelDelete()
		return m, nil
	}
	return m, nil
}

func (m *appModel) cancelDelete() {
	m.del.Cancel()
	m.modal = modalNone
}

// confirmDelete sends exactly one DELETE; the flow stays in Deleting until deletedMsg arrives.
func (m appModel) confirmDelete() (tea.Model, tea.Cmd) {
	m.modal = modalNone
	id, err := m.del.Begin()
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	flow, ctx := m.del, m.ctx
	return m, func() tea.Msg {
		return deletedMsg{flow: flow, id: id, err: flow.Request(ctx, id)}
	}
}

func (m appModel) startCreate() (tea.Model, tea.Cmd) {
	if m.create == nil {
		m.errMsg = fmt.Sprintf("%s cannot be created here.", titleCaser.String(m.current.Plural))
		return m, nil
	}
	m.form = newFormModel(m.create.Schema(), m.width)
	m.view = viewCreate
	return m, nil
}

func (m appModel) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.view = viewList
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.form = nil
		m.view = viewList
		return m, nil
	case "tab", "down":
		if msg.String() == "down" && m.form.focus == len(m.form.inputs) {
			break
		}
		return m, m.form.next()
	case "shift+tab", "up":
		if msg.String() == "up" && m.form.focus == len(m.form.inputs) {
			break
		}
		return m, m.form.prev()
	case "ctrl+e":
		cmd, err := m.form.openEditor()
		if err != nil {
			m.errMsg = fmt.Sprintf("Editor: %v", err)
			return m, nil
		}
		return m, cmd
	case "ctrl+s":
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		flow, ctx := m.create, m.ctx
		values, content := m.form.values(), m.form.content()
		return m, func() tea.Msg {
			return createdMsg{res: flow.Submit(ctx, values, content)}
		}
	}
	return m, m.form.update(msg)
}
