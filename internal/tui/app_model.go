package tui

import (
	"context"
	"io"
	"log/slog"

	"sportadmin/internal/resource"
	"sportadmin/internal/workflow"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type appModel struct {
	ctx    context.Context
	opts   Options
	log    *slog.Logger
	width  int
	height int

	view  view
	modal modalKind

	picker  list.Model
	records list.Model
	detail  viewport.Model

	// current is the resource shown by the list, detail and create views.
	current resource.Resource
	coll    workflow.Collection
	counts  map[string]int
	openID  string

	loading    bool
	loadSeq    int
	cancelLoad context.CancelFunc

	del          *workflow.DeleteFlow
	confirmFocus confirmModalFocus

	create     *workflow.CreateFlow
	form       *formModel
	submitting bool

	// notice and errMsg show in the footer until the next key press.
	notice string
	errMsg string
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := appModel{
		ctx:    ctx,
		opts:   opts,
		log:    log,
		view:   viewPicker,
		counts: map[string]int{},
		detail: viewport.New(0, 0),
	}
	m.picker = newList("Resources", resourceItems(opts.Resources, m.counts), newCompactItemDelegate())
	m.picker.SetFilteringEnabled(false)
	m.records = newList("", nil, list.NewDefaultDelegate())
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// bodyHeight is the screen minus breadcrumb and footer.
func (m appModel) bodyHeight() int {
	if h := m.height - 3; h > 0 {
		return h
	}
	return 1
}

func (m *appModel) resize() {
	m.picker.SetSize(m.width, m.bodyHeight())
	m.records.SetSize(m.width, m.bodyHeight())
	m.detail.Width = m.width
	m.detail.Height = m.bodyHeight()
	if m.form != nil {
		m.form.setWidth(m.width)
	}
}

// openResource switches the list view to r and starts loading it.
func (m *appModel) openResource(r resource.Resource) tea.Cmd {
	m.current = r
	m.coll = workflow.NewCollection(nil)
	m.openID = ""
	m.del = workflow.NewDeleteFlow(workflow.DeleteConfig{
		Resource: r.Name,
		Noun:     r.Noun,
		URL:      r.DeleteURL,
		Client:   m.opts.Client,
		Journal:  m.opts.Journal,
		Logger:   m.log,
	})
	m.create = nil
	if r.Creatable() {
		m.create = workflow.NewCreateFlow(workflow.CreateConfig{
			Resource: r.Name,
			Noun:     r.Noun,
			URL:      r.CreateURL,
			Schema:   *r.Schema,
			Client:   m.opts.Client,
			Journal:  m.opts.Journal,
			Logger:   m.log,
		})
	}
	m.records = newList(titleCaser.String(r.Plural), nil, list.NewDefaultDelegate())
	m.records.SetSize(m.width, m.bodyHeight())
	m.view = viewList
	return m.load()
}

// load starts a fresh pagination run for the current resource, cancelling any older one.
func (m *appModel) load() tea.Cmd {
	if m.cancelLoad != nil {
		m.cancelLoad()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelLoad = cancel
	m.loadSeq++
	m.loading = true

	seq, r, client := m.loadSeq, m.current, m.opts.Client
	return func() tea.Msg {
		return loadedMsg{seq: seq, resource: r.Name, res: client.LoadAll(ctx, r.ListURL, r.LoadOptions(nil))}
	}
}

func (m *appModel) setCollection(coll workflow.Collection) {
	m.coll = coll
	m.counts[m.current.Name] = coll.Len()
	m.records.SetItems(recordItems(m.current, coll))
	m.picker.SetItems(resourceItems(m.opts.Resources, m.counts))
}

func (m appModel) selectedRecordID() (string, bool) {
	if m.view == viewDetail {
		return m.openID, m.openID != ""
	}
	it, ok := m.records.SelectedItem().(recordItem)
	if !ok {
		return "", false
	}
	return it.rec.ID(), true
}
