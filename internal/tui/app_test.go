package tui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"sportadmin/internal/api"
	"sportadmin/internal/config"
	"sportadmin/internal/model"
	"sportadmin/internal/resource"
	"sportadmin/internal/store"
	"sportadmin/internal/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("SPORTADMIN_MD_STYLE", "notty")
	os.Exit(m.Run())
}

const testBase = "http://backend.test"

type fakeClient struct {
	mu sync.Mutex

	// pages holds the records served per list URL, one slice per successive call; the last
	// slice repeats.
	pages     map[string][][]model.Record
	calls     map[string]int
	loadErr   error
	deleteErr error
	createErr error

	deletes []string
	creates []any
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages: map[string][][]model.Record{
			testBase + "/api/events/": {{
				{"id": float64(7), "title": "International Football Cup", "date": "2024-06-01T09:30:00Z", "ticket_price": float64(5), "description": "Opening **match**"},
				{"id": float64(8), "title": "Bokator Open", "date": "2024-07-01T09:30:00Z"},
			}},
			testBase + "/api/contents/": {{
				{"id": "n1", "content_type": "news", "title": "Hello"},
				{"id": "h1", "content_type": "history-of-bokator", "title": "Origins"},
			}},
			testBase + "/api/users/": {{
				{"id": "u1", "username": "sok"},
			}},
		},
		calls: map[string]int{},
	}
}

func (c *fakeClient) LoadAll(_ context.Context, url string, opts api.LoadOptions) api.LoadResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := c.pages[url]
	n := c.calls[url]
	c.calls[url]++
	var recs []model.Record
	if len(seq) > 0 {
		if n >= len(seq) {
			n = len(seq) - 1
		}
		for _, r := range seq[n] {
			if opts.Filter == nil || opts.Filter(r) {
				recs = append(recs, r)
			}
		}
	}
	return api.LoadResult{Records: recs, Pages: 1, Err: c.loadErr}
}

func (c *fakeClient) Delete(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, url)
	return c.deleteErr
}

func (c *fakeClient) Create(_ context.Context, _ string, body any) (model.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creates = append(c.creates, body)
	if c.createErr != nil {
		return nil, c.createErr
	}
	return model.Record{"id": "new"}, nil
}

type memJournal struct {
	mu      sync.Mutex
	entries []store.Entry
}

func (j *memJournal) Append(_ context.Context, e store.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *memJournal) outcomes() []store.Outcome {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]store.Outcome, len(j.entries))
	for i, e := range j.entries {
		out[i] = e.Outcome
	}
	return out
}

func newTestModel(t *testing.T, c *fakeClient, j *memJournal) appModel {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = testBase
	opts := Options{Resources: resource.Registry(cfg), Client: c}
	if j != nil {
		opts.Journal = j
	}
	m := newAppModel(context.Background(), opts)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(appModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am, cmd
}

func press(t *testing.T, m appModel, keys ...string) (appModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = update(t, m, key(k))
	}
	return m, cmd
}

// run executes cmd once and feeds its message back.
func run(t *testing.T, m appModel, cmd tea.Cmd) (appModel, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	return update(t, m, cmd())
}

// open selects the n-th resource in the picker and finishes its load.
func open(t *testing.T, m appModel, n int) appModel {
	t.Helper()
	for i := 0; i < n; i++ {
		m, _ = press(t, m, "down")
	}
	m, cmd := press(t, m, "enter")
	if m.view != viewList {
		t.Fatalf("view = %v, want list", m.view)
	}
	m, _ = run(t, m, cmd)
	return m
}

func TestOpenResourceLoadsRecords(t *testing.T) {
	t.Parallel()

	m := open(t, newTestModel(t, newFakeClient(), nil), 0)
	if m.current.Name != "events" || m.coll.Len() != 2 || m.loading {
		t.Fatalf("current=%s len=%d loading=%v", m.current.Name, m.coll.Len(), m.loading)
	}
	v := m.View()
	for _, want := range []string{"sportadmin › Events", "International Football Cup", "2 events"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}

	m, _ = press(t, m, "esc")
	if m.view != viewPicker || !strings.Contains(m.View(), "2 loaded") {
		t.Fatalf("picker after esc:\n%s", m.View())
	}
}

func TestSharedEndpointIsFiltered(t *testing.T) {
	t.Parallel()

	m := open(t, newTestModel(t, newFakeClient(), nil), 3)
	if m.current.Name != "history" {
		t.Fatalf("current = %s", m.current.Name)
	}
	if _, ok := m.coll.Find("h1"); !ok || m.coll.Len() != 1 {
		t.Fatalf("history collection = %v", m.coll.Records())
	}
}

func TestStaleLoadIsIgnored(t *testing.T) {
	t.Parallel()

	c := newFakeClient()
	url := testBase + "/api/events/"
	c.pages[url] = [][]model.Record{
		{{"id": "old"}},
		{{"id": "new1"}, {"id": "new2"}},
	}
	m := newTestModel(t, c, nil)
	m, first := press(t, m, "enter")
	m, second := press(t, m, "r")

	stale, fresh := first(), second()
	m, _ = update(t, m, fresh)
	m, _ = update(t, m, stale)

	if m.coll.Len() != 2 {
		t.Fatalf("collection = %v, want the newer load", m.coll.Records())
	}
	if _, ok := m.coll.Find("old"); ok {
		t.Fatalf("stale load overwrote the collection")
	}
}

func TestPartialLoadKeepsRecords(t *testing.T) {
	t.Parallel()

	c := newFakeClient()
	c.loadErr = &api.StatusError{Method: "GET", URL: testBase + "/api/events/", StatusCode: 502}
	m := open(t, newTestModel(t, c, nil), 0)

	if m.coll.Len() != 2 {
		t.Fatalf("partial records should be kept: %d", m.coll.Len())
	}
	if m.errMsg != "" || m.loading {
		t.Fatalf("network failures are not shown: errMsg=%q loading=%v", m.errMsg, m.loading)
	}
}

func TestDeleteConfirm(t *testing.T) {
	t.Parallel()

	c, j := newFakeClient(), &memJournal{}
	m := open(t, newTestModel(t, c, j), 0)

	m, _ = press(t, m, "d")
	if m.modal != modalConfirmDelete {
		t.Fatalf("modal = %v", m.modal)
	}
	v := m.View()
	for _, want := range []string{"Are you sure you want to delete this event?", "Yes, I'm sure", "No, cancel"} {
		if !strings.Contains(v, want) {
			t.Fatalf("modal missing %q:\n%s", want, v)
		}
	}

	m, cmd := press(t, m, "tab", "enter")
	if m.del.State() != workflow.StateDeleting || m.modal != modalNone {
		t.Fatalf("state = %v modal = %v", m.del.State(), m.modal)
	}
	// A second delete cannot start while one is in flight.
	m, _ = press(t, m, "d")
	if m.modal != modalNone || !strings.Contains(m.errMsg, "already pending") {
		t.Fatalf("second delete: modal=%v err=%q", m.modal, m.errMsg)
	}

	m, _ = run(t, m, cmd)
	if len(c.deletes) != 1 || c.deletes[0] != testBase+"/api/events/7/" {
		t.Fatalf("deletes = %v", c.deletes)
	}
	if m.coll.Len() != 1 {
		t.Fatalf("collection = %v", m.coll.Records())
	}
	if _, ok := m.coll.Find("8"); !ok {
		t.Fatalf("wrong record removed: %v", m.coll.Records())
	}
	if m.notice != "Successfully removed event." {
		t.Fatalf("notice = %q", m.notice)
	}
	if got := j.outcomes(); len(got) != 1 || got[0] != store.OutcomeOK {
		t.Fatalf("journal = %v", got)
	}
}

func TestDeleteCancel(t *testing.T) {
	t.Parallel()

	for _, keys := range [][]string{{"esc"}, {"n"}, {"enter"}} {
		c, j := newFakeClient(), &memJournal{}
		m := open(t, newTestModel(t, c, j), 0)

		m, _ = press(t, m, "d")
		m, cmd := press(t, m, keys...)
		if cmd != nil || m.modal != modalNone || m.del.State() != workflow.StateIdle {
			t.Fatalf("%v: cmd=%v modal=%v state=%v", keys, cmd != nil, m.modal, m.del.State())
		}
		if len(c.deletes) != 0 || m.coll.Len() != 2 {
			t.Fatalf("%v: deletes=%v len=%d", keys, c.deletes, m.coll.Len())
		}
		if got := j.outcomes(); len(got) != 1 || got[0] != store.OutcomeCancelled {
			t.Fatalf("%v: journal = %v", keys, got)
		}
	}
}

func TestDeleteFailureKeepsRecord(t *testing.T) {
	t.Parallel()

	c := newFakeClient()
	c.deleteErr = &api.StatusError{Method: "DELETE", URL: testBase + "/api/events/7/", StatusCode: 403}
	m := open(t, newTestModel(t, c, nil), 0)

	m, cmd := press(t, m, "d", "y")
	m, _ = run(t, m, cmd)
	if m.coll.Len() != 2 || m.notice != "" {
		t.Fatalf("len=%d notice=%q", m.coll.Len(), m.notice)
	}
	if m.errMsg != "" || m.modal != modalNone {
		t.Fatalf("errMsg=%q modal=%v", m.errMsg, m.modal)
	}
	if m.del.State() != workflow.StateIdle {
		t.Fatalf("state = %v", m.del.State())
	}
}

func TestDeleteFinishesAfterSwitchingResource(t *testing.T) {
	t.Parallel()

	c, j := newFakeClient(), &memJournal{}
	var logs bytes.Buffer
	m := newTestModel(t, c, j)
	m.log = slog.New(slog.NewTextHandler(&logs, nil))
	m.opts.Logger = m.log
	m = open(t, m, 0)

	m, cmd := press(t, m, "d", "y")
	m, _ = press(t, m, "esc")
	m = open(t, m, 2)
	if m.current.Name != "news" {
		t.Fatalf("current = %s", m.current.Name)
	}

	m, _ = run(t, m, cmd)
	if len(c.deletes) != 1 || c.deletes[0] != testBase+"/api/events/7/" {
		t.Fatalf("deletes = %v", c.deletes)
	}
	if got := j.outcomes(); len(got) != 1 || got[0] != store.OutcomeOK {
		t.Fatalf("journal = %v", got)
	}
	if m.coll.Len() != 1 || m.notice != "" {
		t.Fatalf("news view changed: len=%d notice=%q", m.coll.Len(), m.notice)
	}
	if strings.Contains(logs.String(), "not in the loaded collection") {
		t.Fatalf("finished against the wrong collection:\n%s", logs.String())
	}
}

func TestDetailAndDeleteFromDetail(t *testing.T) {
	t.Parallel()

	c := newFakeClient()
	m := open(t, newTestModel(t, c, nil), 0)

	m, _ = press(t, m, "enter")
	if m.view != viewDetail || m.openID != "7" {
		t.Fatalf("view=%v openID=%q", m.view, m.openID)
	}
	v := m.View()
	for _, want := range []string{"International Football Cup", "Ticket Price", "Opening"} {
		if !strings.Contains(v, want) {
			t.Fatalf("detail missing %q:\n%s", want, v)
		}
	}

	m, cmd := press(t, m, "d", "y")
	m, _ = run(t, m, cmd)
	if m.view != viewList || m.coll.Len() != 1 {
		t.Fatalf("after delete: view=%v len=%d", m.view, m.coll.Len())
	}
}

func TestCreateSubmit(t *testing.T) {
	t.Parallel()

	c, j := newFakeClient(), &memJournal{}
	m := open(t, newTestModel(t, c, j), 2)
	if m.current.Name != "news" {
		t.Fatalf("current = %s", m.current.Name)
	}

	m, _ = press(t, m, "n")
	if m.view != viewCreate || m.form == nil {
		t.Fatalf("view = %v", m.view)
	}
	for name, v := range map[string]string{"slug": "cup", "title": "Cup", "thumbnail": "https://img.test/a.png"} {
		if !m.form.setValue(name, v) {
			t.Fatalf("unknown field %q", name)
		}
	}
	m.form.body.SetValue("Hello")

	m, cmd := press(t, m, "ctrl+s")
	if !m.submitting {
		t.Fatalf("expected submitting")
	}
	// A second ctrl+s while submitting sends nothing.
	if _, again := press(t, m, "ctrl+s"); again != nil {
		t.Fatalf("double submit")
	}

	m, reload := run(t, m, cmd)
	if len(c.creates) != 1 {
		t.Fatalf("creates = %v", c.creates)
	}
	payload := c.creates[0].(map[string]any)
	if payload["content_type"] != "news" || payload["body"] != "Hello" || payload["is_draft"] != false {
		t.Fatalf("payload = %v", payload)
	}
	if m.view != viewList || m.form != nil || m.notice != "Successfully created news!" {
		t.Fatalf("view=%v notice=%q", m.view, m.notice)
	}
	if reload == nil {
		t.Fatalf("expected a reload after create")
	}
	if got := j.outcomes(); len(got) != 1 || got[0] != store.OutcomeOK {
		t.Fatalf("journal = %v", got)
	}
}

func TestCreateValidationAndEmptyBody(t *testing.T) {
	t.Parallel()

	c := newFakeClient()
	m := open(t, newTestModel(t, c, nil), 2)
	m, _ = press(t, m, "n")

	m, cmd := press(t, m, "ctrl+s")
	m, _ = run(t, m, cmd)
	if m.form == nil || m.view != viewCreate {
		t.Fatalf("form should stay open")
	}
	if got := m.form.errs.For("title"); got != "Title is required" {
		t.Fatalf("title error = %q", got)
	}
	if !strings.Contains(m.View(), "Slug is required") {
		t.Fatalf("inline errors missing:\n%s", m.View())
	}

	m.form.setValue("slug", "cup")
	m.form.setValue("title", "Cup")
	m.form.setValue("thumbnail", "https://img.test/a.png")
	m.form.body.SetValue("   ")
	m, cmd = press(t, m, "ctrl+s")
	m, _ = run(t, m, cmd)
	if m.form.bodyErr != "Body is required." {
		t.Fatalf("bodyErr = %q", m.form.bodyErr)
	}
	if len(c.creates) != 0 {
		t.Fatalf("creates = %v", c.creates)
	}

	m, _ = press(t, m, "esc")
	if m.view != viewList || m.form != nil {
		t.Fatalf("esc should discard the form")
	}
}

func TestCreateFailureKeepsForm(t *testing.T) {
	t.Parallel()

	c := newFakeClient()
	c.createErr = errors.New("boom")
	m := open(t, newTestModel(t, c, nil), 2)
	m, _ = press(t, m, "n")
	m.form.setValue("slug", "cup")
	m.form.setValue("title", "Cup")
	m.form.setValue("thumbnail", "https://img.test/a.png")
	m.form.body.SetValue("Hello")

	m, cmd := press(t, m, "ctrl+s")
	m, _ = run(t, m, cmd)
	if m.view != viewCreate || m.form == nil || m.submitting || m.notice != "" {
		t.Fatalf("view=%v submitting=%v notice=%q", m.view, m.submitting, m.notice)
	}
	if got := m.form.values()["title"]; got != "Cup" {
		t.Fatalf("draft lost: title = %q", got)
	}
	if len(c.creates) != 1 {
		t.Fatalf("creates = %v", c.creates)
	}
}

func TestCreateNotOffered(t *testing.T) {
	t.Parallel()

	m := open(t, newTestModel(t, newFakeClient(), nil), 4)
	if m.current.Name != "users" {
		t.Fatalf("current = %s", m.current.Name)
	}
	m, _ = press(t, m, "n")
	if m.view != viewList || m.form != nil {
		t.Fatalf("users should not open a form")
	}
	if strings.Contains(m.View(), "n: new") {
		t.Fatalf("help should not offer n for users")
	}
}

func TestHumanize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"ticket_price":       "Ticket Price",
		"contact_info.email": "Contact Info Email",
		"title":              "Title",
	}
	for in, want := range tests {
		if got := humanize(in); got != want {
			t.Fatalf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
