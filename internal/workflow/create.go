package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sportadmin/internal/form"
	"sportadmin/internal/model"
	"sportadmin/internal/richtext"
	"sportadmin/internal/store"
)

type CreateConfig struct {
	Resource string
	Noun     string
	URL      string
	Schema   form.Schema
	Client   Creator
	Journal  Journal
	Logger   *slog.Logger
}

// CreateResult is the outcome of one submission. Record is nil on failure, and also on success
// when the backend returned no JSON object.
type CreateResult struct {
	Record  model.Record
	Payload map[string]any
	Err     error
}

// Validation returns the per-field errors if submission was blocked by validation.
func (r CreateResult) Validation() *form.ValidationError {
	var verr *form.ValidationError
	if errors.As(r.Err, &verr) {
		return verr
	}
	return nil
}

type CreateFlow struct {
	cfg    CreateConfig
	log    *slog.Logger
	notice string
}

func NewCreateFlow(cfg CreateConfig) *CreateFlow {
	log := cfg.Logger
	if log == nil {
		log = discardLogger()
	}
	return &CreateFlow{cfg: cfg, log: log.With("resource", cfg.Resource)}
}

func (f *CreateFlow) Schema() form.Schema { return f.cfg.Schema }

// Prepare validates values, reads and normalizes the body, and builds the payload. It sends
// nothing.
func (f *CreateFlow) Prepare(ctx context.Context, values form.Values, content richtext.ContentFunc) (map[string]any, error) {
	if verr := f.cfg.Schema.Validate(values); verr != nil {
		return nil, verr
	}

	raw := ""
	if content != nil {
		s, err := content(ctx)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.cfg.Schema.Body.APIName, err)
		}
		raw = s
	}
	body, err := richtext.Normalize(f.cfg.Schema.Body.Format, raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", f.cfg.Schema.Body.APIName, err)
	}
	if body == "" {
		f.log.Warn("create blocked: empty body", "field", f.cfg.Schema.Body.APIName)
		return nil, ErrEmptyBody
	}

	return f.cfg.Schema.Payload(values, body)
}

// Submit is Prepare followed by a single POST. Nothing is sent if Prepare fails.
func (f *CreateFlow) Submit(ctx context.Context, values form.Values, content richtext.ContentFunc) CreateResult {
	payload, err := f.Prepare(ctx, values, content)
	if err != nil {
		return CreateResult{Err: err}
	}

	rec, err := f.cfg.Client.Create(ctx, f.cfg.URL, payload)
	entry := store.Entry{
		Resource: f.cfg.Resource,
		Action:   store.ActionCreate,
		URL:      f.cfg.URL,
	}
	if err != nil {
		entry.Outcome = store.OutcomeFailed
		entry.Status, entry.Detail = failureDetail(err)
		record(ctx, f.cfg.Journal, f.log, entry)
		f.log.Error("create failed", "status", entry.Status, "body", entry.Detail, "err", err)
		return CreateResult{Payload: payload, Err: err}
	}

	entry.Outcome = store.OutcomeOK
	entry.RecordID = rec.ID()
	record(ctx, f.cfg.Journal, f.log, entry)
	f.notice = fmt.Sprintf("Successfully created %s!", f.cfg.Noun)
	return CreateResult{Record: rec, Payload: payload}
}

func (f *CreateFlow) Notice() string { return f.notice }

func (f *CreateFlow) DismissNotice() { f.notice = "" }
