package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sportadmin/internal/store"
)

type DeleteState int

const (
	StateIdle DeleteState = iota
	StateSelected
	StateDeleting
)

func (s DeleteState) String() string {
	switch s {
	case StateSelected:
		return "selected"
	case StateDeleting:
		return "deleting"
	default:
		return "idle"
	}
}

type DeleteConfig struct {
	Resource string
	Noun     string
	// URL maps a record id to its delete URL.
	URL     func(id string) string
	Client  Deleter
	Journal Journal
	Logger  *slog.Logger
}

// DeleteResult is the outcome of one confirmed delete. On failure Collection is the input
// collection unchanged.
type DeleteResult struct {
	ID         string
	Collection Collection
	Removed    bool
	Err        error
}

// DeleteFlow is Idle -> Selected -> (Cancel -> Idle) | (Confirm -> Deleting -> Idle).
type DeleteFlow struct {
	cfg     DeleteConfig
	log     *slog.Logger
	state   DeleteState
	pending string
	notice  string
}

func NewDeleteFlow(cfg DeleteConfig) *DeleteFlow {
	log := cfg.Logger
	if log == nil {
		log = discardLogger()
	}
	return &DeleteFlow{cfg: cfg, log: log.With("resource", cfg.Resource)}
}

func (f *DeleteFlow) State() DeleteState { return f.state }

// Pending is the selected id, if any.
func (f *DeleteFlow) Pending() (string, bool) {
	return f.pending, f.state != StateIdle
}

// Prompt is the confirmation question for the pending record.
func (f *DeleteFlow) Prompt() string {
	return fmt.Sprintf("Are you sure you want to delete this %s?", f.cfg.Noun)
}

// Select marks id for deletion and opens the confirmation.
func (f *DeleteFlow) Select(id string) error {
	if f.state != StateIdle {
		return ErrDeletePending
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("select: empty id")
	}
	f.state, f.pending = StateSelected, id
	return nil
}

// Cancel closes the confirmation without a request. It is a no-op while a request is in flight.
func (f *DeleteFlow) Cancel() {
	if f.state != StateSelected {
		return
	}
	record(context.Background(), f.cfg.Journal, f.log, store.Entry{
		Resource: f.cfg.Resource,
		Action:   store.ActionDelete,
		RecordID: f.pending,
		Outcome:  store.OutcomeCancelled,
	})
	f.state, f.pending = StateIdle, ""
}

// Begin moves Selected to Deleting and returns the id to delete.
func (f *DeleteFlow) Begin() (string, error) {
	if f.state != StateSelected {
		return "", ErrNothingPending
	}
	f.state = StateDeleting
	return f.pending, nil
}

// Request sends the DELETE for id. It touches no flow state, so it is safe to run from a
// tea.Cmd between Begin and Finish.
func (f *DeleteFlow) Request(ctx context.Context, id string) error {
	return f.cfg.Client.Delete(ctx, f.cfg.URL(id))
}

// Finish applies the outcome of the request started by Begin and returns to Idle. Outside
// Deleting it changes nothing and returns ErrNothingPending.
func (f *DeleteFlow) Finish(ctx context.Context, coll Collection, reqErr error) DeleteResult {
	if f.state != StateDeleting {
		return DeleteResult{Collection: coll, Err: ErrNothingPending}
	}
	id := f.pending
	f.state, f.pending = StateIdle, ""

	entry := store.Entry{
		Resource: f.cfg.Resource,
		Action:   store.ActionDelete,
		RecordID: id,
		URL:      f.cfg.URL(id),
	}
	if reqErr != nil {
		entry.Outcome = store.OutcomeFailed
		entry.Status, entry.Detail = failureDetail(reqErr)
		record(ctx, f.cfg.Journal, f.log, entry)
		f.log.Error("delete failed", "id", id, "err", reqErr)
		return DeleteResult{ID: id, Collection: coll, Err: reqErr}
	}

	entry.Outcome = store.OutcomeOK
	record(ctx, f.cfg.Journal, f.log, entry)

	// An empty collection means nothing was loaded (CLI deletes by id), not a stale view.
	if _, ok := coll.Find(id); !ok && coll.Len() > 0 {
		f.log.Warn("deleted id was not in the loaded collection", "id", id)
	}
	f.notice = fmt.Sprintf("Successfully removed %s.", f.cfg.Noun)
	return DeleteResult{ID: id, Collection: coll.Without(id), Removed: true}
}

// Confirm runs Begin, one DELETE and Finish synchronously.
func (f *DeleteFlow) Confirm(ctx context.Context, coll Collection) DeleteResult {
	id, err := f.Begin()
	if err != nil {
		return DeleteResult{Collection: coll, Err: err}
	}
	return f.Finish(ctx, coll, f.Request(ctx, id))
}

// Notice is the pending success message, if any.
func (f *DeleteFlow) Notice() string { return f.notice }

func (f *DeleteFlow) DismissNotice() { f.notice = "" }
