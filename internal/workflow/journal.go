package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"sportadmin/internal/api"
	"sportadmin/internal/model"
	"sportadmin/internal/store"
)

var (
	ErrDeletePending  = errors.New("a delete is already pending")
	ErrNothingPending = errors.New("no delete is pending")
	ErrEmptyBody      = errors.New("body is empty")
)

// Deleter issues one DELETE. *api.Client satisfies it.
type Deleter interface {
	Delete(ctx context.Context, url string) error
}

// Creator issues one POST. *api.Client satisfies it.
type Creator interface {
	Create(ctx context.Context, url string, body any) (model.Record, error)
}

// Journal receives one entry per attempt. *store.Journal satisfies it.
type Journal interface {
	Append(ctx context.Context, e store.Entry) error
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// record appends to j, logging and swallowing failures.
func record(ctx context.Context, j Journal, log *slog.Logger, e store.Entry) {
	if j == nil {
		return
	}
	if err := j.Append(ctx, e); err != nil {
		log.Warn("journal append failed", "resource", e.Resource, "action", e.Action, "err", err)
	}
}

// failureDetail is the status code and body text of a failed request, when there is one.
func failureDetail(err error) (int, string) {
	var se *api.StatusError
	if errors.As(err, &se) {
		return se.StatusCode, se.Body
	}
	return 0, err.Error()
}
