package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"sportadmin/internal/model"

	"github.com/tidwall/gjson"
)

type LoadOptions struct {
	// ItemsField is the gjson path of the page's item array ("results", "data").
	// Empty means the page body itself is the array.
	ItemsField string
	// NextField is the gjson path of the continuation cursor. Defaults to "next".
	NextField string
	// Auth attaches the bearer credential to every page request.
	Auth bool
	// Filter, when set, drops records for which it returns false. Dropped records still count
	// as fetched; pagination is unaffected.
	Filter func(model.Record) bool
}

// LoadResult is the outcome of one full pagination run.
//
// Records always holds everything accumulated before the loop stopped, in page order.
// Err is nil when the cursor chain was exhausted; otherwise it explains why the loop stopped
// early and Records is a (possibly empty) prefix of the collection.
type LoadResult struct {
	Records []model.Record
	Pages   int
	Err     error
}

func (r LoadResult) Complete() bool { return r.Err == nil }

// LoadAll follows the next-cursor chain from startURL until it is exhausted, accumulating every
// page's items. Each call is a fresh run from startURL; nothing is carried over between calls.
func (c *Client) LoadAll(ctx context.Context, startURL string, opts LoadOptions) LoadResult {
	nextField := opts.NextField
	if nextField == "" {
		nextField = "next"
	}

	out := LoadResult{Records: []model.Record{}}
	seen := map[string]bool{}
	cur := strings.TrimSpace(startURL)

	for cur != "" {
		if seen[cur] {
			out.Err = ErrCursorCycle
			break
		}
		seen[cur] = true

		body, err := c.get(ctx, cur, opts.Auth)
		if err != nil {
			out.Err = err
			break
		}
		items, next, skipped, err := decodePage(cur, body, opts.ItemsField, nextField)
		if err != nil {
			out.Err = err
			break
		}
		out.Pages++
		if skipped > 0 {
			c.log.Warn("skipped non-object items", "url", cur, "skipped", skipped, "kept", len(items))
		}
		for _, rec := range items {
			if opts.Filter != nil && !opts.Filter(rec) {
				continue
			}
			out.Records = append(out.Records, rec)
		}

		if next == "" {
			break
		}
		resolved, err := resolveCursor(cur, next)
		if err != nil {
			out.Err = &DecodeError{URL: cur, Err: err}
			break
		}
		cur = resolved
	}

	if out.Err != nil {
		if errors.Is(out.Err, context.Canceled) {
			c.log.Info("load cancelled", "start", startURL, "pages", out.Pages)
		} else {
			c.log.Error("load stopped early", "start", startURL, "pages", out.Pages, "records", len(out.Records), "err", out.Err)
		}
	} else {
		c.log.Debug("load complete", "start", startURL, "pages", out.Pages, "records", len(out.Records))
	}
	return out
}

// decodePage returns the page's object items, its next cursor and how many array elements were
// not objects (and so not records).
func decodePage(pageURL string, body []byte, itemsField, nextField string) ([]model.Record, string, int, error) {
	if !gjson.ValidBytes(body) {
		return nil, "", 0, &DecodeError{URL: pageURL, Err: errors.New("invalid json")}
	}

	var arr gjson.Result
	if itemsField == "" {
		arr = gjson.ParseBytes(body)
	} else {
		arr = gjson.GetBytes(body, itemsField)
	}

	var (
		items   []model.Record
		skipped int
	)
	if arr.IsArray() {
		var decodeErr error
		arr.ForEach(func(_, v gjson.Result) bool {
			if !v.IsObject() {
				skipped++
				return true
			}
			var rec model.Record
			if err := json.Unmarshal([]byte(v.Raw), &rec); err != nil {
				decodeErr = err
				return false
			}
			items = append(items, rec)
			return true
		})
		if decodeErr != nil {
			return nil, "", 0, &DecodeError{URL: pageURL, Err: decodeErr}
		}
	}

	next := ""
	if n := gjson.GetBytes(body, nextField); n.Type == gjson.String {
		next = strings.TrimSpace(n.Str)
	}
	return items, next, skipped, nil
}

// resolveCursor makes a (possibly relative) next cursor absolute against the page it came from.
func resolveCursor(base, next string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	n, err := url.Parse(next)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(n).String(), nil
}
