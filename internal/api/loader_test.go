package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"sportadmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedServer serves len(sizes) pages under /p1, /p2, ... Page i holds sizes[i-1] records with
// sequential ids. failAt (1-based, 0 = never) answers that page with a 500.
func pagedServer(t *testing.T, field string, sizes []int, failAt int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var page int
		if _, err := fmt.Sscanf(r.URL.Path, "/p%d", &page); err != nil || page < 1 || page > len(sizes) {
			http.NotFound(w, r)
			return
		}
		if page == failAt {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		first := 1
		for i := 0; i < page-1; i++ {
			first += sizes[i]
		}
		items := "["
		for i := 0; i < sizes[page-1]; i++ {
			if i > 0 {
				items += ","
			}
			items += fmt.Sprintf(`{"id":%d}`, first+i)
		}
		items += "]"
		next := "null"
		if page < len(sizes) {
			next = fmt.Sprintf(`"%s/p%d"`, srv.URL, page+1)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"%s":%s,"next":%s}`, field, items, next)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func ids(recs []model.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID())
	}
	return out
}

func TestLoadAll_SumsPagesInOrder(t *testing.T) {
	t.Parallel()

	sizes := []int{3, 1, 0, 4}
	srv, hits := pagedServer(t, "results", sizes, 0)
	c := NewClient(Options{})

	res := c.LoadAll(context.Background(), srv.URL+"/p1", LoadOptions{ItemsField: "results"})
	require.NoError(t, res.Err)
	assert.True(t, res.Complete())
	assert.Equal(t, 4, res.Pages)
	assert.Equal(t, int32(4), hits.Load())
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, ids(res.Records))
}

func TestLoadAll_FirstPageFailureYieldsEmpty(t *testing.T) {
	t.Parallel()

	srv, _ := pagedServer(t, "results", []int{2, 2}, 1)
	c := NewClient(Options{})

	res := c.LoadAll(context.Background(), srv.URL+"/p1", LoadOptions{ItemsField: "results"})
	require.Error(t, res.Err)
	assert.Empty(t, res.Records)
	assert.NotNil(t, res.Records)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(res.Err))
}

func TestLoadAll_LaterPageFailureKeepsPrefix(t *testing.T) {
	t.Parallel()

	srv, hits := pagedServer(t, "results", []int{2, 2, 2, 2}, 3)
	c := NewClient(Options{})

	res := c.LoadAll(context.Background(), srv.URL+"/p1", LoadOptions{ItemsField: "results"})
	var se *StatusError
	require.ErrorAs(t, res.Err, &se)
	assert.Equal(t, "boom", se.Body)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(res.Records))
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, int32(3), hits.Load(), "loop must stop at the failing page")
}

func TestLoadAll_RelativeCursorEndToEnd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/events/":
			fmt.Fprint(w, `{"results":[{"id":1}],"next":"p2"}`)
		case "/api/events/p2":
			fmt.Fprint(w, `{"results":[{"id":2}],"next":null}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	res := NewClient(Options{}).LoadAll(context.Background(), srv.URL+"/api/events/", LoadOptions{ItemsField: "results"})
	require.NoError(t, res.Err)
	assert.Equal(t, []model.Record{{"id": float64(1)}, {"id": float64(2)}}, res.Records)
}

func TestLoadAll_AbsentItemsFieldStillAdvances(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			fmt.Fprint(w, `{"next":"/b"}`)
		case "/b":
			fmt.Fprint(w, `{"data":[{"id":"x"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	res := NewClient(Options{}).LoadAll(context.Background(), srv.URL+"/a", LoadOptions{ItemsField: "data"})
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, []string{"x"}, ids(res.Records))
}

func TestLoadAll_NonObjectItemsAreSkippedAndLogged(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":1},5,"x",null]}`)
	}))
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	c := NewClient(Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	res := c.LoadAll(context.Background(), srv.URL, LoadOptions{ItemsField: "results"})
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"1"}, ids(res.Records))
	assert.Contains(t, logs.String(), "skipped non-object items")
	assert.Contains(t, logs.String(), "skipped=3")
}

func TestLoadAll_SendsBearerOnlyWhenAuth(t *testing.T) {
	t.Parallel()

	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"results":[]}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{Token: "tok"})
	res := c.LoadAll(context.Background(), srv.URL, LoadOptions{ItemsField: "results", Auth: true})
	require.NoError(t, res.Err)
	assert.Equal(t, "Bearer tok", gotAuth.Load())

	res = c.LoadAll(context.Background(), srv.URL, LoadOptions{ItemsField: "results"})
	require.NoError(t, res.Err)
	assert.Equal(t, "", gotAuth.Load())
}

func TestLoadAll_FilterKeepsPagination(t *testing.T) {
	t.Parallel()

	srv, _ := pagedServer(t, "data", []int{3, 3}, 0)
	even := func(r model.Record) bool {
		v, _ := r["id"].(float64)
		return int(v)%2 == 0
	}
	res := NewClient(Options{}).LoadAll(context.Background(), srv.URL+"/p1", LoadOptions{ItemsField: "data", Filter: even})
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"2", "4", "6"}, ids(res.Records))
}

func TestLoadAll_CursorCycleStops(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":1}],"next":"/same"}`)
	}))
	t.Cleanup(srv.Close)

	res := NewClient(Options{}).LoadAll(context.Background(), srv.URL+"/same", LoadOptions{ItemsField: "results"})
	assert.True(t, errors.Is(res.Err, ErrCursorCycle))
	assert.Len(t, res.Records, 1)
}

func TestLoadAll_TransportAndDecodeErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	t.Cleanup(srv.Close)

	res := NewClient(Options{}).LoadAll(context.Background(), srv.URL, LoadOptions{ItemsField: "results"})
	var de *DecodeError
	require.ErrorAs(t, res.Err, &de)
	assert.Empty(t, res.Records)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	res = NewClient(Options{}).LoadAll(context.Background(), closedURL, LoadOptions{ItemsField: "results"})
	var te *TransportError
	require.ErrorAs(t, res.Err, &te)
	assert.Empty(t, res.Records)
}

func TestLoadAll_CancelledContext(t *testing.T) {
	t.Parallel()

	srv, hits := pagedServer(t, "results", []int{1, 1}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewClient(Options{}).LoadAll(ctx, srv.URL+"/p1", LoadOptions{ItemsField: "results"})
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Empty(t, res.Records)
	assert.Equal(t, int32(0), hits.Load())
}
