package api

import (
	"net/url"
	"strings"
)

// JoinURL joins a base URL and an endpoint path the way the dashboard concatenated them
// (base + endpoint), tolerating a missing or doubled slash at the seam. An endpoint that is
// already absolute is returned unchanged.
func JoinURL(base, endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if u, err := url.Parse(endpoint); err == nil && u.IsAbs() {
		return endpoint
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if endpoint == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(endpoint, "/")
}

// RecordURL is the per-record URL: {base}{endpoint}{id}/.
func RecordURL(base, endpoint, id string) string {
	u := JoinURL(base, endpoint)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u + url.PathEscape(strings.TrimSpace(id)) + "/"
}
