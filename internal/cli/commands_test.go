package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sportadmin/internal/form"
	"sportadmin/internal/workflow"

	"github.com/golang-jwt/jwt/v5"
)

func newsArgs(extra ...string) []string {
	return append([]string{"news", "create", "--slug", "cup", "--title", "Cup", "--thumbnail", "https://img.test/cup.png"}, extra...)
}

func TestCreate_News(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	out := e.mustRun(append([]string{"--token", "secret"}, newsArgs("--is-draft", "--body", "Hello **world**")...)...)

	if got := out["meta"].(map[string]any)["notice"]; got != "Successfully created news!" {
		t.Fatalf("notice = %v", got)
	}
	if got := out["data"].(map[string]any)["id"]; got != "n9" {
		t.Fatalf("record = %v", out["data"])
	}

	req, ok := e.srv.last("POST")
	if !ok || e.srv.count("POST") != 1 {
		t.Fatalf("expected one POST")
	}
	if req.Path != "/api/contents/" || req.Auth != "Bearer secret" {
		t.Fatalf("request = %+v", req)
	}
	want := map[string]any{
		"content_type": "news",
		"slug":         "cup",
		"title":        "Cup",
		"thumbnail":    "https://img.test/cup.png",
		"is_draft":     true,
		"body":         "Hello **world**",
	}
	for k, v := range want {
		if req.Body[k] != v {
			t.Fatalf("payload[%s] = %v, want %v (payload %v)", k, req.Body[k], v, req.Body)
		}
	}

	entries := e.mustRun("journal", "list")["data"].([]any)
	entry := entries[0].(map[string]any)
	if entry["action"] != "create" || entry["outcome"] != "ok" || entry["recordId"] != "n9" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestCreate_ValidationBlocksRequest(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	_, stderr, err := runCLI(t, e.args("news", "create", "--slug", "cup", "--thumbnail", "not a url", "--body", "x"))

	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, want := range []string{"title: Title is required", "thumbnail: Invalid URL"} {
		if !strings.Contains(string(stderr), want) {
			t.Fatalf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if got := e.srv.count("POST"); got != 0 {
		t.Fatalf("POST requests = %d, want 0", got)
	}
}

func TestCreate_EmptyBody(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	for _, args := range [][]string{newsArgs(), newsArgs("--body", "   \n")} {
		_, _, err := runCLI(t, e.args(args...))
		if !errors.Is(err, workflow.ErrEmptyBody) {
			t.Fatalf("%v: err = %v, want ErrEmptyBody", args, err)
		}
	}
	if got := e.srv.count("POST"); got != 0 {
		t.Fatalf("POST requests = %d, want 0", got)
	}

	_, _, err := runCLI(t, e.args(newsArgs("--body", "a", "--editor")...))
	if !errors.Is(err, errBodySources) {
		t.Fatalf("err = %v, want errBodySources", err)
	}
}

func TestCreate_BodyFromStdinDryRun(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	out := e.mustRunWithInput("From stdin\n", newsArgs("--body-file", "-", "--dry-run")...)

	data := out["data"].(map[string]any)
	if data["body"] != "From stdin" || data["is_draft"] != false {
		t.Fatalf("payload = %v", data)
	}
	if out["meta"].(map[string]any)["dryRun"] != true {
		t.Fatalf("meta = %v", out["meta"])
	}
	if got := e.srv.count("POST"); got != 0 {
		t.Fatalf("dry run sent %d POST requests", got)
	}
}

func TestCreate_ClubHTMLBody(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	out := e.mustRun("clubs", "create", "--dry-run",
		"--sport-category", "Football", "--slug", "fc", "--sport-name", "FC",
		"--latitude", "11.5", "--longitude", "104.9", "--seat-number", "300",
		"--skill-level", "all", "--price", "10", "--email", "fc@club.test",
		"--body", "Hello <script>alert(1)</script>**club**")

	data := out["data"].(map[string]any)
	desc, _ := data["description"].(string)
	if strings.Contains(desc, "<script>") || !strings.Contains(desc, "<strong>club</strong>") {
		t.Fatalf("description = %q", desc)
	}
	contact := data["contact_info"].(map[string]any)
	if contact["email"] != "fc@club.test" || data["seat_number"] != float64(300) {
		t.Fatalf("payload = %v", data)
	}
}

func TestCreate_NotOffered(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	for _, args := range [][]string{{"users", "create"}, {"history", "create"}, {"events", "bogus"}} {
		_, _, err := runCLI(t, e.args(args...))
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Fatalf("%v: err = %v, want unknown command", args, err)
		}
	}
	stdout, _, err := runCLI(t, e.args("users"))
	if err != nil || !strings.Contains(string(stdout), "Available Commands") || strings.Contains(string(stdout), "\n  create ") {
		t.Fatalf("users help: err=%v\n%s", err, stdout)
	}
	if got := e.srv.count("POST"); got != 0 {
		t.Fatalf("POST requests = %d, want 0", got)
	}

	_, _, err = runCLI(t, e.args("fields", "history"))
	var nc notCreatableError
	if !errors.As(err, &nc) {
		t.Fatalf("err = %v, want notCreatableError", err)
	}
}

func TestLogFileClosedAfterEveryRun(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	logPath := filepath.Join(e.dir, "sportadmin.log")
	e.mustRun("config", "set", "log_file", logPath)

	tests := []struct {
		args    []string
		wantErr bool
	}{
		{args: []string{"events", "show", "999"}, wantErr: true},
		{args: []string{"events", "list"}},
	}
	for _, tt := range tests {
		app := &App{}
		cmd := newRootCmd(app)
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetIn(strings.NewReader(""))
		cmd.SetArgs(e.args(append([]string{"--log-level", "debug"}, tt.args...)...))

		err := cmd.Execute()
		if (err != nil) != tt.wantErr {
			t.Fatalf("%v: err = %v, wantErr %v", tt.args, err, tt.wantErr)
		}
		if app.closeLog != nil {
			t.Fatalf("%v: log file left open", tt.args)
		}
	}

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "config loaded") {
		t.Fatalf("log = %s", b)
	}
}

func TestFlagName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"sport_category": "sport-category",
		"sportCategory":  "sport-category",
		"isDraft":        "is-draft",
		"slug":           "slug",
		"istadAccount":   "istad-account",
	}
	for in, want := range tests {
		if got := flagName(form.Field{Name: in}); got != want {
			t.Fatalf("flagName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	out := e.mustRun("fields", "events")
	data := out["data"].(map[string]any)
	fields := data["fields"].([]any)
	first := fields[0].(map[string]any)
	if first["flag"] != "sport-category" || first["apiName"] != "sport_category" || first["required"] != true {
		t.Fatalf("first field = %v", first)
	}
	if data["body"].(map[string]any)["apiName"] != "description" {
		t.Fatalf("body = %v", data["body"])
	}

	stdout, _, err := runCLI(t, e.args("--format", "table", "fields", "news"))
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(string(stdout), "--is-draft") {
		t.Fatalf("table = %s", stdout)
	}

	_, _, err = runCLI(t, e.args("fields", "bogus"))
	var nf notFoundError
	if !errors.As(err, &nf) || !strings.Contains(err.Error(), "sportclubs") {
		t.Fatalf("err = %v, want notFoundError listing known names", err)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	out := e.mustRun("summary")

	counts := map[string]float64{}
	errs := map[string]string{}
	for _, x := range out["data"].([]any) {
		row := x.(map[string]any)
		counts[row["resource"].(string)] = row["count"].(float64)
		if s, ok := row["error"].(string); ok {
			errs[row["resource"].(string)] = s
		}
	}
	want := map[string]float64{"events": 3, "clubs": 0, "news": 1, "history": 1, "users": 0}
	for k, v := range want {
		if counts[k] != v {
			t.Fatalf("counts = %v, want %v", counts, want)
		}
	}
	if _, ok := errs["users"]; !ok || len(errs) != 1 {
		t.Fatalf("errors = %v, want only users", errs)
	}
	if out["meta"].(map[string]any)["total"] != float64(5) {
		t.Fatalf("meta = %v", out["meta"])
	}
}

func TestAuth_LoginStatusLogout(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	stdout, stderr, err := runCLIWithInput(t, tok+"\n", e.args("auth", "login"))
	if err != nil {
		t.Fatalf("login: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), `"stored":true`) || !strings.Contains(string(stderr), "token expired") {
		t.Fatalf("login stdout = %s\nstderr = %s", stdout, stderr)
	}

	status := e.mustRun("auth", "status")["data"].(map[string]any)
	if status["source"] != "keyring" || status["present"] != true {
		t.Fatalf("status = %v", status)
	}
	if status["token"].(map[string]any)["subject"] != "admin" {
		t.Fatalf("token info = %v", status["token"])
	}

	// The stored token is used for requests that need one.
	e.mustRun("events", "delete", "7", "--yes")
	req, _ := e.srv.last("DELETE")
	if req.Auth != "Bearer "+tok {
		t.Fatalf("Authorization = %q", req.Auth)
	}

	e.mustRun("auth", "logout")
	status = e.mustRun("auth", "status")["data"].(map[string]any)
	if status["source"] != "none" || status["present"] != false {
		t.Fatalf("status after logout = %v", status)
	}
}

func TestConfig_SetShow(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.mustRun("config", "set", "endpoints.all_events", "/api/v2/events/")
	if _, err := os.Stat(filepath.Join(e.dir, "config.yaml")); err != nil {
		t.Fatalf("config.yaml not written: %v", err)
	}

	out := e.mustRun("--token", "secret", "config", "show")
	data := out["data"].(map[string]any)
	if data["token"] != "<redacted>" || data["tokenSource"] != "flag" {
		t.Fatalf("show = %v", data)
	}
	if data["endpoints"].(map[string]any)["allEvents"] != "/api/v2/events/" {
		t.Fatalf("endpoints = %v", data["endpoints"])
	}
	b, err := os.ReadFile(filepath.Join(e.dir, "config.yaml"))
	if err != nil || strings.Contains(string(b), "secret") {
		t.Fatalf("config.yaml = %s (%v)", b, err)
	}

	if _, _, err := runCLI(t, e.args("config", "set", "format", "xml")); err == nil {
		t.Fatalf("expected bad format to fail")
	}
	if _, _, err := runCLI(t, e.args("config", "set", "nope", "x")); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}

func TestUnknownFormat(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	_, stderr, err := runCLI(t, e.args("--format", "xml", "events", "list"))
	if err == nil || !strings.Contains(string(stderr), "unknown format") {
		t.Fatalf("err = %v, stderr = %s", err, stderr)
	}
}

func TestDocs(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	topics := e.mustRun("docs")["data"].(map[string]any)["topics"].([]any)
	if len(topics) != 3 {
		t.Fatalf("topics = %v", topics)
	}

	stdout, _, err := runCLI(t, e.args("docs", "config", "--raw"))
	if err != nil || !strings.HasPrefix(string(stdout), "# Configuration") {
		t.Fatalf("raw = %q (%v)", stdout, err)
	}
	stdout, _, err = runCLI(t, e.args("docs", "workflows", "--render"))
	if err != nil || !strings.Contains(string(stdout), "Workflows") {
		t.Fatalf("render = %q (%v)", stdout, err)
	}
	if _, _, err := runCLI(t, e.args("docs", "nope")); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}
