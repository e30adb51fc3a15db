// Package richtext covers the long-form body of a record: where its content comes from, how it is
// normalized before submission, and how it is previewed in a terminal.
package richtext

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ContentFunc reads the current content of the body editor. It is called once, at submit time.
type ContentFunc func(ctx context.Context) (string, error)

// Static returns s unchanged.
func Static(s string) ContentFunc {
	return func(context.Context) (string, error) { return s, nil }
}

// File reads the body from path; "-" reads from stdin.
func File(path string, stdin io.Reader) ContentFunc {
	return func(context.Context) (string, error) {
		if strings.TrimSpace(path) == "-" {
			b, err := io.ReadAll(stdin)
			if err != nil {
				return "", fmt.Errorf("read body from stdin: %w", err)
			}
			return string(b), nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read body file: %w", err)
		}
		return string(b), nil
	}
}

// EditorName is $VISUAL, then $EDITOR, then vi.
func EditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// EditorCommand builds the editor process for path without starting it, so the TUI can hand it
// to tea.ExecProcess.
func EditorCommand(path string) *exec.Cmd {
	args := splitArgs(EditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}
	return exec.Command(args[0], append(args[1:], path)...)
}

// Draft is a temp file seeded with an initial body, edited out of process.
type Draft struct {
	Path string
}

// NewDraft writes initial to a fresh temp file. ext picks the editor's syntax mode (".md").
func NewDraft(initial, ext string) (*Draft, error) {
	f, err := os.CreateTemp("", "sportadmin-body-*"+ext)
	if err != nil {
		return nil, err
	}
	if _, err := f.WriteString(initial); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, err
	}
	return &Draft{Path: f.Name()}, nil
}

// Read returns the file's current content.
func (d *Draft) Read() (string, error) {
	b, err := os.ReadFile(d.Path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Draft) Remove() { _ = os.Remove(d.Path) }

// Editor runs the editor in the foreground on the given streams and returns what was saved.
func Editor(initial string, stdin io.Reader, stdout, stderr io.Writer) ContentFunc {
	return func(ctx context.Context) (string, error) {
		d, err := NewDraft(initial, ".md")
		if err != nil {
			return "", err
		}
		defer d.Remove()

		base := EditorCommand(d.Path)
		cmd := exec.CommandContext(ctx, base.Path, base.Args[1:]...)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = stdin, stdout, stderr
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("%s: %w", EditorName(), err)
		}
		return d.Read()
	}
}
