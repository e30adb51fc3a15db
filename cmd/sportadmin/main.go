package main

import (
	"os"
	"strings"

	"sportadmin/internal/cli"
	"sportadmin/internal/config"
	"sportadmin/internal/resource"
)

// splitRecordRef parses "<resource>/<id>" (e.g. "events/12") and returns the canonical
// resource name.
func splitRecordRef(s string, rs []resource.Resource) (string, string, bool) {
	name, id, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		return "", "", false
	}
	r, ok := resource.Lookup(rs, name)
	if !ok {
		return "", "", false
	}
	return r.Name, id, true
}

func rewriteRecordRefArgs(argv []string) []string {
	// Convenience: `sportadmin events/12` works like `sportadmin events show 12`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first, so we look for the first positional token.
	if len(argv) < 2 {
		return argv
	}

	rs := resource.Registry(config.Default())

	// Flags we don't recognize are skipped without their value so we never consume the ref.
	valueFlags := map[string]bool{
		"--base-url":   true,
		"--token":      true,
		"--format":     true,
		"--jq":         true,
		"--timeout":    true,
		"--log-level":  true,
		"--config-dir": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		name, id, ok := splitRecordRef(a, rs)
		if !ok {
			return argv
		}
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, name, "show", id)
		out = append(out, argv[i+1:]...)
		return out
	}

	return argv
}

func main() {
	os.Args = rewriteRecordRefArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
