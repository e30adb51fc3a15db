package cli

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"sportadmin/internal/form"
	"sportadmin/internal/resource"
	"sportadmin/internal/richtext"
	"sportadmin/internal/store"
	"sportadmin/internal/workflow"

	"github.com/spf13/cobra"
)

var errBodySources = errors.New("use only one of --body, --body-file, --editor")

// flagName is the CLI flag for a form field: sportCategory and sport_category both become
// sport-category.
func flagName(f form.Field) string {
	var b strings.Builder
	for i, r := range f.Name {
		switch {
		case r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func newResourceCreateCmd(app *App, def resource.Resource) *cobra.Command {
	schema := *def.Schema
	values := make(map[string]*string, len(schema.Fields))
	var body, bodyFile string
	var useEditor, dryRun bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", def.Noun),
		Long: strings.TrimSpace(fmt.Sprintf(`
Create a %s from flags. The %s comes from exactly one of --body, --body-file (use - for
stdin) or --editor. Run "sportadmin fields %s" to see every field, its kind and whether it is
required.
`, def.Noun, strings.ToLower(schema.Body.Label), def.Name)),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.resource(def.Name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !r.Creatable() {
				return writeErr(cmd, notCreatableError{resource: r.Name})
			}

			draft := form.Values{}
			for _, f := range schema.Fields {
				if cmd.Flags().Changed(flagName(f)) {
					draft[f.Name] = *values[f.Name]
				}
			}

			content, err := bodySource(cmd, body, bodyFile, useEditor)
			if err != nil {
				return writeErr(cmd, err)
			}

			return app.withJournal(cmd.Context(), func(j *store.Journal) error {
				flow := workflow.NewCreateFlow(workflow.CreateConfig{
					Resource: r.Name,
					Noun:     r.Noun,
					URL:      r.CreateURL,
					Schema:   *r.Schema,
					Client:   app.client,
					Journal:  journalOf(j),
					Logger:   app.log,
				})

				if dryRun {
					payload, err := flow.Prepare(cmd.Context(), draft, content)
					if err != nil {
						return createErr(cmd, err)
					}
					return writeOut(cmd, app, map[string]any{
						"data": payload,
						"meta": map[string]any{"resource": r.Name, "url": r.CreateURL, "dryRun": true},
					})
				}

				res := flow.Submit(cmd.Context(), draft, content)
				if res.Err != nil {
					return createErr(cmd, res.Err)
				}
				var data any = res.Record
				if res.Record == nil {
					data = res.Payload
				}
				return writeOut(cmd, app, map[string]any{
					"data": data,
					"meta": map[string]any{"resource": r.Name, "notice": flow.Notice()},
				})
			})
		},
	}

	for _, f := range schema.Fields {
		usage := f.Label
		if f.Required {
			usage += " (required)"
		}
		if len(f.Options) > 0 {
			labels := make([]string, len(f.Options))
			for i, o := range f.Options {
				labels[i] = o.Label
			}
			usage += ": " + strings.Join(labels, ", ")
		}
		values[f.Name] = cmd.Flags().String(flagName(f), "", usage)
		if f.Kind == form.KindBool {
			cmd.Flags().Lookup(flagName(f)).NoOptDefVal = "true"
		}
	}
	cmd.Flags().StringVar(&body, "body", "", schema.Body.Label+" text (markdown or HTML)")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read "+strings.ToLower(schema.Body.Label)+" from a file (- for stdin)")
	cmd.Flags().BoolVar(&useEditor, "editor", false, "Write "+strings.ToLower(schema.Body.Label)+" in $VISUAL/$EDITOR")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and print the payload without sending it")

	return cmd
}

func bodySource(cmd *cobra.Command, body, bodyFile string, useEditor bool) (richtext.ContentFunc, error) {
	n := 0
	if cmd.Flags().Changed("body") {
		n++
	}
	if bodyFile != "" {
		n++
	}
	if useEditor {
		n++
	}
	if n > 1 {
		return nil, errBodySources
	}
	switch {
	case bodyFile != "":
		return richtext.File(bodyFile, stdin(cmd)), nil
	case useEditor:
		return richtext.Editor("", stdin(cmd), cmd.OutOrStdout(), cmd.ErrOrStderr()), nil
	default:
		return richtext.Static(body), nil
	}
}

// createErr prints one line per invalid field before the summary error.
func createErr(cmd *cobra.Command, err error) error {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		for _, fe := range verr.Fields {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", fe.Field, fe.Message)
		}
	}
	return writeErr(cmd, err)
}
