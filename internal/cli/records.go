package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"sportadmin/internal/config"
	"sportadmin/internal/filter"
	"sportadmin/internal/model"
	"sportadmin/internal/resource"
	"sportadmin/internal/richtext"
	"sportadmin/internal/store"
	"sportadmin/internal/workflow"

	"github.com/spf13/cobra"
)

func newResourceCmd(app *App, name string) *cobra.Command {
	r, _ := resource.Lookup(resource.Registry(config.Default()), name)

	cmd := &cobra.Command{
		Use:     r.Name,
		Aliases: r.Aliases,
		Short:   fmt.Sprintf("List, show, create and delete %s", r.Plural),
		// Without Args and RunE cobra would print help for an unknown subcommand and exit 0.
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newResourceListCmd(app, r))
	cmd.AddCommand(newResourceShowCmd(app, r))
	if r.Creatable() {
		cmd.AddCommand(newResourceCreateCmd(app, r))
	}
	cmd.AddCommand(newResourceDeleteCmd(app, r))
	return cmd
}

type listMeta struct {
	Resource string `json:"resource"`
	Count    int    `json:"count"`
	Pages    int    `json:"pages"`
	Complete bool   `json:"complete"`
	Error    string `json:"error,omitempty"`
}

type listOutput struct {
	Data []model.Record `json:"data"`
	Meta listMeta       `json:"meta"`

	res resource.Resource
}

func (o listOutput) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(o.Data))
	for _, rec := range o.Data {
		rows = append(rows, o.res.Row(rec))
	}
	return o.res.Headers(), rows
}

func newResourceListCmd(app *App, def resource.Resource) *cobra.Command {
	var where string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %s (follows every page)", def.Plural),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.resource(def.Name)
			if err != nil {
				return writeErr(cmd, err)
			}
			var extra func(model.Record) bool
			if strings.TrimSpace(where) != "" {
				p, err := filter.Compile(where)
				if err != nil {
					return writeErr(cmd, err)
				}
				extra = p.Func()
			}

			res := app.client.LoadAll(cmd.Context(), r.ListURL, r.LoadOptions(extra))
			recs := res.Records
			if limit > 0 && len(recs) > limit {
				recs = recs[:limit]
			}
			out := listOutput{
				Data: recs,
				Meta: listMeta{Resource: r.Name, Count: len(recs), Pages: res.Pages, Complete: res.Complete()},
				res:  r,
			}
			if res.Err != nil {
				out.Meta.Error = res.Err.Error()
			}
			if err := writeOut(cmd, app, out); err != nil {
				return err
			}
			if res.Err != nil {
				return writeErr(cmd, partialLoadError{resource: r.Name, count: len(res.Records), err: res.Err})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&where, "where", "", `Filter expression over record fields (e.g. 'ticket_price < 10')`)
	cmd.Flags().IntVar(&limit, "limit", 0, "Print at most N records (0 = all)")
	return cmd
}

type showOutput struct {
	Data model.Record `json:"data"`
}

func (o showOutput) Table() ([]string, [][]string) {
	keys := make([]string, 0, len(o.Data))
	for k := range o.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, o.Data.String(k)})
	}
	return []string{"Field", "Value"}, rows
}

func newResourceShowCmd(app *App, def resource.Resource) *cobra.Command {
	var render bool
	var width int

	cmd := &cobra.Command{
		Use:     fmt.Sprintf("show <%s-id>", def.Noun),
		Short:   fmt.Sprintf("Show one %s", def.Noun),
		Aliases: []string{"get"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.resource(def.Name)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])

			// The backend has no per-record GET for every resource, so show scans the list.
			res := app.client.LoadAll(cmd.Context(), r.ListURL, r.LoadOptions(nil))
			rec, ok := workflow.NewCollection(res.Records).Find(id)
			if !ok {
				if res.Err != nil {
					return writeErr(cmd, partialLoadError{resource: r.Name, count: len(res.Records), err: res.Err})
				}
				return writeErr(cmd, errNotFound(r.Noun, id))
			}

			if render {
				md := "# " + r.Title(rec)
				if body := rec.String(r.BodyKey); r.BodyKey != "" && body != "" {
					md += "\n\n" + body
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), richtext.Render(md, width))
				return err
			}
			return writeOut(cmd, app, showOutput{Data: rec})
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Render title and body for the terminal instead of structured output")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")
	return cmd
}

func newResourceDeleteCmd(app *App, def resource.Resource) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("delete <%s-id>", def.Noun),
		Short: fmt.Sprintf("Delete one %s (asks for confirmation)", def.Noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.resource(def.Name)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])

			return app.withJournal(cmd.Context(), func(j *store.Journal) error {
				flow := workflow.NewDeleteFlow(workflow.DeleteConfig{
					Resource: r.Name,
					Noun:     r.Noun,
					URL:      r.DeleteURL,
					Client:   app.client,
					Journal:  journalOf(j),
					Logger:   app.log,
				})
				if err := flow.Select(id); err != nil {
					return writeErr(cmd, err)
				}

				if !yes {
					ok, err := confirm(stdin(cmd), cmd.ErrOrStderr(), flow.Prompt())
					if err != nil {
						flow.Cancel()
						return writeErr(cmd, err)
					}
					if !ok {
						flow.Cancel()
						return writeOut(cmd, app, map[string]any{
							"data": map[string]any{"id": id, "deleted": false},
							"meta": map[string]any{"resource": r.Name, "notice": "Cancelled."},
						})
					}
				}

				res := flow.Confirm(cmd.Context(), workflow.NewCollection(nil))
				if res.Err != nil {
					return writeErr(cmd, res.Err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"id": res.ID, "deleted": true, "url": r.DeleteURL(res.ID)},
					"meta": map[string]any{"resource": r.Name, "notice": flow.Notice()},
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirm asks prompt on w and reads a y/N answer from r. EOF counts as no.
func confirm(r io.Reader, w io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// journalOf keeps a nil *store.Journal from becoming a non-nil interface.
func journalOf(j *store.Journal) workflow.Journal {
	if j == nil {
		return nil
	}
	return j
}
