package cli

import (
	"errors"
	"strconv"
	"time"

	"sportadmin/internal/store"

	"github.com/spf13/cobra"
)

type journalOutput struct {
	Data []store.Entry `json:"data"`
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
}

func (o journalOutput) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(o.Data))
	for _, e := range o.Data {
		status := ""
		if e.Status != 0 {
			status = strconv.Itoa(e.Status)
		}
		rows = append(rows, []string{
			e.At.Local().Format(time.DateTime),
			e.Resource,
			string(e.Action),
			e.RecordID,
			string(e.Outcome),
			status,
			e.Detail,
		})
	}
	return []string{"At", "Resource", "Action", "Record", "Outcome", "Status", "Detail"}, rows
}

func newJournalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Local log of create and delete attempts",
	}
	cmd.AddCommand(newJournalListCmd(app))
	return cmd
}

func newJournalListCmd(app *App) *cobra.Command {
	var res string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if res != "" {
				r, err := app.resource(res)
				if err != nil {
					return writeErr(cmd, err)
				}
				res = r.Name
			}
			return app.withJournal(cmd.Context(), func(j *store.Journal) error {
				if j == nil {
					return writeErr(cmd, errors.New("journal unavailable (see log for details)"))
				}
				entries, err := j.List(cmd.Context(), store.ListOptions{Resource: res, Limit: limit})
				if err != nil {
					return writeErr(cmd, err)
				}
				out := journalOutput{Data: entries}
				if out.Data == nil {
					out.Data = []store.Entry{}
				}
				out.Meta.Count = len(entries)
				return writeOut(cmd, app, out)
			})
		},
	}
	cmd.Flags().StringVar(&res, "resource", "", "Only entries for this resource")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries")
	return cmd
}
