package cli

import (
	"strings"

	"sportadmin/internal/form"
	"sportadmin/internal/resource"

	"github.com/spf13/cobra"
)

type fieldInfo struct {
	Name     string        `json:"name"`
	Flag     string        `json:"flag"`
	APIName  string        `json:"apiName"`
	Label    string        `json:"label"`
	Kind     form.Kind     `json:"kind"`
	Required bool          `json:"required"`
	Options  []form.Option `json:"options,omitempty"`
}

type fieldsOutput struct {
	Data struct {
		Resource  string         `json:"resource"`
		URL       string         `json:"url"`
		Fields    []fieldInfo    `json:"fields"`
		Body      form.Body      `json:"body"`
		Constants map[string]any `json:"constants,omitempty"`
	} `json:"data"`
}

func (o fieldsOutput) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(o.Data.Fields)+1)
	for _, f := range o.Data.Fields {
		req := ""
		if f.Required {
			req = "yes"
		}
		rows = append(rows, []string{"--" + f.Flag, f.APIName, string(f.Kind), req, f.Label})
	}
	rows = append(rows, []string{"--body", o.Data.Body.APIName, string(o.Data.Body.Format), "yes", o.Data.Body.Label})
	return []string{"Flag", "API Name", "Kind", "Required", "Label"}, rows
}

func newFieldsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <resource>",
		Short: "Describe the create form of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.resource(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !r.Creatable() {
				return writeErr(cmd, notCreatableError{resource: r.Name})
			}
			return writeOut(cmd, app, describeFields(r))
		},
	}
}

func describeFields(r resource.Resource) fieldsOutput {
	var out fieldsOutput
	out.Data.Resource = r.Name
	out.Data.URL = r.CreateURL
	out.Data.Body = r.Schema.Body
	out.Data.Constants = r.Schema.Constants
	for _, f := range r.Schema.Fields {
		api := f.APIName
		if strings.TrimSpace(api) == "" {
			api = f.Name
		}
		out.Data.Fields = append(out.Data.Fields, fieldInfo{
			Name:     f.Name,
			Flag:     flagName(f),
			APIName:  api,
			Label:    f.Label,
			Kind:     f.Kind,
			Required: f.Required,
			Options:  f.Options,
		})
	}
	return out
}
