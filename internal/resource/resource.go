// Package resource describes the backend collections the admin client manages: where each one
// is listed, created and deleted, how it is displayed, and which create form it uses.
package resource

import (
	"sort"
	"strings"

	"sportadmin/internal/api"
	"sportadmin/internal/config"
	"sportadmin/internal/form"
	"sportadmin/internal/model"
)

// TitleWidth is how many runes of a title the list columns show.
const TitleWidth = 15

type Column struct {
	Header string
	Value  func(model.Record) string
}

type Resource struct {
	Name    string
	Noun    string
	Plural  string
	Aliases []string

	ListURL    string
	ItemsField string
	ListAuth   bool
	// Filter narrows a shared endpoint to this resource (contents serves both news and history).
	Filter func(model.Record) bool

	CreateURL string
	Schema    *form.Schema

	baseURL        string
	deleteEndpoint string

	Columns []Column
	// TitleKey and BodyKey drive list titles and the detail preview.
	TitleKey string
	BodyKey  string
}

func (r Resource) Creatable() bool { return r.Schema != nil }

// DeleteURL is {base}{deleteEndpoint}{id}/.
func (r Resource) DeleteURL(id string) string {
	return api.RecordURL(r.baseURL, r.deleteEndpoint, id)
}

// LoadOptions is the loader configuration for this resource, with an optional extra predicate.
func (r Resource) LoadOptions(extra func(model.Record) bool) api.LoadOptions {
	filter := r.Filter
	if extra != nil {
		if filter == nil {
			filter = extra
		} else {
			base := filter
			filter = func(rec model.Record) bool { return base(rec) && extra(rec) }
		}
	}
	return api.LoadOptions{ItemsField: r.ItemsField, Auth: r.ListAuth, Filter: filter}
}

func (r Resource) Headers() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Header
	}
	return out
}

func (r Resource) Row(rec model.Record) []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Value(rec)
	}
	return out
}

// Title is the record's display title.
func (r Resource) Title(rec model.Record) string {
	if t := strings.TrimSpace(rec.String(r.TitleKey)); t != "" {
		return t
	}
	return r.Noun + " " + rec.ID()
}

func field(key string) func(model.Record) string {
	return func(rec model.Record) string { return rec.String(key) }
}

func date(key string) func(model.Record) string {
	return func(rec model.Record) string { return rec.Date(key) }
}

func title(key string) func(model.Record) string {
	return func(rec model.Record) string { return model.Truncate(rec.String(key), TitleWidth) }
}

// person shows a user reference that may be a plain name or an object with a username.
func person(key string) func(model.Record) string {
	return func(rec model.Record) string {
		if u := rec.String(key + ".username"); u != "" {
			return u
		}
		v, _ := rec.Lookup(key)
		if _, isObj := v.(map[string]any); isObj {
			return ""
		}
		return rec.String(key)
	}
}

// UserStatus is Inactive for deleted users, Active for admins and verified users, and
// Pending otherwise.
func UserStatus(rec model.Record) string {
	switch {
	case rec.Bool("is_deleted"):
		return "Inactive"
	case rec.String("role.name") == "admin":
		return "Active"
	case !rec.Bool("is_verified"):
		return "Pending"
	default:
		return "Active"
	}
}

func contentType(types ...string) func(model.Record) bool {
	set := map[string]bool{}
	for _, t := range types {
		set[t] = true
	}
	return func(rec model.Record) bool { return set[rec.String("content_type")] }
}

// HistoryTypes are the content types shown under history.
var HistoryTypes = []string{
	"history-of-bokator",
	"history-of-kun-khmer",
	"history-of-basketball",
	"history-of-volleyball",
	"history-of-football",
}

func schema(s form.Schema) *form.Schema { return &s }

// Registry lists every resource with URLs resolved against cfg.
func Registry(cfg config.Config) []Resource {
	base := cfg.BaseURL
	ep := cfg.Endpoints
	idCol := Column{Header: "ID", Value: func(rec model.Record) string { return rec.ID() }}

	return []Resource{
		{
			Name: "events", Noun: "event", Plural: "events", Aliases: []string{"event"},
			ListURL: api.JoinURL(base, ep.AllEvents), ItemsField: "results",
			CreateURL: api.JoinURL(base, ep.CreateEvent), Schema: schema(form.EventSchema()),
			baseURL: base, deleteEndpoint: ep.DeleteEvent,
			Columns: []Column{
				idCol,
				{Header: "Event Name", Value: title("title")},
				{Header: "Date", Value: date("date")},
				{Header: "Created_By", Value: person("created_by")},
				{Header: "Created_At", Value: date("created_at")},
			},
			TitleKey: "title", BodyKey: "description",
		},
		{
			Name: "clubs", Noun: "club", Plural: "clubs", Aliases: []string{"club", "sportclubs"},
			ListURL: api.JoinURL(base, ep.AllClubs), ItemsField: "results",
			CreateURL: api.JoinURL(base, ep.CreateClub), Schema: schema(form.ClubSchema()),
			baseURL: base, deleteEndpoint: ep.DeleteClub,
			Columns: []Column{
				idCol,
				{Header: "Club Name", Value: field("sport_name")},
				{Header: "Sport Category", Value: field("sport_category_name")},
				{Header: "Seat Number", Value: field("seat_number")},
				{Header: "Price (USD)", Value: field("price")},
			},
			TitleKey: "sport_name", BodyKey: "description",
		},
		{
			Name: "news", Noun: "news", Plural: "news", Aliases: []string{"article"},
			ListURL: api.JoinURL(base, ep.AllContents), ItemsField: "data",
			Filter:    contentType("news"),
			CreateURL: api.JoinURL(base, ep.CreateContent), Schema: schema(form.NewsSchema()),
			baseURL: base, deleteEndpoint: ep.DeleteContent,
			Columns: []Column{
				idCol,
				{Header: "Title", Value: title("title")},
				{Header: "Created_By", Value: person("created_by")},
				{Header: "Created_At", Value: date("created_at")},
				{Header: "Draft", Value: field("is_draft")},
			},
			TitleKey: "title", BodyKey: "body",
		},
		{
			Name: "history", Noun: "history", Plural: "histories", Aliases: []string{"histories"},
			ListURL: api.JoinURL(base, ep.AllContents), ItemsField: "data",
			Filter:  contentType(HistoryTypes...),
			baseURL: base, deleteEndpoint: ep.DeleteContent,
			Columns: []Column{
				idCol,
				{Header: "Title", Value: title("title")},
				{Header: "Created_By", Value: person("created_by")},
				{Header: "Created_At", Value: date("created_at")},
			},
			TitleKey: "title", BodyKey: "body",
		},
		{
			Name: "users", Noun: "user", Plural: "users", Aliases: []string{"user"},
			ListURL: api.JoinURL(base, ep.AllUsers), ItemsField: "results", ListAuth: true,
			baseURL: base, deleteEndpoint: ep.DeleteUser,
			Columns: []Column{
				idCol,
				{Header: "User Name", Value: field("username")},
				{Header: "Role", Value: field("role.name")},
				{Header: "Email", Value: field("email")},
				{Header: "Status", Value: UserStatus},
			},
			TitleKey: "username",
		},
	}
}

// Lookup finds a resource by name or alias, case-insensitively.
func Lookup(rs []Resource, name string) (Resource, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range rs {
		if r.Name == name {
			return r, true
		}
		for _, a := range r.Aliases {
			if a == name {
				return r, true
			}
		}
	}
	return Resource{}, false
}

// Names returns every name and alias, sorted.
func Names(rs []Resource) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.Name)
		out = append(out, r.Aliases...)
	}
	sort.Strings(out)
	return out
}
