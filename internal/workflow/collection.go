// Package workflow holds the delete-confirmation and create-submission state machines. Both are
// single-owner: the CLI command or TUI model that created a flow is the only caller.
package workflow

import "sportadmin/internal/model"

// Collection is an immutable, ordered view of loaded records.
type Collection struct {
	records []model.Record
}

func NewCollection(recs []model.Record) Collection {
	return Collection{records: append([]model.Record(nil), recs...)}
}

func (c Collection) Len() int { return len(c.records) }

// Records returns a copy of the records in load order.
func (c Collection) Records() []model.Record {
	return append([]model.Record{}, c.records...)
}

func (c Collection) Find(id string) (model.Record, bool) {
	for _, r := range c.records {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

// Without returns the collection minus every record whose id is id. The receiver is untouched.
func (c Collection) Without(id string) Collection {
	out := make([]model.Record, 0, len(c.records))
	for _, r := range c.records {
		if r.ID() != id {
			out = append(out, r)
		}
	}
	return Collection{records: out}
}

// With returns the collection with rec appended.
func (c Collection) With(rec model.Record) Collection {
	out := make([]model.Record, 0, len(c.records)+1)
	out = append(out, c.records...)
	return Collection{records: append(out, rec)}
}
