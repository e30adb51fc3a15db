package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type notCreatableError struct {
	resource string
}

func (e notCreatableError) Error() string {
	return fmt.Sprintf("%s cannot be created from this client", e.resource)
}

// partialLoadError reports a list that stopped early; the records fetched so far were still
// written.
type partialLoadError struct {
	resource string
	count    int
	err      error
}

func (e partialLoadError) Error() string {
	return fmt.Sprintf("%s: loaded %d records before failing: %v", e.resource, e.count, e.err)
}

func (e partialLoadError) Unwrap() error { return e.err }
