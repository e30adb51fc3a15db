package tui

import (
	"sportadmin/internal/api"
	"sportadmin/internal/workflow"
)

type view int

const (
	viewPicker view = iota
	viewList
	viewDetail
	viewCreate
)

func (v view) String() string {
	switch v {
	case viewList:
		return "list"
	case viewDetail:
		return "detail"
	case viewCreate:
		return "create"
	default:
		return "picker"
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmDelete
)

// loadedMsg carries one finished pagination run. seq tags the load so a slow, superseded run
// cannot overwrite a newer one.
type loadedMsg struct {
	seq      int
	resource string
	res      api.LoadResult
}

type deletedMsg struct {
	flow *workflow.DeleteFlow
	id   string
	err  error
}

type createdMsg struct {
	res workflow.CreateResult
}

type editorDoneMsg struct {
	err error
}
