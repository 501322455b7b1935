package handlers

import "net/http"

// Maintenance actions, the path segment after the model name
const (
	ActionHome          = "home"
	ActionList          = "list"
	ActionAdd           = "add"
	ActionEdit          = "edit"
	ActionDelete        = "delete"
	ActionReactivate    = "reactivate"
	ActionRead          = "read"
	ActionPartial       = "partial"
	ActionPartialPlus   = "partial+"
	ActionPartialSearch = "partial-search"
	ActionImport        = "import"
	ActionExport        = "export"
	ActionHistory       = "history"
	ActionReset         = "reset"
)

// routeKey is one entry of a dispatcher's (method, action) table
type routeKey struct {
	method string
	action string
}

// Verb sets of every action
var (
	getActions = []string{
		ActionHome, ActionList, ActionAdd, ActionEdit, ActionPartial, ActionPartialPlus,
		ActionPartialSearch, ActionExport, ActionImport, ActionRead, ActionReset, ActionHistory,
	}
	postActions   = []string{ActionAdd, ActionEdit, ActionReactivate, ActionImport, ActionReset}
	deleteActions = []string{ActionDelete}
)

// verbActions lists the actions each method may carry
var verbActions = map[string][]string{
	http.MethodGet:    getActions,
	http.MethodPost:   postActions,
	http.MethodDelete: deleteActions,
}

// instanceActions address one row and need its primary key in the path
var instanceActions = actionSet(
	ActionEdit, ActionDelete, ActionReactivate, ActionRead, ActionHistory, ActionReset, ActionPartialPlus,
)

// Actions enabled per kind of route
var (
	CatalogActions = []string{
		ActionHome, ActionList, ActionAdd, ActionEdit, ActionDelete, ActionReactivate, ActionRead,
		ActionPartial, ActionPartialPlus, ActionPartialSearch, ActionImport, ActionExport, ActionHistory,
	}
	UserActions = []string{
		ActionHome, ActionList, ActionAdd, ActionEdit, ActionDelete, ActionReactivate, ActionRead,
		ActionHistory, ActionReset, ActionExport, ActionPartialSearch,
	}
	RelatedActions = []string{
		ActionHome, ActionList, ActionAdd, ActionEdit, ActionDelete, ActionReactivate, ActionRead,
		ActionPartial, ActionPartialPlus, ActionHistory,
	}
)

func actionSet(actions ...string) map[string]bool {
	set := make(map[string]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}
	return set
}

// parentAction is the action checked on the parent row for a related child action
func parentAction(action string) string {
	switch action {
	case ActionAdd, ActionDelete, ActionEdit, ActionPartial, ActionPartialPlus, ActionReactivate:
		return ActionEdit
	case ActionList, ActionRead:
		return ActionList
	}
	return action
}
