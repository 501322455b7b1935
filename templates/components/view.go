package components

import (
	"ubigeo_app_go/forms"
	"ubigeo_app_go/services"
)

// Modal sizes
const (
	ModalSmall = "modal-sm"
	ModalLarge = "modal-lg"
)

// Row is one formatted list row
type Row struct {
	PK      string
	Display string
	Active  bool
	Cells   []string
}

// Pagination describes the page links under a list
type Pagination struct {
	Number   int
	Pages    int
	Total    int64
	Previous string
	Next     string
}

// View carries everything a maintenance template renders
type View struct {
	AppName  string
	Title    string
	Subtitle string
	Model    string
	Name     string
	Plural   string
	Action   string

	Related bool
	Parent  string

	ModalTitle string
	ModalSize  string
	Readonly   bool
	Upload     bool
	FormURL    string
	Form       *forms.Form

	Headers []string
	Rows    []Row
	Page    Pagination
	History []services.HistoryEntry

	Can       map[string]bool
	URLs      map[string]string
	RowURL    func(action, pk string) string
	RefreshOn []string
}

// Allowed reports whether the current user may run action
func (v *View) Allowed(action string) bool {
	return v.Can[action]
}

// ListID is the element id the list of this model is rendered into
func (v *View) ListID() string {
	if v.Related {
		return "related-" + v.Model + "-list"
	}
	return v.Model + "-list"
}
