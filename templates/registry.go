package templates

import (
	"strings"
	"sync"

	"github.com/a-h/templ"

	"ubigeo_app_go/templates/components"
	"ubigeo_app_go/templates/pages"
	"ubigeo_app_go/templates/partials"
)

// Renderer builds the component for one maintenance template
type Renderer func(v *components.View) templ.Component

var (
	mu       sync.RWMutex
	registry = make(map[string]Renderer)
)

// byAction renders every model that has no template of its own
var byAction = map[string]Renderer{
	"home":           pages.Home,
	"list":           partials.ListTable,
	"partial-search": partials.SearchForm,
	"add":            partials.FormModal,
	"edit":           partials.FormModal,
	"read":           partials.FormModal,
	"partial":        partials.FormModal,
	"partial+":       partials.FormModal,
	"import":         partials.FormModal,
	"reset":          partials.FormModal,
	"history":        partials.HistoryAccordion,
}

// Register installs r under name, "{app}/{model}/{action}" or "{app}/{parent}/{model}/{action}"
func Register(name string, r Renderer) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = r
}

// Lookup returns the renderer registered under name, or the generic renderer of
// the action the name ends with
func Lookup(name string) (Renderer, bool) {
	mu.RLock()
	r, ok := registry[name]
	mu.RUnlock()
	if ok {
		return r, true
	}

	action := name[strings.LastIndex(name, "/")+1:]
	r, ok = byAction[action]
	return r, ok
}
