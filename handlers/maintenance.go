package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ubigeo_app_go/forms"
	"ubigeo_app_go/metrics"
	"ubigeo_app_go/middleware"
	"ubigeo_app_go/models"
	"ubigeo_app_go/services"
	"ubigeo_app_go/services/i18n"
	"ubigeo_app_go/templates"
	"ubigeo_app_go/templates/components"
)

type actionFunc[T models.Record] func(c echo.Context, rc *RequestContext[T]) error

// Maintenance dispatches the actions of one model. Related maintenances are
// scoped to a parent row and check permissions against it.
type Maintenance[T models.Record] struct {
	cfg     RouteConfig[T]
	deps    *Deps
	meta    *models.ModelMeta
	parent  *ParentRoute
	events  EventTable
	enabled map[string]bool
	routes  map[routeKey]actionFunc[T]
	log     *zap.Logger
}

// NewMaintenance builds the dispatcher of a top-level model
func NewMaintenance[T models.Record](cfg RouteConfig[T], deps *Deps) *Maintenance[T] {
	m := &Maintenance[T]{
		cfg:     cfg,
		deps:    deps,
		meta:    cfg.Service.New().Meta(),
		events:  TopLevelEvents,
		enabled: actionSet(cfg.Actions...),
	}
	m.log = deps.logger().With(zap.String("model", m.meta.Name))
	m.routes = m.routeTable()
	return m
}

// NewRelatedMaintenance builds the dispatcher of a model listed under a parent row
func NewRelatedMaintenance[T models.Record](cfg RouteConfig[T], parent *ParentRoute, deps *Deps) *Maintenance[T] {
	m := &Maintenance[T]{
		cfg:     cfg,
		deps:    deps,
		meta:    cfg.Service.New().Meta(),
		parent:  parent,
		events:  RelatedEvents,
		enabled: make(map[string]bool),
	}
	for _, a := range RelatedActions {
		if actionSet(cfg.Actions...)[a] {
			m.enabled[a] = true
		}
	}
	m.log = deps.logger().With(zap.String("model", m.meta.Name), zap.String("parent", parent.Meta.Name))
	m.routes = m.routeTable()
	return m
}

// routeTable is the explicit (method, action) table of the dispatcher
func (m *Maintenance[T]) routeTable() map[routeKey]actionFunc[T] {
	table := map[routeKey]actionFunc[T]{
		{http.MethodGet, ActionHome}:          m.home,
		{http.MethodGet, ActionList}:          m.list,
		{http.MethodGet, ActionAdd}:           m.showForm,
		{http.MethodGet, ActionEdit}:          m.showForm,
		{http.MethodGet, ActionRead}:          m.showForm,
		{http.MethodGet, ActionPartial}:       m.partialForm,
		{http.MethodGet, ActionPartialPlus}:   m.partialForm,
		{http.MethodGet, ActionPartialSearch}: m.partialSearch,
		{http.MethodGet, ActionExport}:        m.export,
		{http.MethodGet, ActionImport}:        m.importForm,
		{http.MethodGet, ActionReset}:         m.resetForm,
		{http.MethodGet, ActionHistory}:       m.history,
		{http.MethodPost, ActionAdd}:          m.save,
		{http.MethodPost, ActionEdit}:         m.save,
		{http.MethodPost, ActionReactivate}:   m.reactivate,
		{http.MethodPost, ActionImport}:       m.importFile,
		{http.MethodPost, ActionReset}:        m.resetPassword,
		{http.MethodDelete, ActionDelete}:     m.delete,
	}
	for key := range table {
		if !m.enabled[key.action] {
			delete(table, key)
		}
	}
	return table
}

func (m *Maintenance[T]) defaultAction() string {
	if m.parent != nil {
		return ActionList
	}
	return ActionHome
}

// route resolves the handler of a request. Unknown actions are rejected with
// 400 and known actions sent with the wrong verb with 405.
func (m *Maintenance[T]) route(c echo.Context, method, action string) (actionFunc[T], error) {
	if !m.enabled[action] {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "acción desconocida")
	}
	if h, ok := m.routes[routeKey{method, action}]; ok {
		return h, nil
	}

	var allow []string
	for verb, actions := range verbActions {
		for _, a := range actions {
			if a == action {
				if _, ok := m.routes[routeKey{verb, action}]; ok {
					allow = append(allow, verb)
				}
			}
		}
	}
	sort.Strings(allow)
	c.Response().Header().Set(echo.HeaderAllow, strings.Join(allow, ", "))
	return nil, echo.NewHTTPError(http.StatusMethodNotAllowed)
}

// Handle is the echo handler of every maintenance URL
func (m *Maintenance[T]) Handle(c echo.Context) (err error) {
	action := c.Param("action")
	if action == "" {
		action = m.defaultAction()
	}
	method := c.Request().Method

	var rc *RequestContext[T]
	defer func() {
		metrics.ObserveAction(m.meta.Name, action, outcomeOf(rc, err))
	}()

	handler, err := m.route(c, method, action)
	if err != nil {
		return err
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.ErrUnauthorized
	}

	rc = newRequestContext[T](user, method, action, c.Param("pk"))
	if err := m.resolve(c, rc); err != nil {
		return err
	}

	rc.Can = m.permissions(rc)
	if !rc.Can[action] {
		m.log.Info("action refused",
			zap.String("action", action),
			zap.String("user", user.Username),
			zap.String("pk", rc.ObjectPK),
		)
		return echo.NewHTTPError(http.StatusForbidden)
	}

	rc.URLs = m.urls(rc)
	return handler(c, rc)
}

func outcomeOf[T models.Record](rc *RequestContext[T], err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusForbidden, http.StatusUnauthorized:
			return metrics.OutcomeForbidden
		case http.StatusNotFound:
			return metrics.OutcomeNotFound
		case http.StatusBadRequest, http.StatusMethodNotAllowed:
			return metrics.OutcomeInvalid
		}
		return metrics.OutcomeFail
	}
	if err != nil {
		return metrics.OutcomeFail
	}
	if rc == nil {
		return metrics.OutcomeOK
	}
	return rc.outcome
}

// resolve loads the parent first, then the addressed row. Both are looked up
// in the all scope.
func (m *Maintenance[T]) resolve(c echo.Context, rc *RequestContext[T]) error {
	ctx := c.Request().Context()

	if m.parent != nil {
		parent, err := m.parent.Load(ctx, c.Param("parent"))
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		if err != nil {
			return err
		}
		rc.Parent = parent
	}

	if !rc.HasObject() {
		if instanceActions[rc.Action] {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return nil
	}

	obj, err := m.cfg.Service.Get(ctx, rc.ObjectPK, services.ScopeAll)
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	if p, ok := any(obj).(models.Parented); ok && rc.Parent != nil && p.ParentKey() != rc.ParentPK() {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	rc.Object = obj
	return nil
}

// permissions evaluates every enabled action. Related routes ask about the
// parent row instead of the child, and the addressed child must still be in
// a state the action accepts.
func (m *Maintenance[T]) permissions(rc *RequestContext[T]) map[string]bool {
	can := make(map[string]bool, len(m.enabled))
	for action := range m.enabled {
		if m.parent != nil {
			allowed := m.deps.Authz.Can(rc.User, parentAction(action), m.parent.Meta, rc.Parent)
			if allowed && rc.HasObject() {
				allowed = services.ObjectAllows(action, rc.Object)
			}
			can[action] = allowed
			continue
		}
		var obj models.Record
		if rc.HasObject() {
			obj = rc.Object
		}
		can[action] = m.deps.Authz.Can(rc.User, action, m.meta, obj)
	}
	return can
}

func (m *Maintenance[T]) basePath(rc *RequestContext[T]) string {
	if m.parent != nil {
		return "/" + m.meta.App + "/" + m.parent.Meta.Name + "/" + url.PathEscape(rc.ParentPK()) + "/" + m.meta.Name + "/"
	}
	return "/" + m.meta.App + "/" + m.meta.Name + "/"
}

// actionURL builds the URL of action, addressing pk when it is not empty
func (m *Maintenance[T]) actionURL(rc *RequestContext[T], action, pk string) string {
	u := m.basePath(rc)
	if action != ActionHome {
		u += action + "/"
	}
	if pk != "" {
		u += url.PathEscape(pk) + "/"
	}
	return u
}

func (m *Maintenance[T]) urls(rc *RequestContext[T]) map[string]string {
	urls := make(map[string]string)
	for action := range m.enabled {
		if !instanceActions[action] {
			urls[action] = m.actionURL(rc, action, "")
		}
	}
	return urls
}

func (m *Maintenance[T]) templateName(action string) string {
	if m.parent != nil {
		return m.meta.App + "/" + m.parent.Meta.Name + "/" + m.meta.Name + "/" + action
	}
	return m.meta.App + "/" + m.meta.Name + "/" + action
}

func modalTitle(ctx context.Context, action string, meta *models.ModelMeta) string {
	key := action
	switch action {
	case ActionPartial:
		key = ActionAdd
	case ActionPartialPlus:
		key = ActionEdit
	case ActionAdd, ActionEdit, ActionRead, ActionHistory, ActionImport, ActionReset:
	default:
		return ""
	}
	return i18n.T(ctx, "modal."+key, map[string]interface{}{"model": meta.Title(), "plural": meta.PluralTitle()})
}

// view fills the context shared by every template
func (m *Maintenance[T]) view(ctx context.Context, rc *RequestContext[T]) *components.View {
	subtitleKey := "app.subtitle"
	if m.parent != nil {
		subtitleKey = "app.related_subtitle"
	}
	subtitle := i18n.T(ctx, subtitleKey, map[string]interface{}{"plural": m.meta.PluralTitle()})

	size := components.ModalLarge
	if rc.Action == ActionReset || rc.Action == ActionImport {
		size = components.ModalSmall
	}

	v := &components.View{
		AppName:    m.deps.AppName,
		Title:      m.deps.AppName + " | " + subtitle,
		Subtitle:   subtitle,
		Model:      m.meta.Name,
		Name:       m.meta.Title(),
		Plural:     m.meta.PluralTitle(),
		Action:     rc.Action,
		Related:    m.parent != nil,
		ModalTitle: modalTitle(ctx, rc.Action, m.meta),
		ModalSize:  size,
		Readonly:   rc.Action == ActionRead || rc.Action == ActionHistory,
		Upload:     rc.Action == ActionImport,
		Can:        rc.Can,
		URLs:       rc.URLs,
		RowURL: func(action, pk string) string {
			return m.actionURL(rc, action, pk)
		},
		RefreshOn: m.events.SuccessNames(),
	}
	if rc.Parent != nil {
		v.Parent = rc.Parent.String()
	}
	return v
}

func (m *Maintenance[T]) render(c echo.Context, rc *RequestContext[T], v *components.View) error {
	name := m.templateName(rc.Action)
	renderer, ok := templates.Lookup(name)
	if !ok {
		return fmt.Errorf("no template %s", name)
	}
	return Render(c, http.StatusOK, renderer(v))
}

// signal ends a mutating action with its completion event
func (m *Maintenance[T]) signal(c echo.Context, rc *RequestContext[T], ok bool, msg, pk string) error {
	name, found := m.events.Name(rc.Action, ok)
	if !found {
		return fmt.Errorf("no completion event for %s", rc.Action)
	}
	if !ok {
		rc.outcome = metrics.OutcomeFail
	}

	payload := map[string]interface{}{
		"title": CompletionTitle(rc.Action, ok, m.meta.Feminine, msg),
	}
	if m.parent != nil {
		payload["pk"] = rc.ParentPK()
		payload["parent_pk"] = rc.ParentPK()
		if pk != "" {
			payload["object_pk"] = pk
		}
	} else if pk != "" {
		payload["pk"] = pk
	}
	return Trigger(c, name, payload)
}

func (m *Maintenance[T]) searchForm(ctx context.Context, param string) *forms.Form {
	placeholder := m.cfg.SearchPlaceholder
	if placeholder == "" {
		placeholder = i18n.T(ctx, "search.placeholder")
	}
	return forms.SearchForm(param, placeholder)
}

func (m *Maintenance[T]) home(c echo.Context, rc *RequestContext[T]) error {
	v := m.view(c.Request().Context(), rc)
	v.Form = m.searchForm(c.Request().Context(), "")
	return m.render(c, rc, v)
}

// partialSearch re-renders the search form and asks the page to search again
func (m *Maintenance[T]) partialSearch(c echo.Context, rc *RequestContext[T]) error {
	ctx := c.Request().Context()
	in, errs := forms.BindSearch(c.QueryParams())

	v := m.view(ctx, rc)
	v.Form = m.searchForm(ctx, in.Param)
	if len(errs) > 0 {
		v.Form.AddErrors(errs)
		v.Form.FormatErrors()
		rc.outcome = metrics.OutcomeInvalid
	}
	c.Response().Header().Set(HeaderHXTrigger, EventForceSearch)
	return m.render(c, rc, v)
}

// where scopes queries of related routes to the parent row
func (m *Maintenance[T]) where(rc *RequestContext[T]) map[string]interface{} {
	if m.parent == nil {
		return nil
	}
	return map[string]interface{}{m.parent.Column: rc.ParentPK()}
}

// list validates the filters before any query is built
func (m *Maintenance[T]) list(c echo.Context, rc *RequestContext[T]) error {
	ctx := c.Request().Context()
	in, errs := forms.BindSearch(c.QueryParams())

	v := m.view(ctx, rc)
	v.Headers = m.meta.Headers(m.cfg.ListFields)
	if len(errs) > 0 {
		v.Form = m.searchForm(ctx, in.Param)
		v.Form.AddErrors(errs)
		v.Form.FormatErrors()
		rc.outcome = metrics.OutcomeInvalid
		return m.render(c, rc, v)
	}

	page, err := m.cfg.Service.List(ctx, services.ScopeAll, services.ListFilter{Param: in.Param, Page: in.Page}, m.where(rc))
	if err != nil {
		return err
	}

	v.Rows = m.rows(ctx, page.Items, m.cfg.ListFields)
	v.Page = components.Pagination{Number: page.Number, Pages: page.Pages, Total: page.Total}
	if page.HasPrevious() {
		v.Page.Previous = m.pageURL(rc, in.Param, page.Number-1)
	}
	if page.HasNext() {
		v.Page.Next = m.pageURL(rc, in.Param, page.Number+1)
	}
	return m.render(c, rc, v)
}

func (m *Maintenance[T]) pageURL(rc *RequestContext[T], param string, page int) string {
	q := url.Values{}
	if param != "" {
		q.Set("param", param)
	}
	q.Set("page", strconv.Itoa(page))
	return m.actionURL(rc, ActionList, "") + "?" + q.Encode()
}

func (m *Maintenance[T]) rows(ctx context.Context, items []T, fields []string) []components.Row {
	rows := make([]components.Row, 0, len(items))
	for _, item := range items {
		cells := make([]string, len(fields))
		for i, name := range fields {
			f, ok := m.meta.Field(name)
			if !ok {
				f = models.FieldMeta{Name: name}
			}
			cells[i] = services.FormatField(ctx, f, item.Value(name), m.deps.Resolver)
		}
		rows = append(rows, components.Row{
			PK:      item.PrimaryKey(),
			Display: item.String(),
			Active:  item.Active(),
			Cells:   cells,
		})
	}
	return rows
}

// formURL is where the rendered form posts to
func (m *Maintenance[T]) formURL(rc *RequestContext[T]) string {
	switch rc.Action {
	case ActionAdd, ActionPartial:
		return m.actionURL(rc, ActionAdd, "")
	case ActionEdit, ActionPartialPlus:
		return m.actionURL(rc, ActionEdit, rc.ObjectPK)
	case ActionReset:
		return m.actionURL(rc, ActionReset, rc.ObjectPK)
	case ActionImport:
		return m.actionURL(rc, ActionImport, "")
	}
	return ""
}

// editForm builds the styled edit form of obj. values are shown in place of
// the stored ones when the form is re-rendered.
func (m *Maintenance[T]) editForm(ctx context.Context, rc *RequestContext[T], obj T, creating bool, values url.Values) (*forms.Form, error) {
	f, err := m.cfg.Form(ctx, obj, creating, values)
	if err != nil {
		return nil, err
	}
	if values != nil {
		f.Fill(values)
	}

	if m.parent != nil {
		if m.cfg.ParentField != "" {
			f.Hide(m.cfg.ParentField, rc.ParentPK())
		}
		for _, name := range m.cfg.CascadeFields {
			if fld := f.Field(name); fld != nil {
				f.Hide(name, fld.Value)
			}
		}
	} else {
		partial := ActionPartial
		pk := ""
		if !creating {
			partial, pk = ActionPartialPlus, rc.ObjectPK
		}
		if m.enabled[partial] {
			for _, name := range m.cfg.CascadeFields {
				fld := f.Field(name)
				if fld == nil {
					continue
				}
				if fld.Attrs == nil {
					fld.Attrs = make(map[string]string)
				}
				fld.Attrs["hx-get"] = m.actionURL(rc, partial, pk)
				fld.Attrs["hx-trigger"] = "change"
				fld.Attrs["hx-target"] = "#dialog"
				fld.Attrs["hx-include"] = "closest form"
			}
		}
	}
	return f.Format(rc.Action == ActionRead), nil
}

func (m *Maintenance[T]) newObject(rc *RequestContext[T]) T {
	obj := m.cfg.Service.New()
	if p, ok := any(obj).(models.Parented); ok && rc.Parent != nil {
		p.SetParentKey(rc.ParentPK())
	}
	return obj
}

// showForm renders the blank add form, or the edit/read form of the row
func (m *Maintenance[T]) showForm(c echo.Context, rc *RequestContext[T]) error {
	ctx := c.Request().Context()
	creating := rc.Action == ActionAdd
	obj := rc.Object
	if creating {
		obj = m.newObject(rc)
	}

	v := m.view(ctx, rc)
	f, err := m.editForm(ctx, rc, obj, creating, nil)
	if err != nil {
		return err
	}
	v.Form = f
	v.FormURL = m.formURL(rc)
	return m.render(c, rc, v)
}

// partialForm re-renders the form with the submitted values without validating them
func (m *Maintenance[T]) partialForm(c echo.Context, rc *RequestContext[T]) error {
	ctx := c.Request().Context()
	creating := rc.Action == ActionPartial
	obj := rc.Object
	if creating {
		obj = m.newObject(rc)
	}

	v := m.view(ctx, rc)
	f, err := m.editForm(ctx, rc, obj, creating, c.QueryParams())
	if err != nil {
		return err
	}
	v.Form = f
	v.FormURL = m.formURL(rc)
	return m.render(c, rc, v)
}

// save binds add/edit submissions. Invalid submissions and refused writes
// re-render the form with the errors.
func (m *Maintenance[T]) save(c echo.Context, rc *RequestContext[T]) error {
	ctx := c.Request().Context()
	creating := rc.Action == ActionAdd

	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}
	obj := rc.Object
	if creating {
		obj = m.newObject(rc)
	}
	if m.parent != nil && m.cfg.ParentField != "" {
		values.Set(m.cfg.ParentField, rc.ParentPK())
	}

	errs := m.cfg.Bind(values, obj, creating)
	if len(errs) == 0 {
		if p, ok := any(obj).(models.Parented); ok && rc.Parent != nil {
			p.SetParentKey(rc.ParentPK())
		}
		if creating {
			err = m.cfg.Service.Create(ctx, obj)
		} else {
			err = m.cfg.Service.Update(ctx, obj)
		}
		if err == nil {
			return m.signal(c, rc, true, m.meta.Title(), obj.PrimaryKey())
		}
		if !services.IsUserError(err) {
			return err
		}
		m.log.Error("failed to save", zap.String("action", rc.Action), zap.Error(err))
		errs = map[string][]string{"": {services.UserMessage(err)}}
	}

	rc.outcome = metrics.OutcomeInvalid
	v := m.view(ctx, rc)
	f, ferr := m.editForm(ctx, rc, obj, creating, values)
	if ferr != nil {
		return ferr
	}
	f.AddErrors(errs)
	v.Form = f.FormatErrors()
	v.FormURL = m.formURL(rc)
	return m.render(c, rc, v)
}

func (m *Maintenance[T]) delete(c echo.Context, rc *RequestContext[T]) error {
	err := m.cfg.Service.SoftDelete(c.Request().Context(), rc.Object)
	if err != nil {
		if !services.IsUserError(err) {
			return err
		}
		m.log.Info("delete refused", zap.String("pk", rc.ObjectPK), zap.Error(err))
		return m.signal(c, rc, false, services.UserMessage(err), rc.ObjectPK)
	}
	return m.signal(c, rc, true, m.meta.Title(), rc.ObjectPK)
}

func (m *Maintenance[T]) reactivate(c echo.Context, rc *RequestContext[T]) error {
	err := m.cfg.Service.Reactivate(c.Request().Context(), rc.Object)
	if err != nil {
		if !services.IsUserError(err) {
			return err
		}
		return m.signal(c, rc, false, services.UserMessage(err), rc.ObjectPK)
	}
	return m.signal(c, rc, true, m.meta.Title(), rc.ObjectPK)
}

func (m *Maintenance[T]) history(c echo.Context, rc *RequestContext[T]) error {
	ctx := c.Request().Context()
	events, err := services.ListHistory(m.deps.DB.WithContext(ctx), m.meta, rc.ObjectPK)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	renderer := services.HistoryRenderer{DB: m.deps.DB, Resolver: m.deps.Resolver}
	v := m.view(ctx, rc)
	v.History = renderer.Render(ctx, m.meta, events)
	return m.render(c, rc, v)
}

func (m *Maintenance[T]) resetForm(c echo.Context, rc *RequestContext[T]) error {
	v := m.view(c.Request().Context(), rc)
	v.Form = forms.PasswordResetForm().Format(false)
	v.FormURL = m.formURL(rc)
	return m.render(c, rc, v)
}

func (m *Maintenance[T]) resetPassword(c echo.Context, rc *RequestContext[T]) error {
	ctx := c.Request().Context()
	if m.cfg.Reset == nil {
		return echo.NewHTTPError(http.StatusBadRequest)
	}

	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}

	password, errs := forms.BindPasswordReset(values)
	if len(errs) == 0 {
		if perr := services.ValidatePassword(password); perr != nil {
			errs = map[string][]string{"password": {sentence(perr.Error())}}
		}
	}
	if len(errs) == 0 {
		err := m.cfg.Reset(ctx, rc.Object, password)
		if err == nil {
			return m.signal(c, rc, true, "", rc.ObjectPK)
		}
		if !services.IsUserError(err) {
			return err
		}
		m.log.Warn("password reset failed", zap.String("pk", rc.ObjectPK), zap.Error(err))
		return m.signal(c, rc, false, services.UserMessage(err), rc.ObjectPK)
	}

	rc.outcome = metrics.OutcomeInvalid
	v := m.view(ctx, rc)
	f := forms.PasswordResetForm().Format(false)
	f.AddErrors(errs)
	v.Form = f.FormatErrors()
	v.FormURL = m.formURL(rc)
	return m.render(c, rc, v)
}

// sentence capitalizes a lower-case error message and ends it with a period
func sentence(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:]) + "."
}
