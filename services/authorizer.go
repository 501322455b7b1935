package services

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"go.uber.org/zap"

	"ubigeo_app_go/models"
)

// authzModel grants actions on "{app}/{model}" objects to roles; admins
// inherit supervisor policies and supervisors inherit asesor policies.
const authzModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

var readActions = []string{"home", "list", "read", "history", "export", "partial", "partial+", "partial-search"}

// defaultPolicies is used when no policy file is configured
func defaultPolicies() [][]string {
	var policies [][]string
	for _, act := range readActions {
		policies = append(policies, []string{models.RoleAsesor, "common/*", act})
	}
	for _, act := range []string{"add", "edit", "delete", "reactivate", "import"} {
		for _, obj := range []string{"common/departamento", "common/provincia", "common/distrito"} {
			policies = append(policies, []string{models.RoleSupervisor, obj, act})
		}
	}
	policies = append(policies, []string{models.RoleAdmin, "*", "*"})
	return policies
}

var defaultGroupings = [][]string{
	{models.RoleSupervisor, models.RoleAsesor},
	{models.RoleAdmin, models.RoleSupervisor},
}

// actions that only make sense on rows that are still active
var activeOnlyActions = map[string]bool{
	"edit":     true,
	"partial":  true,
	"partial+": true,
	"delete":   true,
	"reset":    true,
}

// Authorizer is the permission oracle for maintenance actions
type Authorizer struct {
	enforcer *casbin.Enforcer
	log      *zap.Logger
	mu       sync.RWMutex
}

// NewAuthorizer builds the role policy from policyFile, or the built-in policy when it is empty
func NewAuthorizer(policyFile string, log *zap.Logger) (*Authorizer, error) {
	m, err := model.NewModelFromString(authzModel)
	if err != nil {
		return nil, fmt.Errorf("authz: invalid model: %w", err)
	}

	var enf *casbin.Enforcer
	if policyFile != "" {
		enf, err = casbin.NewEnforcer(m, fileadapter.NewAdapter(policyFile))
	} else {
		enf, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}

	if policyFile == "" {
		if _, err := enf.AddPolicies(defaultPolicies()); err != nil {
			return nil, fmt.Errorf("authz: failed to add policies: %w", err)
		}
		if _, err := enf.AddGroupingPolicies(defaultGroupings); err != nil {
			return nil, fmt.Errorf("authz: failed to add role inheritance: %w", err)
		}
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Authorizer{enforcer: enf, log: log.With(zap.String("component", "authz"))}, nil
}

// Can reports whether user may run action on a model, and on obj when it is not nil.
// Superusers and inactive users are always refused.
func (a *Authorizer) Can(user *models.User, action string, meta *models.ModelMeta, obj models.Record) bool {
	if user == nil || !user.IsActive || user.IsSuperuser {
		return false
	}

	if obj != nil && !ObjectAllows(action, obj) {
		return false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	object := meta.App + "/" + meta.Name
	allowed, err := a.enforcer.Enforce(user.Role, object, action)
	if err != nil {
		a.log.Error("enforce failed", zap.String("object", object), zap.String("action", action), zap.Error(err))
		return false
	}
	if !allowed {
		a.log.Debug("denied", zap.String("role", user.Role), zap.String("object", object), zap.String("action", action))
	}
	return allowed
}

// ObjectAllows applies the row state rules: reactivate needs an inactive row,
// the other instance actions an active one.
func ObjectAllows(action string, obj models.Record) bool {
	if action == "reactivate" {
		return !obj.Active()
	}
	return !activeOnlyActions[action] || obj.Active()
}
