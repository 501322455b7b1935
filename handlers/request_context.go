package handlers

import (
	"ubigeo_app_go/metrics"
	"ubigeo_app_go/models"
)

// RequestContext is everything the dispatcher resolved for one request
type RequestContext[T models.Record] struct {
	User     *models.User
	Method   string
	Action   string
	ObjectPK string
	// Object is only set when ObjectPK is not empty
	Object T
	// Parent is the owning row on related routes
	Parent models.Record
	Can    map[string]bool
	URLs   map[string]string

	outcome string
}

func newRequestContext[T models.Record](user *models.User, method, action, pk string) *RequestContext[T] {
	return &RequestContext[T]{
		User:     user,
		Method:   method,
		Action:   action,
		ObjectPK: pk,
		outcome:  metrics.OutcomeOK,
	}
}

// HasObject reports whether the request addresses one row
func (rc *RequestContext[T]) HasObject() bool {
	return rc.ObjectPK != ""
}

// ParentPK is the primary key of the owning row, empty on top-level routes
func (rc *RequestContext[T]) ParentPK() string {
	if rc.Parent == nil {
		return ""
	}
	return rc.Parent.PrimaryKey()
}
