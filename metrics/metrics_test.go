package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAction(t *testing.T) {
	before := testutil.ToFloat64(actions.WithLabelValues("departamento", "delete", OutcomeFail))
	ObserveAction("departamento", "delete", OutcomeFail)
	ObserveAction("departamento", "delete", OutcomeFail)

	after := testutil.ToFloat64(actions.WithLabelValues("departamento", "delete", OutcomeFail))
	assert.Equal(t, before+2, after)
}

func TestObserveImport(t *testing.T) {
	ObserveImport("provincia", 3, 1, 12)
	assert.GreaterOrEqual(t, testutil.ToFloat64(importedRows.WithLabelValues("provincia", "empty")), float64(12))
}

func TestHandlerExposesCounters(t *testing.T) {
	ObserveAction("distrito", "list", OutcomeOK)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, Handler()(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "maintenance_actions_total"))
}
