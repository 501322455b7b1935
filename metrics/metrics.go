package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes of a dispatched maintenance action
const (
	OutcomeOK        = "ok"
	OutcomeFail      = "fail"
	OutcomeInvalid   = "invalid"
	OutcomeForbidden = "forbidden"
	OutcomeNotFound  = "not_found"
)

var (
	actions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "maintenance",
		Name:      "actions_total",
		Help:      "Dispatched maintenance actions broken down by model, action and outcome.",
	}, []string{"model", "action", "outcome"})

	importedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "maintenance",
		Name:      "import_rows_total",
		Help:      "Spreadsheet rows processed by imports broken down by model and result.",
	}, []string{"model", "result"})
)

// ObserveAction counts one dispatched action
func ObserveAction(model, action, outcome string) {
	actions.WithLabelValues(model, action, outcome).Inc()
}

// ObserveImport counts imported, failed and empty rows of one import
func ObserveImport(model string, imported, failed, empty int) {
	importedRows.WithLabelValues(model, "imported").Add(float64(imported))
	importedRows.WithLabelValues(model, "failed").Add(float64(failed))
	importedRows.WithLabelValues(model, "empty").Add(float64(empty))
}

// Handler exposes the default registry
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
