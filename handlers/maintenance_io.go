package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ubigeo_app_go/forms"
	"ubigeo_app_go/metrics"
	"ubigeo_app_go/services"
)

// emptyRowsWarning is the number of blank rows above which an import is logged as suspicious
const emptyRowsWarning = 10

// export streams every row of the model, soft-deleted ones included
func (m *Maintenance[T]) export(c echo.Context, rc *RequestContext[T]) error {
	ctx := c.Request().Context()
	items, err := m.cfg.Service.All(ctx, services.ScopeAll, m.where(rc))
	if err != nil {
		return err
	}

	fields := m.cfg.ExportFields
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, len(fields))
		for i, name := range fields {
			f, _ := m.meta.Field(name)
			row[i] = services.ExportValue(f, item.Value(name))
		}
		rows = append(rows, row)
	}

	buf, err := services.WriteWorkbook(strings.ToUpper(m.meta.PluralTitle()), m.meta.Headers(fields), rows)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("%s_%s.xlsx", m.meta.PluralTitle(), m.deps.now().Format(services.ExportTimestamp))
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, services.XLSXContentType, buf.Bytes())
}

func (m *Maintenance[T]) importForm(c echo.Context, rc *RequestContext[T]) error {
	v := m.view(c.Request().Context(), rc)
	v.Form = forms.ImportForm().Format(false)
	v.FormURL = m.formURL(rc)
	return m.render(c, rc, v)
}

// importFile creates one row per spreadsheet row. Rows are independent: a
// failing row is counted and reported without undoing the others.
func (m *Maintenance[T]) importFile(c echo.Context, rc *RequestContext[T]) error {
	ctx := c.Request().Context()

	data, msg := readUpload(c)
	if msg != "" {
		rc.outcome = metrics.OutcomeInvalid
		v := m.view(ctx, rc)
		f := forms.ImportForm().Format(false)
		f.AddError("file", msg)
		v.Form = f.FormatErrors()
		v.FormURL = m.formURL(rc)
		return m.render(c, rc, v)
	}

	m.archive(ctx, data)

	rows, empty, err := services.ReadWorkbook(bytes.NewReader(data))
	if err != nil || (len(rows) == 0 && empty == 0) {
		m.log.Warn("unreadable import", zap.Error(err))
		return m.signal(c, rc, false, "Error con el archivo", "")
	}

	result := m.importRows(ctx, rc, rows)
	result.Empty = empty
	if result.Empty > emptyRowsWarning {
		m.log.Warn("import has many empty rows",
			zap.Int("empty", result.Empty),
			zap.Strings("errors", result.Errors),
		)
	}
	metrics.ObserveImport(m.meta.Name, result.Imported, result.Failed, result.Empty)

	if result.Failed > 0 {
		return m.signal(c, rc, false, strings.Join(result.Errors, ", "), "")
	}
	return m.signal(c, rc, true, importedMessage(result.Imported, m.meta.Title(), m.meta.PluralTitle()), "")
}

func importedMessage(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s importado correctamente", n, singular)
	}
	return fmt.Sprintf("%d %s importados correctamente", n, plural)
}

// readUpload returns the uploaded workbook, or the message to show on the form
func readUpload(c echo.Context) ([]byte, string) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "Este campo es obligatorio."
	}
	data, err := services.ReadSpreadsheetUpload(fh)
	if err != nil {
		return nil, services.UploadMessage(err)
	}
	return data, ""
}

// archive keeps a copy of the uploaded workbook. Failures do not block the import.
func (m *Maintenance[T]) archive(ctx context.Context, data []byte) {
	if m.deps.Storage == nil {
		return
	}
	key := services.ImportArchiveKey(m.meta.Name, m.deps.now())
	_, err := m.deps.Storage.UploadReader(ctx, bytes.NewReader(data), key, services.XLSXContentType, int64(len(data)))
	if err != nil {
		m.log.Warn("failed to archive import", zap.String("key", key), zap.Error(err))
		return
	}
	m.log.Info("import archived", zap.String("key", key), zap.String("storage", m.deps.Storage.Name()))
}

func (m *Maintenance[T]) importRows(ctx context.Context, rc *RequestContext[T], rows []services.SheetRow) services.ImportResult {
	var result services.ImportResult
	for _, row := range rows {
		values := url.Values{}
		for header, value := range row.Values {
			f, ok := m.meta.FieldByLabel(header)
			if !ok {
				continue
			}
			if value == services.Placeholder {
				value = ""
			}
			values.Set(f.Name, value)
		}
		if m.parent != nil && m.cfg.ParentField != "" {
			values.Set(m.cfg.ParentField, rc.ParentPK())
		}

		obj := m.newObject(rc)
		if errs := m.cfg.Bind(values, obj, true); len(errs) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: %s", row.Number, flattenErrors(errs)))
			continue
		}
		if err := m.cfg.Service.Create(ctx, obj); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: %s", row.Number, services.UserMessage(err)))
			m.log.Error("import row failed", zap.Int("row", row.Number), zap.Error(err))
			continue
		}
		result.Imported++
	}
	return result
}

// flattenErrors joins validation messages in field order
func flattenErrors(errs map[string][]string) string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		msg := strings.Join(errs[name], " ")
		if name != "" {
			msg = name + ": " + msg
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}
