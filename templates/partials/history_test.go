package partials

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ubigeo_app_go/services"
	"ubigeo_app_go/templates/components"
)

func TestHistoryAccordion(t *testing.T) {
	v := &components.View{
		ModalTitle: "Historial",
		History: []services.HistoryEntry{
			{ID: 1, Label: "Creado", Actor: "ADMIN", Timestamp: "05/03/2024 14:30", HeaderOnly: true},
			{ID: 2, Label: "Modificado", Actor: "ADMIN", Timestamp: "05/03/2024 14:31", Hidden: true},
			{ID: 3, Label: "Modificado", Actor: "ANA", Timestamp: "05/03/2024 14:32", Changes: []services.DisplayChange{
				{Label: "Nombre", Before: "LIMA", After: "LIMA <METRO>"},
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, HistoryAccordion(v).Render(context.Background(), &buf))
	html := buf.String()

	assert.Equal(t, 3, strings.Count(html, `class="accordion-item`))
	assert.Equal(t, 1, strings.Count(html, `class="accordion-item d-none"`))
	assert.Equal(t, 1, strings.Count(html, `data-bs-target=`))
	assert.Contains(t, html, `data-bs-target="#history-3"`)
	assert.Contains(t, html, "LIMA &lt;METRO&gt;")
	assert.NotContains(t, html, `id="history-1"`)
}
