package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ubigeo_app_go/templates/components"
)

func TestLookupFallsBackToAction(t *testing.T) {
	r, ok := Lookup("common/departamento/list")
	require.True(t, ok)
	assert.NotNil(t, r)

	_, ok = Lookup("common/departamento/export")
	assert.False(t, ok)
}

func TestLookupPrefersRegistered(t *testing.T) {
	Register("common/distrito/read", func(v *components.View) templ.Component {
		return templ.Raw("<p>" + v.Name + "</p>")
	})
	t.Cleanup(func() {
		mu.Lock()
		delete(registry, "common/distrito/read")
		mu.Unlock()
	})

	r, ok := Lookup("common/distrito/read")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, r(&components.View{Name: "Distrito"}).Render(context.Background(), &buf))
	assert.Equal(t, "<p>Distrito</p>", buf.String())
}
