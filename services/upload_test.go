package services

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 * 1024 * 1024)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestReadSpreadsheetUpload(t *testing.T) {
	book, err := WriteWorkbook("Departamentos", []string{"Código", "Nombre"}, [][]string{{"15", "LIMA"}})
	require.NoError(t, err)

	t.Run("Valid workbook", func(t *testing.T) {
		data, err := ReadSpreadsheetUpload(createMockFileHeader(t, "departamentos.XLSX", book.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, book.Bytes(), data)
	})

	t.Run("File too large", func(t *testing.T) {
		content := make([]byte, MaxUploadSize+1)
		_, err := ReadSpreadsheetUpload(createMockFileHeader(t, "grande.xlsx", content))
		assert.ErrorIs(t, err, ErrUploadTooLarge)
		assert.Equal(t, "El archivo supera el tamaño máximo permitido.", UploadMessage(err))
	})

	t.Run("Invalid extension", func(t *testing.T) {
		_, err := ReadSpreadsheetUpload(createMockFileHeader(t, "departamentos.csv", book.Bytes()))
		assert.ErrorIs(t, err, ErrNotSpreadsheet)
	})

	t.Run("Text renamed as workbook", func(t *testing.T) {
		_, err := ReadSpreadsheetUpload(createMockFileHeader(t, "departamentos.xlsx", []byte("codigo,nombre\n15,lima\n")))
		assert.ErrorIs(t, err, ErrNotSpreadsheet)
		assert.Equal(t, "El archivo debe ser un libro de Excel (.xlsx).", UploadMessage(err))
	})

	t.Run("Empty file", func(t *testing.T) {
		_, err := ReadSpreadsheetUpload(createMockFileHeader(t, "vacio.xlsx", nil))
		assert.ErrorIs(t, err, ErrUploadUnreadable)
		assert.Equal(t, "No se pudo leer el archivo.", UploadMessage(err))
	})
}
