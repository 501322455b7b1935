package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxUploadSize bounds uploaded import workbooks
const MaxUploadSize = 10 * 1024 * 1024 // 10MB

var (
	ErrUploadTooLarge   = errors.New("upload exceeds maximum size")
	ErrUploadUnreadable = errors.New("upload could not be read")
	ErrNotSpreadsheet   = errors.New("upload is not an xlsx workbook")
)

// ReadSpreadsheetUpload checks the size, extension and content of an uploaded
// workbook and returns its bytes
func ReadSpreadsheetUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	// Check file size
	if fileHeader.Size > MaxUploadSize {
		return nil, ErrUploadTooLarge
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" {
		return nil, ErrNotSpreadsheet
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadUnreadable, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadUnreadable, err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrUploadTooLarge
	}
	if len(data) == 0 {
		return nil, ErrUploadUnreadable
	}

	// Workbooks are zip containers; the sniffer looks at the magic number and entries
	if !IsSpreadsheet(data) {
		return nil, ErrNotSpreadsheet
	}
	return data, nil
}

// UploadMessage is the form error shown for a rejected upload
func UploadMessage(err error) string {
	switch {
	case errors.Is(err, ErrUploadTooLarge):
		return "El archivo supera el tamaño máximo permitido."
	case errors.Is(err, ErrNotSpreadsheet):
		return "El archivo debe ser un libro de Excel (.xlsx)."
	}
	return "No se pudo leer el archivo."
}
