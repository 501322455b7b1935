package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "Valid password",
			password: "clave2024",
			wantErr:  false,
		},
		{
			name:     "Too short",
			password: "abc12",
			wantErr:  true,
			errMsg:   "la contraseña debe tener al menos 8 caracteres",
		},
		{
			name:     "Missing letter",
			password: "12345678",
			wantErr:  true,
			errMsg:   "la contraseña debe contener al menos una letra",
		},
		{
			name:     "Missing number",
			password: "contraseña",
			wantErr:  true,
			errMsg:   "la contraseña debe contener al menos un número",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
