package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		valid bool
	}{
		{"isbn-13 plain", "9780441013593", "9780441013593", true},
		{"isbn-13 hyphenated", "978-0-441-01359-3", "9780441013593", true},
		{"isbn-13 with spaces", "978 0441013593", "9780441013593", true},
		{"isbn-10 converts to 13", "0441013597", "9780441013593", true},
		{"isbn-10 with X check digit", "043942089X", "9780439420891", true},
		{"bad isbn-13 checksum", "9780441013594", "", false},
		{"bad isbn-10 checksum", "0441013598", "", false},
		{"superstring with letters", "ISBN 9780441013593", "", false},
		{"too many digits", "97804410135931", "", false},
		{"too few digits", "978044101", "", false},
		{"X not in final position", "04394X2089", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeISBN(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
