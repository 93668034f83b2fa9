package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactValue(t *testing.T) {
	tests := []struct {
		key   string
		value interface{}
		want  interface{}
	}{
		{"email", "jane.doe@example.com", "j****e@example.com"},
		{"notify_to", "ab@example.com", "****@example.com"},
		{"admin_password", "hunter2", "[REDACTED]"},
		{"password_hash", "$2a$10$abcdefghijkl", "[REDACTED]"},
		{"qr_code", "https://monitoring.e-kassa.gov.az/?doc=123", "http****"},
		{"token", "short", "short"},
		{"badge", "b1", "b1"},
		{"co2", 12.5, 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, redactValue(tt.key, tt.value))
		})
	}
}

func TestFieldsRedactsPairsOnly(t *testing.T) {
	l := NewNop()
	got := l.fields([]interface{}{"email", "jane.doe@example.com", "dangling"})
	assert.Equal(t, []interface{}{"email", "j****e@example.com", "dangling"}, got)
}

func TestDevDebugSkipsRedaction(t *testing.T) {
	l := New(DEBUG, true)
	got := l.fields([]interface{}{"email", "jane.doe@example.com"})
	assert.Equal(t, "jane.doe@example.com", got[1])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARN"))
	assert.Equal(t, ERROR, ParseLevel("Error"))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}
