package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditEntry_WithField(t *testing.T) {
	tests := []struct {
		name   string
		entry  *AuditEntry
		key    string
		value  interface{}
		verify func(*testing.T, *AuditEntry)
	}{
		{
			name:  "initializes nil fields",
			entry: &AuditEntry{},
			key:   "quantity",
			value: 3,
			verify: func(t *testing.T, e *AuditEntry) {
				assert.Equal(t, 3, e.Fields["quantity"])
			},
		},
		{
			name:  "keeps existing fields",
			entry: &AuditEntry{Fields: map[string]interface{}{"menu_id": "m1"}},
			key:   "quantity",
			value: 2,
			verify: func(t *testing.T, e *AuditEntry) {
				assert.Equal(t, "m1", e.Fields["menu_id"])
				assert.Equal(t, 2, e.Fields["quantity"])
			},
		},
		{
			name:  "overwrites a field",
			entry: &AuditEntry{Fields: map[string]interface{}{"quantity": 1}},
			key:   "quantity",
			value: 5,
			verify: func(t *testing.T, e *AuditEntry) {
				assert.Equal(t, 5, e.Fields["quantity"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.entry.WithField(tt.key, tt.value)
			assert.Same(t, tt.entry, result)
			tt.verify(t, result)
		})
	}
}
