package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart operations recorded in the audit trail.
const (
	OperationAddItem            = "add_item"
	OperationUpdateItemQuantity = "update_item_quantity"
	OperationRemoveItem         = "remove_item"
	OperationClearCart          = "clear_cart"
)

// Mutation outcomes recorded in the audit trail.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// AuditEntry records one settled cart mutation.
// Use the Fields map for operation-specific context such as the requested quantity.
type AuditEntry struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
	RequestID  string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	UserID     string                 `bson:"user_id" json:"user_id"`
	Operation  string                 `bson:"operation" json:"operation"`
	ItemID     string                 `bson:"item_id,omitempty" json:"item_id,omitempty"`
	Outcome    string                 `bson:"outcome" json:"outcome"`
	Optimistic bool                   `bson:"optimistic" json:"optimistic"`
	RolledBack bool                   `bson:"rolled_back" json:"rolled_back"`
	Duration   int64                  `bson:"duration_ms" json:"duration_ms"`
	Error      string                 `bson:"error,omitempty" json:"error,omitempty"`
	Fields     map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// WithField adds a field to the entry's Fields map, initializing it if needed.
func (e *AuditEntry) WithField(key string, value interface{}) *AuditEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// AuditQueryOptions filters audit entries.
type AuditQueryOptions struct {
	UserID    string
	Operation string
	Outcome   string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Skip      int
}
