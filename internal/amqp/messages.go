package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Entities a change notification can refer to.
const (
	EntityTransaction = "transaction"
	EntityCategory    = "category"
)

// Operations a change notification can describe.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// ChangeMessage announces that a user's ledger changed. It carries no
// payload; consumers reload what they need from the store.
type ChangeMessage struct {
	UserID    string    `json:"user_id"`
	Entity    string    `json:"entity"`
	Operation string    `json:"operation"`
	EntityID  string    `json:"entity_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage creates a change message stamped with the current time
func NewChangeMessage(userID, entity, operation, entityID string) *ChangeMessage {
	return &ChangeMessage{
		UserID:    userID,
		Entity:    entity,
		Operation: operation,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes a message; a message without a user is rejected.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, errors.New("change message without user_id")
	}
	return &msg, nil
}
