// File: internal/domain/message.go
package domain

import "time"

// Message roles as stored and as sent to the completion provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message within a chat. Rows are append-only:
// nothing in this service updates or deletes a message after creation.
type Message struct {
	ID        uint      `json:"-" gorm:"primarykey"`
	ChatID    string    `json:"chat_id" gorm:"not null;index"`
	Role      string    `json:"role" gorm:"not null"` // "system", "user" or "assistant"
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
