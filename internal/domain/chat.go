// File: internal/domain/chat.go
package domain

import "time"

// Chat represents a single conversation thread. The ID comes from the
// client, so the first prompt for an unseen ID creates the row.
type Chat struct {
	ID        string    `json:"id" gorm:"primarykey"`
	Title     string    `json:"title"` // The title of the chat, e.g., "Capital of Sweden"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
