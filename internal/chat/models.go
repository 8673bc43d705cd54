package chat

import (
	"time"

	"github.com/lib/pq"
)

// Conversation groups the messages of one chat thread. Tags are free-form
// labels the frontend uses for filtering.
type Conversation struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"not null;index" json:"user_id"`
	Title     string         `json:"title"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

func (Conversation) TableName() string { return "app_chat.conversations" }

// Message is a single turn, role "user" or "assistant".
type Message struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"not null;index" json:"conversation_id"`
	Role           string    `gorm:"not null" json:"role"`
	Content        string    `gorm:"not null" json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Message) TableName() string { return "app_chat.messages" }
