package chat

import (
	"fmt"

	"github.com/aichat-labs/chat-backend/internal/db"
	"gorm.io/gorm"
)

func Init(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, "app_chat"); err != nil {
		return fmt.Errorf("ensure schema app_chat: %w", err)
	}

	if err := gdb.AutoMigrate(&Conversation{}, &Message{}); err != nil {
		return fmt.Errorf("auto-migrate chat tables: %w", err)
	}
	return nil
}
