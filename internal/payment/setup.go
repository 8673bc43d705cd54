package payment

import (
	"fmt"

	"github.com/aichat-labs/chat-backend/internal/db"
	"gorm.io/gorm"
)

func Init(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, "app_payment"); err != nil {
		return fmt.Errorf("ensure schema app_payment: %w", err)
	}

	if err := gdb.AutoMigrate(&Payment{}); err != nil {
		return fmt.Errorf("auto-migrate payment tables: %w", err)
	}
	return nil
}
