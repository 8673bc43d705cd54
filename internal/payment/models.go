package payment

import "time"

// Payment statuses.
const (
	StatusPending   = "pending"
	StatusSucceeded = "succeeded"
)

// Payment is one checkout attempt. ProviderEventID is set when the provider
// webhook confirms it, and its uniqueness makes webhook delivery idempotent.
type Payment struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"not null;index" json:"user_id"`
	Plan            string    `gorm:"not null" json:"plan"`
	Amount          int       `gorm:"not null" json:"amount"` // cents
	Status          string    `gorm:"not null;default:'pending'" json:"status"`
	ProviderEventID *string   `gorm:"uniqueIndex" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Payment) TableName() string { return "app_payment.payments" }

// Plan describes what a successful payment grants.
type Plan struct {
	Name    string `json:"name"`
	Amount  int    `json:"amount"` // cents
	Credits int    `json:"credits"`
	Premium bool   `json:"premium"`
}

var plans = map[string]Plan{
	"premium":     {Name: "premium", Amount: 999, Premium: true},
	"credits_50":  {Name: "credits_50", Amount: 499, Credits: 50},
	"credits_200": {Name: "credits_200", Amount: 1499, Credits: 200},
}
