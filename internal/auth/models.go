package auth

import "time"

// DefaultCredits is the free message allowance granted at registration.
const DefaultCredits = 10

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Credits      int       `gorm:"not null;default:10" json:"credits"`
	IsPremium    bool      `gorm:"not null;default:false" json:"isPremium"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string { return "app_auth.users" }

// PublicUser is the projection safe to return to clients. The password hash
// never leaves the store layer.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Credits   int    `json:"credits"`
	IsPremium bool   `json:"isPremium"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Credits:   u.Credits,
		IsPremium: u.IsPremium,
	}
}
