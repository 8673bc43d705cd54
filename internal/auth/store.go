package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

var lowercase = cases.Lower(language.Und)

// NormalizeEmail trims and lowercases an email so that lookups and the
// store-level uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return lowercase.String(strings.TrimSpace(email))
}

// CredentialStore owns User records. The chat and payment route groups share
// it for credit and premium bookkeeping.
type CredentialStore interface {
	Create(ctx context.Context, email, passwordHash string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)

	// SpendCredit decrements the balance by one and returns the remaining
	// credits. The decrement is guarded so the balance is never observed
	// negative; an empty balance fails with ErrNoCredits.
	SpendCredit(ctx context.Context, id string) (int, error)
	AddCredits(ctx context.Context, id string, n int) error
	SetPremium(ctx context.Context, id string, premium bool) error
}

type GormStore struct {
	db *gorm.DB
}

var _ CredentialStore = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create inserts a new user with the default credit balance. The unique index
// on email is the real guard against concurrent registrations; a constraint
// violation surfaces as ErrDuplicateEmail.
func (s *GormStore) Create(ctx context.Context, email, passwordHash string) (User, error) {
	user := User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Credits:      DefaultCredits,
		IsPremium:    false,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrDuplicateEmail
		}
		return User{}, err
	}
	return user, nil
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, "email = ?", NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	return user, err
}

func (s *GormStore) FindByID(ctx context.Context, id string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	return user, err
}

func (s *GormStore) SpendCredit(ctx context.Context, id string) (int, error) {
	res := s.db.WithContext(ctx).Model(&User{}).
		Where("id = ? AND credits > 0", id).
		UpdateColumn("credits", gorm.Expr("credits - 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNoCredits
	}

	user, err := s.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return user.Credits, nil
}

func (s *GormStore) AddCredits(ctx context.Context, id string, n int) error {
	return s.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		UpdateColumn("credits", gorm.Expr("credits + ?", n)).Error
}

func (s *GormStore) SetPremium(ctx context.Context, id string, premium bool) error {
	return s.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("is_premium", premium).Error
}
