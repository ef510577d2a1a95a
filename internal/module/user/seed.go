package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/userdeck/userdeck/internal/domain"
)

const seedBatchSize = 25

// Seed populates an empty users table with three well-known test accounts
// (one per role, password "password") and fifty generated users. It is a
// no-op when the table already has rows, so restarting a debug server never
// duplicates data.
func Seed(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	// MinCost keeps seeding fast; seed accounts are debug-only.
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	now := time.Now()
	users := []domain.User{
		{Name: "Admin Test", Email: "admin@test.com", Role: domain.RoleAdmin, EmailVerifiedAt: &now, PasswordHash: string(hash)},
		{Name: "Manager Test", Email: "manager@test.com", Role: domain.RoleManager, EmailVerifiedAt: &now, PasswordHash: string(hash)},
		{Name: "User Test", Email: "user@test.com", Role: domain.RoleUser, EmailVerifiedAt: &now, PasswordHash: string(hash)},
	}

	for i := 1; i <= 50; i++ {
		u := domain.User{
			Name:         fmt.Sprintf("Seed User %02d", i),
			Email:        fmt.Sprintf("seed.user%02d@example.com", i),
			Role:         domain.RoleUser,
			PasswordHash: string(hash),
		}
		// Roughly two thirds of the generated accounts are verified.
		if i%3 != 0 {
			u.EmailVerifiedAt = &now
		}
		users = append(users, u)
	}

	if err := db.WithContext(ctx).CreateInBatches(users, seedBatchSize).Error; err != nil {
		return fmt.Errorf("insert seed users: %w", err)
	}

	if log != nil {
		log.Info("seeded users table", slog.Int("count", len(users)))
	}
	return nil
}
