package user

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/userdeck/userdeck/internal/domain"
)

func TestNewUserResource(t *testing.T) {
	verified := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	created := time.Date(2026, 1, 5, 15, 30, 0, 0, time.UTC)
	avatar := "https://example.com/a.png"

	u := domain.User{
		BaseModel:       domain.BaseModel{ID: 7, CreatedAt: created, UpdatedAt: created},
		Name:            "Alice Smith",
		Email:           "alice@example.com",
		Avatar:          &avatar,
		EmailVerifiedAt: &verified,
		Role:            domain.RoleAdmin,
		PasswordHash:    "$2a$10$secret",
	}

	res := NewUserResource(u)

	if res.ID != 7 || res.Name != "Alice Smith" || res.Role != domain.RoleAdmin {
		t.Errorf("resource = %+v; identity fields wrong", res)
	}
	if res.CreatedAt == nil || *res.CreatedAt != "Jan 05, 2026 - 03:30 pm" {
		t.Errorf("CreatedAt = %v; want formatted display timestamp", res.CreatedAt)
	}
	if res.EmailVerifiedAt == nil || !res.EmailVerifiedAt.Equal(verified) {
		t.Errorf("EmailVerifiedAt = %v; want the raw time passed through", res.EmailVerifiedAt)
	}
}

func TestNewUserResource_ZeroTimestamps(t *testing.T) {
	res := NewUserResource(domain.User{Name: "X Y", Email: "x@example.com"})

	if res.CreatedAt != nil {
		t.Errorf("CreatedAt = %v; want nil for the zero time", res.CreatedAt)
	}
	if res.EmailVerifiedAt != nil {
		t.Errorf("EmailVerifiedAt = %v; want nil", res.EmailVerifiedAt)
	}
	if res.Avatar != nil {
		t.Errorf("Avatar = %v; want nil", res.Avatar)
	}
}

func TestUserResource_NeverSerializesPasswordHash(t *testing.T) {
	res := NewUserResource(domain.User{
		Name:         "Alice Smith",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secret",
	})

	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "secret") || strings.Contains(string(raw), "password") {
		t.Errorf("serialized resource leaks credential material: %s", raw)
	}
}
