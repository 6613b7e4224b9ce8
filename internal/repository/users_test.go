package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lexalyze/legal-docs-api/internal/models"
)

func TestUserCreateAndLookup(t *testing.T) {
	database := testDB(t)
	repo := NewUserRepository(database)
	ctx := context.Background()

	user := &models.User{
		ID:           "u1",
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if byEmail == nil || byEmail.ID != "u1" {
		t.Errorf("GetByEmail = %+v", byEmail)
	}

	byID, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if byID == nil || byID.Email != "ada@example.com" {
		t.Errorf("GetByID = %+v", byID)
	}
}

func TestUserMissing(t *testing.T) {
	database := testDB(t)
	repo := NewUserRepository(database)

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil, got %+v", user)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	database := testDB(t)
	repo := NewUserRepository(database)
	ctx := context.Background()

	first := &models.User{ID: "u1", Name: "A", Email: "dup@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	second := &models.User{ID: "u2", Name: "B", Email: "dup@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	if err := repo.Create(ctx, second); err == nil {
		t.Error("expected unique constraint violation for duplicate email")
	}
}
