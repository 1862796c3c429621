package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/request"
	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/stock-portfolio-tracker/internal/testutil"
)

// TestUserService_CreateUser tests user registration.
//
// WHY: Usernames and emails identify users and must stay unique; duplicates are
// reported with distinct errors so the API can say which one clashed.
func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and retrieves a user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)

		user, err := svc.CreateUser(ctx, request.CreateUserRequest{Username: " alice ", Email: "alice@example.com"})
		if err != nil {
			t.Fatalf("CreateUser() returned unexpected error: %v", err)
		}
		if user.ID == "" || user.Username != "alice" {
			t.Errorf("Unexpected user: %+v", user)
		}

		got, err := svc.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser() returned unexpected error: %v", err)
		}
		if got != user {
			t.Errorf("Expected %+v, got %+v", user, got)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)
		existing := testutil.NewUser().WithUsername("bob").Build(t, db)

		_, err := svc.CreateUser(ctx, request.CreateUserRequest{Username: existing.Username, Email: "other@example.com"})
		if !errors.Is(err, apperrors.ErrDuplicateUsername) {
			t.Errorf("Expected ErrDuplicateUsername, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)
		existing := testutil.NewUser().WithEmail("carol@example.com").Build(t, db)

		_, err := svc.CreateUser(ctx, request.CreateUserRequest{Username: "carol", Email: existing.Email})
		if !errors.Is(err, apperrors.ErrDuplicateEmail) {
			t.Errorf("Expected ErrDuplicateEmail, got %v", err)
		}
		testutil.AssertRowCount(t, db, "users", 1)
	})

	t.Run("unknown user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db)

		if _, err := svc.GetUser(ctx, testutil.MakeID()); !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}
