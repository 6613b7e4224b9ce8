package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lexalyze/legal-docs-api/internal/auth"
	"github.com/lexalyze/legal-docs-api/internal/models"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func testAuthService() (AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(newMemUserRepo(), tokens, testLogger()), tokens
}

func TestSignupIssuesVerifiableToken(t *testing.T) {
	svc, tokens := testAuthService()

	resp, err := svc.Signup(context.Background(), &models.SignupRequest{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if resp.User.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", resp.User.Email)
	}

	subject, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if subject != resp.User.ID {
		t.Errorf("token subject = %q, want %q", subject, resp.User.ID)
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := testAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Email: "a@b.com", Password: "secret1"})
	if status := appStatus(t, err); status != 400 {
		t.Errorf("missing name: status = %d, want 400", status)
	}

	_, err = svc.Signup(ctx, &models.SignupRequest{Name: "Ada", Email: "a@b.com", Password: "short"})
	if status := appStatus(t, err); status != 400 {
		t.Errorf("short password: status = %d, want 400", status)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _ := testAuthService()
	ctx := context.Background()

	req := &models.SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"}
	if _, err := svc.Signup(ctx, req); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(ctx, req)
	if status := appStatus(t, err); status != 400 {
		t.Errorf("duplicate email: status = %d, want 400", status)
	}
}

func TestSigninChecksPassword(t *testing.T) {
	svc, _ := testAuthService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &models.SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	resp, err := svc.Signin(ctx, &models.SigninRequest{Email: "ADA@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Signin returned error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}

	_, err = svc.Signin(ctx, &models.SigninRequest{Email: "ada@example.com", Password: "wrong"})
	if status := appStatus(t, err); status != 401 {
		t.Errorf("wrong password: status = %d, want 401", status)
	}

	_, err = svc.Signin(ctx, &models.SigninRequest{Email: "nobody@example.com", Password: "secret1"})
	if status := appStatus(t, err); status != 401 {
		t.Errorf("unknown email: status = %d, want 401", status)
	}
}

func TestMe(t *testing.T) {
	svc, _ := testAuthService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &models.SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	user, err := svc.Me(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if user.Name != "Ada" {
		t.Errorf("name = %q", user.Name)
	}

	_, err = svc.Me(ctx, "missing")
	if status := appStatus(t, err); status != 401 {
		t.Errorf("missing user: status = %d, want 401", status)
	}
}
