package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	identityerrors "medbook/internal/identity/errors"
	"medbook/internal/identity/repository"
	"medbook/internal/identity/validator"
	"medbook/pkg/auth"
	"medbook/pkg/config"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

const (
	testUserID     = "64a000000000000000000001"
	testBusinessID = "64a000000000000000000002"
	testOtherID    = "64a000000000000000000009"
)

type mockUserRepository struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = testUserID
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, identityerrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, identityerrors.ErrNotFound
}

var _ repository.UserRepository = (*mockUserRepository)(nil)

func newTestService(repo *mockUserRepository) IdentityService {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewIdentityService(
		repo,
		validator.NewUserValidator(cfg.Log),
		auth.NewTokenManager("identity-test-secret", time.Hour),
		cfg,
	)
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "  Jane.Doe@Example.COM ",
		Password: "correct-horse-battery",
		Role:     config.RoleClient,
	}
}

func TestRegister_Success(t *testing.T) {
	var created *model.User
	repo := &mockUserRepository{
		createFn: func(_ context.Context, user *model.User) error {
			user.ID = testUserID
			created = user
			return nil
		},
	}
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if created.Email != "jane.doe@example.com" {
		t.Errorf("email not lowercased: %q", created.Email)
	}
	if created.PasswordHash == "correct-horse-battery" || created.PasswordHash == "" {
		t.Error("password stored without hashing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct-horse-battery")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if resp.Token == "" {
		t.Error("no token issued on registration")
	}
	if resp.User.ID != testUserID {
		t.Errorf("response user ID = %q", resp.User.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepository{
		createFn: func(_ context.Context, _ *model.User) error {
			return identityerrors.ErrDuplicateEmail
		},
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), registerRequest())
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegister_StaffRequiresBusiness(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	req := registerRequest()
	req.Role = config.RoleSpecialist
	_, err := svc.Register(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	req = registerRequest()
	req.Role = config.RoleSpecialist
	req.BusinessID = testBusinessID
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("staff registration with business failed: %v", err)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	req := registerRequest()
	req.Password = "short"
	_, err := svc.Register(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}
	repo := &mockUserRepository{
		findByEmailFn: func(_ context.Context, email string) (*model.User, error) {
			if email != "jane.doe@example.com" {
				return nil, identityerrors.ErrNotFound
			}
			return &model.User{
				ID:           testUserID,
				Email:        email,
				PasswordHash: string(hash),
				Role:         config.RoleClient,
			}, nil
		},
	}
	svc := newTestService(repo)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "Jane.Doe@Example.com",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("no token issued on login")
	}
}

func TestLogin_UniformFailureMessage(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}
	repo := &mockUserRepository{
		findByEmailFn: func(_ context.Context, email string) (*model.User, error) {
			if email != "jane.doe@example.com" {
				return nil, identityerrors.ErrNotFound
			}
			return &model.User{
				ID:           testUserID,
				Email:        email,
				PasswordHash: string(hash),
				Role:         config.RoleClient,
			}, nil
		},
	}
	svc := newTestService(repo)

	_, errUnknown := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	_, errBadPass := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "jane.doe@example.com",
		Password: "wrong-password",
	})

	if !apperrors.IsCode(errUnknown, apperrors.CodeUnauthorized) {
		t.Fatalf("unknown email: expected unauthorized, got %v", errUnknown)
	}
	if !apperrors.IsCode(errBadPass, apperrors.CodeUnauthorized) {
		t.Fatalf("bad password: expected unauthorized, got %v", errBadPass)
	}
	// An attacker probing for accounts must not be able to tell the two
	// failures apart.
	if errUnknown.Error() != errBadPass.Error() {
		t.Errorf("login failures distinguishable: %q vs %q", errUnknown.Error(), errBadPass.Error())
	}
}

func TestGetUser_SelfAllowed(t *testing.T) {
	repo := &mockUserRepository{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Role: config.RoleClient}, nil
		},
	}
	svc := newTestService(repo)

	ctx := auth.WithActor(context.Background(), auth.Actor{ID: testUserID, Role: config.RoleClient})
	user, err := svc.GetUser(ctx, testUserID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.ID != testUserID {
		t.Errorf("user ID = %q", user.ID)
	}
}

func TestGetUser_OtherUserRejected(t *testing.T) {
	repo := &mockUserRepository{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Role: config.RoleClient}, nil
		},
	}
	svc := newTestService(repo)

	ctx := auth.WithActor(context.Background(), auth.Actor{ID: testOtherID, Role: config.RoleClient})
	_, err := svc.GetUser(ctx, testUserID)
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestGetUser_AdminAllowed(t *testing.T) {
	repo := &mockUserRepository{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Role: config.RoleClient}, nil
		},
	}
	svc := newTestService(repo)

	ctx := auth.WithActor(context.Background(), auth.Actor{ID: testOtherID, Role: config.RoleAdmin})
	if _, err := svc.GetUser(ctx, testUserID); err != nil {
		t.Fatalf("admin lookup failed: %v", err)
	}
}
