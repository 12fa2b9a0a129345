package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studygrid/scheduler-api/internal/models"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
)

type mockAuthRepo struct {
	studentByEmail   *models.Student
	studentByID      *models.Student
	findByEmailErr   error
	findByIDErr      error
	emailExists      bool
	created          *models.Student
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.studentByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.studentByID != nil {
		return m.studentByID, nil
	}
	return m.studentByEmail, nil
}

func (m *mockAuthRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emailExists, nil
}

func (m *mockAuthRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = "new-student"
	m.created = student
	return nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.studentByEmail != nil && m.studentByEmail.ID == id {
		m.studentByEmail.PasswordHash = passwordHash
	}
	return nil
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "scheduler-api",
	})
}

func TestAuthServiceRegister(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo)

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "ana@example.com",
		Password: "password",
		FullName: "Ana Souza",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "new-student", res.Student.ID)
	require.NotNil(t, repo.created)
	assert.True(t, repo.created.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("password")))
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := &mockAuthRepo{emailExists: true}
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "ana@example.com",
		Password: "password",
		FullName: "Ana Souza",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{studentByEmail: &models.Student{ID: "student-1", Email: "ana@example.com", PasswordHash: string(password), Active: true}}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "student-1", res.Student.ID)
	assert.True(t, repo.lastLoginUpdated)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{studentByEmail: &models.Student{ID: "student-1", Email: "ana@example.com", PasswordHash: string(password), Active: true}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	repo := &mockAuthRepo{findByEmailErr: sql.ErrNoRows}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{studentByEmail: &models.Student{ID: "student-1", Email: "ana@example.com", PasswordHash: string(password), Active: false}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthServiceChangePassword(t *testing.T) {
	oldHash, _ := bcrypt.GenerateFromPassword([]byte("old"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{studentByEmail: &models.Student{ID: "student-1", PasswordHash: string(oldHash), Active: true}}
	svc := newAuthService(repo)

	err := svc.ChangePassword(context.Background(), "student-1", models.ChangePasswordRequest{OldPassword: "old", NewPassword: "newpassword"})
	require.NoError(t, err)
	assert.NotEqual(t, string(oldHash), repo.studentByEmail.PasswordHash)
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	oldHash, _ := bcrypt.GenerateFromPassword([]byte("old"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{studentByEmail: &models.Student{ID: "student-1", PasswordHash: string(oldHash), Active: true}}
	svc := newAuthService(repo)

	err := svc.ChangePassword(context.Background(), "student-1", models.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpassword"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestValidateToken(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo)
	student := &models.Student{ID: "student-1", Email: "ana@example.com", FullName: "Ana Souza"}
	token, err := svc.generateAccessToken(student)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, student.ID, claims.StudentID)
	assert.Equal(t, student.Email, claims.Email)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{})
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
