package usecase

import (
	"context"
	"io"
	"testing"

	"clinical-scan-support/internal/delivery/dto"
	"clinical-scan-support/internal/domain/entity"
	"clinical-scan-support/pkg/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixtureRepo() (*fakeUserRepo, AuthUsecase) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	userRepo := &fakeUserRepo{users: map[uint]*entity.User{}}
	uc := NewAuthUsecase(log, userRepo, nil, nil)
	return userRepo, uc
}

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	userRepo, uc := newAuthFixtureRepo()

	resp, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Jane Roe",
		Email:    "Jane@Example.COM",
		Password: "s3cret-pass",
		Role:     entity.RoleDoctor,
	})

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.Email)
	assert.Equal(t, entity.RoleDoctor, resp.Role)

	stored := userRepo.users[resp.ID]
	require.NotNil(t, stored)
	assert.True(t, stored.IsActive)
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
}

func TestRegisterReportsDuplicateEmail(t *testing.T) {
	userRepo, uc := newAuthFixtureRepo()
	userRepo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}

	_, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Jane Roe",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
		Role:     entity.RolePatient,
	})

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	_, uc := newAuthFixtureRepo()

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	userRepo, uc := newAuthFixtureRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	userRepo.users[1] = &entity.User{ID: 1, Email: "jane@example.com", Password: string(hash), Role: entity.RolePatient, IsActive: true}

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "wrong"})

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	userRepo, uc := newAuthFixtureRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	userRepo.users[1] = &entity.User{ID: 1, Email: "jane@example.com", Password: string(hash), Role: entity.RolePatient, IsActive: false}

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "jane@example.com", Password: "correct"})

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestGetCurrentUser(t *testing.T) {
	userRepo, uc := newAuthFixtureRepo()
	userRepo.users[4] = &entity.User{ID: 4, Name: "Jane Roe", Email: "jane@example.com", Role: entity.RoleAdmin}

	resp, err := uc.GetCurrentUser(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", resp.Name)

	_, err = uc.GetCurrentUser(context.Background(), 99)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
