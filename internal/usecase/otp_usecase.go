package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"clinical-scan-support/config"
	"clinical-scan-support/internal/delivery/dto"
	"clinical-scan-support/internal/domain/entity"
	"clinical-scan-support/internal/domain/repository"
	"clinical-scan-support/internal/service"
	"clinical-scan-support/pkg/apperr"
	"clinical-scan-support/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// OTPUsecase implements the admin second-factor login. A fresh code
// invalidates every earlier one for the same email, and each code verifies
// at most once.
type OTPUsecase interface {
	Send(ctx context.Context, req *dto.SendOTPRequest) (*dto.SendOTPResponse, error)
	Verify(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.TokenResponse, error)
}

type otpUsecase struct {
	log         *logrus.Logger
	otpRepo     repository.OTPRepository
	userRepo    repository.UserRepository
	mailer      service.Mailer
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	expiry      time.Duration
}

func NewOTPUsecase(
	log *logrus.Logger,
	otpRepo repository.OTPRepository,
	userRepo repository.UserRepository,
	mailer service.Mailer,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	cfg config.OTPConfig,
) OTPUsecase {
	return &otpUsecase{
		log:         log,
		otpRepo:     otpRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		jwtService:  jwtService,
		redisClient: redisClient,
		expiry:      cfg.Expiry,
	}
}

func (u *otpUsecase) Send(ctx context.Context, req *dto.SendOTPRequest) (*dto.SendOTPResponse, error) {
	email := strings.ToLower(req.Email)

	admin, err := u.userRepo.FindByEmailAndRole(ctx, email, entity.RoleAdmin)
	if err != nil {
		u.log.Warnf("Failed to look up admin %s: %+v", email, err)
		return nil, err
	}
	if admin == nil {
		return nil, apperr.NotFound("No admin account with this email")
	}

	if err := u.otpRepo.InvalidateByEmail(ctx, email); err != nil {
		u.log.Warnf("Failed to invalidate previous OTPs for %s: %+v", email, err)
		return nil, err
	}

	code, err := generateOTPCode()
	if err != nil {
		u.log.Warnf("Failed to generate OTP: %+v", err)
		return nil, err
	}

	now := time.Now()
	record := &entity.OTPRecord{
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(u.expiry),
	}
	if err := u.otpRepo.Create(ctx, record); err != nil {
		u.log.Warnf("Failed to store OTP for %s: %+v", email, err)
		return nil, err
	}

	minutes := int(u.expiry.Minutes())
	body := fmt.Sprintf("Your admin login code is %s. It expires in %d minutes.", code, minutes)
	if err := u.mailer.SendPlain(email, "Admin Login Verification Code", body); err != nil {
		u.log.Warnf("Failed to send OTP email to %s: %+v", email, err)
		return nil, apperr.DeliveryFailed("Failed to send verification code", err)
	}

	u.log.Infof("OTP issued for admin %s", email)
	return &dto.SendOTPResponse{
		Message:          "Verification code sent",
		ExpiresInMinutes: minutes,
	}, nil
}

func (u *otpUsecase) Verify(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(req.Email)

	record, err := u.otpRepo.FindActive(ctx, email, req.Code)
	if err != nil {
		u.log.Warnf("Failed to look up OTP for %s: %+v", email, err)
		return nil, err
	}
	if record == nil {
		return nil, apperr.Validation("Invalid OTP")
	}

	if record.IsExpired(time.Now()) {
		if err := u.otpRepo.MarkUsed(ctx, record.ID); err != nil {
			u.log.Warnf("Failed to retire expired OTP %d: %+v", record.ID, err)
		}
		return nil, apperr.Validation("OTP has expired")
	}

	if err := u.otpRepo.MarkUsed(ctx, record.ID); err != nil {
		u.log.Warnf("Failed to mark OTP %d used: %+v", record.ID, err)
		return nil, err
	}

	admin, err := u.userRepo.FindByEmailAndRole(ctx, email, entity.RoleAdmin)
	if err != nil {
		u.log.Warnf("Failed to look up admin %s: %+v", email, err)
		return nil, err
	}
	if admin == nil {
		return nil, apperr.NotFound("No admin account with this email")
	}

	u.log.Infof("Admin OTP login: id=%d", admin.ID)
	return issueTokens(ctx, u.log, u.jwtService, u.redisClient, admin.ID, admin.Email, admin.Role)
}

// generateOTPCode returns a 6-digit numeric code, zero padded.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
