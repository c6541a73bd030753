package repository

import (
	"context"

	"clinical-scan-support/internal/domain/entity"
)

type OTPRepository interface {
	Create(ctx context.Context, record *entity.OTPRecord) error

	// InvalidateByEmail marks every unused code for the email as used.
	// Called before issuing a new code so only the latest one can verify.
	InvalidateByEmail(ctx context.Context, email string) error

	// FindActive returns the most recent unused record matching email and
	// code, or nil when none exists.
	FindActive(ctx context.Context, email, code string) (*entity.OTPRecord, error)

	MarkUsed(ctx context.Context, id uint) error
}
