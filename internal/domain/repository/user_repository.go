package repository

import (
	"context"

	"clinical-scan-support/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByEmailAndRole(ctx context.Context, email, role string) (*entity.User, error)
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}
