package entity

import (
	"time"
)

// OTPRecord is a short-lived one-time code backing the admin second factor.
// Issuing a new code invalidates any unused codes for the same email, and a
// used record is never accepted again.
type OTPRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Code      string    `gorm:"type:varchar(10);not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
}

func (OTPRecord) TableName() string {
	return "otp_records"
}

// IsExpired reports whether the code has passed its expiry instant.
func (o *OTPRecord) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
