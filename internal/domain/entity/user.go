package entity

import (
	"time"
)

// Role names. Roles are fixed at registration; there is no self-promotion.
const (
	RolePatient    = "patient"
	RoleDoctor     = "doctor"
	RolePharmacist = "pharmacist"
	RoleAdmin      = "admin"
)

// AllRoles lists the four fixed roles.
var AllRoles = []string{RolePatient, RoleDoctor, RolePharmacist, RoleAdmin}

// User represents the authentication and identity record. The demographic
// fields are optional and only consumed by the report renderer, which resolves
// each one to a declared default rather than probing at runtime.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Optional demographics rendered into the diagnostic report.
	Age              *int       `json:"age,omitempty"`
	Gender           *string    `gorm:"type:varchar(20)" json:"gender,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	BloodGroup       *string    `gorm:"type:varchar(10)" json:"blood_group,omitempty"`
	Phone            *string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address          *string    `gorm:"type:text" json:"address,omitempty"`
	EmergencyContact *string    `gorm:"type:varchar(255)" json:"emergency_contact,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsPatient reports whether the user holds the patient role.
func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
