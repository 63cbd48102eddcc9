package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleMember     UserRole = "MEMBER"
	RoleVendor     UserRole = "VENDOR"
	RoleAgency     UserRole = "AGENCY"
	RoleDepotAdmin UserRole = "DEPOT_ADMIN"
	RoleSupervisor UserRole = "SUPERVISOR"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	Phone        string   `gorm:"size:20;index"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	IsActive     bool     `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
