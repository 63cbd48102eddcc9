package models

import "time"

// Agency: delivery fulfilment partner, assigned to subscriptions by city
// (online depots) or directly from the depot (offline depots).
type Agency struct {
	ID        uint `gorm:"primaryKey"`
	UserID    *uint
	User      *User
	Name      string `gorm:"size:100;not null"`
	City      string `gorm:"size:100;index;not null"`
	Phone     string `gorm:"size:20"`
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Vendor struct {
	ID        uint `gorm:"primaryKey"`
	UserID    *uint
	User      *User
	Name      string `gorm:"size:100;not null"`
	Contact   string `gorm:"size:100"`
	Address   string `gorm:"size:255"`
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Supervisor struct {
	ID        uint `gorm:"primaryKey"`
	UserID    *uint
	User      *User
	Name      string `gorm:"size:100;not null"`
	DepotID   uint   `gorm:"index;not null"`
	Depot     Depot
	Phone     string `gorm:"size:20"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Lead: prospect captured from the public site, worked by admins.
type Lead struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:100;not null"`
	Phone           string `gorm:"size:20;not null"`
	Email           string `gorm:"size:100"`
	City            string `gorm:"size:100"`
	ProductInterest string `gorm:"size:255"`
	Status          string `gorm:"size:20;not null;default:NEW"` // NEW, CONTACTED, CONVERTED, CLOSED
	Notes           string `gorm:"size:1000"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
