package models

import "time"

// Member: end customer, linked one-to-one with a login User.
// WalletBalance is the authoritative balance; WalletTransaction rows are the trail.
type Member struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"uniqueIndex;not null"`
	User          User
	AgencyID      *uint // default fulfilment agency, set on first subscription
	Agency        *Agency
	WalletBalance float64 `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DeliveryAddress: where a subscription gets delivered. Online depots route
// by the address city, offline depots use the depot's own agency.
type DeliveryAddress struct {
	ID        uint `gorm:"primaryKey"`
	MemberID  uint `gorm:"index;not null"`
	Member    Member
	Recipient string `gorm:"size:100;not null"`
	Line1     string `gorm:"size:255;not null"`
	Line2     string `gorm:"size:255"`
	City      string `gorm:"size:100;not null"`
	Pincode   string `gorm:"size:10;not null"`
	IsDefault bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalletTransaction: append-only credit/debit trail for a member's wallet.
type WalletTransaction struct {
	ID        uint `gorm:"primaryKey"`
	MemberID  uint `gorm:"index;not null"`
	Member    Member
	Amount    float64               `gorm:"not null"`
	Type      WalletTransactionType `gorm:"size:10;not null"`
	Reference string                `gorm:"size:255"` // e.g. "order ORD-...", "refund subscription #12"
	OrderID   *uint                 `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WalletTransactionType string

const (
	WalletCredit WalletTransactionType = "CREDIT"
	WalletDebit  WalletTransactionType = "DEBIT"
)
