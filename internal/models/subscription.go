package models

import "time"

type ScheduleType string

const (
	ScheduleDaily         ScheduleType = "DAILY"
	ScheduleAlternateDays ScheduleType = "ALTERNATE_DAYS"
	ScheduleDay1Day2      ScheduleType = "DAY1_DAY2" // varying: qty/altQty on alternating days
	ScheduleWeekdays      ScheduleType = "WEEKDAYS"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
)

// ProductOrder: one checkout. Groups the subscriptions created together and
// carries the order-level wallet/payable totals.
type ProductOrder struct {
	ID               uint `gorm:"primaryKey"`
	MemberID         uint `gorm:"index;not null"`
	Member           Member
	OrderNo          string  `gorm:"size:30;uniqueIndex;not null"`
	TotalQty         float64 `gorm:"not null"`
	TotalAmount      float64 `gorm:"not null"`
	WalletAmountUsed float64 `gorm:"not null;default:0"`
	PayableAmount    float64 `gorm:"not null"`
	ReceivedAmount   float64 `gorm:"not null;default:0"`
	Status           PaymentStatus `gorm:"size:10;not null;default:PENDING"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Subscriptions []Subscription `gorm:"foreignKey:OrderID"`
}

// Subscription: one recurring product line inside an order. Generates one
// DeliveryScheduleEntry per scheduled day over Period days from StartDate.
type Subscription struct {
	ID                uint `gorm:"primaryKey"`
	OrderID           uint `gorm:"index;not null"`
	MemberID          uint `gorm:"index;not null"`
	Member            Member
	ProductID         uint `gorm:"not null"`
	Product           Product
	VariantID         uint `gorm:"not null"`
	Variant           DepotProductVariant `gorm:"foreignKey:VariantID"`
	DepotID           uint                `gorm:"not null"`
	AgencyID          uint                `gorm:"index;not null"`
	Agency            Agency
	DeliveryAddressID uint `gorm:"not null"`
	DeliveryAddress   DeliveryAddress

	Period       int          `gorm:"not null"` // days
	ScheduleType ScheduleType `gorm:"size:20;not null"`
	Qty          float64      `gorm:"not null"`
	AltQty       *float64
	Weekdays     string `gorm:"size:100"` // comma list, WEEKDAYS schedules only
	StartDate    time.Time `gorm:"index;not null"`
	ExpiryDate   time.Time `gorm:"not null"`

	Rate             float64 `gorm:"not null"` // resolved unit price for the period
	TotalQty         float64 `gorm:"not null"`
	Amount           float64 `gorm:"not null"`
	WalletAmountUsed float64 `gorm:"not null;default:0"`
	PayableAmount    float64 `gorm:"not null"`

	PaymentStatus PaymentStatus      `gorm:"size:10;not null;default:PENDING"`
	Status        SubscriptionStatus `gorm:"size:10;not null;default:ACTIVE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Entries []DeliveryScheduleEntry `gorm:"foreignKey:SubscriptionID"`
}

type DeliveryStatus string

const (
	DeliveryPending      DeliveryStatus = "PENDING"
	DeliveryDelivered    DeliveryStatus = "DELIVERED"
	DeliveryNotDelivered DeliveryStatus = "NOT_DELIVERED"
	DeliveryCancelled    DeliveryStatus = "CANCELLED"
)

// DeliveryScheduleEntry: one concrete date+quantity obligation.
type DeliveryScheduleEntry struct {
	ID             uint `gorm:"primaryKey"`
	SubscriptionID uint `gorm:"index;not null"`
	MemberID       uint `gorm:"index;not null"`
	AgencyID       uint `gorm:"index;not null"`
	Date           time.Time      `gorm:"index;not null"`
	Quantity       float64        `gorm:"not null"`
	Status         DeliveryStatus `gorm:"size:15;not null;default:PENDING"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Invoice: generated per order, PDF persisted under the invoice directory.
type Invoice struct {
	ID          uint `gorm:"primaryKey"`
	MemberID    uint `gorm:"index;not null"`
	OrderID     uint `gorm:"uniqueIndex;not null"`
	Order       ProductOrder `gorm:"foreignKey:OrderID"`
	InvoiceNo   string       `gorm:"size:30;uniqueIndex;not null"`
	Amount      float64      `gorm:"not null"`
	PDFPath     string       `gorm:"size:255"`
	GeneratedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
