package models

import "time"

type StockTransactionType string

const (
	StockReceived StockTransactionType = "RECEIVED"
	StockIssued   StockTransactionType = "ISSUED"
)

// StockLedger: append-only record of stock movement per depot/variant.
// Closing stock is recomputable as sum(RECEIVED) - sum(ISSUED).
type StockLedger struct {
	ID              uint `gorm:"primaryKey"`
	DepotID         uint `gorm:"index;not null"`
	ProductID       uint `gorm:"index;not null"`
	VariantID       uint `gorm:"index;not null"`
	Date            time.Time            `gorm:"index;not null"`
	TransactionType StockTransactionType `gorm:"size:10;not null"`
	Quantity        float64              `gorm:"not null"`
	Reference       string               `gorm:"size:50;not null"` // "transfer", "wastage", "opening"
	ReferenceID     uint                 `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Transfer: stock moved between two depots. Writes an ISSUED ledger row at the
// source and a RECEIVED row at the destination per line.
type Transfer struct {
	ID          uint `gorm:"primaryKey"`
	TransferNo  string `gorm:"size:30;uniqueIndex;not null"`
	FromDepotID uint   `gorm:"index;not null"`
	FromDepot   Depot  `gorm:"foreignKey:FromDepotID"`
	ToDepotID   uint   `gorm:"index;not null"`
	ToDepot     Depot  `gorm:"foreignKey:ToDepotID"`
	Date        time.Time `gorm:"index;not null"`
	Note        string    `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Details []TransferDetail `gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE"`
}

type TransferDetail struct {
	ID         uint `gorm:"primaryKey"`
	TransferID uint `gorm:"index;not null"`
	VariantID  uint `gorm:"index;not null"`
	Variant    DepotProductVariant `gorm:"foreignKey:VariantID"`
	Quantity   float64             `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Wastage: recorded stock loss at a depot, one ISSUED ledger row per line.
type Wastage struct {
	ID        uint `gorm:"primaryKey"`
	WastageNo string `gorm:"size:30;uniqueIndex;not null"`
	DepotID   uint   `gorm:"index;not null"`
	Depot     Depot
	Date      time.Time `gorm:"index;not null"`
	Note      string    `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Details []WastageDetail `gorm:"foreignKey:WastageID;constraint:OnDelete:CASCADE"`
}

type WastageDetail struct {
	ID        uint `gorm:"primaryKey"`
	WastageID uint `gorm:"index;not null"`
	VariantID uint `gorm:"index;not null"`
	Variant   DepotProductVariant `gorm:"foreignKey:VariantID"`
	Quantity  float64             `gorm:"not null"`
	Reason    string              `gorm:"size:255;not null"` // mandatory: spoiled, damaged, expired...
	CreatedAt time.Time
	UpdatedAt time.Time
}
