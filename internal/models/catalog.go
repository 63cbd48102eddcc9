package models

import "time"

// Depot: regional stocking/fulfilment location.
// Online depots route deliveries by the address city, offline depots
// ship through their own agency.
type Depot struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;uniqueIndex;not null"`
	Address   string `gorm:"size:255"`
	City      string `gorm:"size:100;index"`
	IsOnline  bool   `gorm:"default:false"`
	AgencyID  *uint  // required for offline depots
	Agency    *Agency
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:1000"`
	Category    string `gorm:"size:100;index"`
	Unit        string `gorm:"size:20;not null"` // "ltr", "kg", "pcs"
	ImageURL    string `gorm:"size:255"`
	IsAvailable bool   `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DepotProductVariant: sellable unit of a product at one depot
// (e.g. "500ml pouch"). Period prices are the subscription tiers;
// nil means the tier is not offered and pricing falls back to SellingPrice.
type DepotProductVariant struct {
	ID           uint `gorm:"primaryKey"`
	DepotID      uint `gorm:"index;not null;uniqueIndex:idx_depot_product_variant"`
	Depot        Depot
	ProductID    uint `gorm:"index;not null;uniqueIndex:idx_depot_product_variant"`
	Product      Product
	Name         string `gorm:"size:50;not null;uniqueIndex:idx_depot_product_variant"`
	MRP          float64
	BuyingPrice  float64
	SellingPrice float64  `gorm:"not null"` // per-delivery default price
	Price3Day    *float64 // tier prices per unit for 3/7/15/30 day periods
	Price7Day    *float64
	Price15Day   *float64
	Price1Month  *float64
	ClosingQty   float64 `gorm:"not null;default:0"`
	MinimumQty   float64 `gorm:"not null;default:0"`
	IsAvailable  bool    `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
