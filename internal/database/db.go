package database

import (
	"log"

	"dailydairy-backend/internal/config"
	"dailydairy-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("database connected, migration complete")
}

// Migrate runs AutoMigrate in foreign-key-safe order: parents before children.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// independent tables
		&models.User{},
		&models.Agency{},
		&models.Vendor{},
		&models.Product{},
		&models.Lead{},
		// single-dependency tables
		&models.Depot{},
		&models.Member{},
		&models.Supervisor{},
		&models.DeliveryAddress{},
		&models.DepotProductVariant{},
		// orders and subscriptions
		&models.ProductOrder{},
		&models.Subscription{},
		&models.DeliveryScheduleEntry{},
		&models.WalletTransaction{},
		&models.Invoice{},
		// stock
		&models.StockLedger{},
		&models.Transfer{},
		&models.TransferDetail{},
		&models.Wastage{},
		&models.WastageDetail{},
	)
}
