package stock

import (
	"fmt"
	"time"

	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecomputeClosingQty rebuilds a variant's closing stock from the ledger:
// sum(RECEIVED) - sum(ISSUED).
func RecomputeClosingQty(tx *gorm.DB, depotID, variantID uint) (float64, error) {
	type sums struct {
		Received float64
		Issued   float64
	}
	var s sums
	err := tx.Model(&models.StockLedger{}).
		Select(
			"COALESCE(SUM(CASE WHEN transaction_type = ? THEN quantity ELSE 0 END), 0) AS received, "+
				"COALESCE(SUM(CASE WHEN transaction_type = ? THEN quantity ELSE 0 END), 0) AS issued",
			models.StockReceived, models.StockIssued,
		).
		Where("depot_id = ? AND variant_id = ?", depotID, variantID).
		Scan(&s).Error
	if err != nil {
		return 0, err
	}

	closing := decimal.NewFromFloat(s.Received).
		Sub(decimal.NewFromFloat(s.Issued)).InexactFloat64()
	return closing, nil
}

func nextDocumentNo(db *gorm.DB, model interface{}, column, prefix string) string {
	today := time.Now().Format("20060102")
	var count int64
	db.Model(model).
		Where(fmt.Sprintf("%s LIKE ?", column), fmt.Sprintf("%s-%s-%%", prefix, today)).
		Count(&count)
	return fmt.Sprintf("%s-%s-%05d", prefix, today, count+1)
}

func NextTransferNo() string {
	return nextDocumentNo(database.DB, &models.Transfer{}, "transfer_no", "TRF")
}

func NextWastageNo() string {
	return nextDocumentNo(database.DB, &models.Wastage{}, "wastage_no", "WST")
}
