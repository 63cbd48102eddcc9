package reports

import (
	"fmt"
	"time"

	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func parseMonth(c *fiber.Ctx) (time.Time, time.Time, error) {
	var year, month int
	if _, err := fmt.Sscan(c.Query("year"), &year); err != nil || year < 2000 {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "year is invalid")
	}
	if _, err := fmt.Sscan(c.Query("month"), &month); err != nil || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "month is invalid")
	}

	loc := time.Now().Location()
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, 0).Add(-time.Second)
	return first, last, nil
}

type DeliverySummaryRow struct {
	AgencyID    uint    `json:"agency_id"`
	AgencyName  string  `json:"agency_name"`
	Delivered   int64   `json:"delivered"`
	Missed      int64   `json:"missed"`
	Pending     int64   `json:"pending"`
	TotalQty    float64 `json:"total_qty"`
}

// GET /api/admin/reports/deliveries?year=&month=
// Per-agency delivery performance for one month.
func MonthlyDeliveryReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		first, last, err := parseMonth(c)
		if err != nil {
			return err
		}

		rows, err := deliverySummaryRows(first, last)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "report could not be built")
		}

		return c.JSON(fiber.Map{
			"year":  first.Year(),
			"month": int(first.Month()),
			"rows":  rows,
		})
	}
}

func deliverySummaryRows(first, last time.Time) ([]DeliverySummaryRow, error) {
	var agencies []models.Agency
	if err := database.DB.Order("name ASC").Find(&agencies).Error; err != nil {
		return nil, err
	}

	rows := make([]DeliverySummaryRow, 0, len(agencies))
	for _, a := range agencies {
		row := DeliverySummaryRow{AgencyID: a.ID, AgencyName: a.Name}

		base := database.DB.Model(&models.DeliveryScheduleEntry{}).
			Where("agency_id = ? AND date >= ? AND date <= ?", a.ID, first, last)

		base.Session(&gorm.Session{}).Where("status = ?", models.DeliveryDelivered).Count(&row.Delivered)
		base.Session(&gorm.Session{}).Where("status = ?", models.DeliveryNotDelivered).Count(&row.Missed)
		base.Session(&gorm.Session{}).Where("status = ?", models.DeliveryPending).Count(&row.Pending)

		var qty *float64
		base.Session(&gorm.Session{}).Where("status = ?", models.DeliveryDelivered).
			Select("SUM(quantity)").Scan(&qty)
		if qty != nil {
			row.TotalQty = *qty
		}

		rows = append(rows, row)
	}
	return rows, nil
}

type SalesSummaryResponse struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	OrderCount       int64   `json:"order_count"`
	TotalAmount      float64 `json:"total_amount"`
	WalletAmountUsed float64 `json:"wallet_amount_used"`
	PayableAmount    float64 `json:"payable_amount"`
	NewMembers       int64   `json:"new_members"`
	WastageQty       float64 `json:"wastage_qty"`
}

// GET /api/admin/reports/sales?year=&month=
func MonthlySalesReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		first, last, err := parseMonth(c)
		if err != nil {
			return err
		}

		resp := SalesSummaryResponse{Year: first.Year(), Month: int(first.Month())}

		orderBase := database.DB.Model(&models.ProductOrder{}).
			Where("created_at >= ? AND created_at <= ?", first, last)
		orderBase.Session(&gorm.Session{}).Count(&resp.OrderCount)

		type totals struct {
			Total   float64
			Wallet  float64
			Payable float64
		}
		var t totals
		orderBase.Session(&gorm.Session{}).
			Select("COALESCE(SUM(total_amount),0) AS total, COALESCE(SUM(wallet_amount_used),0) AS wallet, COALESCE(SUM(payable_amount),0) AS payable").
			Scan(&t)
		resp.TotalAmount = t.Total
		resp.WalletAmountUsed = t.Wallet
		resp.PayableAmount = t.Payable

		database.DB.Model(&models.Member{}).
			Where("created_at >= ? AND created_at <= ?", first, last).
			Count(&resp.NewMembers)

		var wastageQty *float64
		database.DB.Model(&models.StockLedger{}).
			Where("reference = ? AND date >= ? AND date <= ?", "wastage", first, last).
			Select("SUM(quantity)").Scan(&wastageQty)
		if wastageQty != nil {
			resp.WastageQty = *wastageQty
		}

		return c.JSON(resp)
	}
}

// GET /api/admin/reports/orders?year=&month=
// Paginated order listing for the back office.
func MonthlyOrderListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		first, last, err := parseMonth(c)
		if err != nil {
			return err
		}

		p := pagination.Parse(c)
		q := database.DB.Model(&models.ProductOrder{}).
			Where("created_at >= ? AND created_at <= ?", first, last)

		var total int64
		q.Count(&total)

		var orders []models.ProductOrder
		if err := q.Order("created_at DESC").Limit(p.Limit).Offset(p.Offset()).Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "orders could not be listed")
		}

		type orderRow struct {
			ID               uint    `json:"id"`
			OrderNo          string  `json:"order_no"`
			MemberID         uint    `json:"member_id"`
			TotalAmount      float64 `json:"total_amount"`
			WalletAmountUsed float64 `json:"wallet_amount_used"`
			PayableAmount    float64 `json:"payable_amount"`
			Status           string  `json:"status"`
			CreatedAt        string  `json:"created_at"`
		}
		rows := make([]orderRow, 0, len(orders))
		for _, o := range orders {
			rows = append(rows, orderRow{
				ID:               o.ID,
				OrderNo:          o.OrderNo,
				MemberID:         o.MemberID,
				TotalAmount:      o.TotalAmount,
				WalletAmountUsed: o.WalletAmountUsed,
				PayableAmount:    o.PayableAmount,
				Status:           string(o.Status),
				CreatedAt:        o.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(pagination.Wrap(rows, total, p))
	}
}

// GET /api/admin/reports/deliveries/export?year=&month=
// Same data as the delivery report, as an xlsx download.
func ExportDeliveryReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		first, last, err := parseMonth(c)
		if err != nil {
			return err
		}

		rows, err := deliverySummaryRows(first, last)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "report could not be built")
		}

		f := excelize.NewFile()
		sheet := "Deliveries"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Agency ID", "Agency", "Delivered", "Missed", "Pending", "Delivered Qty"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}
		for i, row := range rows {
			values := []interface{}{row.AgencyID, row.AgencyName, row.Delivered, row.Missed, row.Pending, row.TotalQty}
			for j, v := range values {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "export could not be written")
		}

		filename := fmt.Sprintf("deliveries-%d-%02d.xlsx", first.Year(), int(first.Month()))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(buf.Bytes())
	}
}
