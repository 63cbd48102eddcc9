package main

import (
	"strings"

	"dailydairy-backend/internal/admin"
	"dailydairy-backend/internal/auth"
	"dailydairy-backend/internal/catalog"
	"dailydairy-backend/internal/config"
	"dailydairy-backend/internal/database"
	"dailydairy-backend/internal/invoice"
	"dailydairy-backend/internal/lead"
	"dailydairy-backend/internal/logger"
	"dailydairy-backend/internal/member"
	"dailydairy-backend/internal/models"
	"dailydairy-backend/internal/reports"
	"dailydairy-backend/internal/stock"
	"dailydairy-backend/internal/subscription"
	"dailydairy-backend/internal/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger.Init(false)
	defer logger.Sync()

	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.L.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// Public
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/leads", lead.CreateLeadHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Catalog (read side, any authenticated role)
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Get("/variants", catalog.ListVariantsHandler())

	// role gates applied per route: the member/agency/depot surfaces share the
	// /api prefix, so a group-level Use would leak onto each other's routes
	memberOnly := auth.RequireRole(models.RoleMember)
	agencyOrAdmin := auth.RequireRole(models.RoleAdmin, models.RoleAgency)
	depotOrAdmin := auth.RequireRole(models.RoleAdmin, models.RoleDepotAdmin)

	// Member profile, addresses, wallet
	protected.Get("/members/me", memberOnly, member.ProfileHandler())
	protected.Post("/addresses", memberOnly, member.CreateAddressHandler())
	protected.Get("/addresses", memberOnly, member.ListAddressesHandler())
	protected.Put("/addresses/:id", memberOnly, member.UpdateAddressHandler())
	protected.Delete("/addresses/:id", memberOnly, member.DeleteAddressHandler())

	protected.Get("/wallet", memberOnly, wallet.BalanceHandler())
	protected.Get("/wallet/transactions", memberOnly, wallet.ListTransactionsHandler())
	protected.Post("/wallet/topup", memberOnly, wallet.TopUpHandler())

	// Orders & subscriptions
	protected.Post("/orders", memberOnly, subscription.CreateOrderHandler())
	protected.Get("/subscriptions", memberOnly, subscription.ListSubscriptionsHandler())
	protected.Post("/subscriptions/:id/cancel", memberOnly, subscription.CancelSubscriptionHandler())
	protected.Get("/delivery-schedules", memberOnly, subscription.ListDeliverySchedulesHandler())

	// Invoices
	protected.Post("/invoices/orders/:orderId", memberOnly, invoice.GenerateInvoiceHandler(cfg))
	protected.Get("/invoices", memberOnly, invoice.ListInvoicesHandler())
	protected.Get("/invoices/:id/download", memberOnly, invoice.DownloadInvoiceHandler())

	// Agency delivery operations
	protected.Get("/delivery-sheet", agencyOrAdmin, subscription.AgencyDeliverySheetHandler())
	protected.Patch("/delivery-schedules/:id/status", agencyOrAdmin, subscription.UpdateDeliveryStatusHandler())

	// Stock movements (depot staff and admins)
	protected.Post("/transfers", depotOrAdmin, stock.CreateTransferHandler())
	protected.Get("/transfers", depotOrAdmin, stock.ListTransfersHandler())
	protected.Post("/wastage", depotOrAdmin, stock.CreateWastageHandler())
	protected.Get("/wastage", depotOrAdmin, stock.ListWastageHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/depots", admin.CreateDepotHandler())
	adminRoutes.Get("/depots", admin.ListDepotsHandler())
	adminRoutes.Get("/depots/:id", admin.GetDepotHandler())
	adminRoutes.Put("/depots/:id", admin.UpdateDepotHandler())
	adminRoutes.Delete("/depots/:id", admin.DeleteDepotHandler())

	adminRoutes.Post("/agencies", admin.CreateAgencyHandler())
	adminRoutes.Get("/agencies", admin.ListAgenciesHandler())
	adminRoutes.Put("/agencies/:id", admin.UpdateAgencyHandler())
	adminRoutes.Delete("/agencies/:id", admin.DeleteAgencyHandler())

	adminRoutes.Post("/vendors", admin.CreateVendorHandler())
	adminRoutes.Get("/vendors", admin.ListVendorsHandler())
	adminRoutes.Put("/vendors/:id", admin.UpdateVendorHandler())
	adminRoutes.Delete("/vendors/:id", admin.DeleteVendorHandler())

	adminRoutes.Post("/supervisors", admin.CreateSupervisorHandler())
	adminRoutes.Get("/supervisors", admin.ListSupervisorsHandler())
	adminRoutes.Delete("/supervisors/:id", admin.DeleteSupervisorHandler())

	adminRoutes.Get("/leads", lead.ListLeadsHandler())
	adminRoutes.Put("/leads/:id", lead.UpdateLeadHandler())

	adminRoutes.Post("/products", catalog.CreateProductHandler(cfg))
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler(cfg))
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())

	adminRoutes.Post("/variants", catalog.CreateVariantHandler())
	adminRoutes.Put("/variants/:id", catalog.UpdateVariantHandler())
	adminRoutes.Delete("/variants/:id", catalog.DeleteVariantHandler())
	adminRoutes.Post("/variants/:id/recompute-stock", stock.RecomputeVariantStockHandler())

	adminRoutes.Get("/reports/deliveries", reports.MonthlyDeliveryReportHandler())
	adminRoutes.Get("/reports/deliveries/export", reports.ExportDeliveryReportHandler())
	adminRoutes.Get("/reports/sales", reports.MonthlySalesReportHandler())
	adminRoutes.Get("/reports/orders", reports.MonthlyOrderListHandler())

	logger.L.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.L.Fatal("server stopped", zap.Error(err))
	}
}
