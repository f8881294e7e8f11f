package api

import (
	"agency-ledger/docs"
	"agency-ledger/internal/api/handlers"
	"agency-ledger/pkg/auth"
	"agency-ledger/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	ruleHandler *handlers.RuleHandler,
	importHandler *handlers.ImportHandler,
	ledgerHandler *handlers.LedgerHandler,
	userHandler *handlers.UserHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
	bodyLimit int,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// docs registers the swagger document in its init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	user := app.Group("/user")
	authRoutes := user.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)

	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))
	protected.Get("/users", userHandler.ListUsers)

	admin := middleware.AdminOnly(appLogger)

	rules := protected.Group("/auto-match-rules", admin)
	rules.Get("", ruleHandler.ListRules)
	rules.Post("", ruleHandler.CreateRule)
	rules.Put("/:id", ruleHandler.UpdateRule)
	rules.Delete("/:id", ruleHandler.DeleteRule)

	imports := protected.Group("/imports", admin)
	imports.Post("", importHandler.Upload)
	imports.Get("/history", ledgerHandler.ListBatches)
	imports.Get("/:id", importHandler.Preview)
	imports.Patch("/:id/rows/:index", importHandler.EditRow)
	imports.Post("/:id/confirm", importHandler.Confirm)
	imports.Delete("/:id", importHandler.Cancel)

	transactions := protected.Group("/transactions", admin)
	transactions.Post("/bulk", ledgerHandler.BulkTransactions)
	transactions.Get("/summary", ledgerHandler.Summary)
	transactions.Get("", ledgerHandler.ListTransactions)

	paypay := protected.Group("/paypay/sales", admin)
	paypay.Post("/bulk", ledgerHandler.BulkSales)
	paypay.Get("", ledgerHandler.ListSales)

	return app
}
