package router

import (
	"bus_portal/constants"
	"bus_portal/handler"
	"bus_portal/middleware"
	"bus_portal/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())

	auth := api.Group("/auth")
	auth.Post("/register", validate.Register(), handler.Register)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", middleware.Protected(), handler.Me)
	auth.Post("/forgot-password", validate.ForgotPassword(), handler.ForgotPassword)
	auth.Post("/reset-password", validate.ResetPassword(), handler.ResetPassword)

	api.Get("/routes/public", handler.GetPublicRoutes)
	api.Get("/trips/public", validate.SearchTrips(), handler.SearchPublicTrips)
	api.Get("/trips/public/:id", handler.GetPublicTripById)
	api.Get("/seats", validate.TripIdQuery(), handler.GetSeatsByTrip)

	reviews := api.Group("/reviews")
	reviews.Get("/", middleware.OptionalAuth(), validate.TripIdQuery(), handler.GetReviews)
	reviews.Post("/", middleware.Protected(), validate.CreateReview(), handler.CreateReview)
	reviews.Put("/:id", middleware.Protected(), validate.EditReview(), handler.UpdateReview)
	reviews.Delete("/:id", middleware.Protected(), handler.DeleteReview)

	tickets := api.Group("/tickets", middleware.Protected())
	tickets.Post("/", middleware.RequireRole(constants.ROLE_USER), validate.BookTicket(), handler.BookTicket)
	tickets.Get("/me", handler.GetMyTickets)
	tickets.Get("/:id", handler.GetTicketById)
	tickets.Get("/:id/qr", handler.GetTicketQR)
	tickets.Get("/:id/pdf", handler.GetTicketPDF)
	tickets.Post("/:id/cancel", handler.CancelTicket)

	machines := api.Group("/machines/:code", middleware.MachineAccess())
	machines.Get("/trips", handler.GetMachineTrips)
	machines.Post("/tickets", validate.BookTicket(), handler.MachineSellTicket)
	machines.Post("/heartbeat", handler.MachineHeartbeat)

	vendor := api.Group("/vendor", middleware.Protected(), middleware.RequireRole(constants.ROLE_VENDOR))
	vendor.Get("/buses", handler.GetVendorBuses)
	vendor.Post("/buses", validate.CreateBus(), handler.CreateBus)
	vendor.Patch("/buses/:id/status", validate.EditBusStatus(), handler.EditBusStatus)
	vendor.Post("/buses/:id/image", handler.UploadBusImage)
	vendor.Get("/trips", validate.FilterTrips(), handler.GetVendorTrips)
	vendor.Post("/trips", validate.CreateTrip(), handler.CreateTrip)
	vendor.Get("/tickets", handler.GetVendorTickets)
	vendor.Post("/tickets", validate.BookTicket(), handler.SellTicket)
	vendor.Get("/tickets/verify/:code", handler.VerifyTicket)
	vendor.Post("/upload-signature", handler.GenerateUploadSignature)

	admin := api.Group("/admin", middleware.Protected(), middleware.RequireRole(constants.ROLE_ADMIN))
	admin.Get("/stats", handler.GetAdminStats)
	admin.Get("/trips", validate.FilterTrips(), handler.GetAdminTrips)
	admin.Post("/trips/:id/recount", handler.RecountTrip)
	admin.Get("/routes", handler.GetAdminRoutes)
	admin.Post("/routes", validate.CreateRoute(), handler.CreateRoute)
	admin.Put("/routes/:id", validate.EditRoute(), handler.EditRoute)
	admin.Patch("/routes/:id/active", handler.ToggleRouteActive)
	admin.Get("/machines", handler.GetMachines)
	admin.Post("/machines", validate.CreateMachine(), handler.CreateMachine)
	admin.Put("/machines/:id", validate.EditMachine(), handler.EditMachine)
	admin.Get("/transactions", validate.FilterTransactions(), handler.GetTransactions)
	admin.Get("/vendors", handler.GetVendors)
	admin.Post("/vendors", validate.CreateVendor(), handler.CreateVendor)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/trips/:tripId", websocket.New(handler.TripSeatsWebsocket))

	setupPages(app)
}

// setupPages serves the role dashboards. Guests are bounced to /login.
func setupPages(app *fiber.App) {
	app.Get("/login", func(c *fiber.Ctx) error {
		return c.SendFile("./public/login.html")
	})

	adminPages := app.Group("/admin", middleware.PageGuard(constants.ROLE_ADMIN))
	adminPages.Static("/", "./public/admin")

	vendorPages := app.Group("/vendor", middleware.PageGuard(constants.ROLE_VENDOR))
	vendorPages.Static("/", "./public/vendor")
}
