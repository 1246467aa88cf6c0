package router

import (
	"pos-backoffice/internal/handler"
	"pos-backoffice/internal/middleware"
	"pos-backoffice/internal/service"
	"pos-backoffice/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything the routes dispatch to
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Category  *handler.CategoryHandler
	Inventory *handler.InventoryHandler
	Media     *handler.MediaHandler
}

// Setup registers every route on app. Sessions are resolved for all
// requests; each group then applies its own gate.
func Setup(app *fiber.App, h Handlers, authService service.AuthService, hub *ws.Hub) {
	app.Use(middleware.LoadSession(authService))

	auth := middleware.RequireAuth()
	admin := middleware.RequireAdmin()

	// Public Routes
	app.Get("/", h.Auth.Landing)
	login := app.Group("/login", middleware.RedirectIfAuthenticated())
	login.Get("/", h.Auth.LoginPage)
	login.Post("/", h.Auth.Login)

	// Session Routes
	app.Post("/logout/", auth, h.Auth.Logout)
	app.Get("/dashboard/", auth, h.Auth.Dashboard)

	// User Routes (ADMIN only)
	users := app.Group("/users", admin)
	users.Get("/", h.User.ListUsers)
	users.Get("/create/", h.User.CreatePage)
	users.Post("/create/", h.User.CreateUser)
	users.Get("/:id/update/", h.User.UpdatePage)
	users.Post("/:id/update/", h.User.UpdateUser)
	users.Get("/:id/delete/", h.User.DeletePage)
	users.Post("/:id/delete/", h.User.DeleteUser)

	// Category Routes
	categories := app.Group("/categories", auth)
	categories.Get("/", h.Category.ListCategories)
	categories.Get("/create/", h.Category.CreatePage)
	categories.Post("/create/", h.Category.CreateCategory)
	categories.Get("/:id/update/", h.Category.UpdatePage)
	categories.Post("/:id/update/", h.Category.UpdateCategory)
	categories.Get("/:id/delete/", h.Category.DeletePage)
	categories.Post("/:id/delete/", h.Category.DeleteCategory)

	// Product Routes
	products := app.Group("/products", auth)
	products.Get("/", h.Inventory.ListProducts)
	products.Get("/create/", h.Inventory.CreateProductPage)
	products.Post("/create/", h.Inventory.CreateProduct)
	products.Get("/:id/update/", h.Inventory.UpdateProductPage)
	products.Post("/:id/update/", h.Inventory.UpdateProduct)
	products.Get("/:id/delete/", h.Inventory.DeleteProductPage)
	products.Post("/:id/delete/", h.Inventory.DeleteProduct)

	// Stock Routes
	stocks := app.Group("/stocks", auth)
	stocks.Get("/", h.Inventory.ListStocks)
	stocks.Get("/create/", h.Inventory.CreateStockPage)
	stocks.Post("/create/", h.Inventory.CreateStock)
	stocks.Get("/:id/", h.Inventory.GetStock)
	stocks.Get("/:id/delete/", h.Inventory.DeleteStockPage)
	stocks.Post("/:id/delete/", h.Inventory.DeleteStock)

	// Sale Routes
	sales := app.Group("/sales", auth)
	sales.Get("/", h.Inventory.ListSales)
	sales.Get("/create/", h.Inventory.CreateSalePage)
	sales.Post("/create/", h.Inventory.CreateSale)
	sales.Get("/:id/", h.Inventory.GetSale)
	sales.Get("/:id/delete/", h.Inventory.DeleteSalePage)
	sales.Post("/:id/delete/", h.Inventory.DeleteSale)

	// Media Route
	if h.Media != nil {
		app.Get("/media/*", auth, h.Media.Serve)
	}

	// WebSocket Route
	if hub != nil {
		app.Use("/ws", auth, func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(hub.Serve))
	}
}
