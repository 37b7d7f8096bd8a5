package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	Auth       *AuthHTTP
	Order      *OrderHTTP
	Catalog    *CatalogHTTP
	Storefront *StorefrontHTTP
	Dashboard  *DashboardHTTP
	Cart       *CartHTTP
	Search     *SearchHTTP
	Address    *AddressHTTP
	JWTSecret  []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := &AuthMiddleware{JWTSecret: d.JWTSecret}

	api := e.Group("/api")

	api.POST("/register", d.Auth.Register)
	api.POST("/login", d.Auth.Login)
	api.POST("/refresh", d.Auth.Refresh)
	api.POST("/logout", d.Auth.Logout)

	// Checkout is open to guests; the handler picks the path from the token.
	api.POST("/create-order", d.Order.CreateOrder, authMW.OptionalAuth)
	api.GET("/order-confirmation/:id", d.Order.OrderConfirmation, authMW.OptionalAuth)
	api.GET("/orders", d.Order.ListMyOrders, authMW.RequireAuth)
	api.GET("/orders/:id", d.Order.GetOrder, authMW.OptionalAuth)
	api.PATCH("/orders/:id/status", d.Order.UpdateStatus, authMW.RequireSeller)
	api.PATCH("/orders/:id/payment-status", d.Order.UpdatePaymentStatus, authMW.RequireSeller)

	api.GET("/products", d.Catalog.GetProducts)
	api.GET("/products/:id", d.Catalog.GetProduct)
	api.POST("/products", d.Catalog.CreateProduct, authMW.RequireSeller)
	api.PATCH("/products/:id", d.Catalog.PatchProduct, authMW.RequireSeller)
	api.DELETE("/products/:id", d.Catalog.DeleteProduct, authMW.RequireSeller)
	api.GET("/categories", d.Catalog.GetCategories)
	api.POST("/categories", d.Catalog.CreateCategory, authMW.RequireAdmin)
	api.POST("/reorder-products", d.Catalog.ReorderProducts, authMW.RequireSeller)
	api.POST("/reorder-categories", d.Catalog.ReorderCategories, authMW.RequireSeller)

	api.GET("/search", d.Search.Search)

	api.POST("/create-storefront", d.Storefront.CreateStorefront, authMW.RequireAuth)
	api.GET("/storefronts/:slug", d.Storefront.GetStorefront)
	api.POST("/storefronts/:slug/view", d.Storefront.RecordView)
	api.PATCH("/storefronts/:id/status", d.Storefront.UpdateStatus, authMW.RequireAuth)

	dashboard := api.Group("/dashboard", authMW.RequireSeller)
	dashboard.GET("/overview", d.Dashboard.Overview)
	dashboard.GET("/orders", d.Dashboard.Orders)
	dashboard.GET("/analytics", d.Dashboard.Analytics)

	cart := api.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddItem)
	cart.PATCH("/:id", d.Cart.UpdateItem)
	cart.DELETE("/:id", d.Cart.RemoveItem)

	addresses := api.Group("/addresses", authMW.RequireAuth)
	addresses.GET("", d.Address.ListAddresses)
	addresses.POST("", d.Address.CreateAddress)
}
