package api

import (
	"github.com/labstack/echo/v4"

	"craftstore/internal/entity"
	"craftstore/internal/service"
)

// Handlers bundles everything RegisterRoutes wires up.
type Handlers struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Cart    *CartHandler
	Orders  *OrderHandler
	Zones   *ZoneHandler
	Cards   *CardHandler
}

// RegisterRoutes attaches every endpoint to the echo instance. Route groups
// carry the auth middleware chain; public storefront reads stay open.
func RegisterRoutes(e *echo.Echo, h Handlers, auth *service.AuthService) {
	// Public storefront
	e.POST("/register", h.Auth.Register)
	e.POST("/login", h.Auth.Login)
	e.GET("/categories", h.Catalog.ListCategories)
	e.GET("/categories/:id", h.Catalog.GetCategory)
	e.GET("/categories/:id/products", h.Catalog.ListProducts)
	e.GET("/products/:id", h.Catalog.GetProduct)
	e.GET("/zones", h.Zones.ListZones)
	e.GET("/zones/:id", h.Zones.GetZone)

	authed := e.Group("", JWTMiddleware(auth.Secret()), PrincipalMiddleware(auth))
	authed.POST("/logout", h.Auth.Logout)

	authed.GET("/cart", h.Cart.GetCart)
	authed.POST("/cart/items", h.Cart.AddItem)
	authed.PUT("/cart/items/:variantId", h.Cart.UpdateItem)
	authed.DELETE("/cart/items/:variantId", h.Cart.RemoveItem)
	authed.DELETE("/cart", h.Cart.ClearCart)

	authed.POST("/orders", h.Orders.PlaceOrder)
	authed.GET("/orders", h.Orders.ListMyOrders)
	authed.GET("/orders/:id", h.Orders.GetOrder)
	authed.POST("/orders/:id/cancel", h.Orders.CancelOrder)
	authed.GET("/orders/:id/receipt", h.Orders.GetReceipt)

	authed.POST("/cards", h.Cards.RegisterCard)
	authed.GET("/cards", h.Cards.ListCards)

	staff := authed.Group("/staff", RequireRoles(
		entity.RoleWarehouse, entity.RoleLogistics, entity.RoleDispatch,
		entity.RoleDelivery, entity.RoleAdmin,
	))
	staff.GET("/orders", h.Orders.ListQueue)
	staff.PUT("/orders/:id/status", h.Orders.AdvanceStatus)

	admin := authed.Group("/admin", RequireRoles(entity.RoleAdmin))
	admin.POST("/staff", h.Auth.CreateStaff)
	admin.PUT("/users/:id/active", h.Auth.SetUserActive)

	admin.POST("/categories", h.Catalog.CreateCategory)
	admin.PUT("/categories/:id", h.Catalog.RenameCategory)
	admin.PUT("/categories/:id/active", h.Catalog.SetCategoryActive)

	admin.POST("/products", h.Catalog.CreateProduct)
	admin.PUT("/products/:id", h.Catalog.UpdateProduct)
	admin.PUT("/products/:id/active", h.Catalog.SetProductActive)

	admin.POST("/variants", h.Catalog.CreateVariant)
	admin.PUT("/variants/:id", h.Catalog.UpdateVariant)

	admin.GET("/promotions", h.Catalog.ListPromotions)
	admin.POST("/promotions", h.Catalog.CreatePromotion)
	admin.PUT("/promotions/:id", h.Catalog.UpdatePromotion)
	admin.PUT("/promotions/:id/active", h.Catalog.SetPromotionActive)
	admin.POST("/promotions/:id/variants/:variantId", h.Catalog.AttachPromotion)
	admin.DELETE("/promotions/:id/variants/:variantId", h.Catalog.DetachPromotion)

	admin.POST("/zones", h.Zones.CreateZone)
	admin.PUT("/zones/:id", h.Zones.UpdateZone)
	admin.PUT("/zones/:id/active", h.Zones.SetZoneActive)

	admin.POST("/cards/:id/topup", h.Cards.TopUpCard)
}
