package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/sokosmart/backend/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP
	OrderHandler   *OrderHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := mwauth.New(d.JWTSecret)

	accounts := e.Group("/accounts")
	accounts.POST("/register", d.AuthHandler.Register)
	accounts.POST("/login", d.AuthHandler.Login)
	me := accounts.Group("/me", authMW.RequireAuth)
	me.GET("", d.AuthHandler.Me)
	me.PUT("", d.AuthHandler.UpdateMe)
	me.DELETE("", d.AuthHandler.DeleteMe)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	// Registered before /:id so "mine" is not parsed as a product id.
	products.GET("/mine", d.ProductHandler.GetOwnProducts, authMW.RequireAuth, authMW.RequireFarmer)
	products.GET("/:id", d.ProductHandler.GetProduct)

	farmerProducts := products.Group("", authMW.RequireAuth, authMW.RequireFarmer)
	farmerProducts.POST("", d.ProductHandler.CreateProduct)
	farmerProducts.PUT("/:id", d.ProductHandler.PatchProduct)
	farmerProducts.DELETE("/:id", d.ProductHandler.DeleteProduct)

	orders := e.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.PlaceOrder, authMW.RequireBuyer)
	orders.GET("/my-orders", d.OrderHandler.MyOrders, authMW.RequireBuyer)
	orders.GET("/farmer", d.OrderHandler.FarmerOrders, authMW.RequireFarmer)
	orders.PUT("/:id/status", d.OrderHandler.UpdateStatus, authMW.RequireFarmer)
	orders.DELETE("/:id", d.OrderHandler.CancelOrder, authMW.RequireBuyer)
}
