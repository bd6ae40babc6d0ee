package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/gooddeal/storefront/internal/api/handler"
	"github.com/gooddeal/storefront/internal/api/middleware"
	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth    ports.AuthService
	Catalog ports.CatalogService
	Carts   ports.CartService
	Orders  ports.OrderService
	Reviews ports.ReviewService

	Checkers []handler.Checker

	JWTSecret string
	// ClientURL is the storefront origin allowed by CORS; empty allows any.
	ClientURL string
	// UploadDir is served under /uploads when images are stored on disk.
	UploadDir string
	Log       zerolog.Logger
	// Registry receives the HTTP metrics; nil uses the default registry that
	// also holds the metrics package.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	v, err := handler.NewValidator()
	if err != nil {
		return nil, err
	}
	e.Validator = v

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	promCfg := echoprometheus.MiddlewareConfig{Subsystem: "storefront"}
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		promCfg.Registerer = d.Registry
		gatherer = d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(d.ClientURL)))

	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	// --- Ops (no auth required) ---
	health := handler.NewHealthHandler(d.Checkers...)
	e.GET("/health", health.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Every :userId route requires the caller to be that user; admin routes
	// additionally require the admin role.
	auth := middleware.Auth(d.JWTSecret)
	owner := middleware.Owner("userId")
	user := []echo.MiddlewareFunc{auth, owner}
	admin := []echo.MiddlewareFunc{auth, owner, middleware.RBAC(domain.RoleAdmin)}

	// --- Auth ---
	authH := handler.NewAuthHandler(d.Auth)
	api.POST("/signup", authH.Signup)
	api.POST("/signin", authH.Signin)
	api.POST("/signout", authH.Signout)
	api.POST("/refresh/token", authH.Refresh)
	api.POST("/forgot/password", authH.ForgotPassword)
	api.PUT("/change/password/:forgotPasswordCode", authH.ChangePassword)

	// --- Orders ---
	orders := handler.NewOrderHandler(d.Orders)
	api.GET("/order/by/user/:orderId/:userId", orders.GetByUser, user...)
	api.GET("/order/for/admin/:orderId/:userId", orders.GetForAdmin, admin...)
	api.POST("/order/create/:cartId/:userId", orders.Create, user...)
	api.GET("/order/items/by/user/:orderId/:userId", orders.ItemsByUser, user...)
	api.GET("/order/items/for/admin/:orderId/:userId", orders.ItemsForAdmin, admin...)
	api.GET("/orders/by/user/:userId", orders.ListByUser, user...)
	api.GET("/orders/for/admin/:userId", orders.ListForAdmin, admin...)
	api.PUT("/order/update/by/user/:orderId/:userId", orders.UpdateByUser, user...)
	api.PUT("/order/update/for/admin/:orderId/:userId", orders.UpdateForAdmin, admin...)
	api.GET("/orders/count", orders.Count)

	// --- Carts ---
	carts := handler.NewCartHandler(d.Carts)
	api.GET("/carts/:userId", carts.List, user...)
	api.GET("/cart/items/:cartId/:userId", carts.Items, user...)
	api.POST("/cart/add/:userId", carts.Add, user...)
	api.PUT("/cart/update/:cartItemId/:userId", carts.Update, user...)
	api.DELETE("/cart/remove/:cartItemId/:userId", carts.Remove, user...)
	api.GET("/cart/count/:userId", carts.Count, user...)

	// --- Catalog ---
	catalog := handler.NewCatalogHandler(d.Catalog)
	api.GET("/category/by/id/:categoryId", catalog.Category)
	api.GET("/active/categories", catalog.ActiveCategories)
	api.GET("/categories/:userId", catalog.Categories, admin...)
	api.POST("/category/create/:userId", catalog.CreateCategory, admin...)
	api.PUT("/category/:categoryId/:userId", catalog.UpdateCategory, admin...)
	api.DELETE("/category/:categoryId/:userId", catalog.DeleteCategory, admin...)
	api.GET("/category/restore/:categoryId/:userId", catalog.RestoreCategory, admin...)

	api.GET("/producers/:userId", catalog.Producers, admin...)
	api.POST("/producer/create/:userId", catalog.CreateProducer, admin...)
	api.DELETE("/producer/:producerId/:userId", catalog.DeleteProducer, admin...)
	api.GET("/producer/restore/:producerId/:userId", catalog.RestoreProducer, admin...)

	api.GET("/product/:productId", catalog.Product)
	api.GET("/active/products", catalog.ActiveProducts)
	api.GET("/products/:userId", catalog.Products, admin...)
	api.POST("/product/create/:userId", catalog.CreateProduct, admin...)
	api.PUT("/product/active/:productId/:userId", catalog.SetActive, admin...)

	// --- Reviews ---
	reviews := handler.NewReviewHandler(d.Reviews)
	api.POST("/review/create/:userId", reviews.Create, user...)
	api.GET("/reviews", reviews.List)

	// --- Navigation ---
	api.GET("/menu/:userId", handler.NewMenuHandler().Get, user...)

	return e, nil
}

func corsConfig(clientURL string) echomiddleware.CORSConfig {
	cfg := echomiddleware.DefaultCORSConfig
	if clientURL != "" {
		cfg.AllowOrigins = []string{clientURL}
	}
	cfg.AllowHeaders = []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization}
	return cfg
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
