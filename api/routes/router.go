package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baxoq/baxoq-store-backend/api/controllers"
	"github.com/baxoq/baxoq-store-backend/api/middleware"
	authsvc "github.com/baxoq/baxoq-store-backend/internal/auth"
	cartsvc "github.com/baxoq/baxoq-store-backend/internal/cart"
	checkoutsvc "github.com/baxoq/baxoq-store-backend/internal/checkout"
	"github.com/baxoq/baxoq-store-backend/internal/contact"
	"github.com/baxoq/baxoq-store-backend/internal/newsletter"
	"github.com/baxoq/baxoq-store-backend/internal/orders"
	product "github.com/baxoq/baxoq-store-backend/internal/products"
	"github.com/baxoq/baxoq-store-backend/internal/users"
	"github.com/baxoq/baxoq-store-backend/pkg/auth/session"
	"github.com/baxoq/baxoq-store-backend/pkg/config"
	"github.com/baxoq/baxoq-store-backend/pkg/logger"
)

// Deps carries the wired services the router mounts.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          controllers.Pinger
	SessionChecker session.AccessSessionChecker

	Auth       authsvc.Service
	Users      *users.Repository
	Accounts   users.Service
	Products   product.Service
	Cart       cartsvc.Service
	Checkout   checkoutsvc.Service
	Orders     orders.Service
	Newsletter newsletter.Service
	Contact    contact.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": d.DB,
			"redis":    d.Redis,
		}))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(d.Auth, cfg, logg))
			r.Post("/login", controllers.AuthLogin(d.Auth, cfg, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.Auth, cfg, logg))
			r.Post("/logout", controllers.AuthLogout(d.Auth, cfg, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(d.Products, logg))
			r.Get("/{key}", controllers.ProductDetail(d.Products, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, logg))
				r.Post("/{productId}/reviews", controllers.ProductReviewCreate(d.Products, d.Users, logg))
			})
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.Post("/subscribe", controllers.NewsletterSubscribe(d.Newsletter, logg))
			r.Post("/unsubscribe", controllers.NewsletterUnsubscribe(d.Newsletter, logg))
		})

		r.Post("/contact", controllers.ContactSubmit(d.Contact, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, logg))

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileFetch(d.Accounts, logg))
				r.Put("/", controllers.ProfileUpdate(d.Accounts, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(d.Cart, logg))
				r.Delete("/", controllers.CartClear(d.Cart, logg))
				r.Post("/items", controllers.CartAddItem(d.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(d.Cart, logg))
				r.Put("/shipping-address", controllers.CartSetShippingAddress(d.Cart, logg))
				r.Put("/payment-method", controllers.CartSetPaymentMethod(d.Cart, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.CheckoutBegin(d.Checkout, logg))
				r.Get("/", controllers.CheckoutFetch(d.Checkout, logg))
				r.Put("/shipping", controllers.CheckoutSubmitShipping(d.Checkout, d.Users, logg))
				r.Put("/payment", controllers.CheckoutSelectPayment(d.Checkout, logg))
				r.Post("/place", controllers.CheckoutPlace(d.Checkout, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/mine", controllers.OrdersMine(d.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(d.Orders, logg))
				r.Put("/{orderId}/pay", controllers.OrderPay(d.Orders, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, logg))
			r.Use(middleware.RequireAdmin(logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminProductCreate(d.Products, logg))
				r.Put("/{productId}", controllers.AdminProductUpdate(d.Products, logg))
				r.Delete("/{productId}", controllers.AdminProductDelete(d.Products, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(d.Orders, logg))
				r.Put("/{orderId}/deliver", controllers.AdminOrderDeliver(d.Orders, logg))
				r.Put("/{orderId}/status", controllers.AdminOrderSetStatus(d.Orders, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUserList(d.Accounts, logg))
				r.Delete("/{userId}", controllers.AdminUserDelete(d.Accounts, logg))
			})

			r.Route("/contact", func(r chi.Router) {
				r.Get("/", controllers.AdminContactList(d.Contact, logg))
				r.Put("/{messageId}/status", controllers.AdminContactSetStatus(d.Contact, logg))
			})
		})
	})

	return r
}
