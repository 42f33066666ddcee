package main

import (
	"log"
	"net/http"

	"github.com/boypaida12/kidsjourneyhub/internal/api"
	"github.com/boypaida12/kidsjourneyhub/internal/category"
	"github.com/boypaida12/kidsjourneyhub/internal/config"
	"github.com/boypaida12/kidsjourneyhub/internal/customer"
	"github.com/boypaida12/kidsjourneyhub/internal/db"
	"github.com/boypaida12/kidsjourneyhub/internal/logger"
	"github.com/boypaida12/kidsjourneyhub/internal/order"
	"github.com/boypaida12/kidsjourneyhub/internal/payment"
	"github.com/boypaida12/kidsjourneyhub/internal/payment/webhook"
	"github.com/boypaida12/kidsjourneyhub/internal/product"
	"github.com/boypaida12/kidsjourneyhub/internal/user"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	customerRepo := customer.NewRepository(database)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	categoryRepo := category.NewRepository(database)
	categorySvc := category.NewService(categoryRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, customerRepo)

	paymentRepo := payment.NewRepository(database)
	gateway := payment.NewPaystackGateway(cfg.PaystackSecretKey, cfg.CallbackURL)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	router := api.NewRouter(api.Handlers{
		Checkout: api.NewCheckoutHandler(orderSvc),
		Payment:  api.NewPaymentHandler(gateway, orderSvc),
		Webhook:  webhook.NewWebhookHandler(orderSvc, paymentRepo, cfg.PaystackSecretKey),
		Order:    api.NewOrderHandler(orderSvc),
		Product:  api.NewProductHandler(productSvc),
		Category: api.NewCategoryHandler(categorySvc),
		Auth:     api.NewAuthHandler(userSvc),
	})

	log.Printf("🚀 Storefront API running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, router))
}
