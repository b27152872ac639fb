package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-cart-checkout.git/internal/cart"
	"github.com/ariefcatur/go-cart-checkout.git/internal/catalog"
	"github.com/ariefcatur/go-cart-checkout.git/internal/checkout"
	"github.com/ariefcatur/go-cart-checkout.git/internal/config"
	"github.com/ariefcatur/go-cart-checkout.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-cart-checkout.git/internal/kafka"
	"github.com/ariefcatur/go-cart-checkout.git/internal/postgres"
	"github.com/ariefcatur/go-cart-checkout.git/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// schema first, then the pool
	if err := postgres.Migrate(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer (order.placed)
	prod := kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicOrderPlaced, 1024)
	prod.Start(ctx)

	// Repos & services
	catalogRepo := &catalog.Repo{DB: db}
	cache := &cart.RedisCache{Client: rdb}
	cartSvc := &cart.Service{
		Store:   &cart.Repo{DB: db},
		Catalog: catalogRepo,
		Cache:   cache,
	}
	checkoutSvc := &checkout.Service{
		Store:            &checkout.Repo{DB: db},
		Producer:         prod,
		Cache:            cache,
		ShippingFeeCents: cfg.ShippingFeeCents,
		ServiceName:      cfg.ServiceName,
	}

	router := httpx.NewRouter()
	(&httpx.CartHandler{Svc: cartSvc}).Register(router)
	(&httpx.CheckoutHandler{Svc: checkoutSvc, Catalog: catalogRepo}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	cancel()
	prod.WaitClosed() // drain
}
