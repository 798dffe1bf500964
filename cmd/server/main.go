package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"storefront-checkout/internal/config"
	"storefront-checkout/internal/controller"
	"storefront-checkout/internal/eligibility"
	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/middleware"
	"storefront-checkout/internal/payment"
	"storefront-checkout/internal/rabbit"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/service"
	"storefront-checkout/internal/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("error conectando a MongoDB", zap.Error(err))
	}
	db := client.Database(cfg.MongoDBName)

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatal("error conectando a RabbitMQ", zap.Error(err))
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error creando canal en RabbitMQ", zap.Error(err))
	}
	publisher, err := rabbit.SetupPublisher(ch, cfg.NotifyExchange, log)
	if err != nil {
		log.Fatal("error preparando el publisher", zap.Error(err))
	}

	// Repositorios
	orders := repository.NewBreakerOrderStore(
		repository.NewMongoOrderRepository(db),
		repository.BreakerSettings{ConsecutiveFailures: cfg.BreakerFailures, OpenTimeout: cfg.BreakerOpen},
		log,
	)
	customers := repository.NewMongoCustomerRepository(db)
	carts := repository.NewMongoCartRepository(db)
	fallback := repository.NewFileFallbackStore(cfg.FallbackFile)

	// Servicios
	codRule := eligibility.NewRule(cfg.CODPolicy())
	builder := service.NewOrderBuilder(service.BuilderConfig{ExpressFee: cfg.ExpressFee})
	wompi, err := payment.NewWompiCheckout(payment.WompiConfig{
		CheckoutURL:     cfg.WompiCheckoutURL,
		PublicKey:       cfg.WompiPublicKey,
		RedirectURL:     cfg.WompiRedirectURL,
		IntegritySecret: cfg.WompiIntegritySecret,
	})
	if err != nil {
		log.Fatal("error configurando Wompi", zap.Error(err))
	}

	checkout, err := service.NewCheckoutService(service.CheckoutServiceDeps{
		Validator:         validator.New(codRule),
		Builder:           builder,
		Customers:         customers,
		Orders:            orders,
		Fallback:          fallback,
		Payments:          wompi,
		Notifier:          publisher,
		Logger:            log,
		StoreTimeout:      cfg.StoreTimeout,
		BackgroundTimeout: cfg.BackgroundTimeout,
	})
	if err != nil {
		log.Fatal("error creando el servicio de checkout", zap.Error(err))
	}
	reference := service.NewReferenceService(cfg.ReferenceAPIURL, log)

	// Handlers
	ctrl := controller.NewCheckoutController(checkout, controller.MongoCarts{Repo: carts}, codRule, reference, builder)

	// Router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"order_breaker": orders.State().String(),
		})
	})
	ctrl.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("checkout service ejecutándose", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("error en el servidor HTTP", zap.Error(err))
		}
	}()

	<-sigCtx.Done()
	log.Info("apagando servidor")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error cerrando el servidor HTTP", zap.Error(err))
	}

	// Las tareas en segundo plano (stock, notificaciones) terminan antes de cerrar conexiones.
	drained := make(chan struct{})
	go func() {
		checkout.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		log.Warn("tareas en segundo plano sin terminar al apagar")
	}

	_ = ch.Close()
	_ = conn.Close()
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error("error desconectando MongoDB", zap.Error(err))
	}
}
