package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/matrknhash/marketplace-backend/api/routes"
	"github.com/matrknhash/marketplace-backend/internal/checkout"
	"github.com/matrknhash/marketplace-backend/internal/fitment"
	"github.com/matrknhash/marketplace-backend/internal/notifications"
	"github.com/matrknhash/marketplace-backend/internal/orders"
	"github.com/matrknhash/marketplace-backend/internal/products"
	"github.com/matrknhash/marketplace-backend/internal/shipping"
	"github.com/matrknhash/marketplace-backend/internal/users"
	"github.com/matrknhash/marketplace-backend/internal/wallet"
	"github.com/matrknhash/marketplace-backend/pkg/config"
	"github.com/matrknhash/marketplace-backend/pkg/db"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
	"github.com/matrknhash/marketplace-backend/pkg/metrics"
	"github.com/matrknhash/marketplace-backend/pkg/migrate"
	pkgredis "github.com/matrknhash/marketplace-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := openDatabase(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	mets := metrics.NewMarketplaceMetrics(prometheus.DefaultRegisterer)

	hub, err := notifications.NewHub(cfg.Notifications.ChannelBuffer, mets, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification hub", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var notify eventNotifier = hub
	if cfg.Notifications.EnableBridge {
		bridge, err := notifications.NewBridge(hub, redisClient, cfg.Notifications.RedisChannel, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create notification bridge", err)
			os.Exit(1)
		}
		go func() {
			if err := bridge.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(runCtx, "notification bridge stopped unexpectedly", err)
			}
		}()
		notify = bridge
	}

	carriers, err := shipping.NewRegistry(cfg.Carriers, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create carrier registry", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	walletSvc, err := wallet.NewService(wallet.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(ordersRepo, dbClient, notify, carriers, mets, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutSvc, err := checkout.NewService(ordersRepo, dbClient, walletSvc, notify, mets, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	usersSvc, err := users.NewService(users.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	productsSvc, err := products.NewService(products.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	fitmentSvc, err := fitment.NewService(cfg.Fitment, usersSvc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create fitment service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Hub:      hub,
		Checkout: checkoutSvc,
		Orders:   ordersSvc,
		Users:    usersSvc,
		Products: productsSvc,
		Wallet:   walletSvc,
		Fitment:  fitmentSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx := logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		if err := drain(server, hub); err != nil {
			logg.Error(ctx, "shutdown finished with errors", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}

// eventNotifier is the fan-out surface shared by the hub and the redis
// bridge; services only ever see this slice of it.
type eventNotifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, event notifications.Event)
	BroadcastToAdmins(ctx context.Context, event notifications.Event)
}

func openDatabase(cfg *config.Config, logg *logger.Logger) (*db.Client, error) {
	if cfg.FeatureFlags.UseSQLite {
		return db.NewSQLite(cfg.DB.DSN)
	}
	return db.New(context.Background(), cfg.DB, logg)
}

// drain closes the streaming hub first so SSE handlers exit, then waits for
// the remaining in-flight requests.
func drain(server *http.Server, hub *notifications.Hub) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var errs error
	if err := hub.Close(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := server.Shutdown(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}
