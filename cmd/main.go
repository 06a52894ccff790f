package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/grassroots-wallet/gpay-pass-service/handler"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/config"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/keys"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/logging"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/middleware"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/service"
	"github.com/grassroots-wallet/gpay-pass-service/pkg/walletclient"
)

const (
	READ_TIMEOUT            = 15 * time.Second
	WRITE_TIMEOUT           = 15 * time.Second
	SHUTDOWN_TIMEOUT        = 10 * time.Second
	WALLET_API_CALL_TIMEOUT = 30 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandler(cancel)

	logger, err := logging.NewLogger()
	if err != nil {
		log.Fatalf("Cannot initialize Zap logger: %v.", err)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Error syncing logger: %v", err)
		}
	}()

	appConfig, err := config.GetAppConfig()
	if err != nil {
		logger.Fatal("Error getting application configuration.", zap.Error(err))
	}

	keyStore, err := keys.NewStore(appConfig.Credentials.PrivateKey)
	if err != nil {
		logger.Fatal("Error initializing signing keys.", zap.Error(err))
	}

	httpClient := &http.Client{Timeout: WALLET_API_CALL_TIMEOUT}
	walletClient := walletclient.NewClient(appConfig.WalletAPI.BaseURL, httpClient, logger)

	appService := service.NewService(appConfig, keyStore, walletClient, logger)
	appHandler := handler.NewHandlers(appService, logger)

	srv := buildServer(appConfig, appHandler, logger)

	go func() {
		logger.Info("Starting HTTP server...", zap.String("address", appConfig.ListenAddress))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server exited with error.", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down pass signing service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP server.", zap.Error(err))
	}
}

func buildServer(appConfig *config.AppConfig, handlers *handler.Handlers, logger *zap.Logger) *http.Server {
	router := mux.NewRouter()

	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")
	router.HandleFunc("/.well-known/jwks.json", handlers.GetJwksHandler).Methods("GET")
	router.HandleFunc("/api/covidcard/create", handlers.CreateCovidCardHandler).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/loyalty/create", handlers.CreateLoyaltyHandler).Methods("POST", "OPTIONS")

	routerWithMiddleware := middleware.CombineMiddleware(
		middleware.RequestID(logger),
		middleware.AllowOrigins(appConfig.AllowedOrigins, logger),
	)(router)

	return &http.Server{
		Handler:      routerWithMiddleware,
		Addr:         appConfig.ListenAddress,
		ReadTimeout:  READ_TIMEOUT,
		WriteTimeout: WRITE_TIMEOUT,
	}
}

func setupSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		cancel()
	}()
}
