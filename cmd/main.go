package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/onerilhan/go-portfolio-api/internal/auth"
	"github.com/onerilhan/go-portfolio-api/internal/config"
	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/handlers"
	"github.com/onerilhan/go-portfolio-api/internal/logger"
	"github.com/onerilhan/go-portfolio-api/internal/middleware"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/notification"
	"github.com/onerilhan/go-portfolio-api/internal/pricefeed"
	"github.com/onerilhan/go-portfolio-api/internal/repository"
	"github.com/onerilhan/go-portfolio-api/internal/services"
)

// routeHandlers router'a bağlanan handler seti
type routeHandlers struct {
	auth         *handlers.AuthHandler
	deposits     *handlers.DepositHandler
	operations   *handlers.OperationHandler
	prolongation *handlers.ProlongationHandler
	prices       *handlers.PriceHandler
	system       *handlers.SystemHandler
	resets       *handlers.PasswordResetHandler
	wallets      *handlers.WalletHandler
}

func main() {
	// .env dosyasını yükle
	if err := godotenv.Load(); err != nil {
		stdlog.Println(".env dosyası bulunamadı, ortam değişkenlerinden okunacak.")
	}

	// config yükle
	cfg := config.LoadConfig()

	// logger başlat
	logger.Init(cfg.AppEnv)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("❌ Geçersiz yapılandırma")
	}
	auth.Configure(cfg.JWTSecret)
	loc := cfg.Location()

	// tutarlar JSON'da sayı olarak döner
	decimal.MarshalJSONWithoutQuotes = true

	log.Info().
		Str("environment", cfg.AppEnv).
		Str("port", cfg.Port).
		Str("timezone", loc.String()).
		Int("admin_recipients", len(cfg.AdminRecipients)).
		Msg("🚀 Portföy API başlatıldı")

	// Database bağlantısı
	database, err := db.Connect(cfg.GetDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Veritabanı bağlantısı başarısız")
	}
	defer database.Close()

	uow := repository.NewUnitOfWork(database)
	store := uow.Store()

	notifier, err := notification.NewFromConfig(cfg, store.Users())
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Bildirim şablonları yüklenemedi")
	}

	// Deposit Queue: aynı portföyün işleri sırayla çalışır
	depositQueue := services.NewDepositQueue(cfg.QueueWorkers, cfg.QueueBufferSize)
	depositQueue.Start()

	// Service katmanı
	verifier := auth.NewInitDataVerifier(cfg.BotToken, cfg.InitDataMaxAge)
	userService := services.NewUserService(store.Users(), cfg.AdminRecipients, verifier)
	passwordResetService := services.NewPasswordResetService(uow, notifier, verifier)
	walletService := services.NewWalletService(store.Wallets())
	depositService := services.NewDepositService(uow, notifier, depositQueue, loc)
	settlementService := services.NewSettlementService(uow, depositQueue, loc)
	prolongationService := services.NewProlongationService(uow, notifier, depositQueue, loc, cfg.ProlongThresholds)
	maturityService := services.NewMaturityService(uow, notifier, depositQueue, loc, cfg.ProlongThresholds)
	priceService := services.NewPriceService(store.Prices(), pricefeed.NewBinanceClient(cfg.BinanceAPIURL), loc)

	routes := &routeHandlers{
		auth:         handlers.NewAuthHandler(userService),
		deposits:     handlers.NewDepositHandler(depositService),
		operations:   handlers.NewOperationHandler(settlementService),
		prolongation: handlers.NewProlongationHandler(prolongationService),
		prices:       handlers.NewPriceHandler(priceService, loc),
		system:       handlers.NewSystemHandler(database, maturityService, loc),
		resets:       handlers.NewPasswordResetHandler(passwordResetService),
		wallets:      handlers.NewWalletHandler(walletService),
	}

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	metrics := middleware.NewMetrics(middleware.DefaultMetricsConfig())
	router := setupRouter(routes, metrics)

	rateConfig := middleware.DefaultRateLimitConfig()
	rateConfig.RequestsPerMinute = cfg.RateLimitPerMinute
	rateConfig.Burst = cfg.RateLimitBurst
	rateLimiter := middleware.NewRateLimiter(rootCtx, rateConfig)

	// dıştan içe: request id, panic/hata, güvenlik header'ları, CORS, rate limit
	handler := middleware.RequestLoggingMiddleware(middleware.DefaultLoggingConfig())(
		middleware.ErrorHandlingMiddleware(apperrors.ConfigFor(cfg.AppEnv))(
			middleware.SecurityHeadersMiddleware(middleware.SecurityConfigFor(cfg.AppEnv))(
				middleware.CORSMiddleware(middleware.NewCORSConfig(cfg.AllowedOrigins, !cfg.IsProduction()))(
					rateLimiter.Handler(router),
				),
			),
		),
	)

	// HTTP Server configuration
	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown setup
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Info().
			Str("addr", serverAddr).
			Int("read_timeout", 15).
			Int("write_timeout", 15).
			Int("idle_timeout", 60).
			Msg("🌐 HTTP Server (Gorilla Mux) başlatıldı")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("❌ Server başlatma hatası")
		}
	}()

	<-shutdown
	log.Info().Msg("🛑 Shutdown signal alındı, server kapatılıyor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// 1. HTTP Server'ı kapat (aktif bağlantıları bekle)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ HTTP Server kapatma hatası")
	} else {
		log.Info().Msg("✅ HTTP Server başarıyla kapatıldı")
	}

	// 2. Rate limiter temizliğini durdur, kuyruktaki işleri bitir
	stopBackground()
	log.Info().Msg("🔄 Deposit Queue kapatılıyor...")
	depositQueue.Stop()
	log.Info().Msg("✅ Deposit Queue başarıyla kapatıldı")

	log.Info().Msg("👋 Portföy API başarıyla kapatıldı")
}

// setupRouter Gorilla Mux router'ını ayarlar
func setupRouter(h *routeHandlers, metrics *middleware.Metrics) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = middleware.NotFoundJSONHandler()
	router.MethodNotAllowedHandler = middleware.MethodNotAllowedJSONHandler()
	router.Use(metrics.Middleware)

	router.HandleFunc("/health", h.system.Health).Methods("GET")
	router.HandleFunc("/metrics", metrics.Handler).Methods("GET")

	// API v1 subrouter
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", h.system.Health).Methods("GET")

	// Public endpoints (Telegram girişi ve token)
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/enter", h.auth.Enter).Methods("POST")
	authRoutes.HandleFunc("/password", h.auth.SetPassword).Methods("POST")
	authRoutes.HandleFunc("/login", h.auth.Login).Methods("POST")
	authRoutes.HandleFunc("/refresh", h.auth.Refresh).Methods("POST")
	authRoutes.HandleFunc("/password-reset-requests", h.resets.Create).Methods("POST")

	// Protected endpoints (Authentication required)
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware)

	protected.Handle("/deposit-requests",
		middleware.RequirePermission(middleware.PermCreateDepositRequest)(http.HandlerFunc(h.deposits.CreateRequest))).Methods("POST")

	deposits := protected.PathPrefix("/deposits").Subrouter()
	deposits.Use(middleware.RequirePermission(middleware.PermViewOwnDeposits))
	deposits.HandleFunc("", h.deposits.ListOwn).Methods("GET")
	deposits.HandleFunc("/{id:[0-9]+}", h.deposits.Get).Methods("GET")
	deposits.Handle("/{id:[0-9]+}/prolongations",
		middleware.RequirePermission(middleware.PermRequestProlongation)(http.HandlerFunc(h.prolongation.RequestAction))).Methods("POST")

	prices := protected.NewRoute().Subrouter()
	prices.Use(middleware.RequirePermission(middleware.PermViewPrices))
	prices.HandleFunc("/prices/btc", h.prices.ListBitcoinPrices).Methods("GET")
	prices.HandleFunc("/crypto-rates", h.prices.ListCryptoRates).Methods("GET")

	protected.Handle("/wallets/{name}",
		middleware.RequirePermission(middleware.PermViewWallets)(http.HandlerFunc(h.wallets.Get))).Methods("GET")

	// Admin endpoints
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin())

	requests := admin.PathPrefix("/deposit-requests").Subrouter()
	requests.Use(middleware.RequirePermission(middleware.PermManageDepositRequests))
	requests.HandleFunc("", h.deposits.ListPendingRequests).Methods("GET")
	requests.HandleFunc("/{id:[0-9]+}", h.deposits.GetRequest).Methods("GET")
	requests.HandleFunc("/{id:[0-9]+}/approve", h.deposits.ApproveRequest).Methods("POST")

	admin.Handle("/deposits",
		middleware.RequirePermission(middleware.PermViewAllDeposits)(http.HandlerFunc(h.deposits.ListAll))).Methods("GET")
	admin.Handle("/deposits/{id:[0-9]+}/refunds",
		middleware.RequirePermission(middleware.PermManageRefunds)(http.HandlerFunc(h.deposits.Refund))).Methods("POST")
	admin.Handle("/operations/{id:[0-9]+}",
		middleware.RequirePermission(middleware.PermSettleOperations)(http.HandlerFunc(h.operations.Settle))).Methods("PUT")

	prolongations := admin.PathPrefix("/prolongations").Subrouter()
	prolongations.Use(middleware.RequirePermission(middleware.PermResolveProlongations))
	prolongations.HandleFunc("", h.prolongation.ListPending).Methods("GET")
	prolongations.HandleFunc("/{id:[0-9]+}/resolve", h.prolongation.Resolve).Methods("POST")

	managePrices := admin.NewRoute().Subrouter()
	managePrices.Use(middleware.RequirePermission(middleware.PermManagePrices))
	managePrices.HandleFunc("/prices/btc/fetch", h.prices.FetchBitcoinPrices).Methods("POST")
	managePrices.HandleFunc("/crypto-rates", h.prices.UpdateCryptoRate).Methods("PUT")

	resets := admin.PathPrefix("/password-reset-requests").Subrouter()
	resets.Use(middleware.RequirePermission(middleware.PermManagePasswordResets))
	resets.HandleFunc("", h.resets.ListOpen).Methods("GET")
	resets.HandleFunc("/{id:[0-9]+}", h.resets.Get).Methods("GET")
	resets.HandleFunc("/{id:[0-9]+}/reset", h.resets.Reset).Methods("POST")
	resets.HandleFunc("/{id:[0-9]+}/reject", h.resets.Reject).Methods("POST")

	admin.Handle("/wallets",
		middleware.RequirePermission(middleware.PermManageWallets)(http.HandlerFunc(h.wallets.Upsert))).Methods("PUT")

	admin.HandleFunc("/jobs/maturity-scan", h.system.RunMaturityScan).Methods("POST")

	// Route listesini log'la (development için)
	router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err == nil {
			methods, _ := route.GetMethods()
			log.Debug().
				Str("path", pathTemplate).
				Strs("methods", methods).
				Msg("📍 Route registered")
		}
		return nil
	})

	return router
}
