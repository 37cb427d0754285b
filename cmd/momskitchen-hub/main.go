package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"momskitchen-hub/config"
	"momskitchen-hub/internal/adapter/gateway"
	adapterhandler "momskitchen-hub/internal/adapter/handler"
	"momskitchen-hub/internal/domain"
	infracache "momskitchen-hub/internal/infrastructure/cache"
	"momskitchen-hub/internal/infrastructure/phone"
	infratoken "momskitchen-hub/internal/infrastructure/token"
	"momskitchen-hub/internal/metrics"
	"momskitchen-hub/internal/usecase"
	appmiddleware "momskitchen-hub/middleware"
	"momskitchen-hub/utils/logger"
	"momskitchen-hub/utils/otel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
	}

	// Initialize structured logger
	log := logger.Init(otelCfg.Enabled)
	ctxLog := logger.NewContextLogger(log)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	backendTarget, err := url.Parse(cfg.BackendURL)
	if err != nil {
		slog.ErrorContext(ctx, "invalid BACKEND_URL", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"backend_url", cfg.BackendURL,
		"provider_url", cfg.ProviderURL,
		"port", cfg.Port,
		"cache_ttl", cfg.CacheTTL)

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Infrastructure
	profileCache := infracache.NewProfileCache(cfg.CacheTTL)
	serviceTokens := infratoken.NewServiceTokenIssuer(infratoken.ServiceTokenConfig{
		Secret:   cfg.ServiceTokenSecret,
		Issuer:   cfg.ServiceTokenIssuer,
		Audience: cfg.ServiceTokenAudience,
		TTL:      cfg.ServiceTokenTTL,
	})
	csrfGenerator := infratoken.NewHMACCSRFGenerator(cfg.CSRFSecret)
	normalizer := phone.NewNormalizer(cfg.CountryPrefix, cfg.NationalDigits)

	var issuer domain.ServiceTokenIssuer
	if cfg.ServiceTokenSecret != "" {
		issuer = serviceTokens
	}
	backend := gateway.NewBackend(cfg.BackendURL, cfg.RequestTimeout, issuer)
	otpProvider := gateway.NewOTPProvider(cfg.ProviderURL, cfg.RequestTimeout)

	// Usecases
	logoutUC := usecase.NewLogout(backend, otpProvider, profileCache, log)
	resolveUC := usecase.NewResolveSession(backend, profileCache, logoutUC, collector, log)
	loginUC := usecase.NewLoginFlow(backend, otpProvider, normalizer, logoutUC, collector, log)

	// Handlers
	authHandler := adapterhandler.NewAuthHandler(loginUC, logoutUC, backend, ctxLog)
	sessionHandler := adapterhandler.NewSessionHandler()
	csrfHandler := adapterhandler.NewCSRFHandler(csrfGenerator)
	healthHandler := adapterhandler.NewHealthHandler()
	internalHandler := adapterhandler.NewInternalHandler(profileCache)
	pageHandler := adapterhandler.NewPageHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(appmiddleware.SecurityHeaders())

	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/health" || p == "/metrics"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Use(appmiddleware.EnsureVisitor())

	resolve := appmiddleware.ResolveSessions(resolveUC)
	csrf := appmiddleware.CSRF(csrfGenerator, cfg.CSRFSecret != "")

	// Rate limiters per endpoint group
	loginRL := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(10), 3)
	verifyRL := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(15), 5)
	registerRL := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(5), 2)
	internalRL := appmiddleware.NewRateLimiter(appmiddleware.PerMinute(10), 3)

	// Operational endpoints
	e.GET("/health", healthHandler.Handle)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))
	e.GET("/v1/csrf", csrfHandler.Handle)

	// Auth API, one group per identity class
	for _, entry := range []struct {
		prefix string
		class  domain.Class
	}{
		{"/v1/users", domain.ClassUser},
		{"/v1/moms", domain.ClassMom},
	} {
		g := e.Group(entry.prefix)
		g.POST("/login", authHandler.Login(entry.class), csrf, loginRL.Middleware())
		g.POST("/verify", authHandler.Verify(entry.class), csrf, verifyRL.Middleware())
		g.POST("/logout", authHandler.Logout(entry.class), csrf)
		g.POST("/register", authHandler.Register(entry.class), csrf, registerRL.Middleware())
		g.GET("/session", sessionHandler.Class(entry.class), resolve)
	}

	// Internal routes (protected by shared secret)
	internalGroup := e.Group("/internal",
		internalRL.Middleware(),
		appmiddleware.InternalAuth(cfg.InternalSharedSecret),
	)
	internalGroup.POST("/revoke", internalHandler.HandleRevoke)

	registerPageRoutes(e, pageHandler, resolve)
	registerProxyRoutes(e, backendTarget, issuer, resolve)

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting momskitchen-hub server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// registerPageRoutes wires the browser-facing shell routes behind the
// session resolver and the class guards.
func registerPageRoutes(e *echo.Echo, pages *adapterhandler.PageHandler, resolve echo.MiddlewareFunc) {
	userGuest := appmiddleware.Guard(domain.ClassUser, false)
	userOnly := appmiddleware.Guard(domain.ClassUser, true)
	momGuest := appmiddleware.Guard(domain.ClassMom, false)
	momOnly := appmiddleware.Guard(domain.ClassMom, true)

	// User namespace
	e.GET("/login", pages.Serve("login"), resolve, userGuest)
	e.GET("/signup", pages.Serve("signup"), resolve, userGuest)
	e.GET("/user/home", pages.Serve("user-home"), resolve, userOnly)
	e.GET("/user/orders", pages.Serve("user-orders"), resolve, userOnly)
	e.GET("/user/profile", pages.Serve("user-profile"), resolve, userOnly)
	e.GET("/menus", pages.Serve("menus"), resolve, userOnly)
	e.GET("/menus/:id", pages.Serve("menu-detail"), resolve, userOnly)
	e.GET("/moms", pages.Serve("moms"), resolve, userOnly)

	// Mom namespace
	e.GET("/mom/login", pages.Serve("mom-login"), resolve, momGuest)
	e.GET("/mom/signup", pages.Serve("mom-signup"), resolve, momGuest)
	e.GET("/mom/home", pages.Serve("mom-home"), resolve, momOnly)
	e.GET("/mom/menus", pages.Serve("mom-menus"), resolve, momOnly)
	e.GET("/mom/orders", pages.Serve("mom-orders"), resolve, momOnly)
	e.GET("/mom/payments", pages.Serve("mom-payments"), resolve, momOnly)
	e.GET("/mom/profile", pages.Serve("mom-profile"), resolve, momOnly)
}

// registerProxyRoutes forwards the data-plane API to the backend with
// cookies relayed and the gateway token attached, gated per class.
func registerProxyRoutes(e *echo.Echo, target *url.URL, issuer domain.ServiceTokenIssuer, resolve echo.MiddlewareFunc) {
	balancer := middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{
		{URL: target},
	})

	userAPI := e.Group("/api/user",
		resolve,
		appmiddleware.Guard(domain.ClassUser, true),
		appmiddleware.AttachServiceToken(issuer),
	)
	userAPI.Use(middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: balancer,
		Rewrite:  map[string]string{"/api/user/*": "/$1"},
	}))

	momAPI := e.Group("/api/mom",
		resolve,
		appmiddleware.Guard(domain.ClassMom, true),
		appmiddleware.AttachServiceToken(issuer),
	)
	momAPI.Use(middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: balancer,
		Rewrite:  map[string]string{"/api/mom/*": "/$1"},
	}))
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8888"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
