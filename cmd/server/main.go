package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/feereceipt/internal/auth"
	"github.com/mmynk/feereceipt/internal/config"
	"github.com/mmynk/feereceipt/internal/metrics"
	"github.com/mmynk/feereceipt/internal/middleware"
	"github.com/mmynk/feereceipt/internal/receipt"
	"github.com/mmynk/feereceipt/internal/render"
	"github.com/mmynk/feereceipt/internal/service"
	"github.com/mmynk/feereceipt/internal/storage/files"
	"github.com/mmynk/feereceipt/internal/storage/sqlite"
	"github.com/mmynk/feereceipt/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.JWT.Secret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is the built-in placeholder; set it before deploying")
	}

	store, err := sqlite.New(cfg.App.DBPath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.App.DBPath)

	pdfs, err := files.New(cfg.PDF.Dir)
	if err != nil {
		return fmt.Errorf("initialize pdf store: %w", err)
	}
	logger.Info("PDF store initialized", "path", pdfs.Dir(), "compress", cfg.PDF.Compress)

	fontMetrics, err := render.DefaultMetrics()
	if err != nil {
		return fmt.Errorf("load font metrics: %w", err)
	}
	composer := receipt.NewComposer(fontMetrics, render.DefaultTheme(), schoolFrom(cfg.School))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	authenticator := auth.NewPasswordAuthenticator(store)

	mux := http.NewServeMux()

	publicInterceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.LoggingInterceptor(),
	)
	authPath, authHandler := service.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, logger),
		publicInterceptors,
	)
	mux.Handle(authPath, authHandler)

	protectedInterceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)
	receiptPath, receiptHandler := service.NewReceiptServiceHandler(
		service.NewReceiptService(store, pdfs, composer, m, logger, service.WithCompression(cfg.PDF.Compress)),
		protectedInterceptors,
	)
	mux.Handle(receiptPath, receiptHandler)

	mux.Handle(service.DownloadPath, middleware.RequireAuthHTTP(jwtManager, service.NewDownloadHandler(store, pdfs, logger)))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "ok")
	})

	if cfg.App.StaticPath != "" {
		staticDir, err := filepath.Abs(cfg.App.StaticPath)
		if err != nil {
			return fmt.Errorf("resolve static path: %w", err)
		}
		logger.Info("Serving static files", "path", staticDir)
		mux.Handle("/", staticHandler(staticDir))
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(middleware.Logging(middleware.CORS(mux)), &http2.Server{})

	addr := ":" + cfg.App.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// schoolFrom overlays configured letterhead fields on the defaults.
func schoolFrom(c config.SchoolConfig) receipt.School {
	school := receipt.DefaultSchool()
	if c.Name != "" {
		school.Name = c.Name
	}
	if c.Address != "" {
		school.Address = c.Address
	}
	if c.Phone != "" {
		school.Phone = c.Phone
	}
	if c.Contact != "" {
		school.Contact = c.Contact
	}
	return school
}

// staticHandler serves a prebuilt frontend, falling back to index.html
// for client-side routes.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unknown RPC paths should not get the frontend
		if strings.HasPrefix(r.URL.Path, "/feereceipt.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
}
