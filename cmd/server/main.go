package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/crm/workbench/internal/application/workbench"
	"github.com/crm/workbench/internal/application/workspace"
	"github.com/crm/workbench/internal/infrastructure/auth"
	"github.com/crm/workbench/internal/infrastructure/config"
	"github.com/crm/workbench/internal/infrastructure/crmapi"
	"github.com/crm/workbench/internal/infrastructure/directory"
	"github.com/crm/workbench/internal/infrastructure/logger"
	"github.com/crm/workbench/internal/infrastructure/viewstate"
	"github.com/crm/workbench/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	client := crmapi.NewClient(crmapi.Config{
		BaseURL:     cfg.CRM.BaseURL,
		Timeout:     cfg.CRM.Timeout,
		MaxBodySize: cfg.CRM.MaxRespBodyMB * 1024 * 1024,
	})

	var dirCache directory.Cache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		dirCache = directory.NewRedisCache(rdb)
		log.Info("directory cache backed by redis", zap.String("addr", rdb.Options().Addr))
	} else {
		dirCache = directory.NewMemoryCache()
		log.Info("directory cache in memory")
	}

	viewStates, err := viewstate.Open(cfg.ViewState.Path)
	if err != nil {
		return err
	}

	wb := workbench.New(workbench.Gateways{
		Deals:          crmapi.NewDealClient(client),
		Invoices:       crmapi.NewInvoiceClient(client),
		Receipts:       crmapi.NewReceiptClient(client),
		PurchaseOrders: crmapi.NewPurchaseOrderClient(client),
		Directory: directory.NewCachedGateway(
			crmapi.NewDirectoryClient(client), dirCache, cfg.Directory.CacheTTL, log),
	}, cfg.Session.TTL, workspace.NewZapObserver(log))

	engine := router.New(router.Dependencies{
		Config:     cfg,
		Logger:     log,
		JWTService: auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer),
		Workbench:  wb,
		ViewStates: viewStates,
		Version:    version,
	})

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(cfg.Session.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := wb.SweepSessions(); n > 0 {
					log.Debug("evicted idle screen sessions", zap.Int("count", n))
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("crm_base_url", cfg.CRM.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
