package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"twap-engine-go/admin"
	"twap-engine-go/api"
	"twap-engine-go/config"
	"twap-engine-go/custody"
	"twap-engine-go/engine"
	"twap-engine-go/feed"
	"twap-engine-go/infrastructure/logger"
	"twap-engine-go/internal/store"
	"twap-engine-go/metrics"
	"twap-engine-go/venue"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	lg, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = lg.Close() }()

	if cfg.Metrics.Addr != "" {
		metrics.StartMetricsServer(cfg.Metrics.Addr)
	}

	st, persister, err := buildStore(cfg.Store)
	if err != nil {
		log.Fatalf("初始化订单存储失败: %v", err)
	}
	if persister != nil {
		defer func() { _ = persister.Close() }()
	}

	params := admin.NewParams(cfg.Engine.Owner, cfg.Engine.MaxAllowedDuration())
	if cfg.Engine.Treasury != "" {
		_ = params.SetTreasury(cfg.Engine.Owner, cfg.Engine.Treasury)
	}

	eng, err := engine.New(engine.Config{
		Self:   cfg.Engine.Identity,
		Venue:  buildVenue(cfg.Engine.Identity),
		Ledger: custody.NewMemoryLedger(),
		Store:  st,
		Params: params,
		Clock:  engine.RealClock,
		Logger: lg,
	})
	if err != nil {
		log.Fatalf("初始化引擎失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Feed.Enabled {
		client := feed.New(cfg.Feed.URL, eng, lg)
		go func() {
			if err := client.Run(ctx); err != nil && ctx.Err() == nil {
				lg.LogError(err)
			}
		}()
	}

	apiServer := &http.Server{Addr: cfg.API.Addr, Handler: api.NewRouter(eng)}
	go func() {
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.LogError(err)
		}
	}()

	// 配置热更新只重载最大时长,其余字段需要重启
	watcher := config.Watcher{Path: *cfgPath}
	go func() {
		_ = watcher.Start(ctx, func(next config.AppConfig) {
			if err := params.SetMaxAllowedDuration(cfg.Engine.Owner, next.Engine.MaxAllowedDuration()); err != nil {
				lg.LogError(err)
				return
			}
			lg.Info("config_reloaded", zap.Duration("max_duration", next.Engine.MaxAllowedDuration()))
		})
	}()

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	lg.Info("runner_started",
		zap.String("env", cfg.Env),
		zap.String("identity", cfg.Engine.Identity),
		zap.String("api", cfg.API.Addr),
	)

	<-ctx.Done()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = apiServer.Shutdown(shutdownCtx)
	lg.Info("runner_stopped")
}

func buildStore(cfg config.StoreConfig) (*store.Store, *store.BadgerPersister, error) {
	if cfg.BadgerPath == "" {
		return store.New(), nil, nil
	}
	p, err := store.OpenBadger(cfg.BadgerPath)
	if err != nil {
		return nil, nil, err
	}
	restored, err := p.LoadAll()
	if err != nil {
		_ = p.Close()
		return nil, nil, err
	}
	return store.NewPersistent(p, restored), p, nil
}

// buildVenue 站内仿真池。接真实场所时换成对应的 Adapter 实现。
func buildVenue(engineID string) venue.Adapter {
	return venue.NewPool(1_000_000_000, 1_000_000_000, 30, engineID)
}
