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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-duel/config"
	"go-duel/controller"
	"go-duel/duel"
	"go-duel/logger"
	"go-duel/middleware"
	"go-duel/repository"
	"go-duel/router"
	"go-duel/service"
	"go-duel/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	log.Info("卡牌目录加载完成", zap.Int("cards", catalog.Len()), zap.String("path", cfg.CatalogPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := repository.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("Redis 连接成功", zap.String("addr", cfg.RedisAddr))

	newSource, err := duel.NewSourceFactory(cfg.Seed)
	if err != nil {
		return err
	}
	svc := service.NewDuelService(catalog, repository.NewDuelStore(rdb, cfg.IdleTimeout), log, service.Options{
		HandSize:    cfg.HandSize,
		MaxHandSize: cfg.MaxHandSize,
		IdleTimeout: cfg.IdleTimeout,
		NewSource:   newSource,
	})
	go svc.RunJanitor(ctx, cfg.SweepInterval)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// 设置 CORS 中间件，允许所有域名、所有方法、所有 header
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	router.InitRouter(r, controller.NewDuelController(svc), ws.NewHub(svc, log, cfg.JWTSecret), middleware.AuthMiddleware(cfg.JWTSecret))

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	errc := make(chan error, 1)
	go func() {
		log.Info("服务启动", zap.String("addr", cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("服务关闭中")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
