package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/francisquitu91/retiro-escolar/internal/auth"
	"github.com/francisquitu91/retiro-escolar/internal/config"
	"github.com/francisquitu91/retiro-escolar/internal/db"
	"github.com/francisquitu91/retiro-escolar/internal/httpapi"
	"github.com/francisquitu91/retiro-escolar/internal/jobs"
	"github.com/francisquitu91/retiro-escolar/internal/logging"
	"github.com/francisquitu91/retiro-escolar/internal/metrics"
	"github.com/francisquitu91/retiro-escolar/internal/notify"
	"github.com/francisquitu91/retiro-escolar/internal/observability"
	"github.com/francisquitu91/retiro-escolar/internal/realtime"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("sin .env, usando variables de entorno")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "retiro-escolar")
	if err != nil {
		lg.Sugar.Warnw("sentry deshabilitado", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		lg.Sugar.Fatalw("conexión a la BD", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		lg.Sugar.Fatalw("migraciones", "err", err)
	}

	adminEmail := getenv("ADMIN_EMAIL", "admin@colegio.cl")
	adminHash, err := auth.HashPassword(getenv("ADMIN_PASSWORD", "cambiar.ahora"))
	if err != nil {
		lg.Sugar.Fatalw("hash admin", "err", err)
	}
	if err := db.Seed(ctx, database, adminEmail, adminHash); err != nil {
		lg.Sugar.Fatalw("seed", "err", err)
	}

	// store compartido: Redis si está configurado, memoria si no
	var store realtime.Store = realtime.NewMemoryStore()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			lg.Sugar.Fatalw("redis ping", "err", err)
		}
		defer func() { _ = client.Close() }()
		store = realtime.NewRedisStore(client)
	}
	bc := realtime.NewBroadcaster(store, cfg.PollInterval, lg.Base)
	defer bc.Destroy()

	var notifier notify.Notifier = notify.Noop{}
	if cfg.BotToken != "" && cfg.NotifyChatID != 0 {
		tg, err := notify.NewTelegram(cfg.BotToken, cfg.NotifyChatID, cfg.Location, lg.Base)
		if err != nil {
			lg.Sugar.Warnw("telegram deshabilitado", "err", err)
		} else {
			notifier = tg
		}
	}

	runner := jobs.New(ctx)
	runner.Every(30*time.Second, "db_ping", func(ctx context.Context) error {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		t0 := time.Now()
		if err := database.PingContext(pctx); err != nil {
			return err
		}
		metrics.ObserveDBPing(time.Since(t0))
		return nil
	})

	server := httpapi.NewServer(cfg, database, lg.Base, bc, notifier)
	e := server.Router()

	go func() {
		lg.Sugar.Infow("http escuchando", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			lg.Sugar.Fatalw("http server", "err", err)
		}
	}()

	<-ctx.Done()
	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := e.Shutdown(shCtx); err != nil {
		lg.Sugar.Warnw("shutdown", "err", err)
	}
	lg.Sugar.Infow("apagado limpio")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
