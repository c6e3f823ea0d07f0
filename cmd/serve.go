package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matheuskafuri/benkyou/internal/aggregator"
	"github.com/matheuskafuri/benkyou/internal/browser"
	"github.com/matheuskafuri/benkyou/internal/config"
	"github.com/matheuskafuri/benkyou/internal/feed"
	"github.com/matheuskafuri/benkyou/internal/logger"
	"github.com/matheuskafuri/benkyou/internal/server"
	"github.com/matheuskafuri/benkyou/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	flagListen string
	flagOpen   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "override the listen address")
	serveCmd.Flags().BoolVar(&flagOpen, "open", false, "open the login page in a browser once started")
}

type sessionStore interface {
	session.Store
	Close() error
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}
	log := logger.Init()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(server.Options{
		Aggregator: newAggregator(cfg, log),
		Sessions: session.NewManager(store, session.ManagerConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
			MaxAge:     int(cfg.SessionTTL().Seconds()),
		}),
		Pages:  cfg.Pages,
		Static: os.DirFS(cfg.StaticDir),
		Logger: log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting",
			"listen", cfg.Listen,
			"static_dir", cfg.StaticDir,
			"session_backend", cfg.Session.Backend,
			"sources", cfg.SourceNames())
		if err := srv.Start(cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if flagOpen {
		openLoginPage(log, cfg)
	}
	return g.Wait()
}

func newAggregator(cfg *config.Config, log *slog.Logger) *aggregator.Aggregator {
	return aggregator.New(
		cfg.EnabledSources(),
		feed.NewRSSFetcher(cfg.FetchTimeout(), cfg.Fetch.UserAgent),
		aggregator.WithConcurrency(cfg.FetchConcurrency()),
		aggregator.WithLogger(log),
	)
}

func openSessionStore(ctx context.Context, cfg *config.Config) (sessionStore, error) {
	if cfg.Session.Backend != "redis" {
		return session.NewMemoryStore(cfg.SessionTTL()), nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Session.RedisAddr, err)
	}
	return session.NewRedisStore(client, cfg.SessionTTL()), nil
}

func openLoginPage(log *slog.Logger, cfg *config.Config) {
	u, err := browser.LocalURL(cfg.Listen, cfg.Pages.Login)
	if err == nil {
		err = browser.Open(u)
	}
	if err != nil {
		log.Warn("could not open browser", "error", err)
	}
}
