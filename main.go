package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"food-ordering/auth"
	"food-ordering/bot"
	"food-ordering/config"
	"food-ordering/db"
	"food-ordering/logger"
	"food-ordering/models"
	"food-ordering/store"
	"food-ordering/store/memstore"
	"food-ordering/store/mongostore"
	"food-ordering/store/pgstore"
	"food-ordering/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "food-ordering",
		Usage: "restaurant menu, cart and order service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create tables (postgres) or indexes (mongo)",
				Action: migrate,
			},
			{
				Name:  "user",
				Usage: "manage staff accounts",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "create or update a staff account",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "email", Required: true},
							&cli.StringFlag{Name: "role", Required: true, Usage: "admin, chef or waiter"},
							&cli.StringFlag{Name: "name"},
							&cli.StringFlag{Name: "uid", Usage: "identity provider uid; generated when empty"},
							&cli.StringFlag{Name: "password", Usage: "generated when empty"},
						},
						Action: createUser,
					},
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, nil
}

// openStore connects the configured backend. With AUTO_MIGRATE set it also
// prepares the schema or indexes.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if err := db.Init(ctx, cfg.DB); err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := applyMigrations(ctx); err != nil {
				db.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return pgstore.New(db.Pool), nil
	case config.StoreMongo:
		database, err := db.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		s := mongostore.New(database)
		if cfg.AutoMigrate {
			if err := s.EnsureIndexes(ctx); err != nil {
				_ = s.Close(ctx)
				return nil, err
			}
		}
		return s, nil
	case config.StoreMemory:
		s := memstore.New()
		if cfg.SeedFile != "" {
			f, err := os.Open(cfg.SeedFile)
			if err != nil {
				return nil, fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()
			if err := s.LoadSeed(f); err != nil {
				return nil, err
			}
		}
		log.Warn("using the in-memory store; data is lost on exit")
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func closeStore(s store.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		log.WithError(err).Warn("close store")
	}
	db.Close()
}

func newAuthenticator(ctx context.Context, cfg config.AuthConfig, users auth.UserFinder) (auth.Authenticator, error) {
	if cfg.Provider == config.AuthFirebase {
		return auth.NewFirebaseAuthenticator(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath, cfg.SessionTTL)
	}
	return auth.NewLocalAuthenticator(users, cfg.JWTSecret, cfg.SessionTTL), nil
}

func serve(c *cli.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	ctx := c.Context

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	authn, err := newAuthenticator(ctx, cfg.Auth, st)
	if err != nil {
		return err
	}
	notifier, err := bot.New(cfg.Telegram)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           web.New(st, authn, notifier, web.Options{SecureCookies: cfg.Auth.SecureCookies}).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"address": cfg.Address,
			"store":   cfg.StoreDriver,
			"auth":    cfg.Auth.Provider,
		}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-signals:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func migrate(c *cli.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	ctx := c.Context
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if err := db.Init(ctx, cfg.DB); err != nil {
			return err
		}
		defer db.Close()
		return applyMigrations(ctx)
	case config.StoreMongo:
		database, err := db.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		s := mongostore.New(database)
		defer closeStore(s)
		if err := s.EnsureIndexes(ctx); err != nil {
			return err
		}
		log.Info("mongodb indexes ensured")
		return nil
	}
	return fmt.Errorf("nothing to migrate for store driver %q", cfg.StoreDriver)
}

// createUser upserts a staff account. A generated password is printed once
// and never logged.
func createUser(c *cli.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	role := c.String("role")
	if !auth.Valid(role) {
		return fmt.Errorf("unknown role %q", role)
	}
	ctx := c.Context
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	email := strings.TrimSpace(c.String("email"))
	u := &models.User{ID: c.String("uid"), Email: email}
	existing, err := st.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		u = existing
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("find user: %w", err)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if name := c.String("name"); name != "" {
		u.Name = name
	}
	u.Role = auth.ParseRole(role).String()

	password, generated := c.String("password"), false
	if password == "" && cfg.Auth.Provider == config.AuthLocal {
		if password, err = auth.GeneratePassword(); err != nil {
			return err
		}
		generated = true
	}
	if password != "" {
		if u.PasswordHash, err = auth.HashPassword(password); err != nil {
			return err
		}
	}
	if err := st.UpsertUser(ctx, u); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	log.WithFields(log.Fields{"uid": u.ID, "email": u.Email, "role": u.Role}).Info("staff account saved")
	if generated {
		fmt.Printf("password for %s: %s\n", u.Email, password)
	}
	return nil
}
