package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	identity "github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/config"
	"github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// App holds the wired components of the identity service.
type App struct {
	config  *gconfig.Container[*config.BaseConfig]
	logger  *glog.BaseLogger
	client  *persistence.Client
	repo    identity.RepositoryManager
	auther  *identity.Auther
	gateway *identity.Gateway
	srv     router.Server[*fiber.App]
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("identity"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.Config().GetServer().GetDebug() {
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	app.srv.Serve(app.Config().GetServer().GetAddress())

	WaitExitSignal()
}

// WithPersistence opens the database, runs migrations, and builds the
// repository manager.
func WithPersistence(ctx context.Context, app *App) error {
	pcfg := app.Config().GetPersistence()

	db, err := sql.Open(sqliteshim.ShimName, pcfg.GetDSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	persistence.RegisterModel((*identity.User)(nil))
	persistence.RegisterModel((*identity.Group)(nil))
	persistence.RegisterModel((*identity.UserGroupMembership)(nil))
	persistence.RegisterModel((*identity.Permission)(nil))
	persistence.RegisterModel((*identity.GroupPermissionGrant)(nil))

	client, err := persistence.New(pcfg, db, sqlitedialect.New())
	if err != nil {
		return fmt.Errorf("create persistence client: %w", err)
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(identity.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return fmt.Errorf("validate migrations: %w", err)
	}

	if err := client.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	app.client = client
	app.repo = identity.NewRepositoryManager(client.DB())

	if err := app.repo.Validate(); err != nil {
		return fmt.Errorf("validate repositories: %w", err)
	}

	return nil
}

// WithAuth builds the authenticator and the auth gateway on top of the
// user repository.
func WithAuth(_ context.Context, app *App) error {
	acfg := app.Config().GetAuth()

	app.auther = identity.NewAuthenticator(app.repo.Users(), acfg).
		WithLogger(app.GetLogger("auth"))

	app.gateway = identity.NewGateway(
		app.repo.Users(),
		app.auther.Validator(),
		app.GetLogger("gateway"),
	)

	return nil
}

// WithHTTPServer mounts the HTTP controller under /api/auth.
func WithHTTPServer(_ context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		fapp := router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:           "go-identity",
			EnablePrintRoutes: app.Config().GetServer().GetDebug(),
			StrictRouting:     false,
		}))
		fapp.Use(cors.New())
		return fapp
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	health := func(ctx router.Context) error {
		if err := app.client.DB().PingContext(ctx.Context()); err != nil {
			return identity.RespondError(ctx, err)
		}
		return identity.Respond(ctx, router.StatusOK, "OK", []string{"healthy"})
	}

	srv.Router().Get("/", health)
	srv.Router().Get("/health", health)

	controller := identity.NewHTTPController(
		identity.WithControllerLogger(app.GetLogger("http")),
		identity.WithControllerDebug(app.Config().GetServer().GetDebug()),
		identity.WithControllerRepo(app.repo),
		identity.WithControllerAuther(app.auther),
		identity.WithControllerGateway(app.gateway),
		identity.WithControllerConfig(app.Config().GetAuth()),
	)

	controller.RegisterRoutes(srv.Router().Group("/api/auth"))

	app.srv = srv

	return nil
}

// WaitExitSignal blocks until the process receives an exit signal.
func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
