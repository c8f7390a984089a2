package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codingconcepts/env"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	auth "github.com/goliatone/go-travel-auth"
	"github.com/goliatone/go-travel-auth/middleware/csrf"
	"github.com/goliatone/go-travel-auth/travel"
)

type Config struct {
	BindAddr        string `env:"BIND_ADDR"`
	ListenPort      uint16 `env:"LISTEN_PORT" default:"5173"`
	APIBaseURL      string `env:"API_BASE_URL" default:"http://localhost:5122/api"`
	CookieSecure    bool   `env:"COOKIE_SECURE" default:"true"`
	RedirectDelayMS int    `env:"REDIRECT_DELAY_MS" default:"100"`
	ViewsDir        string `env:"VIEWS_DIR" default:"./cmd/travel-web/views"`
	CSRFSecret      string `env:"CSRF_SECRET"`
	Debug           bool   `env:"DEBUG"`
}

func (c Config) AuthOptions() auth.Options {
	opts := auth.DefaultOptions()
	opts.APIBaseURL = c.APIBaseURL
	opts.CookieSecure = c.CookieSecure
	opts.RedirectDelay = time.Duration(c.RedirectDelayMS) * time.Millisecond
	return opts
}

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("error loading .env file: %v", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("travel"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	opts := config.AuthOptions()
	if config.Debug {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(opts))
		fmt.Println("============")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway := auth.NewGateway(
		auth.NewMemoryStore(),
		nil,
		auth.WithGatewayConfig(opts),
		auth.WithGatewayLogger(lgr.GetLogger("auth:gateway")),
		auth.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}),
		auth.WithDebug(config.Debug),
	)

	engine := django.New(config.ViewsDir, ".html")
	engine.Reload(config.Debug)
	for name, fn := range auth.TemplateHelpers() {
		engine.AddFunc(name, fn)
	}

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			StrictRouting:     false,
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	app := srv.Router()

	// an empty secret yields a per process key, forms break on restart
	var csrfKey []byte
	if config.CSRFSecret != "" {
		key := sha256.Sum256([]byte(config.CSRFSecret))
		csrfKey = key[:]
	}
	app.Use(csrf.New(csrf.Config{
		SecureKey:    csrfKey,
		CookieSecure: config.CookieSecure,
	}))
	app.Use(mflash.New(mflash.ConfigDefault))

	table := auth.NewRouteTable(opts, auth.DefaultRoutes(opts),
		auth.WithGuardLogger(lgr.GetLogger("auth:guard")),
	)

	auth.RegisterAuthRoutes(app,
		auth.WithControllerConfig(opts),
		auth.WithRouteTable(table),
		auth.WithAccountClient(auth.NewAccount(gateway, opts)),
		auth.WithControllerLogger(lgr.GetLogger("auth:http")),
		auth.WithControllerDebug(config.Debug),
	)

	pages := &Pages{
		cfg:    opts,
		client: travel.NewClient(gateway),
		logger: lgr.GetLogger("pages"),
	}
	pages.Mount(app, table)

	addr := fmt.Sprintf("%s:%d", config.BindAddr, config.ListenPort)
	lgr.Info("listening", "addr", addr, "api", opts.GetAPIBaseURL())

	var wg errgroup.Group
	wg.Go(func() error {
		return srv.Serve(addr)
	})

	<-ctx.Done()
	lgr.Info("received signal, closing server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lgr.Error("shutdown error", "error", err)
	}

	if err := wg.Wait(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("error running server: %v", err)
	}
}
