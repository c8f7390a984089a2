package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codingconcepts/env"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	auth "github.com/goliatone/go-travel-auth"
	"github.com/goliatone/go-travel-auth/travel"
)

type Config struct {
	APIBaseURL      string `env:"API_BASE_URL" default:"http://localhost:5122/api"`
	Email           string `env:"TRAVEL_EMAIL" required:"true"`
	Password        string `env:"TRAVEL_PASSWORD" required:"true"`
	RedirectDelayMS int    `env:"REDIRECT_DELAY_MS" default:"100"`
}

// travel-cli logs in and prints the trips and buses visible to the account.
// A session that ends mid run is reported through the deferred navigator.
func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("error loading .env file: %v", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if err := run(newLogger(), config); err != nil {
		os.Exit(1)
	}
}

func newLogger() *glog.BaseLogger {
	return glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("travel-cli"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
}

// run owns every deferred cleanup, failures are logged here and reported to
// main only to pick the exit code
func run(lgr *glog.BaseLogger, config Config) error {
	logger := lgr.GetLogger("cli")

	opts := auth.DefaultOptions()
	opts.APIBaseURL = config.APIBaseURL
	opts.RedirectDelay = time.Duration(config.RedirectDelayMS) * time.Millisecond

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	navigator := auth.NewDeferredNavigator(auth.NavigatorFuncs{
		Current: func() string { return "cli" },
		Go: func(path string) {
			logger.Error("session ended, log in again", "route", path)
			stop()
		},
	}, opts.GetRedirectDelay())

	gateway := auth.NewGateway(
		auth.NewMemoryStore(),
		navigator,
		auth.WithGatewayConfig(opts),
		auth.WithGatewayLogger(lgr.GetLogger("auth:gateway")),
	)

	account := auth.NewAccount(gateway, opts)
	if _, err := account.Login(ctx, config.Email, config.Password); err != nil {
		logger.Error("login failed", "error", auth.ErrorMessage(err))
		return err
	}
	defer account.Logout()

	oracle := auth.NewSessionOracle(gateway.Store())
	logger.Info("logged in", "admin", oracle.IsAdmin())

	client := travel.NewClient(gateway)

	var (
		trips []travel.Trip
		buses []travel.Bus
	)

	wg, gctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		var err error
		trips, err = client.Trips(gctx)
		return err
	})
	wg.Go(func() error {
		var err error
		buses, err = client.Buses(gctx)
		return err
	})

	if err := wg.Wait(); err != nil {
		logger.Error("request failed", "error", auth.ErrorMessage(err))
		return err
	}

	fmt.Println(print.MaybeHighlightJSON(map[string]any{
		"trips": trips,
		"buses": buses,
	}))
	return nil
}
