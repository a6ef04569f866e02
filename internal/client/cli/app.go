// Package cli is the interactive consumer of the client core: a REPL that
// drives the session controller and the domain stores. It holds no business
// logic of its own.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/avidals/bocado/internal/client/api"
	"github.com/avidals/bocado/internal/client/cart"
	"github.com/avidals/bocado/internal/client/catalog"
	"github.com/avidals/bocado/internal/client/config"
	"github.com/avidals/bocado/internal/client/notify"
	"github.com/avidals/bocado/internal/client/orders"
	"github.com/avidals/bocado/internal/client/profile"
	"github.com/avidals/bocado/internal/client/session"
	"github.com/avidals/bocado/internal/client/storage"
	"github.com/avidals/bocado/internal/logging"
)

type App struct {
	config  *config.Config
	session *session.Controller
	cart    *cart.Store
	catalog *catalog.Store
	orders  *orders.Store
	profile *profile.Store
	bus     *notify.Bus
	gw      *api.Gateway
	reader  *bufio.Reader
	log     logging.Logger
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := storage.Open(ctx, cfg.DatabaseFile)
	if err != nil {
		return nil, err
	}

	tokens := session.NewTokenStore(db)

	gw, err := api.New(api.Config{
		BaseURL:     cfg.APIBaseURL,
		Credentials: tokens,
		Timeout:     cfg.RequestTimeout,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}

	bus := notify.NewBus()
	profileStore := profile.NewStore(gw)
	cartStore := cart.NewStore(gw)
	catalogStore := catalog.NewStore(gw)
	ordersStore := orders.NewStore(gw)

	ctrl := session.NewController(gw, tokens, profileStore, bus, log)
	ctrl.RegisterStores(cartStore, catalogStore, ordersStore)

	return &App{
		config:  cfg,
		session: ctrl,
		cart:    cartStore,
		catalog: catalogStore,
		orders:  ordersStore,
		profile: profileStore,
		bus:     bus,
		gw:      gw,
		reader:  bufio.NewReader(os.Stdin),
		log:     log,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	if a.session.Bootstrap(ctx) {
		if u := a.session.User(); u != nil {
			fmt.Printf("Welcome back, %s!\n", u.Email)
		}
	}
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// flushNotification prints and clears any pending user-facing message,
// e.g. the "session expired" push from a failed renewal.
func (a *App) flushNotification() {
	if n := a.bus.Current(); n != nil {
		fmt.Printf("[%s] %s\n", n.Kind, n.Message)
		a.bus.Dismiss()
	}
}
