package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"text/tabwriter"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/pharmalink/go-pharmacy-client/api"
	"github.com/pharmalink/go-pharmacy-client/appstate"
	"github.com/pharmalink/go-pharmacy-client/cookies"
	"github.com/pharmalink/go-pharmacy-client/device"
	"github.com/pharmalink/go-pharmacy-client/guard"
	"github.com/pharmalink/go-pharmacy-client/httpclient"
	"github.com/pharmalink/go-pharmacy-client/internal/config"
	"github.com/pharmalink/go-pharmacy-client/prefs"
	"github.com/pharmalink/go-pharmacy-client/session"
	"github.com/pharmalink/go-pharmacy-client/users"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	flags := flag.NewFlagSet("pharmctl", flag.ExitOnError)
	configPath := flags.String("config", "", "path to YAML config file")
	dataDir := flags.String("data", defaultDataDir(), "directory for persisted client state")
	verbose := flags.Bool("v", false, "debug logging")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 1 {
		return errors.New("usage: pharmctl [flags] <signin|whoami|products|categories|orders|signout>")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	displayAppname(cfg.GetAppName())

	app, err := buildApp(cfg, *dataDir, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	app.session.Bootstrap()

	switch flags.Arg(0) {
	case "signin":
		return app.signIn(ctx, flags.Args()[1:])
	case "whoami":
		return app.whoami(ctx)
	case "products":
		return app.products(ctx, flags.Args()[1:])
	case "categories":
		return app.categories(ctx)
	case "orders":
		return app.orders(ctx)
	case "signout":
		return app.signOut(ctx)
	default:
		return fmt.Errorf("unknown command %q", flags.Arg(0))
	}
}

// app wires the SDK together the way a storefront layout would.
type app struct {
	session *session.Manager
	users   *users.Store
	tokens  *appstate.Holder
	guard   *guard.Guard
	plain   *httpclient.Client
	secured *httpclient.Client
	nav     *cliNavigator
	logger  zerolog.Logger
}

func buildApp(cfg config.Config, dataDir string, logger zerolog.Logger) (*app, error) {
	store := prefs.NewFileStore(dataDir)
	jar := cookies.NewMemoryJar()
	tokens := appstate.NewHolder()
	userStore := users.NewStore()
	nav := &cliNavigator{path: session.HomePath, logger: logger}

	mgr, err := session.NewManager(session.Deps{
		Jar:       jar,
		Prefs:     store,
		Navigator: nav,
		Users:     userStore,
		Tokens:    tokens,
	}, cfg, session.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	factory, err := httpclient.NewFactory(cfg, httpclient.Deps{
		Session: mgr,
		Tokens:  tokens,
		Device:  device.NewProvider(store),
	}, httpclient.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	plain, secured := factory.Clients()

	pageGuard, err := guard.New(guard.Deps{
		Session:   mgr,
		Users:     userStore,
		Secured:   secured,
		Navigator: nav,
	}, guard.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &app{
		session: mgr,
		users:   userStore,
		tokens:  tokens,
		guard:   pageGuard,
		plain:   plain,
		secured: secured,
		nav:     nav,
		logger:  logger,
	}, nil
}

func (a *app) signIn(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("signin", flag.ExitOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("signin requires -email and -password")
	}

	a.session.SignIn(ctx, func(ctx context.Context) (string, error) {
		resp, err := api.SignIn(ctx, a.plain, api.Credentials{Email: *email, Password: *password})
		if err != nil {
			return "", err
		}
		a.tokens.SetAccessToken(resp.AccessToken)
		if resp.User.Role == users.RoleSupplier {
			a.tokens.SetPlatform(appstate.PlatformSupplier)
		}
		a.users.Set(resp.User)
		return resp.RefreshToken, nil
	})

	if a.session.Status() != session.StatusAuthenticated {
		return errors.New("sign-in failed, check credentials")
	}
	fmt.Println("Signed in.")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	decision, err := a.resolveGuard(ctx)
	if err != nil {
		return err
	}
	if decision.State != guard.DecisionAllow {
		return fmt.Errorf("not signed in (redirected to %s)", decision.Target)
	}

	profile, _ := a.users.Get()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", profile.ID)
	fmt.Fprintf(w, "Email\t%s\n", profile.Email)
	fmt.Fprintf(w, "Business\t%s\n", profile.BusinessName)
	fmt.Fprintf(w, "Role\t%s\n", profile.Role)
	fmt.Fprintf(w, "License\t%s\n", profile.LicenseStatus)
	return w.Flush()
}

func (a *app) products(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("products", flag.ExitOnError)
	search := flags.String("search", "", "search term")
	page := flags.Int("page", 1, "page number")
	if err := flags.Parse(args); err != nil {
		return err
	}

	result, err := api.ListProducts(ctx, a.plain, api.ProductQuery{Search: *search, Page: *page})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range result.Products {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Price, p.Stock)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d of %d products (page %d)\n", len(result.Products), result.Total, result.Page)
	return nil
}

func (a *app) categories(ctx context.Context) error {
	categories, err := api.ListCategories(ctx, a.plain)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Printf("%s\t%s\n", c.ID, c.Name)
	}
	return nil
}

func (a *app) orders(ctx context.Context) error {
	if _, err := a.resolveGuard(ctx); err != nil {
		return err
	}
	orders, err := api.ListOrders(ctx, a.secured, 1, 20)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tPLACED")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", o.ID, o.Status, o.Total, o.PlacedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func (a *app) signOut(ctx context.Context) error {
	// Best-effort server-side invalidation before the local teardown.
	if err := api.SignOut(ctx, a.secured); err != nil {
		a.logger.Warn().Err(err).Msg("server sign-out failed, signing out locally anyway")
	}
	a.session.SignOut()
	fmt.Println("Signed out.")
	return nil
}

// resolveGuard walks the guard the way a protected page mount would,
// following one round of redirects.
func (a *app) resolveGuard(ctx context.Context) (guard.Decision, error) {
	decision, err := a.guard.Resolve(ctx)
	if err != nil {
		return decision, err
	}
	if decision.State == guard.DecisionRedirect {
		// Re-resolve on the new path; a second redirect never fires for the
		// same target.
		return a.guard.Resolve(ctx)
	}
	return decision, nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.New(), nil
	}
	return config.LoadFromFile(path)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pharmalink"
	}
	return filepath.Join(home, ".pharmalink")
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

// cliNavigator stands in for the browser router: it tracks the virtual
// current path and logs navigations.
type cliNavigator struct {
	path   string
	logger zerolog.Logger
}

var _ session.Navigator = (*cliNavigator)(nil)

func (n *cliNavigator) Replace(path string) {
	n.logger.Debug().Str("from", n.path).Str("to", path).Msg("navigate (replace)")
	n.path = path
}

func (n *cliNavigator) Push(path string) {
	n.logger.Debug().Str("from", n.path).Str("to", path).Msg("navigate (push)")
	n.path = path
}

func (n *cliNavigator) Path() string {
	return n.path
}
