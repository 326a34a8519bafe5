// Package main is the shelter console: the public pages (home, adoption,
// donation, login) and the admin dashboard, rendered in a terminal.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/client/api"
	"github.com/atinyakov/ShelterDesk/internal/client/cache"
	"github.com/atinyakov/ShelterDesk/internal/client/console"
	"github.com/atinyakov/ShelterDesk/internal/client/portal"
	"github.com/atinyakov/ShelterDesk/internal/client/screen"
	"github.com/atinyakov/ShelterDesk/internal/client/session"
	"github.com/atinyakov/ShelterDesk/internal/config"
	"github.com/atinyakov/ShelterDesk/internal/logger"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// app is everything a command needs, built once the flags are parsed.
type app struct {
	log  *zap.Logger
	term *console.Terminal
	nav  *portal.Navigator

	animals  *cache.Cache
	screens  *screen.Screens
	home     *portal.Home
	adoption *portal.AdoptionForm
	donation *portal.DonationForm
	auth     *portal.Auth

	close func()
}

func newApp(ctx context.Context, options *config.Options) (*app, error) {
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	zapLogger := log.Log

	hc, err := api.NewHTTPClient(api.TLSFiles{
		CAFile:   options.CAFile,
		CertFile: options.CertFile,
		KeyFile:  options.KeyFile,
	}, time.Duration(options.RequestTimeout))
	if err != nil {
		return nil, err
	}
	client := api.New(options.APIURL, api.WithHTTPClient(hc), api.WithLogger(zapLogger))
	res := client.Resources()

	store, closeStore, err := sessionStore(ctx, options)
	if err != nil {
		return nil, err
	}
	sess := session.New(store, zapLogger)

	nav := portal.NewNavigator()
	animals := cache.New(cache.FetcherFunc(res.Animals.List),
		cache.WithTTL(time.Duration(options.CacheTTL)),
		cache.WithHomePage(nav.OnHome),
		cache.WithLogger(zapLogger),
	)
	term := console.New(os.Stdin, os.Stdout)

	return &app{
		log:  zapLogger,
		term: term,
		nav:  nav,

		animals: animals,
		screens: screen.NewScreens(res, animals, term,
			screen.WithRefreshDelay(time.Duration(options.RefreshDelay)),
			screen.WithLogger(zapLogger),
		),
		home:     portal.NewHome(animals, nav),
		adoption: portal.NewAdoptionForm(animals, client, sess, nav, zapLogger),
		donation: portal.NewDonationForm(client, nav, zapLogger),
		auth:     portal.NewAuth(client, sess, nav, zapLogger),

		close: func() {
			closeStore()
			_ = zapLogger.Sync()
		},
	}, nil
}

// sessionStore keeps the session in Redis when an address is configured
// and in the session file otherwise.
func sessionStore(ctx context.Context, options *config.Options) (session.Store, func(), error) {
	if options.RedisAddr == "" {
		return session.NewFileStore(options.SessionFile), func() {}, nil
	}
	rs := session.NewRedisStore(redis.NewClient(&redis.Options{Addr: options.RedisAddr}), session.DefaultRedisPrefix)
	if err := rs.Ping(ctx); err != nil {
		_ = rs.Close()
		return nil, nil, fmt.Errorf("session store: %w", err)
	}
	return rs, func() { _ = rs.Close() }, nil
}

func newRootCmd() *cobra.Command {
	var (
		flags *config.Flags
		a     *app
	)
	root := &cobra.Command{
		Use:           "shelter",
		Short:         "Animal shelter console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			options, err := flags.Load()
			if err != nil {
				return err
			}
			a, err = newApp(cmd.Context(), options)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a != nil {
				a.close()
			}
		},
	}
	flags = config.Register(root.PersistentFlags())

	current := func() *app { return a }
	root.AddCommand(
		homeCmd(current),
		adoptCmd(current),
		donateCmd(current),
		loginCmd(current),
		signupCmd(current),
		logoutCmd(current),
		adminCmd(current),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build version and date",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("Shelter Console\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
