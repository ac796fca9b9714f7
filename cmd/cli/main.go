package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dmitrijs2005/fragments-ui/internal/client/auth"
	"github.com/dmitrijs2005/fragments-ui/internal/client/blobs"
	"github.com/dmitrijs2005/fragments-ui/internal/client/cli"
	"github.com/dmitrijs2005/fragments-ui/internal/client/client"
	"github.com/dmitrijs2005/fragments-ui/internal/client/config"
	"github.com/dmitrijs2005/fragments-ui/internal/client/repositories"
	"github.com/dmitrijs2005/fragments-ui/internal/client/services"
	"github.com/dmitrijs2005/fragments-ui/internal/filex"
	"github.com/dmitrijs2005/fragments-ui/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if dir := filepath.Dir(cfg.SessionDB); dir != "." {
		if _, err := filex.EnsureDir(dir); err != nil {
			return err
		}
	}
	repos, err := repositories.InitDatabase(ctx, cfg.SessionDB)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer repos.Close()

	api, err := client.NewFragmentsClient(cfg.APIURL, blobs.NewDirStore(cfg.DownloadDir),
		client.WithLogger(logger.With("component", "api")),
		client.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return err
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	as := services.NewAuthService(provider, repos.Session, api)
	fs := services.NewFragmentService(api)

	app := cli.NewApp(cfg, as, fs, logger.With("component", "cli"), os.Stdin, os.Stdout)
	app.Run(ctx)
	return nil
}

func newProvider(ctx context.Context, cfg *config.Config) (auth.Provider, error) {
	switch cfg.AuthProvider {
	case config.ProviderCognito:
		return auth.NewCognitoProvider(ctx, cfg)
	default:
		return auth.NewBasicProvider(), nil
	}
}
