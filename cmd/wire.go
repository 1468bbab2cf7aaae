package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	gatewayhttp "github.com/bnema/spendshred/internal/adapters/gateway/http"
	portfolioview "github.com/bnema/spendshred/internal/adapters/render/portfolio"
	sqliterepo "github.com/bnema/spendshred/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/spendshred/internal/adapters/repo/toml"
	chainstore "github.com/bnema/spendshred/internal/adapters/secrets/chain"
	filestore "github.com/bnema/spendshred/internal/adapters/secrets/file"
	passstore "github.com/bnema/spendshred/internal/adapters/secrets/pass"
	"github.com/bnema/spendshred/internal/application"
	"github.com/bnema/spendshred/internal/config"
	"github.com/bnema/spendshred/internal/domain"
	"github.com/bnema/spendshred/internal/logging"
	"github.com/bnema/spendshred/internal/ports"
	"go.uber.org/zap"
)

type app struct {
	cfg                 *config.Config
	store               ports.SubscriptionStore
	service             *application.Service
	secretStore         ports.SecretStore
	logger              *logging.Logger
	renderSubscriptions func([]domain.Subscription, portfolioview.RenderOptions) (string, error)
	renderStats         func(domain.PortfolioStats, portfolioview.RenderOptions) (string, error)
	closers             []func() error
}

func wireApp() (*app, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Console: os.Stderr})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	a := &app{
		cfg:                 cfg,
		logger:              logger,
		renderSubscriptions: portfolioview.RenderSubscriptions,
		renderStats:         portfolioview.RenderStats,
		closers:             []func() error{logger.Close},
	}

	a.secretStore, err = newSecretStore(cfg.Secrets)
	if err != nil {
		_ = a.close()
		return nil, fmt.Errorf("wire token store: %w", err)
	}

	a.store, err = a.openStore(context.Background())
	if err != nil {
		_ = a.close()
		return nil, fmt.Errorf("wire subscription store: %w", err)
	}

	a.service = application.NewService(a.store, ports.SystemClock{}, logger.Named("service"))
	logger.Debug("application wired",
		zap.String("config_dir", cfg.Dir),
		zap.String("store_driver", string(cfg.Store.Driver)),
	)

	return a, nil
}

func newSecretStore(settings config.SecretsSettings) (ports.SecretStore, error) {
	switch settings.Backend {
	case config.SecretsFile:
		return filestore.NewStore(settings.Dir), nil
	case config.SecretsPass:
		return passstore.NewStore(passstore.DefaultPrefix), nil
	default:
		return chainstore.NewPassFirstWithFileFallback(settings.Dir)
	}
}

func (a *app) openStore(ctx context.Context) (ports.SubscriptionStore, error) {
	switch a.cfg.Store.Driver {
	case config.DriverSQLite:
		repo, err := sqliterepo.NewRepository(a.cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	case config.DriverHTTP:
		token, err := chainstore.Resolve(ctx, a.secretStore, a.cfg.Store.TokenRef)
		if err != nil {
			return nil, err
		}
		return gatewayhttp.NewClient(a.cfg.Store.URL,
			gatewayhttp.WithToken(token),
			gatewayhttp.WithListRetries(a.cfg.Store.ListRetries),
		)
	default:
		return tomlrepo.NewRepository(a.cfg.Viper())
	}
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return errors.Join(errs...)
}
