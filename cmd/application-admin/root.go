package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"application-admin/internal/client"
	"application-admin/internal/common/cache"
	"application-admin/internal/common/config"
	apphttp "application-admin/internal/common/http"
	"application-admin/internal/common/logger"
	"application-admin/internal/common/observability"
	"application-admin/internal/controllers/detail"
	"application-admin/internal/controllers/list"
	"application-admin/internal/presentation"
)

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
	// registerer receives the otel prometheus collector. nil uses the default registry.
	registerer prometheus.Registerer
}

func defaultStreams() streams {
	return streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// app is everything a command needs, built once per invocation.
type app struct {
	streams
	cfg      *config.Config
	log      logger.Logger
	obs      *observability.Observability
	store    cache.Store
	remote   *client.Client
	renderer presentation.Renderer
	confirm  *promptConfirmer
	notify   *streamNotifier
}

func (a *app) listController() *list.Controller {
	return list.New(list.Options{
		Service:        a.remote,
		Confirmer:      a.confirm,
		Notifier:       a.notify,
		Logger:         a.log,
		MaxConcurrency: a.cfg.Bulk.MaxConcurrency,
	})
}

func (a *app) detailController() *detail.Controller {
	return detail.New(detail.Options{
		Service:   a.remote,
		Confirmer: a.confirm,
		Notifier:  a.notify,
		Logger:    a.log,
	})
}

// run executes one CLI invocation and releases what setup acquired, whether or
// not the command succeeded.
func run(s streams, args []string) error {
	a := &app{streams: s}
	defer a.teardown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	var (
		configPath string
		assumeYes  bool
	)

	cmd := &cobra.Command{
		Use:           "application-admin",
		Short:         "Review and manage department applications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context(), configPath, assumeYes)
		},
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.err)

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default: configs/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")

	cmd.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newSetStatusCmd(a),
		newRateCmd(a),
		newDeleteCmd(a),
		newBulkDeleteCmd(a),
		newBulkStatusCmd(a),
		newServeMetricsCmd(a),
	)
	return cmd
}

func (a *app) setup(ctx context.Context, configPath string, assumeYes bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	if configPath != "" {
		a.cfg, err = config.LoadFromFile(configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	a.log = logger.NewStructured(logger.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		Output: a.cfg.Logging.Output,
	}).WithFields(map[string]interface{}{
		"service": a.cfg.App.Name,
		"version": a.cfg.App.Version,
	})

	a.obs, err = observability.New(ctx, observability.Options{
		ServiceName:     a.cfg.Observability.ServiceName,
		TracingEndpoint: a.cfg.Observability.TracingEndpoint,
		Registerer:      a.registerer,
	})
	if err != nil {
		a.log.Warn("observability disabled", map[string]interface{}{"error": err})
		a.obs = observability.NewNoop()
	}

	a.store, err = cache.NewFromConfig(ctx, a.cfg.Cache)
	if err != nil {
		a.log.Warn("cache backend unavailable, using memory", map[string]interface{}{
			"backend": a.cfg.Cache.Backend, "error": err,
		})
		a.store = cache.NewMemoryStore(a.cfg.Cache.EntryTTL())
	}

	a.remote = client.New(client.Options{
		HTTP: apphttp.NewClient(apphttp.Options{
			BaseURL:   a.cfg.API.BaseURL,
			Timeout:   a.cfg.API.RequestTimeout(),
			UserAgent: a.cfg.API.UserAgent,
			Signer:    apphttp.SignerFromToken(a.cfg.API.Token),
			Tracer:    a.obs.Tracer(),
		}),
		Cache:         a.store,
		Logger:        a.log,
		Observability: a.obs,
	})

	a.renderer = presentation.NewRenderer(presentation.DefaultTheme)
	a.confirm = newPromptConfirmer(a.in, a.err, assumeYes)
	a.notify = &streamNotifier{out: a.err}
	return nil
}

func (a *app) teardown() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("cache close failed", map[string]interface{}{"error": err})
		}
	}
	if a.obs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.obs.Shutdown(ctx); err != nil {
			a.log.Warn("observability shutdown failed", map[string]interface{}{"error": err})
		}
	}
}
