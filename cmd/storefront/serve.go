package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/checkout"
	"github.com/fjod/storefront/internal/config"
	h "github.com/fjod/storefront/internal/http"
	"github.com/fjod/storefront/internal/projection"
	"github.com/fjod/storefront/internal/shortlist"
	"github.com/fjod/storefront/internal/store"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer kv.Close()
	repo := store.NewRepository(kv, cfg.Store.Origin, log.Named("store"))

	products := catalog.New(cfg.Catalog.Path, log.Named("catalog"))
	products.Load(ctx)
	if cfg.Catalog.Watch {
		go func() {
			if err := products.Watch(ctx); err != nil {
				log.Error("catalog watch stopped", zap.Error(err))
			}
		}()
	}

	pricing, err := cfg.PricingRules()
	if err != nil {
		return err
	}
	model := cart.New(ctx, repo, cart.WithLogger(log.Named("cart")), cart.WithPricing(pricing))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := projection.NewMetrics(reg)
	views := projection.NewSet(model, metrics, log.Named("projection"))
	defer views.Close()

	submitter := checkout.NewSimulatedSubmitter(cfg.Checkout.Delay)
	orchestrator := checkout.New(model, repo, submitter, checkout.WithLogger(log.Named("checkout")))
	orchestrator.AddListener(metrics)

	if len(cfg.Checkout.KafkaBrokers) > 0 {
		closeOutbox := startOutbox(ctx, cfg.Checkout, repo, orchestrator, log)
		defer closeOutbox()
	}

	wishlist := shortlist.NewWishlist(ctx, repo, log.Named("wishlist"))
	comparison := shortlist.NewComparison(ctx, repo, log.Named("comparison"))

	timeout := cfg.HTTP.RequestTimeout
	router := h.NewRouter(h.Handlers{
		Cart:       h.NewCartHandler(model, products, timeout, log),
		Views:      h.NewViewHandler(views),
		Checkout:   h.NewCheckoutHandler(orchestrator, timeout, log),
		Orders:     h.NewOrdersHandler(repo, timeout),
		Products:   h.NewProductHandler(products),
		Wishlist:   h.NewShortlistHandler(wishlist, products, timeout, log),
		Comparison: h.NewShortlistHandler(comparison, products, timeout, log),
	}, h.RouterConfig{
		RequestTimeout:     timeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
		Gatherer:           reg,
		Logger:             log.Named("http"),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: router,
		// Checkout waits on the submitter, so writes get the request timeout plus slack.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("storefront starting", zap.String("port", cfg.HTTP.Port), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}

// startOutbox relays recorded orders to kafka until ctx is done.
func startOutbox(ctx context.Context, cfg config.CheckoutConfig, repo *store.Repository, o *checkout.Orchestrator, log *zap.Logger) func() {
	publisher := checkout.NewKafkaPublisher(cfg.KafkaBrokers...)
	poller := checkout.NewOutboxPoller(repo, publisher, cfg.OutboxInterval, log.Named("outbox"))
	o.AddListener(poller)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		poller.Run(ctx)
	}()
	log.Info("relaying orders to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", checkout.OutboxTopic))

	return func() {
		cancel()
		<-done
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close kafka writer", zap.Error(err))
		}
	}
}
