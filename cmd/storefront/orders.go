package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/checkout"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/store"
)

func ordersCmd(configPath *string) *cobra.Command {
	var (
		follow  bool
		groupID string
	)

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Print the order history",
		Long: `Print the orders recorded in the configured store.

With --follow the command then tails the checkout outbox topic and prints
every confirmed order as it is published.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := printHistory(ctx, cmd.OutOrStdout(), cfg, log); err != nil {
				return err
			}
			if !follow {
				return nil
			}
			return followOutbox(ctx, cmd.OutOrStdout(), cfg.Checkout, groupID, log)
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Tail the checkout outbox topic")
	cmd.Flags().StringVar(&groupID, "group", "storefront-orders-cli", "Kafka consumer group for --follow")
	return cmd
}

func printHistory(ctx context.Context, out io.Writer, cfg *config.Config, log *zap.Logger) error {
	kv, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer kv.Close()

	orders := store.NewRepository(kv, cfg.Store.Origin, log).LoadOrders(ctx)
	if len(orders) == 0 {
		_, err := fmt.Fprintln(out, "no orders")
		return err
	}
	return writeOrders(out, orders)
}

func writeOrders(out io.Writer, orders []domain.Order) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tITEMS\tTOTAL\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			o.ID,
			o.CreatedAt.Format("2006-01-02 15:04:05"),
			domain.UnitCount(o.Items),
			domain.FormatMoney(o.Total),
			o.Status,
		)
	}
	return tw.Flush()
}

func followOutbox(ctx context.Context, out io.Writer, cfg config.CheckoutConfig, groupID string, log *zap.Logger) error {
	if len(cfg.KafkaBrokers) == 0 {
		return fmt.Errorf("--follow needs checkout.kafka_brokers")
	}

	reader := checkout.NewOutboxReader(groupID, log, cfg.KafkaBrokers...)
	defer reader.Close()

	log.Info("following checkout outbox", zap.String("topic", checkout.OutboxTopic), zap.String("group", groupID))
	reader.Run(ctx, func(o domain.Order) {
		if err := writeOrders(out, []domain.Order{o}); err != nil {
			log.Warn("failed to print order", zap.String("order_id", o.ID), zap.Error(err))
		}
	})
	return nil
}
