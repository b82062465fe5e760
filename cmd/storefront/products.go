package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
)

func productsCmd(configPath *string) *cobra.Command {
	var q catalog.Query

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the product catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			c := catalog.New(cfg.Catalog.Path, log)
			c.Load(cmd.Context())
			if c.UsingFallback() {
				log.Warn("catalog unavailable, listing fallback products")
			}
			return writeProducts(cmd.OutOrStdout(), c.Find(q))
		},
	}

	cmd.Flags().StringVar(&q.Category, "category", "", "Only products whose category contains this")
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "Search name, category and description (3+ characters)")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "Sort order: price-low, price-high, name, newest, rating")
	return cmd
}

func writeProducts(out io.Writer, products []domain.Product) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		price := domain.FormatMoney(p.Price)
		if d := p.DiscountPercent(); d > 0 {
			price = fmt.Sprintf("%s (-%d%%)", price, d)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Slug, p.Name, p.Category, price, p.StockStatus)
	}
	return tw.Flush()
}
