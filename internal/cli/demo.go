package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"struct-mapper/internal/sample"
	"struct-mapper/internal/sample/store"
	"struct-mapper/internal/sample/warehouse"
	"struct-mapper/mapper"
)

func newDemoCmd(a *app) *cobra.Command {
	var (
		currency    string
		showMetrics bool
	)

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Map the sample store orders into warehouse orders and print them as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := prometheus.NewRegistry()

			metrics, err := mapper.NewMetrics(reg)
			if err != nil {
				return err
			}

			m, err := a.mapper(mapper.WithMetrics(metrics))
			if err != nil {
				return err
			}

			c := mapper.NewConcurrentContext(
				mapper.WithMaxDepth(a.cfg.MaxDepth),
				mapper.WithValues(map[string]any{sample.CurrencyKey: currency}),
			)

			start := time.Now()

			orders, err := mapper.MapAll[*store.Order, *warehouse.Order](cmd.Context(), m, sample.Orders(), c, a.cfg.Workers)
			if err != nil {
				return err
			}

			a.logger.Info("orders mapped",
				"orders", len(orders),
				"maps", c.Maps(),
				"references", c.References(),
				"elapsed", time.Since(start))

			if err := writeJSON(cmd.OutOrStdout(), orders); err != nil {
				return err
			}

			if showMetrics {
				return writeMetrics(cmd.ErrOrStderr(), reg)
			}

			return nil
		},
	}

	demoCmd.Flags().StringVar(&currency, "currency", "EUR", "Currency of the mapped orders")
	demoCmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print the mapping metrics to stderr")

	return demoCmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}
