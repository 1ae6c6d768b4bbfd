package cli

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"struct-mapper/internal/plan"
)

func newPlanCmd(a *app) *cobra.Command {
	var format string

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the resolved mapping plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.mapper()
			if err != nil {
				return err
			}

			return writePlans(cmd.OutOrStdout(), format, m.Plans())
		},
	}

	planCmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: json, yaml or dump")

	return planCmd
}

func writePlans(w io.Writer, format string, plans []plan.Description) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(plans, "", "  ")
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(plans); err != nil {
			return err
		}

		return enc.Close()

	case "dump":
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(w, plans)

		return nil

	default:
		return fmt.Errorf("unknown format %q, want json, yaml or dump", format)
	}
}
