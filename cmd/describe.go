package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atomloop/sweep/internal/adapter"
	"github.com/atomloop/sweep/internal/domain"
)

var describeSpecFlag string

// describeCmd represents the describe command.
var describeCmd = newDescribeCmd()

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print scan metadata as JSON",
		Long: `Describe resolves the scan described by --spec (or the built-in
default) against the simulated Rabi flop fragment and prints its
metadata: the scanned axes with generator limits, the randomisation
seed, and the result channels saved by default.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := loadScanFile(describeSpecFlag)
			if err != nil {
				return err
			}

			fragment := adapter.NewRabiFlopFragment("/")
			fragment.OnDevice = sf.Device
			spec, err := buildScan(sf, fragment)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(domain.DescribeScan(spec, fragment), "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}
	cmd.Flags().StringVarP(&describeSpecFlag, "spec", "f", "", "JSON scan spec file")

	return cmd
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
