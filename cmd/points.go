package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/atomloop/sweep/internal/adapter"
)

var pointsSpecFlag string
var pointsLimitFlag int

// pointsCmd represents the points command.
var pointsCmd = newPointsCmd()

func newPointsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points",
		Short: "Print the points a scan spec would generate",
		Long: `Points expands the scan described by --spec (or the built-in default)
into its coordinate tuples and prints them as a table, without running
the fragment. Refining and expanding axes generate points indefinitely,
so output is capped by --limit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := loadScanFile(pointsSpecFlag)
			if err != nil {
				return err
			}

			fragment := adapter.NewRabiFlopFragment("/")
			spec, err := buildScan(sf, fragment)
			if err != nil {
				return err
			}

			var tableBuffer bytes.Buffer

			table := tablewriter.NewWriter(&tableBuffer)
			table.SetHeader(append([]string{"#"}, axisNames(spec)...))
			table.SetBorder(false)
			table.SetCenterSeparator("")

			count := 0
			for point := range spec.Points() {
				if count >= pointsLimitFlag {
					break
				}
				row := make([]string, 0, len(point)+1)
				row = append(row, fmt.Sprintf("%d", count))
				for _, v := range point {
					row = append(row, fmt.Sprintf("%v", v))
				}
				table.Append(row)
				count++
			}

			table.SetFooter(append([]string{fmt.Sprintf("Points %d", count)},
				make([]string, len(spec.Axes))...))
			table.Render()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%s", tableBuffer.String())

			return nil
		},
	}
	cmd.Flags().StringVarP(&pointsSpecFlag, "spec", "f", "", "JSON scan spec file")
	cmd.Flags().IntVarP(&pointsLimitFlag, "limit", "l", 50, "maximum number of points to print")

	return cmd
}

func init() {
	rootCmd.AddCommand(pointsCmd)
}
