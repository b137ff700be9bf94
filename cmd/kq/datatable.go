package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/razeghi71/kq/kql"
	"github.com/razeghi71/kq/loader"
)

func newDataTableCommand(opts *rootOptions) *cobra.Command {
	var (
		take    int
		preview bool
		columns []string
	)
	cmd := &cobra.Command{
		Use:   "datatable <file>",
		Short: "Render a data file as an inline datatable source",
		Long: `Render a .csv, .json, .jsonl, .avro or .parquet file as a query
whose source is an inline datatable literal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loader.Load(args[0])
			if err != nil {
				return err
			}
			opts.logger.Debug("loaded data file",
				zap.String("path", args[0]),
				zap.Int("columns", len(t.Columns)),
				zap.Int("rows", len(t.Rows)))

			if len(columns) > 0 {
				if t, err = t.Select(columns...); err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
			}

			if preview {
				return writeText(cmd, t.String())
			}

			q := kql.DataTable(t)
			if take >= 0 {
				q = q.Take(take)
			}
			text, err := q.Render()
			if err != nil {
				return err
			}
			return writeText(cmd, text)
		},
	}
	cmd.Flags().IntVar(&take, "take", -1, "append a take stage with this row count")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "keep only these columns, in this order")
	cmd.Flags().BoolVar(&preview, "preview", false, "print the loaded rows as a table instead of a query")
	return cmd
}
