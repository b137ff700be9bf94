package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/razeghi71/kq/command"
	"github.com/razeghi71/kq/tmpl"
)

func newSetCommand(opts *rootOptions) *cobra.Command {
	flags := &templateFlags{}
	var setOpts command.Options
	cmd := &cobra.Command{
		Use:   "set <query|file>",
		Short: "Wrap a query in a .set-or-append or .set-or-replace command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := flags.values()
			if err != nil {
				return err
			}
			query, err := tmpl.New(opts.logger).Render(args[0], params)
			if err != nil {
				return err
			}
			text, err := command.Set(query, setOpts)
			if err != nil {
				return err
			}
			opts.logger.Debug("rendered control command",
				zap.String("command", setOpts.Verb()),
				zap.String("table", setOpts.Table))
			return writeText(cmd, text)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&setOpts.Table, "table", "", "target table (required)")
	cmd.Flags().StringVar(&setOpts.Folder, "folder", "", "target table folder")
	cmd.Flags().StringVar(&setOpts.Docstring, "docstring", "", "target table docstring")
	cmd.Flags().BoolVar(&setOpts.Replace, "replace", false, "render .set-or-replace instead of .set-or-append")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
