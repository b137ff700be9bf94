package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/razeghi71/kq/pipeline"
)

func newRenderCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render [pipeline.yaml]",
		Short: "Render a YAML pipeline document",
		Long: `Render a YAML pipeline document as query text.

The document is read from the given file, or from stdin when no file is
given. A document with a "set" section renders as a control command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				doc *pipeline.Document
				err error
			)
			if len(args) == 1 {
				opts.logger.Debug("loading pipeline", zap.String("path", args[0]))
				doc, err = pipeline.LoadFile(args[0])
			} else {
				opts.logger.Debug("loading pipeline from stdin")
				doc, err = pipeline.Load(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			text, err := doc.Render()
			if err != nil {
				return err
			}
			opts.logger.Debug("rendered pipeline", zap.Int("stages", len(doc.Stages)))
			return writeText(cmd, text)
		},
	}
}

func writeText(cmd *cobra.Command, text string) error {
	if _, err := io.WriteString(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}
	return nil
}
