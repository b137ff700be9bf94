package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/razeghi71/kq/loader"
	"github.com/razeghi71/kq/table"
	"github.com/razeghi71/kq/tmpl"
)

type templateFlags struct {
	params []string
	lists  []string
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.params, "param", nil, "template parameter name=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.lists, "list", nil, "list parameter name=a,b,c rendered as a dynamic literal (repeatable)")
}

// values parses the flags into template parameters. List elements are typed
// the way CSV cells are.
func (f *templateFlags) values() (map[string]any, error) {
	params := make(map[string]any, len(f.params)+len(f.lists))
	for _, p := range f.params {
		name, value, err := splitParam(p)
		if err != nil {
			return nil, err
		}
		params[name] = value
	}
	for _, l := range f.lists {
		name, value, err := splitParam(l)
		if err != nil {
			return nil, err
		}
		var items []table.Value
		if value != "" {
			for _, item := range strings.Split(value, ",") {
				items = append(items, loader.ParseValue(strings.TrimSpace(item)))
			}
		}
		params[name] = items
	}
	return params, nil
}

func splitParam(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid parameter %q: expected name=value", s)
	}
	return name, value, nil
}

func newTemplateCommand(opts *rootOptions) *cobra.Command {
	flags := &templateFlags{}
	cmd := &cobra.Command{
		Use:   "template <query|file>",
		Short: "Render a parameterized query template",
		Long: `Render a query template written in Go text/template syntax.

The argument is a file path when such a file exists, and query text
otherwise. List parameters render as dynamic([...]) literals:

  kq template 'T | where State in ({{ .states }})' --list states=WA,OR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := flags.values()
			if err != nil {
				return err
			}
			text, err := tmpl.New(opts.logger).Render(args[0], params)
			if err != nil {
				return err
			}
			return writeText(cmd, text)
		},
	}
	flags.register(cmd)
	return cmd
}
