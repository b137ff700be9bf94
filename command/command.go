// Package command wraps rendered queries in ingestion control commands.
package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOptions is returned when a command is missing its target table.
var ErrInvalidOptions = errors.New("invalid command options")

// Options configures a .set-or-append / .set-or-replace command.
type Options struct {
	Table     string
	Folder    string
	Docstring string
	Replace   bool
}

// Verb returns the command name for the options.
func (o Options) Verb() string {
	if o.Replace {
		return ".set-or-replace"
	}
	return ".set-or-append"
}

var propertyQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// Set wraps query in a command that stores its result in opts.Table:
//
//	.set-or-append Target
//	with (
//	folder = "Reports",
//	docstring = "Daily damage",
//	)
//	<|
//	StormEvents
//	| ...
//
// The result ends with exactly one newline.
func Set(query string, opts Options) (string, error) {
	if opts.Table == "" {
		return "", fmt.Errorf("%w: empty target table", ErrInvalidOptions)
	}
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: empty query", ErrInvalidOptions)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", opts.Verb(), opts.Table)
	sb.WriteString("with (\n")
	fmt.Fprintf(&sb, "folder = \"%s\",\n", propertyQuoter.Replace(opts.Folder))
	fmt.Fprintf(&sb, "docstring = \"%s\",\n", propertyQuoter.Replace(opts.Docstring))
	sb.WriteString(")\n<|\n")
	sb.WriteString(strings.TrimRight(query, "\n"))
	sb.WriteByte('\n')
	return sb.String(), nil
}
