// Package tmpl renders parameterized query text.
//
// Queries use Go text/template syntax. Slice parameters are replaced by their
// dynamic([...]) list literal before rendering, so
//
//	StormEvents | where State in ({{ .states }})
//
// with states = []string{"WA", "OR"} renders the list inline.
package tmpl

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"text/template"

	"go.uber.org/zap"

	"github.com/razeghi71/kq/literal"
)

// Renderer reads and renders query templates.
type Renderer struct {
	logger *zap.Logger
}

// New returns a Renderer. A nil logger disables logging.
func New(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{logger: logger}
}

// ReadOrLiteral returns the contents of query if it names an existing
// regular file, and query itself otherwise.
func (r *Renderer) ReadOrLiteral(query string) (string, error) {
	info, err := os.Stat(query)
	if err != nil || !info.Mode().IsRegular() {
		return query, nil
	}
	r.logger.Info("reading query file", zap.String("path", query))
	data, err := os.ReadFile(query)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", query, err)
	}
	return string(data), nil
}

// Render reads query (file or literal) and executes it as a template with
// params. Missing parameters are an error.
func (r *Renderer) Render(query string, params map[string]any) (string, error) {
	text, err := r.ReadOrLiteral(query)
	if err != nil {
		return "", err
	}
	data, err := convertParams(params)
	if err != nil {
		return "", err
	}
	t, err := template.New("query").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("cannot parse query template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("cannot render query template: %w", err)
	}
	r.logger.Debug("rendered query template", zap.Int("params", len(params)), zap.Int("bytes", buf.Len()))
	return buf.String(), nil
}

func convertParams(params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if isList(v) {
			text, err := literal.Render(v)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", k, err)
			}
			out[k] = text
			continue
		}
		out[k] = v
	}
	return out, nil
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		_, raw := v.([]byte)
		return !raw
	}
	return false
}
