// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/example/ledger/internal/config"
)

// Output selects how adapters print records.
type Output struct {
	Format   string // config.OutputText, OutputJSON or OutputYAML
	Markdown bool   // render descriptions as markdown in text output
}

// TextOutput is plain human-readable output.
var TextOutput = Output{Format: config.OutputText}

// structured writes v as JSON or YAML and reports whether it did. Text
// output is left to the caller.
func (o Output) structured(out io.Writer, v any) (bool, error) {
	switch o.Format {
	case config.OutputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return true, err
	case config.OutputYAML:
		data, err := toYAML(v)
		if err != nil {
			return true, err
		}
		_, err = out.Write(data)
		return true, err
	}
	return false, nil
}

// toYAML encodes v through its JSON form, so records keep their wire field
// names and omitted fields.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	blockStyle(&doc)

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return []byte(b.String()), nil
}

// blockStyle drops the flow and quoting styles JSON input carries.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// renderMarkdown renders text for a terminal; it falls back to the raw text
// if rendering fails. With color disabled the dark style still drops the
// markdown syntax but emits no escape sequences.
func renderMarkdown(text string) string {
	profile := termenv.TrueColor
	if color.NoColor {
		profile = termenv.Ascii
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

var (
	statusDone    = color.New(color.FgGreen)
	statusActive  = color.New(color.FgYellow)
	statusStopped = color.New(color.FgRed)
	statusIdle    = color.New(color.FgCyan)
)

// colorStatus pads status to width and colors it by what it means.
func colorStatus(status string, width int) string {
	padded := fmt.Sprintf("%-*s", width, status)
	switch status {
	case "complete":
		return statusDone.Sprint(padded)
	case "active", "in_progress":
		return statusActive.Sprint(padded)
	case "paused", "blocked", "archived":
		return statusStopped.Sprint(padded)
	default:
		return statusIdle.Sprint(padded)
	}
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

const rule = "────────────────────────────────────────────────────────────────"

const timeLayout = "2006-01-02 15:04"

// optional maps the empty string to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
