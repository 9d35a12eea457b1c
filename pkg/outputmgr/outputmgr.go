// Package outputmgr renders a Unified Output envelope as text or JSON on
// the appropriate stream, tolerating a reader that closed mid-write.
package outputmgr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/codegraph/codeintel/pkg/envelope"
)

// Format selects the rendering mode.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}

// Manager presents envelopes to stdout/stderr per Format.
type Manager struct {
	format  Format
	stdout  io.Writer
	stderr  io.Writer
	colored bool
}

func New(format Format, stdout, stderr io.Writer, colored bool) *Manager {
	return &Manager{format: format, stdout: stdout, stderr: stderr, colored: colored}
}

// NewDefault wires a Manager to the real os.Stdout/os.Stderr.
func NewDefault(format Format, colored bool) *Manager {
	return New(format, os.Stdout, os.Stderr, colored)
}

// Emit renders env and returns its exit code. Every write is tolerant of a
// broken pipe: the error is swallowed and the envelope's own exit code is
// still returned, per the error taxonomy's BrokenPipe handling.
func (m *Manager) Emit(env envelope.Envelope) int {
	var err error
	switch m.format {
	case FormatJSON:
		err = m.emitJSON(env)
	default:
		err = m.emitText(env)
	}
	if err != nil && !isBrokenPipe(err) {
		fmt.Fprintf(m.stderr, "Error: failed to write output: %v\n", err)
	}
	return env.ExitCode()
}

func (m *Manager) emitJSON(env envelope.Envelope) error {
	w := m.stdout
	if env.Status == envelope.StatusError {
		w = m.stderr
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env.RenderData())
}

func (m *Manager) emitText(env envelope.Envelope) error {
	switch env.Status {
	case envelope.StatusError:
		return m.emitErrorText(env)
	case envelope.StatusNotFound:
		return m.emitNotFoundText(env)
	default:
		return m.emitItemsText(env)
	}
}

func (m *Manager) emitErrorText(env envelope.Envelope) error {
	msg := "request failed"
	var suggestions []string
	if err := env.Err(); err != nil {
		msg = err.Message
		suggestions = err.Suggestions
	}
	if _, err := fmt.Fprintf(m.stderr, "Error: %s\n", msg); err != nil {
		return err
	}
	for _, s := range suggestions {
		if _, err := fmt.Fprintf(m.stderr, "Suggestion: %s\n", s); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) emitNotFoundText(env envelope.Envelope) error {
	guidance := env.Guidance
	if guidance == "" {
		guidance = fmt.Sprintf("no %s found", strings.ToLower(string(env.EntityType)))
	}
	_, err := fmt.Fprintf(m.stderr, "Not found: %s\n", guidance)
	return err
}

func (m *Manager) emitItemsText(env envelope.Envelope) error {
	header := fmt.Sprintf("%s (%d)", env.EntityType, env.Count)
	if m.colored {
		color.New(color.Bold).Fprintln(m.stdout, header)
	} else {
		fmt.Fprintln(m.stdout, header)
	}
	fmt.Fprintln(m.stdout, strings.Repeat("-", len(header)))

	rows := rowsFor(env.Data)
	if len(rows) == 0 {
		fmt.Fprintln(m.stdout)
		if env.Guidance != "" {
			fmt.Fprintln(m.stdout, env.Guidance)
		}
		return nil
	}

	table := tablewriter.NewTable(m.stdout,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
		}),
	)
	table.Header([]string{"Name", "Kind", "Location"})
	for _, r := range rows {
		table.Append(r)
	}
	if err := table.Render(); err != nil {
		return err
	}
	if env.Guidance != "" {
		fmt.Fprintln(m.stdout, env.Guidance)
	}
	return nil
}

// rowsFor flattens any of the envelope's data variants into display rows;
// items are expected to implement fmt.Stringer-shaped display via their
// own rendering, so this only stringifies generically.
func rowsFor(d envelope.Data) [][]string {
	switch d.Kind {
	case envelope.VariantItems:
		rows := make([][]string, 0, len(d.Items))
		for _, it := range d.Items {
			rows = append(rows, []string{fmt.Sprint(it), "", ""})
		}
		return rows
	case envelope.VariantGrouped:
		var rows [][]string
		for group, items := range d.Groups {
			for _, it := range items {
				rows = append(rows, []string{fmt.Sprint(it), group, ""})
			}
		}
		return rows
	case envelope.VariantRanked:
		rows := make([][]string, 0, len(d.Ranked))
		for _, r := range d.Ranked {
			rows = append(rows, []string{fmt.Sprint(r.Item), fmt.Sprintf("%.2f", r.Score), ""})
		}
		return rows
	case envelope.VariantContextual:
		rows := make([][]string, 0, len(d.Contextual))
		for _, r := range d.Contextual {
			rows = append(rows, []string{fmt.Sprint(r.Item), r.Context, ""})
		}
		return rows
	case envelope.VariantSingle:
		if d.Item == nil {
			return nil
		}
		return [][]string{{fmt.Sprint(d.Item), "", ""}}
	default:
		return nil
	}
}

// Progress writes a progress line to stderr; suppressed entirely in JSON
// mode, per the spec's stream routing for progress/info messages.
func (m *Manager) Progress(msg string) {
	if m.format == FormatJSON {
		return
	}
	fmt.Fprintln(m.stderr, msg)
}

// Info writes an informational line to stdout in text mode; suppressed in
// JSON mode.
func (m *Manager) Info(msg string) {
	if m.format == FormatJSON {
		return
	}
	fmt.Fprintln(m.stdout, msg)
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed)
}
