package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/initflags/internal/config"
	"github.com/zjrosen/initflags/internal/initflags"
)

const keyWidth = 34

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer

	keyStyle lipgloss.Style
	onStyle  lipgloss.Style
	offStyle lipgloss.Style
	dimStyle lipgloss.Style
}

// NewFormatter creates a new formatter.
// Colors are only emitted when writer is a terminal.
func NewFormatter(writer io.Writer) *Formatter {
	r := lipgloss.NewRenderer(writer)
	return &Formatter{
		writer:   writer,
		keyStyle: r.NewStyle().Bold(true).Width(keyWidth),
		onStyle:  r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		offStyle: r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		dimStyle: r.NewStyle().Faint(true),
	}
}

// FormatSnapshot writes the loaded flag state.
func (f *Formatter) FormatSnapshot(snap initflags.Snapshot, format string) error {
	switch format {
	case config.OutputJSON:
		return f.encodeJSON(snap)
	case config.OutputYAML:
		return f.encodeYAML(snap)
	}

	var b strings.Builder
	for _, flag := range initflags.Flags() {
		name := flag.String()
		b.WriteString(f.keyStyle.Render(name) + f.onOff(snap.Flags[name]) + "\n")
	}
	b.WriteString(f.keyStyle.Render("enabled_tags") + f.tagList(snap.EnabledTags) + "\n")
	b.WriteString(f.keyStyle.Render("disabled_tags") + f.tagList(snap.DisabledTags) + "\n")

	_, err := io.WriteString(f.writer, b.String())
	return err
}

// FormatTags writes per-tag debug logging decisions.
func (f *Formatter) FormatTags(results []TagResultDTO, format string) error {
	switch format {
	case config.OutputJSON:
		return f.encodeJSON(results)
	case config.OutputYAML:
		return f.encodeYAML(results)
	}

	var b strings.Builder
	for _, r := range results {
		b.WriteString(f.keyStyle.Render(fmt.Sprintf("%q", r.Tag)) + f.onOff(r.Enabled) +
			f.dimStyle.Render(" ("+r.Reason+")") + "\n")
	}
	_, err := io.WriteString(f.writer, b.String())
	return err
}

// FormatKnown writes the recognised token names.
func (f *Formatter) FormatKnown(known []initflags.Descriptor, format string) error {
	switch format {
	case config.OutputJSON:
		return f.encodeJSON(known)
	case config.OutputYAML:
		return f.encodeYAML(known)
	}

	var b strings.Builder
	for _, d := range known {
		b.WriteString(f.keyStyle.Render(d.Name) + f.dimStyle.Render(fmt.Sprintf("%-5s", d.Kind)) +
			" " + d.Description + "\n")
	}
	_, err := io.WriteString(f.writer, b.String())
	return err
}

func (f *Formatter) onOff(v bool) string {
	if v {
		return f.onStyle.Render("on")
	}
	return f.offStyle.Render("off")
}

func (f *Formatter) tagList(tags []string) string {
	if len(tags) == 0 {
		return f.dimStyle.Render("-")
	}
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	return strings.Join(quoted, ", ")
}

func (f *Formatter) encodeJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) encodeYAML(v any) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
