package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/termdetect/internal/config"
	"github.com/Dicklesworthstone/termdetect/internal/detect"
)

const (
	defaultWidth = 80
	labelWidth   = 12
)

type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorProfile picks the colour profile for w. Auto mode colours terminals
// only and honours NO_COLOR; always forces at least 256 colours.
func ColorProfile(w io.Writer, mode string) termenv.Profile {
	switch mode {
	case config.ColorNever:
		return termenv.Ascii
	case config.ColorAlways:
		p := termenv.NewOutput(w, termenv.WithUnsafe()).EnvColorProfile()
		if p == termenv.Ascii {
			p = termenv.ANSI256
		}
		return p
	}
	if !IsTerminal(w) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// ProfileName names a colour profile.
func ProfileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "ansi256"
	case termenv.ANSI:
		return "ansi"
	default:
		return "ascii"
	}
}

// Width returns the column count to wrap at: wrap when positive, else the
// width of w when it is a terminal, else 80.
func Width(w io.Writer, wrap int) int {
	if wrap > 0 {
		return wrap
	}
	if f, ok := w.(fder); ok && IsTerminal(w) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	return defaultWidth
}

// Renderer draws reports for humans.
type Renderer struct {
	w       io.Writer
	lg      *lipgloss.Renderer
	profile termenv.Profile
	width   int

	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	missing lipgloss.Style
}

// NewRenderer creates a renderer writing to w. color is one of the
// config.Color* modes; wrap is the wrap width or 0.
func NewRenderer(w io.Writer, color string, wrap int) *Renderer {
	profile := ColorProfile(w, color)
	lg := lipgloss.NewRenderer(w)
	lg.SetColorProfile(profile)

	return &Renderer{
		w:       w,
		lg:      lg,
		profile: profile,
		width:   Width(w, wrap),
		title:   lg.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		label:   lg.NewStyle().Bold(true).Foreground(lipgloss.Color("75")).Width(labelWidth),
		value:   lg.NewStyle(),
		muted:   lg.NewStyle().Foreground(lipgloss.Color("240")),
		missing: lg.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Profile returns the colour profile in use.
func (r *Renderer) Profile() termenv.Profile {
	return r.profile
}

func (r *Renderer) row(label, value string) string {
	valueWidth := r.width - labelWidth
	if valueWidth < 20 {
		valueWidth = 20
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		r.label.Render(label),
		r.value.Render(wordwrap.String(value, valueWidth)))
}

func (r *Renderer) swatch(hex string) string {
	return r.lg.NewStyle().Background(lipgloss.Color(hex)).Render("  ") + " " + hex
}

// Render formats a report.
func (r *Renderer) Render(rep Report) string {
	var lines []string

	name := rep.Implementation
	if rep.Version != "" {
		name += " " + rep.Version
	}
	lines = append(lines, r.title.Render(name))
	lines = append(lines, r.row("Emulation", rep.Emulation))
	if len(rep.Features) > 0 {
		lines = append(lines, r.row("Features", strings.Join(rep.Features, " ")))
	}
	if len(rep.UnknownFeatures) > 0 {
		lines = append(lines, r.row("Unknown", strings.Join(rep.UnknownFeatures, " ")))
	}
	if rep.Foreground != "" || rep.Background != "" {
		var colours []string
		if rep.Foreground != "" {
			colours = append(colours, "fg "+r.swatch(rep.Foreground))
		}
		if rep.Background != "" {
			colours = append(colours, "bg "+r.swatch(rep.Background))
		}
		lines = append(lines, r.row("Colours", strings.Join(colours, "  ")))
	}
	if rep.Geometry != nil {
		lines = append(lines, r.row("Geometry", fmt.Sprintf("%dx%d", rep.Geometry.Cols, rep.Geometry.Rows)))
	}

	lines = append(lines, "")
	for _, reply := range rep.Replies {
		var v string
		switch reply.State {
		case StateNotIssued:
			v = r.muted.Render("not issued")
		case StateNoReply:
			v = r.missing.Render("no reply")
		default:
			v = detect.Printable(reply.Payload, "")
		}
		lines = append(lines, r.row(reply.Probe, v))
	}

	lines = append(lines, "", r.muted.Render(wordwrap.String(rep.Raw, r.width)))
	return strings.Join(lines, "\n") + "\n"
}

// Print writes a rendered report.
func (r *Renderer) Print(rep Report) error {
	_, err := io.WriteString(r.w, r.Render(rep))
	return err
}
