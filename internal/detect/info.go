package detect

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Info is everything learned about the terminal. Detect returns it fully
// populated; callers treat it as read-only.
type Info struct {
	Implementation  Implementation
	Emulation       Emulation
	Version         string
	Features        FeatureSet
	UnknownFeatures string
	Replies         Replies

	// Raw concatenates all replies for diagnostics.
	Raw string

	// Default colours, when the terminal reported them.
	Foreground *colorful.Color
	Background *colorful.Color

	// vn accumulates the numeric version from the DA2 reply.
	vn uint64
	// da2Emulation is the emulation announced by DA2 alone.
	da2Emulation Emulation
	// da2Tail is the unparsed rest of the DA2 reply.
	da2Tail     string
	da2TimedOut bool
}

func newInfo() *Info {
	return &Info{Features: make(FeatureSet)}
}

// ImplementationName returns the display name of the implementation.
func (in *Info) ImplementationName() string {
	if in.Implementation.valid() {
		return in.Implementation.String()
	}
	// An implementation this build knows no name for; the DA3 unit ID is
	// the best description available.
	return Printable(in.Replies.Tertiary.Payload, "")
}

// EmulationName returns the display name of the emulation, followed by
// whatever the DA2 reply carried beyond the version.
func (in *Info) EmulationName() string {
	return in.Emulation.String() + Printable(in.da2Tail, " ")
}

// Printable renders s with non-printable bytes as \xNN escapes, each
// preceded by sep.
func Printable(s, sep string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c < 0x7f {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%s\\x%02x", sep, c)
	}
	return b.String()
}

func (in *Info) buildRaw() {
	r := &in.Replies
	in.Raw = fmt.Sprintf("TN=%s, DA1=%s, DA2=%s, DA3=%s, OSC702=%s, Q=%s",
		r.TerminfoName, r.Primary, r.Secondary, r.Tertiary, r.DefaultColor, r.NameVersion)
}
