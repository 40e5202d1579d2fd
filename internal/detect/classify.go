package detect

import (
	"fmt"
	"strings"
)

// classifier pairs an implementation with the test that recognises it.
type classifier struct {
	impl  Implementation
	match func(*Info) bool
}

// classifiers is evaluated in order; the first match wins. st goes first
// because its only distinguishing mark is the DA2 timeout, which later rules
// would misread.
var classifiers = []classifier{
	{ST, (*Info).isST},
	{VTE, func(in *Info) bool { return in.Replies.Tertiary.Is(vteUnitID) }},
	{Foot, func(in *Info) bool { return in.Replies.Tertiary.Is(footUnitID) }},
	{Terminology, (*Info).isTerminology},
	{Contour, (*Info).isContour},
	{XTerm, (*Info).isXTerm},
	{Mrxvt, (*Info).isMrxvt},
	{Rxvt, func(in *Info) bool { return in.Replies.DefaultColor.HasPrefix("rxvt") }},
	{Kitty, (*Info).isKitty},
	{Alacritty, (*Info).isAlacritty},
	{Konsole, (*Info).isKonsole},
	{Qt5, (*Info).isQt5},
	{Ghostty, (*Info).isGhostty},
}

// classify settles the implementation, its version, the Alacritty emulation
// and the features no probe reports. Running it twice changes nothing.
func (in *Info) classify() {
	if in.Implementation == ImplementationUnknown {
		for _, c := range classifiers {
			if c.match(in) {
				in.Implementation = c.impl
				break
			}
		}
	}

	if in.Version == "" {
		in.Version = in.deriveVersion()
	}

	// Alacritty's DA2 says VT100; its DA1 is more specific.
	if in.isAlacritty() && in.Emulation == VT100 {
		if e, ok := matchEmulationPrefix(in.Replies.Primary.Payload + ";"); ok {
			in.Emulation = e.emulation
		}
	}

	if in.isKitty() {
		// OSC 777
		in.Features.Add(DesktopNotification)
	}
	if in.isContour() {
		in.Features.Add(VertLineMarkers)
	}
	// Nobody reports DECSTBM; assume it unless shown otherwise.
	in.Features.Add(DECSTBM)
}

// deriveVersion computes the version text from the XTVERSION reply or the
// number accumulated from DA2. Emulators disagree on how they encode it.
func (in *Info) deriveVersion() string {
	q := in.Replies.NameVersion
	switch {
	case in.isTerminology():
		// Terminology leaves the DA2 version empty; XTVERSION says
		// "terminology VERSION".
		if q.State == Received && len(q.Payload) > 12 {
			return q.Payload[12:]
		}
		return ""
	case in.isKonsole():
		// "Konsole VERSION"
		if q.State == Received && len(q.Payload) > 8 {
			return q.Payload[8:]
		}
		return ""
	case in.isKitty() && q.HasPrefix("kitty(") && strings.HasSuffix(q.Payload, ")") && len(q.Payload) > 7:
		return q.Payload[6 : len(q.Payload)-1]
	}

	vn := in.vn
	switch {
	case in.isRxvt():
		// Two digits: major and minor.
		vn = (vn/10)*10000 + (vn%10)*100
	case in.isKitty() && vn > 400000:
		// kitty adds 4000 to the first number.
		vn = (vn - 400000) * 100
	case in.isXTerm():
		// A single patch number above 100.
		vn *= 10000
	case in.isVTE():
		// The trailing number is not part of the version.
		vn /= 100
	}
	return formatVersion(vn)
}

// formatVersion renders MMmmpp as "M", "M.m" or "M.m.p", dropping trailing
// zero components. Zero means no version was reported.
func formatVersion(vn uint64) string {
	switch {
	case vn == 0:
		return ""
	case vn%10000 == 0:
		return fmt.Sprintf("%d", vn/10000)
	case vn%100 == 0:
		return fmt.Sprintf("%d.%d", vn/10000, (vn/100)%100)
	default:
		return fmt.Sprintf("%d.%d.%d", vn/10000, (vn/100)%100, vn%100)
	}
}
