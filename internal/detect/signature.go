package detect

import "strings"

// Signature predicates. Each answers whether the evidence so far points at
// one emulator. Once Implementation is known they only echo it, so asking
// again after classification cannot contradict the result.

// Reply signatures.
const (
	vteUnitID         = "7E565445"               // DA3 "~VTE"
	footUnitID        = "464f4f54"               // DA3 "FOOT"
	kittyTerminfoName = "787465726d2d6b69747479" // TN "xterm-kitty"
)

func (in *Info) known(impl Implementation) (is, decided bool) {
	if in.Implementation != ImplementationUnknown {
		return in.Implementation == impl, true
	}
	return false, false
}

// isST: st answers only DA1, with "6", and lets DA2 time out.
func (in *Info) isST() bool {
	if is, ok := in.known(ST); ok {
		return is
	}
	return in.Replies.Primary.Is("6") && in.da2TimedOut
}

// isAlacritty matches DA1 "6" together with a DA2 of the form "0;VERS;1".
func (in *Info) isAlacritty() bool {
	if is, ok := in.known(Alacritty); ok {
		return is
	}
	da2 := in.Replies.Secondary
	if da2.State != Received || len(da2.Payload) < 5 {
		return false
	}
	_, n, ok := leadingUint(da2.Payload[2:])
	return ok && len(da2.Payload)-2-n == 2 &&
		in.Replies.Primary.Is("6") &&
		strings.HasPrefix(da2.Payload, "0;") &&
		strings.HasSuffix(da2.Payload, ";1")
}

func (in *Info) isVTE() bool {
	if is, ok := in.known(VTE); ok {
		return is
	}
	return in.Replies.Tertiary.Is(vteUnitID)
}

// isNotVTE is not the negation of isVTE: it is true only when VTE can
// already be ruled out.
func (in *Info) isNotVTE() bool {
	if in.Implementation != ImplementationUnknown {
		return in.Implementation != VTE
	}
	// VTE has always announced terminal ID 65 so far.
	return !in.Replies.Primary.HasPrefix("65;") ||
		!in.Replies.Secondary.HasPrefix("65;") ||
		in.Features.Has(CaptureContour)
}

func (in *Info) isRxvt() bool {
	if is, ok := in.known(Rxvt); ok {
		return is
	}
	return in.Replies.Secondary.HasPrefix("85;") || in.Replies.Secondary.HasPrefix("82;")
}

// isMrxvt: the rxvt ID together with a dotted version.
func (in *Info) isMrxvt() bool {
	if is, ok := in.known(Mrxvt); ok {
		return is
	}
	return in.Version != "" && (in.Replies.Secondary.HasPrefix("85;") || in.Replies.Secondary.HasPrefix("82;"))
}

func (in *Info) isKitty() bool {
	if is, ok := in.known(Kitty); ok {
		return is
	}
	return in.Replies.TerminfoName.Is(kittyTerminfoName)
}

func (in *Info) isXTerm() bool {
	if is, ok := in.known(XTerm); ok {
		return is
	}
	return in.Replies.NameVersion.HasPrefix("XTerm")
}

func (in *Info) isContour() bool {
	if is, ok := in.known(Contour); ok {
		return is
	}
	return in.Replies.NameVersion.HasPrefix("contour")
}

func (in *Info) isTerminology() bool {
	if is, ok := in.known(Terminology); ok {
		return is
	}
	return in.Replies.NameVersion.HasPrefix("terminology")
}

func (in *Info) isKonsole() bool {
	if is, ok := in.known(Konsole); ok {
		return is
	}
	return in.Replies.NameVersion.HasPrefix("Konsole")
}

// isQt5: DA2 announces a plain VT100 and DA1 upgrades it to VT100 with AVO.
func (in *Info) isQt5() bool {
	if is, ok := in.known(Qt5); ok {
		return is
	}
	return in.da2Emulation == VT100 && in.Emulation == VT100AVO
}

func (in *Info) isGhostty() bool {
	if is, ok := in.known(Ghostty); ok {
		return is
	}
	return in.Replies.NameVersion.HasPrefix("ghostty")
}
