package detect

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Dicklesworthstone/termdetect/internal/tty"
)

// sender is the part of tty.Transport the scheduler needs.
type sender interface {
	Send(req tty.Request) (payload string, replied bool, err error)
}

// session runs the probes of one detection against one device.
type session struct {
	info   *Info
	tr     sender
	getenv func(string) string
	logger *slog.Logger

	// attempted marks probes handed to the transport, whether or not the
	// write went through. No probe is tried twice.
	attempted [numProbes]bool
}

// send issues p, stores the outcome and decodes it. It reports whether the
// probe timed out. Only an abort is returned as an error; a request that
// could not be written leaves its slot NotIssued and probing goes on.
func (s *session) send(p Probe) (timedOut bool, err error) {
	s.attempted[p] = true
	payload, replied, err := s.tr.Send(p.Request())
	if err != nil {
		s.logger.Debug("probe not sent", "probe", p.String(), "error", err)
		if isAbort(err) {
			return false, err
		}
		return false, nil
	}
	slot := s.info.Replies.Get(p)
	if !replied {
		*slot = Reply{State: NoReply}
		s.logger.Debug("probe timed out", "probe", p.String())
		return true, nil
	}
	*slot = received(payload)
	s.logger.Debug("probe answered", "probe", p.String(), "reply", Printable(payload, ""))

	switch p {
	case ProbePrimary:
		decodePrimary(s.info)
	case ProbeSecondary:
		decodeSecondary(s.info)
	case ProbeTerminfoName:
		decodeTerminfoName(s.info)
	case ProbeDefaultColor:
		decodeDefaultColor(s.info)
	}
	return false, nil
}

// sendOnce issues p unless it was issued before or the context is done.
func (s *session) sendOnce(ctx context.Context, p Probe) error {
	if s.attempted[p] {
		return nil
	}
	if err := ctx.Err(); err != nil {
		s.logger.Debug("probe skipped", "probe", p.String(), "reason", "context done")
		return err
	}
	_, err := s.send(p)
	return err
}

func (s *session) skip(p Probe, reason string) {
	if !s.attempted[p] {
		s.logger.Debug("probe skipped", "probe", p.String(), "reason", reason)
	}
}

// run sends the probes. Which optional probes go out depends on the replies
// to the earlier ones:
//
//	Name         DA1       DA2            DA3       Q           TN          OSC702
//	Alacritty    6         0;VERS;1       -         -           -
//	Contour      a lot     65;VERS;0      C0000000  contour*    ""
//	EmacsTerm    -         -              -         -           echo
//	ETerm        -         -              -         -           -
//	Foot         62;4;22   1;VERS;0       464f4f54  foot(*      666F6F74
//	Kitty        62;       1;4000;29      -         kitty(*     78746572*
//	Konsole      62;1;4    1;VERS;0       7E4B4445  Konsole*    -
//	rxvt         1;2       85;VERS;0      -         -           -           rxvt*
//	mrxvt        1;2       82;V1.V2.V3;0  -         -           -
//	Qt5          1;2       0;VERS;0       -         -           echo
//	st           6         -              -         -           -
//	Terminology  a lot     61;VERS;0      7E7E5459  terminolo*  -
//	VTE          65;1;9    65;VERS;1      7E565445  -           -
//	XTerm        a lot     41;VERS;0      00000000  XTerm(*     -
//
// A dash means the emulator ignores the request, which costs a full delay.
// Alacritty ignores Q, TN, DA3 and OSC702; VTE ignores Q but Q is the
// definitive answer for XTerm; kitty needs TN, which VTE ignores; Eterm and
// Emacs Term ignore everything. Q and TN are therefore held back while the
// terminal could still be VTE, and DA3 is sent once kitty and rxvt are ruled
// out.
func (s *session) run(ctx context.Context) error {
	in := s.info

	// DA2 goes first: its terminal ID is more reliable and the DA1 decoder
	// defers to it.
	timedOut, err := s.send(ProbeSecondary)
	if err != nil {
		return err
	}
	in.da2TimedOut = timedOut
	if _, err := s.send(ProbePrimary); err != nil {
		return err
	}

	if s.identifyFromEnvironment() {
		s.logger.Debug("identified without replies", "implementation", in.Implementation.Key())
		return nil
	}

	// st cannot be told from Alacritty by content; the DA2 timeout decides.
	// None of these three answers anything beyond DA1 and DA2.
	if in.isST() || in.isAlacritty() || in.isQt5() {
		for _, p := range []Probe{ProbeNameVersion, ProbeTerminfoName, ProbeTertiary, ProbeDefaultColor} {
			s.skip(p, "identified by DA1/DA2")
		}
		return nil
	}

	if in.isNotVTE() && !in.isRxvt() {
		if err := s.sendOnce(ctx, ProbeNameVersion); err != nil {
			return err
		}
		// The DA2 or Q reply identifies these well enough.
		if !in.isRxvt() && !in.isXTerm() && !in.isContour() && !in.isTerminology() && !in.isKonsole() {
			if err := s.sendOnce(ctx, ProbeTerminfoName); err != nil {
				return err
			}
		}
	}

	if !in.isKitty() && !in.isRxvt() {
		if err := s.sendOnce(ctx, ProbeTertiary); err != nil {
			return err
		}
		// DA3 may have ruled out VTE; reconsider Q and TN.
		if in.isNotVTE() && !in.isVTE() && !in.isXTerm() && !in.isKonsole() {
			if err := s.sendOnce(ctx, ProbeNameVersion); err != nil {
				return err
			}
			if !in.isTerminology() && !in.isGhostty() {
				if err := s.sendOnce(ctx, ProbeTerminfoName); err != nil {
					return err
				}
			}
		}
	}

	// kitty ignores DA3 and OSC702; mrxvt answers OSC702 with an empty
	// string.
	if in.isKitty() || in.isMrxvt() {
		s.skip(ProbeTertiary, "ignored by kitty and mrxvt")
		s.skip(ProbeDefaultColor, "ignored by kitty and mrxvt")
		return nil
	}
	if !in.isRxvt() && !in.isGhostty() {
		if err := s.sendOnce(ctx, ProbeTertiary); err != nil {
			return err
		}
	}
	// A DA3 answer already settled what OSC702 could tell.
	if in.Replies.Tertiary.State != Received {
		if err := s.sendOnce(ctx, ProbeDefaultColor); err != nil {
			return err
		}
	}
	return nil
}

// identifyFromEnvironment handles emulators that answer nothing at all.
// When both DA1 and DA2 timed out, TERM is the only evidence left, and any
// further probe would only add another timeout.
func (s *session) identifyFromEnvironment() bool {
	in := s.info
	if in.Replies.Primary.State != NoReply || in.Replies.Secondary.State != NoReply {
		return false
	}
	term := s.getenv("TERM")
	switch {
	case strings.HasPrefix(term, "eterm"):
		in.Implementation = EmacsTerm
	case term == "Eterm":
		in.Implementation = ETerm
	default:
		return false
	}
	// Assume the most basic.
	in.Emulation = VT100
	return true
}

// isAbort reports whether err ends the probing phase without usable
// evidence.
func isAbort(err error) bool {
	return errors.Is(err, tty.ErrNotApplicable)
}
