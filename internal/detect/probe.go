package detect

import (
	"fmt"

	"github.com/Dicklesworthstone/termdetect/internal/tty"
)

// Escape sequence introducers.
const (
	csi = "\x1b["
	osc = "\x1b]"
	dcs = "\x1bP"
	st  = "\x1b\\"
)

// Probe names one of the requests the detector may send.
type Probe int

const (
	// ProbePrimary is the primary device attributes request (DA1).
	ProbePrimary Probe = iota
	// ProbeSecondary is the secondary device attributes request (DA2).
	ProbeSecondary
	// ProbeTertiary is the tertiary device attributes request (DA3).
	ProbeTertiary
	// ProbeNameVersion is the XTVERSION name and version request.
	ProbeNameVersion
	// ProbeTerminfoName asks for the terminfo name through XTGETTCAP.
	ProbeTerminfoName
	// ProbeDefaultColor is the OSC 702 query.
	ProbeDefaultColor

	numProbes
)

var probeRequests = [numProbes]struct {
	key string
	req tty.Request
}{
	ProbePrimary:      {"da1", tty.Request{Name: "DA1", Seq: csi + "c", Prefix: csi + "?", Suffix: "c"}},
	ProbeSecondary:    {"da2", tty.Request{Name: "DA2", Seq: csi + ">c", Prefix: csi + ">", Suffix: "c"}},
	ProbeTertiary:     {"da3", tty.Request{Name: "DA3", Seq: csi + "=c", Prefix: dcs + "!|", Suffix: st}},
	ProbeNameVersion:  {"q", tty.Request{Name: "Q", Seq: csi + ">q", Prefix: dcs + ">|", Suffix: st}},
	ProbeTerminfoName: {"tn", tty.Request{Name: "TN", Seq: dcs + "+q544e" + st, Prefix: dcs + "1+r544e=", Suffix: st}},
	ProbeDefaultColor: {"osc702", tty.Request{Name: "OSC702", Seq: osc + "702;?" + st, Prefix: osc + "702;", Suffix: "\x1b"}},
}

// Probes lists all probes in declaration order.
func Probes() []Probe {
	all := make([]Probe, numProbes)
	for i := range all {
		all[i] = Probe(i)
	}
	return all
}

func (p Probe) valid() bool {
	return p >= 0 && p < numProbes
}

// Request returns the wire request of the probe.
func (p Probe) Request() tty.Request {
	if !p.valid() {
		return tty.Request{}
	}
	return probeRequests[p].req
}

// Key returns the lower-case identifier used in fixtures.
func (p Probe) Key() string {
	if !p.valid() {
		return fmt.Sprintf("probe(%d)", int(p))
	}
	return probeRequests[p].key
}

// String returns the conventional short name, e.g. "DA1".
func (p Probe) String() string {
	if !p.valid() {
		return p.Key()
	}
	return probeRequests[p].req.Name
}

// ParseProbe maps a key back to its Probe.
func ParseProbe(key string) (Probe, error) {
	for p := range probeRequests {
		if probeRequests[p].key == key {
			return Probe(p), nil
		}
	}
	return 0, fmt.Errorf("unknown probe %q", key)
}

// ProbeForSequence returns the probe whose request is seq.
func ProbeForSequence(seq string) (Probe, bool) {
	for p := range probeRequests {
		if probeRequests[p].req.Seq == seq {
			return Probe(p), true
		}
	}
	return 0, false
}

// ReplyState says whether a probe was sent and answered.
type ReplyState uint8

const (
	// NotIssued means the probe was never sent.
	NotIssued ReplyState = iota
	// NoReply means the probe was sent and nothing came back in time.
	NoReply
	// Received means a reply arrived.
	Received
)

const (
	notIssuedText = "<NOT ISSUED>"
	noReplyText   = "<NO REPLY>"
)

// Reply is the outcome of one probe.
type Reply struct {
	State   ReplyState
	Payload string
}

func received(payload string) Reply {
	return Reply{State: Received, Payload: payload}
}

// Is reports whether a reply arrived and equals s.
func (r Reply) Is(s string) bool {
	return r.State == Received && r.Payload == s
}

// HasPrefix reports whether a reply arrived and starts with prefix.
func (r Reply) HasPrefix(prefix string) bool {
	return r.State == Received && len(r.Payload) >= len(prefix) && r.Payload[:len(prefix)] == prefix
}

// String renders the payload, or a marker for the two other states.
func (r Reply) String() string {
	switch r.State {
	case NotIssued:
		return notIssuedText
	case NoReply:
		return noReplyText
	default:
		return r.Payload
	}
}

// Replies holds the outcome of every probe.
type Replies struct {
	Primary      Reply
	Secondary    Reply
	Tertiary     Reply
	NameVersion  Reply
	TerminfoName Reply
	DefaultColor Reply
}

// Get returns the reply slot of p.
func (r *Replies) Get(p Probe) *Reply {
	switch p {
	case ProbePrimary:
		return &r.Primary
	case ProbeSecondary:
		return &r.Secondary
	case ProbeTertiary:
		return &r.Tertiary
	case ProbeNameVersion:
		return &r.NameVersion
	case ProbeTerminfoName:
		return &r.TerminfoName
	case ProbeDefaultColor:
		return &r.DefaultColor
	}
	return nil
}

// Issued lists the probes that were sent, in declaration order.
func (r *Replies) Issued() []Probe {
	var issued []Probe
	for _, p := range Probes() {
		if r.Get(p).State != NotIssued {
			issued = append(issued, p)
		}
	}
	return issued
}
