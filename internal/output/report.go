package output

import (
	"strings"

	"github.com/Dicklesworthstone/termdetect/internal/detect"
	"github.com/Dicklesworthstone/termdetect/internal/tty"
)

// Report is the rendered form of a detection.
type Report struct {
	TimestampedResponse
	Implementation    string        `json:"implementation"`
	ImplementationKey string        `json:"implementation_key"`
	Emulation         string        `json:"emulation"`
	EmulationKey      string        `json:"emulation_key"`
	Version           string        `json:"version,omitempty"`
	Features          []string      `json:"features"`
	UnknownFeatures   []string      `json:"unknown_features,omitempty"`
	Replies           []ReplyReport `json:"replies"`
	Raw               string        `json:"raw"`
	Foreground        string        `json:"foreground,omitempty"`
	Background        string        `json:"background,omitempty"`
	Geometry          *tty.Size     `json:"geometry,omitempty"`
	RequestDelayMS    int64         `json:"request_delay_ms,omitempty"`
}

// ReplyReport is the outcome of one probe.
type ReplyReport struct {
	Probe   string `json:"probe"`
	State   string `json:"state"`
	Payload string `json:"payload,omitempty"`
}

// Reply states as they appear in JSON.
const (
	StateNotIssued = "not_issued"
	StateNoReply   = "no_reply"
	StateReceived  = "received"
)

// NewReport converts a detection result.
func NewReport(info *detect.Info) Report {
	rep := Report{
		TimestampedResponse: NewTimestamped(),
		Implementation:      info.ImplementationName(),
		ImplementationKey:   info.Implementation.Key(),
		Emulation:           info.EmulationName(),
		EmulationKey:        info.Emulation.Key(),
		Version:             info.Version,
		Features:            info.Features.Names(),
		Raw:                 info.Raw,
	}
	if info.UnknownFeatures != "" {
		rep.UnknownFeatures = strings.Split(info.UnknownFeatures, ";")
	}
	for _, p := range detect.Probes() {
		r := info.Replies.Get(p)
		rr := ReplyReport{Probe: p.String()}
		switch r.State {
		case detect.NotIssued:
			rr.State = StateNotIssued
		case detect.NoReply:
			rr.State = StateNoReply
		default:
			rr.State = StateReceived
			rr.Payload = r.Payload
		}
		rep.Replies = append(rep.Replies, rr)
	}
	if info.Foreground != nil {
		rep.Foreground = info.Foreground.Hex()
	}
	if info.Background != nil {
		rep.Background = info.Background.Hex()
	}
	return rep
}
