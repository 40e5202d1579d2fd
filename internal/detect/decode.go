package detect

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// leadingUint parses the decimal digits at the start of s. It returns the
// value and the number of bytes consumed; ok is false when s does not start
// with a digit or the value overflows 32 bits.
func leadingUint(s string) (v uint64, n int, ok bool) {
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[:n], 10, 32)
	if err != nil {
		return 0, n, false
	}
	return v, n, true
}

// decodePrimary parses the DA1 reply: the terminal ID followed by a list of
// feature codes.
func decodePrimary(in *Info) {
	if in.Replies.Primary.State != Received {
		return
	}
	body := in.Replies.Primary.Payload

	// Some emulators (e.g. Terminology) announce different terminal IDs in
	// DA1 and DA2. DA2 wins unless it only said VT100.
	for _, e := range knownEmulations {
		if strings.HasPrefix(body, e.prefix) {
			if in.Emulation == EmulationUnknown || in.Emulation == VT100 {
				in.Emulation = e.emulation
			}
			body = body[len(e.prefix):]
			break
		}
		// A reply consisting of the terminal ID alone lacks the separator.
		if len(body) == len(e.prefix)-1 && strings.HasPrefix(e.prefix, body) {
			if in.Emulation == EmulationUnknown {
				in.Emulation = e.emulation
			}
			body = ""
			break
		}
	}

	var unknown strings.Builder
	unknown.WriteString(in.UnknownFeatures)
	for body != "" {
		code, n, ok := leadingUint(body)
		if !ok || (n < len(body) && body[n] != ';') {
			break
		}
		if n < len(body) {
			n++
		}
		if feature, known := knownFeatures[code]; known {
			in.Features.Add(feature)
		} else {
			unknown.WriteString(body[:n])
		}
		body = body[n:]
	}
	in.UnknownFeatures = strings.TrimSuffix(unknown.String(), ";")
}

// decodeSecondary parses the DA2 reply: the terminal ID, the version and
// optional trailing fields.
func decodeSecondary(in *Info) {
	if in.Replies.Secondary.State != Received {
		return
	}
	body := in.Replies.Secondary.Payload

	if e, ok := matchEmulationPrefix(body); ok {
		in.da2Emulation = e.emulation
		in.Emulation = e.emulation
		body = body[len(e.prefix):]
	} else if strings.HasPrefix(body, "1;") {
		// The non-descript VT220 answer; DA1 carries the real terminal ID.
		body = body[2:]
	}

	field := body
	if i := strings.IndexByte(body, ';'); i >= 0 {
		field = body[:i]
	}
	vn, n, ok := leadingUint(field)
	if !ok {
		return
	}
	in.vn = vn

	if n < len(field) && field[n] == '.' {
		// Dotted version, e.g. mrxvt's "0.5.4".
		end := n
		valid := true
		for valid && end < len(field) && field[end] == '.' {
			_, m, ok := leadingUint(field[end+1:])
			if !ok {
				valid = false
				end++
				break
			}
			end += 1 + m
		}
		if valid && end == len(field) {
			in.Version = field[:end]
		}
		body = body[end:]
		if body == ";0" {
			return
		}
	} else {
		body = body[n:]
	}

	in.da2Tail = body
	if strings.HasPrefix(body, ";") {
		// Emulators disagree on how to encode the version. Some put all of
		// it into the first number, some use the second semicolon as a
		// decimal point, others a dotted version.
		minor, m, ok := leadingUint(body[1:])
		if ok && foldsMinorVersion(in.vn, minor) {
			in.vn = in.vn*100 + minor
			in.da2Tail = body[1+m:]
		}
		// Many emulators end with ";0".
		if in.da2Tail == ";0" {
			in.da2Tail = ""
		}
	}
}

// foldsMinorVersion decides whether the number after the version field is
// a two-digit minor version (MAJOR;MINOR) rather than a flag.
func foldsMinorVersion(major, minor uint64) bool {
	return major < 10000 && minor != 0 && minor < 100
}

// decodeTerminfoName replaces an XTGETTCAP error reply with a marker.
func decodeTerminfoName(in *Info) {
	if in.Replies.TerminfoName.HasPrefix(dcs + "0") {
		in.Replies.TerminfoName = received(unknownTerminfoName)
	}
}

// unknownTerminfoName stands for a terminal that rejected the TN query.
const unknownTerminfoName = "???"

// decodeDefaultColor extracts the default foreground and background from
// an OSC 702 reply of the form "rgb:RRRR/GGGG/BBBB;rgb:RRRR/GGGG/BBBB".
// Other replies, such as rxvt's version string, are only stored.
func decodeDefaultColor(in *Info) {
	if in.Replies.DefaultColor.State != Received {
		return
	}
	specs := strings.Split(in.Replies.DefaultColor.Payload, ";")
	if fg, ok := parseX11Color(specs[0]); ok {
		in.Foreground = &fg
		if len(specs) > 1 {
			if bg, ok := parseX11Color(specs[1]); ok {
				in.Background = &bg
			}
		}
	}
}

// parseX11Color parses "rgb:R/G/B" with one to four hex digits per channel,
// or "#RRGGBB".
func parseX11Color(spec string) (colorful.Color, bool) {
	if strings.HasPrefix(spec, "#") {
		c, err := colorful.Hex(spec)
		return c, err == nil
	}
	rest, found := strings.CutPrefix(spec, "rgb:")
	if !found {
		return colorful.Color{}, false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 {
		return colorful.Color{}, false
	}
	var ch [3]float64
	for i, p := range parts {
		if len(p) < 1 || len(p) > 4 {
			return colorful.Color{}, false
		}
		v, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return colorful.Color{}, false
		}
		full := uint64(1)<<(4*len(p)) - 1
		ch[i] = float64(v) / float64(full)
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, true
}
