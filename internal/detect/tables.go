package detect

// emulationPrefix maps the leading terminal ID of a DA1/DA2 reply to the
// emulation it announces.
type emulationPrefix struct {
	prefix    string
	emulation Emulation
}

// knownEmulations is matched first to last; the first prefix that matches
// wins.
var knownEmulations = []emulationPrefix{
	{"0;", VT100},
	{"1;0", VT101},
	{"1;2", VT100AVO},
	{"2;", VT240},
	{"4;6", VT132},
	{"6;", VT102},
	{"7;", VT131},
	{"18;", VT330},
	{"12;", VT125},
	{"19;", VT340},
	{"24;", VT320},
	{"32;", VT382},
	{"41;", VT420},
	{"61;", VT510},
	{"62;", VT220},
	{"63;", VT320},
	{"64;", VT520},
	{"65;", VT525},
	// rxvt puts 'U' or 'R' into the first number of its DA2 reply.
	{"85;", EmulationUnknown},
	{"82;", EmulationUnknown},
}

// matchEmulationPrefix returns the first table entry s starts with.
func matchEmulationPrefix(s string) (emulationPrefix, bool) {
	for _, e := range knownEmulations {
		if len(s) >= len(e.prefix) && s[:len(e.prefix)] == e.prefix {
			return e, true
		}
	}
	return emulationPrefix{}, false
}

// knownFeatures maps DA1 feature codes to features. Codes not listed here
// end up verbatim in Info.UnknownFeatures.
var knownFeatures = map[uint64]Feature{
	1:   Col132,
	2:   Printer,
	3:   ReGIS,
	4:   Sixel,
	6:   SelectiveErase,
	7:   DRCS,
	8:   UDK,
	9:   NRCS,
	12:  SCS,
	15:  TechCharset,
	16:  LocatorPort,
	17:  StateInterrogation,
	18:  Windowing,
	19:  Sessions,
	21:  HorizontalScroll,
	22:  ANSIColors,
	23:  Greek,
	24:  Turkish,
	28:  RectEditContour,
	29:  TextLocator,
	42:  Latin2,
	44:  PCTerm,
	45:  SoftKeyMap,
	46:  ASCIIEmulation,
	314: CaptureContour,
}

// FeatureCode returns the DA1 code announcing f, if there is one.
func FeatureCode(f Feature) (uint64, bool) {
	for code, feature := range knownFeatures {
		if feature == f {
			return code, true
		}
	}
	return 0, false
}
