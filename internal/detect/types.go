package detect

import (
	"fmt"
	"sort"
)

// Implementation identifies a terminal emulator.
type Implementation int

const (
	ImplementationUnknown Implementation = iota
	XTerm
	VTE
	Foot
	Terminology
	Contour
	Rxvt
	Mrxvt
	Kitty
	Alacritty
	ST
	Konsole
	ETerm
	EmacsTerm
	Qt5
	Ghostty
)

var implementationInfo = []struct {
	key  string
	name string
}{
	ImplementationUnknown: {"unknown", "unknown"},
	XTerm:                 {"xterm", "XTerm"},
	VTE:                   {"vte", "VTE-based"},
	Foot:                  {"foot", "Foot"},
	Terminology:           {"terminology", "Terminology"},
	Contour:               {"contour", "Contour"},
	Rxvt:                  {"rxvt", "rxvt"},
	Mrxvt:                 {"mrxvt", "mrxvt"},
	Kitty:                 {"kitty", "Kitty"},
	Alacritty:             {"alacritty", "Alacritty"},
	ST:                    {"st", "st"},
	Konsole:               {"konsole", "Konsole"},
	ETerm:                 {"eterm", "ETerm"},
	EmacsTerm:             {"emacsterm", "Emacs Term"},
	Qt5:                   {"qt5", "Qt5"},
	Ghostty:               {"ghostty", "ghostty"},
}

func (i Implementation) valid() bool {
	return i >= 0 && int(i) < len(implementationInfo)
}

// Key returns the stable lower-case identifier used in fixtures and JSON.
func (i Implementation) Key() string {
	if !i.valid() {
		return fmt.Sprintf("implementation(%d)", int(i))
	}
	return implementationInfo[i].key
}

// String returns the display name.
func (i Implementation) String() string {
	if !i.valid() {
		return i.Key()
	}
	return implementationInfo[i].name
}

// ParseImplementation maps a key back to its Implementation.
func ParseImplementation(key string) (Implementation, error) {
	for i, info := range implementationInfo {
		if info.key == key {
			return Implementation(i), nil
		}
	}
	return ImplementationUnknown, fmt.Errorf("unknown implementation %q", key)
}

// Emulation is the hardware terminal generation an emulator claims to be.
type Emulation int

const (
	EmulationUnknown Emulation = iota
	VT100
	VT100AVO
	VT101
	VT102
	VT125
	VT131
	VT132
	VT220
	VT240
	VT330
	VT340
	VT320
	VT382
	VT420
	VT510
	VT520
	VT525
)

var emulationInfo = []struct {
	key  string
	name string
}{
	EmulationUnknown: {"unknown", "<unknown terminal>"},
	VT100:            {"vt100", "VT100"},
	VT100AVO:         {"vt100avo", "VT100 w/ Advanced Video Option"},
	VT101:            {"vt101", "VT101"},
	VT102:            {"vt102", "VT102"},
	VT125:            {"vt125", "VT125"},
	VT131:            {"vt131", "VT131"},
	VT132:            {"vt132", "VT132"},
	VT220:            {"vt220", "VT220"},
	VT240:            {"vt240", "VT240"},
	VT330:            {"vt330", "VT330"},
	VT340:            {"vt340", "VT340"},
	VT320:            {"vt320", "VT320"},
	VT382:            {"vt382", "VT382"},
	VT420:            {"vt420", "VT420"},
	VT510:            {"vt510", "VT510"},
	VT520:            {"vt520", "VT520"},
	VT525:            {"vt525", "VT525"},
}

func (e Emulation) valid() bool {
	return e >= 0 && int(e) < len(emulationInfo)
}

// Key returns the stable lower-case identifier used in fixtures and JSON.
func (e Emulation) Key() string {
	if !e.valid() {
		return fmt.Sprintf("emulation(%d)", int(e))
	}
	return emulationInfo[e].key
}

// String returns the display name.
func (e Emulation) String() string {
	if !e.valid() {
		return emulationInfo[EmulationUnknown].name
	}
	return emulationInfo[e].name
}

// ParseEmulation maps a key back to its Emulation.
func ParseEmulation(key string) (Emulation, error) {
	for e, info := range emulationInfo {
		if info.key == key {
			return Emulation(e), nil
		}
	}
	return EmulationUnknown, fmt.Errorf("unknown emulation %q", key)
}

// Feature is an optional terminal capability.
type Feature int

const (
	Col132 Feature = iota
	Printer
	ReGIS
	Sixel
	SelectiveErase
	DRCS
	UDK
	NRCS
	SCS
	TechCharset
	LocatorPort
	StateInterrogation
	Windowing
	Sessions
	HorizontalScroll
	ANSIColors
	Greek
	Turkish
	TextLocator
	Latin2
	PCTerm
	SoftKeyMap
	ASCIIEmulation
	CaptureContour
	RectEditContour
	DesktopNotification // OSC 777
	DECSTBM             // CSI n1;n2 r
	VertLineMarkers
)

var featureNames = []string{
	Col132:              "132cols",
	Printer:             "printer",
	ReGIS:               "regis",
	Sixel:               "sixel",
	SelectiveErase:      "selerase",
	DRCS:                "drcs",
	UDK:                 "udk",
	NRCS:                "nrcs",
	SCS:                 "scs",
	TechCharset:         "techcharset",
	LocatorPort:         "locatorport",
	StateInterrogation:  "stateinterrogation",
	Windowing:           "windowing",
	Sessions:            "sessions",
	HorizontalScroll:    "horscroll",
	ANSIColors:          "ansicolors",
	Greek:               "greek",
	Turkish:             "turkish",
	TextLocator:         "textlocator",
	Latin2:              "latin2",
	PCTerm:              "pcterm",
	SoftKeyMap:          "softkeymap",
	ASCIIEmulation:      "asciiemul",
	CaptureContour:      "capturecontour",
	RectEditContour:     "recteditcontour",
	DesktopNotification: "desktopnotification",
	DECSTBM:             "decstbm",
	VertLineMarkers:     "vertlinemarkers",
}

// FeatureName returns the short name of a feature.
func FeatureName(f Feature) string {
	if f < 0 || int(f) >= len(featureNames) {
		return fmt.Sprintf("unknown%d", int(f))
	}
	return featureNames[f]
}

// String implements fmt.Stringer.
func (f Feature) String() string {
	return FeatureName(f)
}

// AllFeatures lists every feature in declaration order.
func AllFeatures() []Feature {
	all := make([]Feature, len(featureNames))
	for i := range featureNames {
		all[i] = Feature(i)
	}
	return all
}

// FeatureSet is a set of features.
type FeatureSet map[Feature]struct{}

// Add inserts f.
func (s *FeatureSet) Add(f Feature) {
	if *s == nil {
		*s = make(FeatureSet)
	}
	(*s)[f] = struct{}{}
}

// Has reports whether f is in the set.
func (s FeatureSet) Has(f Feature) bool {
	_, ok := s[f]
	return ok
}

// List returns the members in declaration order.
func (s FeatureSet) List() []Feature {
	list := make([]Feature, 0, len(s))
	for f := range s {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// Names returns the member names in declaration order.
func (s FeatureSet) Names() []string {
	list := s.List()
	names := make([]string, len(list))
	for i, f := range list {
		names[i] = FeatureName(f)
	}
	return names
}
