package terrain

import "strings"

// Kind is the terrain type of a single grid tile
type Kind uint8

const (
	Normal Kind = iota
	Rough
	Water
	Mud
	Ice
	Lava
	Toxic
	Steep
	Narrow
	Destructible

	KindCount
)

var kindNames = [KindCount]string{
	Normal:       "normal",
	Rough:        "rough",
	Water:        "water",
	Mud:          "mud",
	Ice:          "ice",
	Lava:         "lava",
	Toxic:        "toxic",
	Steep:        "steep",
	Narrow:       "narrow",
	Destructible: "destructible",
}

func (k Kind) String() string {
	if k >= KindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is a defined kind
func (k Kind) Valid() bool { return k < KindCount }

// ParseKind maps a case-insensitive name to its Kind
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return Normal, false
}

// Status is the condition a terrain applies while a mover stands on it
type Status uint8

const (
	StatusNone Status = iota
	StatusPoison
	StatusBurn
	StatusSlow
	StatusStuck
	StatusSlide
)

var statusNames = [...]string{
	StatusNone:   "none",
	StatusPoison: "poison",
	StatusBurn:   "burn",
	StatusSlow:   "slow",
	StatusStuck:  "stuck",
	StatusSlide:  "slide",
}

func (s Status) String() string {
	if int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// ParseStatus maps a name to its Status, empty string is StatusNone
func ParseStatus(name string) (Status, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StatusNone, true
	}
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return StatusNone, false
}
