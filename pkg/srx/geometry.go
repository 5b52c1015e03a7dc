package srx

import (
	"fmt"
	"strings"
)

// Geometry selects which physical tag layout overlays the dump.
type Geometry int

const (
	SRIX4K Geometry = iota
	SRI512
)

// ParseGeometry maps a tag type selector to a Geometry.
// "x4k" and the empty string select SRIX4K, "512" selects SRI512.
func ParseGeometry(s string) (Geometry, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "x4k", "srix4k":
		return SRIX4K, nil
	case "512", "sri512":
		return SRI512, nil
	default:
		return 0, fmt.Errorf("%w: %q (want x4k or 512)", ErrUnsupportedGeometry, s)
	}
}

// EEPROMBlocks returns the number of user blocks, starting at address 0.
func (g Geometry) EEPROMBlocks() int {
	switch g {
	case SRI512:
		return sri512EEPROMBlocks
	default:
		return srix4kEEPROMBlocks
	}
}

func (g Geometry) String() string {
	switch g {
	case SRIX4K:
		return "SRIX4K"
	case SRI512:
		return "SRI512"
	default:
		return fmt.Sprintf("Geometry(%d)", int(g))
	}
}

// Valid reports whether g is one of the supported geometries.
func (g Geometry) Valid() bool {
	return g == SRIX4K || g == SRI512
}
