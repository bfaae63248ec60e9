package config

import (
	"fmt"
	"strconv"
	"strings"
)

// MAC is the 6-byte hardware identifier announced to the server.
type MAC [6]byte

func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// IsReserved reports whether m falls in the hardware player vendor range.
func (m MAC) IsReserved() bool {
	return m[0] == ReservedMACPrefix[0] && m[1] == ReservedMACPrefix[1] && m[2] == ReservedMACPrefix[2]
}

// ParseMAC applies a colon separated hex override on top of current.
//
// Groups past the sixth are ignored and a short value leaves the trailing
// bytes of current untouched. An override inside the reserved vendor range
// returns current together with ErrReservedMAC so the caller can warn and
// carry on.
func ParseMAC(s string, current MAC) (MAC, error) {
	if strings.HasPrefix(strings.ToLower(s), "00:04:20") {
		return current, ErrReservedMAC
	}

	groups := strings.FieldsFunc(s, func(r rune) bool { return r == ':' })
	if len(groups) == 0 {
		return current, fmt.Errorf("%w: %q", ErrInvalidMAC, s)
	}

	parsed := current
	for i, g := range groups {
		if i >= len(parsed) {
			break
		}
		v, err := strconv.ParseUint(g, 16, 8)
		if err != nil {
			return current, fmt.Errorf("%w: %q", ErrInvalidMAC, s)
		}
		parsed[i] = byte(v)
	}

	if parsed.IsReserved() {
		return current, ErrReservedMAC
	}
	return parsed, nil
}
