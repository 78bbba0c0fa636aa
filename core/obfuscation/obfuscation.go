// Package obfuscation implements the reversible byte transforms applied to
// every packet crossing the link.
package obfuscation

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Kind selects the transform.
type Kind int

const (
	Disabled Kind = iota
	FixedMask
	PositionXOR
	Reverse
	Composite
)

func (k Kind) String() string {
	switch k {
	case Disabled:
		return "none"
	case FixedMask:
		return "xormask"
	case PositionXOR:
		return "xorptrpos"
	case Reverse:
		return "reverse"
	case Composite:
		return "obfuscate"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// RequiresMask reports whether the kind needs a non-empty mask.
func (k Kind) RequiresMask() bool {
	return k == FixedMask || k == Composite
}

// Direction tells Apply whether the packet is leaving or entering.
type Direction int

const (
	Outbound Direction = iota
	Inbound
)

// ErrMissingMask is returned for masked kinds configured without a mask.
var ErrMissingMask = errors.New("obfuscation method requires a non-empty mask")

// Method is a transform kind plus its mask. The zero value is Disabled.
type Method struct {
	Kind Kind
	Mask []byte
}

// ParseMethod builds a Method from its configuration name and a hex mask.
func ParseMethod(name, hexMask string) (Method, error) {
	var kind Kind
	switch strings.ToLower(name) {
	case "", "none":
		return Method{}, nil
	case "xormask":
		kind = FixedMask
	case "xorptrpos":
		kind = PositionXOR
	case "reverse":
		kind = Reverse
	case "obfuscate":
		kind = Composite
	default:
		return Method{}, fmt.Errorf("unknown obfuscation method %q", name)
	}

	m := Method{Kind: kind}
	if kind.RequiresMask() {
		mask, err := hex.DecodeString(hexMask)
		if err != nil {
			return Method{}, fmt.Errorf("invalid obfuscation mask: %w", err)
		}
		m.Mask = mask
	}
	if err := m.Validate(); err != nil {
		return Method{}, err
	}
	return m, nil
}

// Validate checks that masked kinds carry a mask.
func (m Method) Validate() error {
	if m.Kind < Disabled || m.Kind > Composite {
		return fmt.Errorf("unknown obfuscation kind %d", int(m.Kind))
	}
	if m.Kind.RequiresMask() && len(m.Mask) == 0 {
		return fmt.Errorf("%s: %w", m.Kind, ErrMissingMask)
	}
	return nil
}

// IsEnabled reports whether Apply changes anything.
func (m Method) IsEnabled() bool {
	return m.Kind != Disabled
}

// Apply returns a transformed copy of buf. The input is never modified.
// A Kind outside the known set leaves the copy untouched.
func (m Method) Apply(buf []byte, dir Direction) []byte {
	out := make([]byte, len(buf))
	copy(out, buf)
	if len(out) == 0 || m.Kind < 0 || int(m.Kind) >= len(transforms) {
		return out
	}
	transforms[m.Kind](out, m.Mask, dir)
	return out
}

// ApplyAll applies the method to each packet.
func (m Method) ApplyAll(packets [][]byte, dir Direction) [][]byte {
	out := make([][]byte, len(packets))
	for i, p := range packets {
		out[i] = m.Apply(p, dir)
	}
	return out
}

type transform func(buf, mask []byte, dir Direction)

var transforms = [...]transform{
	Disabled:    func([]byte, []byte, Direction) {},
	FixedMask:   func(buf, mask []byte, _ Direction) { xorMask(buf, mask) },
	PositionXOR: func(buf, _ []byte, _ Direction) { xorPosition(buf) },
	Reverse:     func(buf, _ []byte, _ Direction) { reverseTail(buf) },
	Composite:   composite,
}

// Each step is its own inverse, so the inbound path runs the outbound
// steps backwards.
func composite(buf, mask []byte, dir Direction) {
	if dir == Outbound {
		xorMask(buf, mask)
		xorPosition(buf)
		reverseTail(buf)
		xorPosition(buf)
		return
	}
	xorPosition(buf)
	reverseTail(buf)
	xorPosition(buf)
	xorMask(buf, mask)
}

func xorMask(buf, mask []byte) {
	if len(mask) == 0 {
		return
	}
	for i := range buf {
		buf[i] ^= mask[i%len(mask)]
	}
}

func xorPosition(buf []byte) {
	for i := range buf {
		buf[i] ^= byte(i + 1)
	}
}

// reverseTail keeps buf[0] in place.
func reverseTail(buf []byte) {
	for i, j := 1, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
