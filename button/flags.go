package button

import "strings"

// bit positions used by FlagString
const (
	flagState = iota
	flagPreState
	flagToggle
	flagRising
	flagFalling
	flagEventLo
	flagEventHi
	flagCount = 8
)

// flags packs the tick snapshot into the classic one-byte layout:
// 0 state, 1 preState, 2 toggle, 3 rising, 4 falling, 5-6 event code.
func (b *Button) flags() uint8 {
	var f uint8
	set := func(bit uint, on bool) {
		if on {
			f |= 1 << bit
		}
	}
	set(flagState, b.state)
	set(flagPreState, b.preState)
	set(flagToggle, b.toggle)
	set(flagRising, b.rising)
	set(flagFalling, b.falling)
	f |= uint8(b.event) << flagEventLo
	return f
}

// FlagString renders the low bits of the flag byte, most significant first.
// bits is clamped to [0, 8]; 7 covers every flag.
func (b *Button) FlagString(bits int) string {
	if bits < 0 {
		bits = 0
	}
	if bits > flagCount {
		bits = flagCount
	}

	f := b.flags()
	var sb strings.Builder
	for i := bits - 1; i >= 0; i-- {
		if f&(1<<uint(i)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
