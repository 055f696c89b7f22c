// Package scratch is a package-level byte buffer for per-frame string
// assembly, sized once at startup and reset every frame. Overlay text that is
// rebuilt 60 times a second would otherwise churn the allocator.
//
// Single-threaded usage only: the render thread resets and appends, nothing
// else touches the buffer.
package scratch

import (
	"strconv"
	"unicode/utf8"
)

var buf []byte

// Init sets the buffer capacity. Call once at startup.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1024
	}
	buf = make([]byte, 0, capacity)
}

// Reset clears the buffer without freeing memory. Call once per frame before
// assembling overlay text.
func Reset() { buf = buf[:0] }

// Cap returns the current capacity, for tuning Init.
func Cap() int { return cap(buf) }

// Mark returns a bookmark into the buffer; StringFrom slices from it.
func Mark() int { return len(buf) }

// StringFrom copies the bytes appended since mark into a string.
func StringFrom(mark int) string { return string(buf[mark:]) }

// String copies the whole buffer into a string.
func String() string { return string(buf) }

// Builder chains appends onto the package buffer.
type Builder struct{}

// F returns a builder bound to the package buffer.
func F() Builder { return Builder{} }

func (Builder) S(s string) Builder {
	buf = append(buf, s...)
	return Builder{}
}

func (Builder) C(c byte) Builder {
	buf = append(buf, c)
	return Builder{}
}

func (Builder) R(r rune) Builder {
	buf = utf8.AppendRune(buf, r)
	return Builder{}
}

// I appends a base-10 integer.
func (Builder) I(v int) Builder {
	buf = strconv.AppendInt(buf, int64(v), 10)
	return Builder{}
}

// U appends an unsigned base-10 integer.
func (Builder) U(v uint64) Builder {
	buf = strconv.AppendUint(buf, v, 10)
	return Builder{}
}

// F32 appends a float with prec digits after the decimal point.
func (Builder) F32(v float32, prec int) Builder {
	buf = strconv.AppendFloat(buf, float64(v), 'f', prec, 32)
	return Builder{}
}
