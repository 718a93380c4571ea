package grammar

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// The JSON grammar, one method per symbol. Every method bumps the depth
// counter once on entry, appends its production to buf and returns it.
//
//	json   : value
//	value  : STRING | NUMBER | obj | array | 'true' | 'false' | 'null'
//	obj    : '{' pair (',' pair)* '}' | '{' '}'
//	pair   : STRING ':' value
//	array  : '[' value (',' value)* ']' | '[' ']'
//	STRING : '"' (ESC | SAFECODEPOINT)* '"'
//	NUMBER : '-'? INT ('.' [0-9]+)? EXP?
//	INT    : '0' | [1-9] [0-9]*
//	EXP    : [Ee] [+\-]? INT

// valueBuckets is the modulus for choosing a value alternative.
const valueBuckets = 101

// Upper bounds (exclusive) of the value buckets. They partition
// [0, valueBuckets) with no gaps; the last three buckets are single values.
const (
	bucketString = 15
	bucketNumber = 30
	bucketObject = 60
	bucketArray  = 98
	bucketTrue   = 98
	bucketFalse  = 99
	bucketNull   = 100
)

// emptyOdds is the 1-in-N chance of an empty object or array.
const emptyOdds = 10

// maxScalar is one past the largest Unicode code point.
const maxScalar = 0x110000

var (
	hexDigits   = []byte("0123456789abcdefABCDEF")
	escapeChars = []byte(`"\/bfnrt`)

	litTrue  = []byte("true")
	litFalse = []byte("false")
	litNull  = []byte("null")
)

func (g *Generator) json(buf []byte) []byte {
	g.depth++
	return g.value(buf)
}

func (g *Generator) value(buf []byte) []byte {
	g.depth++
	if g.depth >= g.lim.MaxDepth {
		return g.number(buf)
	}

	switch b := g.r.Uint64n(valueBuckets); {
	case b < bucketString:
		return g.stringLit(buf)
	case b < bucketNumber:
		return g.number(buf)
	case b < bucketObject:
		return g.object(buf)
	case b < bucketArray:
		return g.array(buf)
	case b == bucketTrue:
		return append(buf, litTrue...)
	case b == bucketFalse:
		return append(buf, litFalse...)
	case b == bucketNull:
		return append(buf, litNull...)
	default:
		panic(fmt.Errorf("%w: %d", ErrImpossibleBucket, b))
	}
}

func (g *Generator) object(buf []byte) []byte {
	g.depth++
	if g.r.Uint64n(emptyOdds) == 0 {
		return append(buf, '{', '}')
	}

	buf = append(buf, '{')
	buf = g.pair(buf)
	if g.depth <= g.lim.MaxDepth {
		for n := g.r.Uint64n(g.lim.MaxRepeat); n > 0; n-- {
			buf = append(buf, ',')
			buf = g.pair(buf)
		}
	}
	return append(buf, '}')
}

func (g *Generator) array(buf []byte) []byte {
	g.depth++
	if g.r.Uint64n(emptyOdds) == 0 {
		return append(buf, '[', ']')
	}

	buf = append(buf, '[')
	buf = g.value(buf)
	if g.depth <= g.lim.MaxDepth {
		for n := g.r.Uint64n(g.lim.MaxRepeat); n > 0; n-- {
			buf = append(buf, ',')
			buf = g.value(buf)
		}
	}
	return append(buf, ']')
}

func (g *Generator) pair(buf []byte) []byte {
	g.depth++
	buf = g.stringLit(buf)
	buf = append(buf, ':')
	return g.value(buf)
}

func (g *Generator) stringLit(buf []byte) []byte {
	g.depth++
	buf = append(buf, '"')
	if g.depth <= g.lim.MaxDepth {
		for n := g.r.Uint64n(g.lim.MaxRepeat); n > 0; n-- {
			if g.r.Bool() {
				buf = g.safeCodePoint(buf)
			} else {
				buf = g.escape(buf)
			}
		}
	}
	return append(buf, '"')
}

func (g *Generator) number(buf []byte) []byte {
	g.depth++
	if g.r.Bool() {
		buf = append(buf, '-')
	}

	buf = g.integer(buf)

	if g.r.Bool() {
		buf = append(buf, '.')
		buf = g.digits(buf, 1+g.r.Uint64n(g.lim.MaxRepeat))
	}

	if g.r.Bool() {
		buf = g.exp(buf)
	}
	return buf
}

func (g *Generator) integer(buf []byte) []byte {
	g.depth++
	if g.r.Bool() {
		return append(buf, '0')
	}
	buf = append(buf, '1'+byte(g.r.Uint64n(9)))
	return g.digits(buf, g.r.Uint64n(g.lim.MaxRepeat))
}

// digits is a terminal run of [0-9]; it is not a grammar symbol and does
// not touch the depth counter.
func (g *Generator) digits(buf []byte, n uint64) []byte {
	for ; n > 0; n-- {
		buf = append(buf, '0'+byte(g.r.Uint64n(10)))
	}
	return buf
}

func (g *Generator) exp(buf []byte) []byte {
	g.depth++
	if g.r.Bool() {
		buf = append(buf, 'E')
	} else {
		buf = append(buf, 'e')
	}

	if g.r.Bool() {
		if g.r.Bool() {
			buf = append(buf, '-')
		} else {
			buf = append(buf, '+')
		}
	}
	return g.integer(buf)
}

func (g *Generator) escape(buf []byte) []byte {
	g.depth++
	buf = append(buf, '\\')
	if g.r.Bool() {
		return append(buf, escapeChars[g.r.Uint64n(uint64(len(escapeChars)))])
	}
	return g.unicode(buf)
}

func (g *Generator) unicode(buf []byte) []byte {
	g.depth++
	buf = append(buf, 'u')
	for range 4 {
		buf = g.hex(buf)
	}
	return buf
}

func (g *Generator) hex(buf []byte) []byte {
	g.depth++
	return append(buf, hexDigits[g.r.Uint64n(uint64(len(hexDigits)))])
}

// safeCodePoint draws scalar values until one is neither a control
// character, a quote, a backslash nor a surrogate, and appends its UTF-8
// encoding.
func (g *Generator) safeCodePoint(buf []byte) []byte {
	g.depth++
	for {
		n := g.r.Uint64n(maxScalar)
		if n < 0x20 || n == '"' || n == '\\' {
			continue
		}

		c, err := safecast.Conv[rune](n)
		if err != nil {
			panic(fmt.Errorf("%w: %#x: %w", ErrCodePoint, n, err))
		}
		if !utf8.ValidRune(c) {
			continue
		}
		return utf8.AppendRune(buf, c)
	}
}
