// Package content reads and writes PDF page content streams as a flat list of
// operations. Operations that are not modified keep their original bytes.
package content

import (
	"math"
	"sort"
	"strconv"
)

// Object is a single operand value.
type Object interface {
	appendTo(dst []byte) []byte
}

type (
	Number    float64
	Name      string
	String    []byte // literal string (...)
	HexString []byte // hex string <...>
	Bool      bool
	Null      struct{}
	Array     []Object
	Dict      map[Name]Object
	Keyword   string // bare token that is not an operand value
)

// InlineImage is the operand of a BI ... ID ... EI sequence.
type InlineImage struct {
	Params Dict
	Data   []byte
}

func (n Number) appendTo(dst []byte) []byte {
	v := math.Round(float64(n)*1e4) / 1e4
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.AppendFloat(dst, v, 'f', -1, 64)
}

func (n Name) appendTo(dst []byte) []byte {
	dst = append(dst, '/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c < '!' || c > '~' || c == '#' || isDelim(c) {
			dst = append(dst, '#', hexDigits[c>>4], hexDigits[c&0xf])
			continue
		}
		dst = append(dst, c)
	}
	return dst
}

func (s String) appendTo(dst []byte) []byte {
	dst = append(dst, '(')
	for _, c := range s {
		switch c {
		case '(', ')', '\\':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		default:
			if c < ' ' || c > '~' {
				dst = append(dst, '\\', '0'+(c>>6), '0'+((c>>3)&7), '0'+(c&7))
				continue
			}
			dst = append(dst, c)
		}
	}
	return append(dst, ')')
}

const hexDigits = "0123456789ABCDEF"

func (s HexString) appendTo(dst []byte) []byte {
	dst = append(dst, '<')
	for _, c := range s {
		dst = append(dst, hexDigits[c>>4], hexDigits[c&0xf])
	}
	return append(dst, '>')
}

func (b Bool) appendTo(dst []byte) []byte {
	return strconv.AppendBool(dst, bool(b))
}

func (Null) appendTo(dst []byte) []byte {
	return append(dst, "null"...)
}

func (a Array) appendTo(dst []byte) []byte {
	dst = append(dst, '[')
	for i, o := range a {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = o.appendTo(dst)
	}
	return append(dst, ']')
}

func (d Dict) appendTo(dst []byte) []byte {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	dst = append(dst, "<<"...)
	for _, k := range keys {
		dst = Name(k).appendTo(dst)
		dst = append(dst, ' ')
		dst = d[Name(k)].appendTo(dst)
		dst = append(dst, ' ')
	}
	return append(dst, ">>"...)
}

func (k Keyword) appendTo(dst []byte) []byte {
	return append(dst, k...)
}

func (img InlineImage) appendTo(dst []byte) []byte {
	keys := make([]string, 0, len(img.Params))
	for k := range img.Params {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		dst = Name(k).appendTo(dst)
		dst = append(dst, ' ')
		dst = img.Params[Name(k)].appendTo(dst)
		dst = append(dst, ' ')
	}
	dst = append(dst, "ID "...)
	dst = append(dst, img.Data...)
	return append(dst, "\nEI"...)
}

// Float returns the numeric value of o, and false if o is not a Number.
func Float(o Object) (float64, bool) {
	n, ok := o.(Number)
	return float64(n), ok
}

// Bytes returns the raw bytes of a String or HexString operand.
func Bytes(o Object) ([]byte, bool) {
	switch s := o.(type) {
	case String:
		return s, true
	case HexString:
		return s, true
	}
	return nil, false
}

// Format renders a single object in content stream syntax.
func Format(o Object) string {
	return string(o.appendTo(nil))
}
