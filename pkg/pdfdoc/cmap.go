package pdfdoc

import (
	"golang.org/x/text/encoding/unicode"

	"github.com/gardar/pdfreplace/pkg/content"
)

// maxRange bounds the number of codes expanded from one bfrange entry.
const maxRange = 1 << 16

type codespace struct {
	lo, hi []byte
}

func (c codespace) contains(code []byte) bool {
	if len(code) != len(c.lo) {
		return false
	}
	for i, b := range code {
		if b < c.lo[i] || b > c.hi[i] {
			return false
		}
	}
	return true
}

// toUnicode is a parsed ToUnicode CMap.
type toUnicode struct {
	spaces []codespace
	chars  map[string]string // code bytes → text
}

// parseToUnicode reads the bfchar, bfrange and codespacerange sections of a
// ToUnicode CMap. CMap syntax is close enough to content stream syntax that
// the content parser splits it into usable operations.
func parseToUnicode(data []byte) *toUnicode {
	ops, _ := content.Parse(data)
	cm := &toUnicode{chars: make(map[string]string)}
	for _, op := range ops {
		args := op.Operands
		switch op.Operator {
		case "endcodespacerange":
			for i := 0; i+1 < len(args); i += 2 {
				lo, ok1 := content.Bytes(args[i])
				hi, ok2 := content.Bytes(args[i+1])
				if ok1 && ok2 && len(lo) == len(hi) && len(lo) > 0 {
					cm.spaces = append(cm.spaces, codespace{lo: lo, hi: hi})
				}
			}
		case "endbfchar":
			for i := 0; i+1 < len(args); i += 2 {
				src, ok1 := content.Bytes(args[i])
				dst, ok2 := content.Bytes(args[i+1])
				if ok1 && ok2 {
					cm.chars[string(src)] = decodeUTF16(dst)
				}
			}
		case "endbfrange":
			for i := 0; i+2 < len(args); i += 3 {
				cm.addRange(args[i], args[i+1], args[i+2])
			}
		}
	}
	return cm
}

func (cm *toUnicode) addRange(loObj, hiObj, dst content.Object) {
	lo, ok1 := content.Bytes(loObj)
	hi, ok2 := content.Bytes(hiObj)
	if !ok1 || !ok2 || len(lo) != len(hi) || len(lo) == 0 || len(lo) > 4 {
		return
	}
	first, last := beUint(lo), beUint(hi)
	if last < first || last-first >= maxRange {
		return
	}

	if arr, ok := dst.(content.Array); ok {
		for i, o := range arr {
			b, ok := content.Bytes(o)
			if !ok || first+uint32(i) > last {
				break
			}
			cm.chars[string(beBytes(first+uint32(i), len(lo)))] = decodeUTF16(b)
		}
		return
	}

	base, ok := content.Bytes(dst)
	if !ok || len(base) == 0 {
		return
	}
	for c := first; c <= last; c++ {
		out := append([]byte(nil), base...)
		// the offset is added to the last byte pair of the destination
		n := len(out)
		if n >= 2 {
			v := uint32(out[n-2])<<8 | uint32(out[n-1])
			v += c - first
			out[n-2], out[n-1] = byte(v>>8), byte(v)
		} else {
			out[0] += byte(c - first)
		}
		cm.chars[string(beBytes(c, len(lo)))] = decodeUTF16(out)
	}
}

// codeLength returns how many bytes of s form the next code, or 0 when the
// CMap declares no matching code space.
func (cm *toUnicode) codeLength(s []byte) int {
	for n := 1; n <= 4 && n <= len(s); n++ {
		for _, sp := range cm.spaces {
			if sp.contains(s[:n]) {
				return n
			}
		}
	}
	return 0
}

func (cm *toUnicode) lookup(code []byte) (string, bool) {
	s, ok := cm.chars[string(code)]
	return s, ok
}

func beUint(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

func beBytes(v uint32, n int) []byte {
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

func decodeUTF16(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	out, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}
