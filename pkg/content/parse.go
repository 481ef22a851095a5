package content

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// ErrSyntax is returned for malformed content stream data.
var ErrSyntax = errors.New("content: syntax error")

// Operation is one operator together with its operands.
type Operation struct {
	Operator string
	Operands []Object

	raw []byte // original encoding, nil for constructed operations
}

// NewOperation builds an operation that will be serialized from its operands.
func NewOperation(operator string, operands ...Object) Operation {
	return Operation{Operator: operator, Operands: operands}
}

// Modified reports whether the operation has no original encoding.
func (op Operation) Modified() bool { return op.raw == nil }

func (op Operation) appendTo(dst []byte) []byte {
	if op.raw != nil {
		return append(dst, op.raw...)
	}
	if op.Operator == "BI" {
		dst = append(dst, "BI "...)
		for _, o := range op.Operands {
			dst = o.appendTo(dst)
		}
		return dst
	}
	for _, o := range op.Operands {
		dst = o.appendTo(dst)
		dst = append(dst, ' ')
	}
	return append(dst, op.Operator...)
}

func (op Operation) String() string {
	return string(op.appendTo(nil))
}

// Serialize writes operations one per line.
func Serialize(ops []Operation) []byte {
	var out []byte
	for _, op := range ops {
		out = op.appendTo(out)
		out = append(out, '\n')
	}
	return out
}

// Parse splits a content stream into operations. On malformed input it
// returns the operations read so far together with an error wrapping ErrSyntax.
func Parse(data []byte) ([]Operation, error) {
	p := &parser{data: data}
	var (
		ops      []Operation
		operands []Object
		start    = -1
	)
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}
		tokStart := p.pos
		obj, err := p.readObject()
		if err != nil {
			return ops, err
		}
		kw, isKeyword := obj.(Keyword)
		if !isKeyword {
			if start < 0 {
				start = tokStart
			}
			operands = append(operands, obj)
			continue
		}
		if start < 0 {
			start = tokStart
		}

		op := Operation{Operator: string(kw), Operands: operands}
		if kw == "BI" {
			img, err := p.readInlineImage()
			if err != nil {
				return ops, err
			}
			op.Operands = []Object{img}
		}
		op.raw = p.data[start:p.pos]
		ops = append(ops, op)
		operands, start = nil, -1
	}
	// trailing operands without an operator are dropped
	return ops, nil
}

type parser struct {
	data []byte
	pos  int
}

func isWhite(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case isWhite(c):
			p.pos++
		case c == '%':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) readObject() (Object, error) {
	c := p.data[p.pos]
	switch c {
	case '(':
		return p.readString()
	case '<':
		if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
			return p.readDict()
		}
		return p.readHex()
	case '[':
		return p.readArray()
	case '/':
		return p.readName(), nil
	case ']', '>', ')', '{', '}':
		// stray delimiter, treat as a keyword so the caller can skip it
		p.pos++
		return Keyword(string(c)), nil
	}

	start := p.pos
	for p.pos < len(p.data) && !isWhite(p.data[p.pos]) && !isDelim(p.data[p.pos]) {
		p.pos++
	}
	tok := string(p.data[start:p.pos])
	switch tok {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return Null{}, nil
	}
	if looksNumeric(tok) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Number(0), nil
		}
		return Number(v), nil
	}
	return Keyword(tok), nil
}

func looksNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func (p *parser) readName() Name {
	p.pos++ // '/'
	var out []byte
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhite(c) || isDelim(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) {
			if v, err := strconv.ParseUint(string(p.data[p.pos+1:p.pos+3]), 16, 8); err == nil {
				out = append(out, byte(v))
				p.pos += 3
				continue
			}
		}
		out = append(out, c)
		p.pos++
	}
	return Name(out)
}

func (p *parser) readString() (Object, error) {
	p.pos++ // '('
	var out []byte
	depth := 1
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return String(out), nil
			}
		case '\\':
			if p.pos >= len(p.data) {
				return nil, p.errorf("unterminated string")
			}
			e := p.data[p.pos]
			p.pos++
			switch e {
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			case '\r':
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
				continue
			case '\n':
				continue
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && p.pos < len(p.data); i++ {
						d := p.data[p.pos]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						p.pos++
					}
					c = byte(v)
				} else {
					c = e
				}
			}
		}
		out = append(out, c)
	}
	return nil, p.errorf("unterminated string")
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func (p *parser) readHex() (Object, error) {
	p.pos++ // '<'
	var (
		out  []byte
		cur  byte
		half bool
	)
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		if c == '>' {
			if half {
				out = append(out, cur<<4)
			}
			return HexString(out), nil
		}
		v, ok := unhex(c)
		if !ok {
			continue
		}
		if half {
			out = append(out, cur<<4|v)
		} else {
			cur = v
		}
		half = !half
	}
	return nil, p.errorf("unterminated hex string")
}

func (p *parser) readArray() (Object, error) {
	p.pos++ // '['
	arr := Array{}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, p.errorf("unterminated array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.readObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *parser) readDict() (Object, error) {
	p.pos += 2 // '<<'
	d := Dict{}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, p.errorf("unterminated dictionary")
		}
		if bytes.HasPrefix(p.data[p.pos:], []byte(">>")) {
			p.pos += 2
			return d, nil
		}
		key, err := p.readObject()
		if err != nil {
			return nil, err
		}
		name, ok := key.(Name)
		if !ok {
			return nil, p.errorf("dictionary key %s is not a name", Format(key))
		}
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, p.errorf("unterminated dictionary")
		}
		val, err := p.readObject()
		if err != nil {
			return nil, err
		}
		d[name] = val
	}
}

// readInlineImage reads the parameters and data following BI, up to and
// including the EI operator.
func (p *parser) readInlineImage() (Object, error) {
	img := InlineImage{Params: Dict{}}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, p.errorf("unterminated inline image")
		}
		obj, err := p.readObject()
		if err != nil {
			return nil, err
		}
		if kw, ok := obj.(Keyword); ok && kw == "ID" {
			break
		}
		name, ok := obj.(Name)
		if !ok {
			return nil, p.errorf("inline image key %s is not a name", Format(obj))
		}
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, p.errorf("unterminated inline image")
		}
		val, err := p.readObject()
		if err != nil {
			return nil, err
		}
		img.Params[name] = val
	}

	if p.pos < len(p.data) && isWhite(p.data[p.pos]) {
		p.pos++
	}
	start := p.pos
	for i := start; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		if i > start && !isWhite(p.data[i-1]) {
			continue
		}
		if i+2 < len(p.data) && !isWhite(p.data[i+2]) && !isDelim(p.data[i+2]) {
			continue
		}
		end := i
		if end > start && isWhite(p.data[end-1]) {
			end--
		}
		img.Data = p.data[start:end]
		p.pos = i + 2
		return img, nil
	}
	return nil, p.errorf("inline image without EI")
}
