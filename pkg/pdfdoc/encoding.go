package pdfdoc

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// baseEncoding returns the code to rune table for a named simple font encoding.
// StandardEncoding is approximated by WinAnsi with its distinct quote glyphs.
func baseEncoding(name string) [256]rune {
	var (
		table [256]rune
		cm    = charmap.Windows1252
	)
	if name == "MacRomanEncoding" {
		cm = charmap.Macintosh
	}
	for i := range table {
		table[i] = cm.DecodeByte(byte(i))
	}
	if name == "StandardEncoding" {
		table['\''] = '’'
		table['`'] = '‘'
	}
	return table
}

// identityEncoding maps each code to the rune with the same value, used for
// symbolic fonts.
func identityEncoding() [256]rune {
	var table [256]rune
	for i := range table {
		table[i] = rune(i)
	}
	return table
}

var glyphNames = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@', "bracketleft": '[',
	"backslash": '\\', "bracketright": ']', "asciicircum": '^',
	"underscore": '_', "grave": '`', "braceleft": '{', "bar": '|',
	"braceright": '}', "asciitilde": '~',
	"quoteleft": '‘', "quoteright": '’', "quotedblleft": '“',
	"quotedblright": '”', "quotesinglbase": '‚', "quotedblbase": '„',
	"endash": '–', "emdash": '—', "bullet": '•', "ellipsis": '…',
	"dagger": '†', "daggerdbl": '‡', "perthousand": '‰',
	"guilsinglleft": '‹', "guilsinglright": '›',
	"guillemotleft": '«', "guillemotright": '»',
	"fi": 'ﬁ', "fl": 'ﬂ', "minus": '−', "multiply": '×',
	"divide": '÷', "degree": '°', "copyright": '©',
	"registered": '®', "trademark": '™', "Euro": '€',
	"sterling": '£', "yen": '¥', "cent": '¢', "section": '§',
	"paragraph": '¶', "periodcentered": '·', "nbspace": '\u00A0',
	"germandbls": 'ß', "AE": 'Æ', "ae": 'æ', "OE": 'Œ',
	"oe": 'œ', "Oslash": 'Ø', "oslash": 'ø', "Eth": 'Ð',
	"eth": 'ð', "Thorn": 'Þ', "thorn": 'þ', "dotlessi": 'ı',
	"Lslash": 'Ł', "lslash": 'ł', "exclamdown": '¡',
	"questiondown": '¿', "ordfeminine": 'ª', "ordmasculine": 'º',
	"onehalf": '½', "onequarter": '¼', "threequarters": '¾',
	"plusminus": '±', "mu": 'µ', "florin": 'ƒ',
}

// accents maps glyph name suffixes to combining marks, so that names like
// "eacute" or "Udieresis" compose to a single rune.
var accents = []struct {
	suffix string
	mark   rune
}{
	{"acute", '\u0301'}, {"grave", '\u0300'}, {"circumflex", '\u0302'},
	{"dieresis", '\u0308'}, {"tilde", '\u0303'}, {"ring", '\u030A'},
	{"cedilla", '\u0327'}, {"caron", '\u030C'}, {"macron", '\u0304'},
	{"breve", '\u0306'}, {"ogonek", '\u0328'}, {"dotaccent", '\u0307'},
	{"hungarumlaut", '\u030B'},
}

// glyphRune resolves an Adobe glyph name to text.
func glyphRune(name string) (rune, bool) {
	if r, ok := glyphNames[name]; ok {
		return r, true
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return r, true
	}
	if hex, ok := strings.CutPrefix(name, "uni"); ok && len(hex) >= 4 {
		if v, err := strconv.ParseUint(hex[:4], 16, 32); err == nil {
			return rune(v), true
		}
	}
	if hex, ok := strings.CutPrefix(name, "u"); ok && len(hex) >= 4 && len(hex) <= 6 {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return rune(v), true
		}
	}
	for _, a := range accents {
		base, ok := strings.CutSuffix(name, a.suffix)
		if !ok || utf8.RuneCountInString(base) != 1 {
			continue
		}
		composed := norm.NFC.String(base + string(a.mark))
		if r, size := utf8.DecodeRuneInString(composed); size == len(composed) {
			return r, true
		}
	}
	return 0, false
}
