package extract

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

type operandKind int

const (
	opNumber operandKind = iota
	opString
	opName
	opArray
	opOther
)

type operand struct {
	kind operandKind
	num  float64
	str  []byte
	arr  []operand
}

// textBuilder accumulates decoded text, breaking lines on text positioning operators.
type textBuilder struct {
	lines []string
	cur   strings.Builder
}

func (t *textBuilder) write(s string) { t.cur.WriteString(s) }

func (t *textBuilder) space() {
	if t.cur.Len() > 0 && !strings.HasSuffix(t.cur.String(), " ") {
		t.cur.WriteByte(' ')
	}
}

func (t *textBuilder) newline() {
	if line := strings.TrimRight(t.cur.String(), " "); line != "" {
		t.lines = append(t.lines, line)
	}
	t.cur.Reset()
}

func (t *textBuilder) String() string {
	t.newline()
	return strings.Join(t.lines, "\n")
}

// decodeContentStream pulls the shown text out of a decoded page content stream.
// Tf selects the decoder for the named font resource; strings shown with a font
// missing from fonts go through decodePDFText.
func decodeContentStream(data []byte, fonts map[string]pdf.TextEncoding) string {
	var (
		tb       textBuilder
		operands []operand
		lastY    float64
		haveY    bool
		font     pdf.TextEncoding
	)
	sc := &streamScanner{data: data}
	show := func(b []byte) { tb.write(decodeShown(b, font)) }

	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		if tok.kind != opOther {
			operands = append(operands, tok)
			continue
		}

		switch string(tok.str) {
		case "Tf":
			font = nil
			if len(operands) >= 2 && operands[len(operands)-2].kind == opName {
				font = fonts[string(operands[len(operands)-2].str)]
			}
		case "Tj":
			if s, ok := lastString(operands); ok {
				show(s)
			}
		case "'":
			tb.newline()
			if s, ok := lastString(operands); ok {
				show(s)
			}
		case `"`:
			tb.newline()
			if s, ok := lastString(operands); ok {
				show(s)
			}
		case "TJ":
			if len(operands) > 0 && operands[len(operands)-1].kind == opArray {
				for _, el := range operands[len(operands)-1].arr {
					switch el.kind {
					case opString:
						show(el.str)
					case opNumber:
						// large negative kerning is a word gap
						if el.num <= -200 {
							tb.space()
						}
					}
				}
			}
		case "T*":
			tb.newline()
		case "Td", "TD":
			if len(operands) >= 2 && operands[len(operands)-1].kind == opNumber {
				if operands[len(operands)-1].num != 0 {
					tb.newline()
				} else {
					tb.space()
				}
			}
		case "Tm":
			if len(operands) >= 6 && operands[len(operands)-1].kind == opNumber {
				y := operands[len(operands)-1].num
				if haveY && y != lastY {
					tb.newline()
				} else {
					tb.space()
				}
				lastY, haveY = y, true
			}
		case "ID":
			sc.skipInlineImage()
		}
		operands = operands[:0]
	}
	return tb.String()
}

func lastString(ops []operand) ([]byte, bool) {
	if len(ops) == 0 || ops[len(ops)-1].kind != opString {
		return nil, false
	}
	return ops[len(ops)-1].str, true
}

// decodeShown maps the bytes of a shown string through the current font's
// encoding (simple encodings, Differences, ToUnicode CMaps). Decoders that pass
// bytes through unchanged leave invalid UTF-8, which falls back to decodePDFText.
func decodeShown(b []byte, font pdf.TextEncoding) string {
	if font == nil {
		return decodePDFText(b)
	}
	s := font.Decode(string(b))
	if !utf8.ValidString(s) {
		return decodePDFText(b)
	}
	return cleanRunes([]rune(s))
}

// decodePDFText maps string bytes to text: UTF-16BE when BOM-prefixed,
// otherwise WinAnsi (Windows-1252), the encoding of most simple fonts.
func decodePDFText(b []byte) string {
	var runes []rune
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		u := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
		}
		runes = utf16.Decode(u)
	} else {
		runes = make([]rune, len(b))
		for i, c := range b {
			runes[i] = charmap.Windows1252.DecodeByte(c)
		}
	}
	return cleanRunes(runes)
}

// cleanRunes turns tabs into spaces and drops control and unmapped characters.
func cleanRunes(runes []rune) string {
	var sb strings.Builder
	for _, r := range runes {
		switch {
		case r == '\t':
			sb.WriteByte(' ')
		case r == utf8.RuneError, unicode.IsControl(r):
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// streamScanner tokenizes a PDF content stream.
type streamScanner struct {
	data []byte
	pos  int
}

func isPDFWhitespace(c byte) bool {
	return c == 0 || c == '\t' || c == '\n' || c == '\f' || c == '\r' || c == ' '
}

func isPDFDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (s *streamScanner) skipSpaceAndComments() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isPDFWhitespace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		default:
			return
		}
	}
}

// next returns the next operand or operator. Arrays are returned whole.
func (s *streamScanner) next() (operand, bool) {
	s.skipSpaceAndComments()
	if s.pos >= len(s.data) {
		return operand{}, false
	}

	c := s.data[s.pos]
	switch {
	case c == '(':
		return operand{kind: opString, str: s.literalString()}, true
	case c == '<':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
			s.pos += 2
			return operand{kind: opName}, true
		}
		return operand{kind: opString, str: s.hexString()}, true
	case c == '>':
		s.pos++
		if s.pos < len(s.data) && s.data[s.pos] == '>' {
			s.pos++
		}
		return operand{kind: opName}, true
	case c == '[':
		s.pos++
		var arr []operand
		for {
			s.skipSpaceAndComments()
			if s.pos >= len(s.data) {
				break
			}
			if s.data[s.pos] == ']' {
				s.pos++
				break
			}
			el, ok := s.next()
			if !ok {
				break
			}
			arr = append(arr, el)
		}
		return operand{kind: opArray, arr: arr}, true
	case c == ']' || c == '{' || c == '}' || c == ')':
		s.pos++
		return operand{kind: opName}, true
	case c == '/':
		s.pos++
		return operand{kind: opName, str: s.regular()}, true
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		word := s.regular()
		if f, err := strconv.ParseFloat(string(word), 64); err == nil {
			return operand{kind: opNumber, num: f}, true
		}
		return operand{kind: opOther, str: word}, true
	default:
		word := s.regular()
		if len(word) == 0 {
			s.pos++
			return operand{kind: opName}, true
		}
		return operand{kind: opOther, str: word}, true
	}
}

func (s *streamScanner) regular() []byte {
	start := s.pos
	for s.pos < len(s.data) && !isPDFWhitespace(s.data[s.pos]) && !isPDFDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return s.data[start:s.pos]
}

func (s *streamScanner) literalString() []byte {
	s.pos++ // (
	var out bytes.Buffer
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return out.Bytes()
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case 'b':
				out.WriteByte('\b')
			case 'f':
				out.WriteByte('\f')
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						val = val*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					out.WriteByte(byte(val))
				} else {
					out.WriteByte(e)
				}
			}
		case '(':
			depth++
			out.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return out.Bytes()
			}
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}
	return out.Bytes()
}

func (s *streamScanner) hexString() []byte {
	s.pos++ // <
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		c := s.data[s.pos]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++ // >
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		v, _ := strconv.ParseUint(string(digits[2*i:2*i+2]), 16, 8)
		out[i] = byte(v)
	}
	return out
}

// skipInlineImage advances past binary inline image data up to the EI operator.
func (s *streamScanner) skipInlineImage() {
	for s.pos+2 < len(s.data) {
		if isPDFWhitespace(s.data[s.pos]) && s.data[s.pos+1] == 'E' && s.data[s.pos+2] == 'I' &&
			(s.pos+3 == len(s.data) || isPDFWhitespace(s.data[s.pos+3])) {
			s.pos += 3
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}
