package config

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/conn-castle/mage-console/internal/messages"
)

const phpHeader = "<?php\n" +
	"/**\n" +
	" * OpenMage Environment Configuration\n" +
	" * Generated by mage-console\n" +
	" */\n\n"

const phpIndent = "    "

// encodePHP renders cfg as a short-array PHP file. Keys come from the json
// struct tags so every format shares one field vocabulary.
func encodePHP(cfg *RuntimeConfig) []byte {
	var buf bytes.Buffer
	buf.WriteString(phpHeader)
	buf.WriteString("return ")
	writePHPValue(&buf, reflect.ValueOf(cfg).Elem(), 0)
	buf.WriteString(";\n")
	return buf.Bytes()
}

func writePHPValue(buf *bytes.Buffer, v reflect.Value, depth int) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			buf.WriteString("null")
			return
		}
		writePHPValue(buf, v.Elem(), depth)
	case reflect.Struct:
		buf.WriteString("[\n")
		typ := v.Type()
		for i := 0; i < typ.NumField(); i++ {
			name, omitEmpty := phpKey(typ.Field(i))
			field := v.Field(i)
			if omitEmpty && field.IsZero() {
				continue
			}
			buf.WriteString(strings.Repeat(phpIndent, depth+1))
			buf.WriteString(quotePHP(name))
			buf.WriteString(" => ")
			writePHPValue(buf, field, depth+1)
			buf.WriteString(",\n")
		}
		buf.WriteString(strings.Repeat(phpIndent, depth))
		buf.WriteString("]")
	case reflect.String:
		buf.WriteString(quotePHP(v.String()))
	case reflect.Bool:
		buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int64:
		buf.WriteString(strconv.FormatInt(v.Int(), 10))
	default:
		buf.WriteString("null")
	}
}

func phpKey(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, opts == "omitempty"
}

// quotePHP renders a single-quoted PHP literal. Only \ and ' are special there.
func quotePHP(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}

// parsePHP reads the `return [...];` array written by encodePHP (or by hand)
// into nested maps. It accepts short and long array syntax, single and double
// quoted strings, integers, floats, booleans, null, and comments.
func parsePHP(data []byte) (any, error) {
	p := &phpParser{src: string(data)}
	p.src = strings.TrimPrefix(p.src, "\ufeff")
	if !strings.HasPrefix(p.src, "<?php") {
		return nil, errors.New(messages.ConfigPHPOpenTagMissing)
	}
	p.pos = len("<?php")
	p.skipSpace()
	if !p.consumeWord("return") {
		return nil, p.errorf(messages.ConfigPHPExpectedReturn)
	}
	value, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.consume(";") {
		return nil, p.errorf(messages.ConfigPHPExpectedFmt, ";")
	}
	return value, nil
}

type phpParser struct {
	src string
	pos int
}

func (p *phpParser) errorf(format string, args ...any) error {
	line := strings.Count(p.src[:min(p.pos, len(p.src))], "\n") + 1
	return fmt.Errorf(messages.ConfigPHPSyntaxFmt, line, fmt.Sprintf(format, args...))
}

func (p *phpParser) skipSpace() {
	for p.pos < len(p.src) {
		rest := p.src[p.pos:]
		switch {
		case unicode.IsSpace(rune(rest[0])):
			p.pos++
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 4
		case strings.HasPrefix(rest, "//"), rest[0] == '#':
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
		default:
			return
		}
	}
}

func (p *phpParser) consume(token string) bool {
	if strings.HasPrefix(p.src[p.pos:], token) {
		p.pos += len(token)
		return true
	}
	return false
}

func (p *phpParser) consumeWord(word string) bool {
	rest := p.src[p.pos:]
	if len(rest) < len(word) || !strings.EqualFold(rest[:len(word)], word) {
		return false
	}
	if len(rest) > len(word) && isWordByte(rest[len(word)]) {
		return false
	}
	p.pos += len(word)
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (p *phpParser) value() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf(messages.ConfigPHPUnexpectedEOF)
	}
	switch c := p.src[p.pos]; {
	case c == '[':
		p.pos++
		return p.array("]")
	case p.consumeWord("array"):
		p.skipSpace()
		if !p.consume("(") {
			return nil, p.errorf(messages.ConfigPHPExpectedFmt, "(")
		}
		return p.array(")")
	case c == '\'':
		return p.singleQuoted()
	case c == '"':
		return p.doubleQuoted()
	case p.consumeWord("true"):
		return true, nil
	case p.consumeWord("false"):
		return false, nil
	case p.consumeWord("null"):
		return nil, nil
	case c == '-' || c >= '0' && c <= '9':
		return p.number()
	default:
		return nil, p.errorf(messages.ConfigPHPUnexpectedFmt, string(c))
	}
}

// array parses entries up to close. Lists (no keys) come back as []any,
// keyed arrays as map[string]any with integer keys stringified.
func (p *phpParser) array(close string) (any, error) {
	keyed := map[string]any{}
	var list []any
	for next := 0; ; next++ {
		p.skipSpace()
		if p.consume(close) {
			break
		}
		first, err := p.value()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.consume("=>") {
			value, err := p.value()
			if err != nil {
				return nil, err
			}
			keyed[fmt.Sprint(first)] = value
		} else {
			keyed[strconv.Itoa(next)] = first
			list = append(list, first)
		}
		p.skipSpace()
		if p.consume(",") {
			continue
		}
		if p.consume(close) {
			break
		}
		return nil, p.errorf(messages.ConfigPHPExpectedFmt, close)
	}
	if list != nil && len(list) == len(keyed) {
		return list, nil
	}
	return keyed, nil
}

func (p *phpParser) singleQuoted() (string, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\'':
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src) && (p.src[p.pos+1] == '\'' || p.src[p.pos+1] == '\\'):
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf(messages.ConfigPHPUnterminatedString)
}

func (p *phpParser) doubleQuoted() (string, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			escaped := p.src[p.pos+1]
			switch escaped {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"', '\\', '$':
				b.WriteByte(escaped)
			default:
				b.WriteByte('\\')
				b.WriteByte(escaped)
			}
			p.pos += 2
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", p.errorf(messages.ConfigPHPUnterminatedString)
}

func (p *phpParser) number() (any, error) {
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
		} else if c < '0' || c > '9' {
			break
		}
		p.pos++
	}
	text := p.src[start:p.pos]
	if isFloat {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorf(messages.ConfigPHPBadNumberFmt, text)
		}
		return value, nil
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf(messages.ConfigPHPBadNumberFmt, text)
	}
	return value, nil
}
