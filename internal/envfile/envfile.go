// Package envfile reads and writes the .env argument files accepted by `install run --args-file`.
package envfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/mage-console/internal/messages"
)

// Entry is one KEY=VALUE assignment. Comment holds the comment lines directly
// above it, without the leading "#".
type Entry struct {
	Key     string
	Value   string
	Comment string
	Line    int
}

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf(messages.EnvfileLineErrorFmt, e.Line, e.Msg)
}

// Read parses .env content and returns its assignments in file order.
// Duplicate keys are returned as written.
func Read(content string) ([]Entry, error) {
	var entries []Entry
	var comment []string
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		switch {
		case line == "":
			comment = nil
			continue
		case strings.HasPrefix(line, "#"):
			comment = append(comment, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}

		entry, err := parseAssignment(line)
		if err != nil {
			return nil, &SyntaxError{Line: i + 1, Msg: err.Error()}
		}
		entry.Line = i + 1
		entry.Comment = strings.Join(comment, "\n")
		comment = nil
		entries = append(entries, entry)
	}
	return entries, nil
}

// Render formats entries as .env content in the given order.
func Render(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		if e.Comment != "" {
			for _, line := range strings.Split(e.Comment, "\n") {
				b.WriteString("# ")
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(quote(e.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

func parseAssignment(line string) (Entry, error) {
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, rest, ok := strings.Cut(line, "=")
	if !ok {
		return Entry{}, errors.New(messages.EnvfileExpectedKeyValue)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Entry{}, errors.New(messages.EnvfileExpectedKeyValue)
	}
	if strings.ContainsAny(key, " \t\"'#") {
		return Entry{}, fmt.Errorf(messages.EnvfileInvalidKeyFmt, key)
	}
	value, err := unquote(strings.TrimSpace(rest))
	if err != nil {
		return Entry{}, err
	}
	return Entry{Key: key, Value: value}, nil
}

// unquote decodes a raw value. Single quotes are literal; double quotes
// understand \n, \r, \t, \\ and \". Unquoted values end at " #".
func unquote(raw string) (string, error) {
	if raw == "" || (raw[0] != '"' && raw[0] != '\'') {
		if idx := strings.Index(raw, " #"); idx >= 0 {
			raw = raw[:idx]
		}
		if idx := strings.Index(raw, "\t#"); idx >= 0 {
			raw = raw[:idx]
		}
		return strings.TrimSpace(raw), nil
	}

	q := raw[0]
	var b strings.Builder
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == q:
			rest := strings.TrimSpace(raw[i+1:])
			if rest != "" && !strings.HasPrefix(rest, "#") {
				return "", errors.New(messages.EnvfileInvalidQuotedSuffix)
			}
			return b.String(), nil
		case c == '\\' && q == '"' && i+1 < len(raw):
			i++
			switch raw[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '\\', '"':
				b.WriteByte(raw[i])
			default:
				b.WriteByte('\\')
				b.WriteByte(raw[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", errors.New(messages.EnvfileUnterminatedQuotedValue)
}

// quote returns value unchanged unless Read would not give it back as is.
func quote(value string) string {
	if value == "" {
		return value
	}
	plain := !strings.ContainsAny(value, " \t\r\n#\"'\\")
	if plain && strings.TrimSpace(value) == value {
		return value
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(value) + `"`
}
