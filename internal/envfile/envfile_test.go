package envfile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEmpty(t *testing.T) {
	entries, err := Read("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRead(t *testing.T) {
	content := "# database\n# host name\nexport DB_HOST=localhost\r\n\n# dropped by the blank line\n\nADMIN_FIRSTNAME = \"Store Owner\"\n"

	entries, err := Read(content)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: "DB_HOST", Value: "localhost", Comment: "database\nhost name", Line: 3},
		{Key: "ADMIN_FIRSTNAME", Value: "Store Owner", Line: 7},
	}, entries)
}

func TestReadValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "K=value", want: "value"},
		{name: "empty", input: "K=", want: ""},
		{name: "inline comment", input: "K=value # note", want: "value"},
		{name: "tab comment", input: "K=value\t# note", want: "value"},
		{name: "hash without space", input: "K=pa#ss", want: "pa#ss"},
		{name: "single quoted is literal", input: `K='a\nb # c'`, want: `a\nb # c`},
		{name: "double quoted escapes", input: `K="a\nb\t\"c\"\\"`, want: "a\nb\t\"c\"\\"},
		{name: "unknown escape kept", input: `K="C:\dir"`, want: `C:\dir`},
		{name: "comment after quote", input: `K="v" # note`, want: "v"},
		{name: "equals in value", input: "K=a=b", want: "a=b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Read(tt.input)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "K", entries[0].Key)
			assert.Equal(t, tt.want, entries[0].Value)
		})
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		msg   string
	}{
		{name: "no equals", input: "A=1\nINVALID", line: 2, msg: "expected KEY=VALUE"},
		{name: "empty key", input: "=value", line: 1, msg: "expected KEY=VALUE"},
		{name: "space in key", input: "DB HOST=x", line: 1, msg: `invalid key "DB HOST"`},
		{name: "unterminated double", input: `K="abc`, line: 1, msg: "unterminated quoted value"},
		{name: "unterminated single", input: "K='", line: 1, msg: "unterminated quoted value"},
		{name: "text after quote", input: `K="abc" def`, line: 1, msg: "unexpected text after closing quote"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.input)
			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "got %v", err)
			assert.Equal(t, tt.line, syntaxErr.Line)
			assert.Equal(t, tt.msg, syntaxErr.Msg)
		})
	}
}

func TestReadKeepsDuplicates(t *testing.T) {
	entries, err := Read("A=1\nB=2\nA=3\n")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Key: "A", Value: "3", Line: 3}, entries[2])
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "plain", quote("plain"))
	assert.Equal(t, "", quote(""))
	assert.Equal(t, `"two words"`, quote("two words"))
	assert.Equal(t, `"a\\b"`, quote(`a\b`))
	assert.Equal(t, `"it's"`, quote("it's"))
	assert.Equal(t, `"line\nnext"`, quote("line\nnext"))
}

func TestRenderReadRoundTrip(t *testing.T) {
	entries := []Entry{
		{Key: "db_host", Value: "localhost", Comment: "Database host (required)"},
		{Key: "db_pass", Value: `s3cr3t "#" \ 'x'`},
		{Key: "admin_lastname", Value: "", Comment: "first\nsecond"},
	}

	rendered := Render(entries)
	assert.Contains(t, rendered, "# Database host (required)\ndb_host=localhost\n")
	assert.Contains(t, rendered, "# first\n# second\nadmin_lastname=\n")

	got, err := Read(rendered)
	require.NoError(t, err)
	require.Len(t, got, len(entries))
	for i := range entries {
		assert.Equal(t, entries[i].Key, got[i].Key)
		assert.Equal(t, entries[i].Value, got[i].Value)
		assert.Equal(t, entries[i].Comment, got[i].Comment)
	}
}

func FuzzRenderReadRoundTrip(f *testing.F) {
	for _, seed := range []string{"", "plain", "two words", `quo"te`, "new\nline", `back\slash`, "#hash", "'single'"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, value string) {
		got, err := Read(Render([]Entry{{Key: "K", Value: value}}))
		if err != nil {
			t.Fatalf("Read error for %q: %v", value, err)
		}
		if len(got) != 1 || got[0].Value != value {
			t.Fatalf("round trip of %q gave %#v", value, got)
		}
	})
}
