package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gdasset/pkg/asset"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text unchanged", "res://icon.svg", "res://icon.svg"},
		{"empty", "", ""},
		{"escaped quote", `say \"hi\"`, `say "hi"`},
		{"escaped backslash", `C:\\path`, `C:\path`},
		{"newline tab return", `a\nb\tc\rd`, "a\nb\tc\rd"},
		{"backspace formfeed", `\b\f`, "\b\f"},
		{"unicode 4 hex", `caf\u00e9`, "café"},
		{"unicode 6 hex", `\U01F600!`, "😀!"},
		{"dangling backslash", `abc\`, `abc\`},
		{"unknown escape drops backslash", `\q\'`, `q'`},
		{"short unicode escape", `\u12`, "u12"},
		{"invalid hex", `\uZZZZ`, "uZZZZ"},
		{"out of range code point", `\UFFFFFF`, "UFFFFFF"},
		{"escaped line break", "a\\\nb", "a\nb"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, asset.Decode(testCase.input))
		})
	}
}

func TestDecodeIdempotentOnPlainText(t *testing.T) {
	t.Parallel()

	plain := "Node2D/Sprite_2 uid://b8x"
	assert.Equal(t, plain, asset.Decode(asset.Decode(plain)))
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"hello",
		`quote " and \ slash`,
		"line\nbreak\ttab\r\b\f",
		"unicode é 😀",
		"\x01control\x7f",
		`\n literal backslash n`,
	}

	for _, input := range inputs {
		assert.Equal(t, input, asset.Decode(asset.Encode(input)), "input %q", input)
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"a \"b\""`, asset.Quote(`a "b"`))
}
