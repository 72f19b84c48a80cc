package token

import (
	"strings"
	"testing"
)

// roundTrip scans src and fails unless the concatenated token text
// reproduces the input exactly.
func roundTrip(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Scan(src)
	if err != nil {
		t.Fatalf("Scan(%q) error: %v", src, err)
	}
	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.Text)
	}
	if b.String() != src {
		t.Fatalf("round trip mismatch:\n got %q\nwant %q", b.String(), src)
	}
	return toks
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScan_RoundTripModule(t *testing.T) {
	src := "defmodule MyApp do\n  @moduledoc \"docs\"\n\n  def run(a, b), do: a + b\nend\n"
	roundTrip(t, src)
}

func TestScan_PositionsNonDecreasing(t *testing.T) {
	src := "x = 1\ny = \"two\"\n# comment\n"
	toks := roundTrip(t, src)
	for i := 1; i < len(toks); i++ {
		prev, cur := toks[i-1], toks[i]
		if cur.Offset < prev.Offset {
			t.Errorf("offset decreased at %d: %v after %v", i, cur, prev)
		}
		if cur.Pos.Before(prev.Pos) {
			t.Errorf("position decreased at %d: %v after %v", i, cur, prev)
		}
	}
}

func TestScan_Classification(t *testing.T) {
	cases := []struct {
		src  string
		want Kind
	}{
		{"foo", Ident},
		{"foo?", Ident},
		{"save!", Ident},
		{"@moduledoc", Ident},
		{":ok", Atom},
		{"42", Number},
		{"3.14", Number},
		{"0xFF", Number},
		{"1_000_000", Number},
		{`"hello"`, String},
		{`"""` + "\nheredoc\n" + `"""`, String},
		{"'chars'", Charlist},
		{"~r/foo/i", Sigil},
		{"~w(a b c)", Sigil},
		{"<<1, 2, 3>>", Bitstring},
		{"# note", Comment},
		{"|>", Operator},
		{"=~", Operator},
		{"->", Operator},
		{",", Delim},
		{"(", Delim},
	}
	for _, tc := range cases {
		toks, err := Scan(tc.src)
		if err != nil {
			t.Errorf("Scan(%q) error: %v", tc.src, err)
			continue
		}
		if len(toks) == 0 {
			t.Errorf("Scan(%q) produced no tokens", tc.src)
			continue
		}
		if toks[0].Kind != tc.want {
			t.Errorf("Scan(%q)[0].Kind = %v, want %v (all: %v)", tc.src, toks[0].Kind, tc.want, kinds(toks))
		}
		if toks[0].Text != tc.src {
			t.Errorf("Scan(%q)[0].Text = %q, want whole input", tc.src, toks[0].Text)
		}
	}
}

func TestScan_BitstringNestedAndQuoted(t *testing.T) {
	src := `<<"ab", <<1::8>>, 2>>`
	toks := roundTrip(t, src)
	if len(toks) != 1 || toks[0].Kind != Bitstring {
		t.Fatalf("expected one bitstring token, got %v", kinds(toks))
	}
}

func TestScan_MultiLineString(t *testing.T) {
	src := "x = \"line one\nline two\"\ny = 1\n"
	toks := roundTrip(t, src)
	var str Token
	for _, tok := range toks {
		if tok.Kind == String {
			str = tok
		}
	}
	if str.Text != "\"line one\nline two\"" {
		t.Errorf("string token = %q, want the whole literal", str.Text)
	}
	// Scanning continues past the closing quote.
	var y Token
	for _, tok := range toks {
		if tok.Kind == Ident && tok.Text == "y" {
			y = tok
		}
	}
	if y.Pos.Line != 3 || y.Pos.Column != 1 {
		t.Errorf("y at %d:%d, want 3:1", y.Pos.Line, y.Pos.Column)
	}
}

func TestScan_MultiLineCharlist(t *testing.T) {
	toks := roundTrip(t, "'one\ntwo'\n")
	if toks[0].Kind != Charlist || toks[0].Text != "'one\ntwo'" {
		t.Errorf("charlist token = %v, want whole literal", toks[0])
	}
}

func TestScan_UnterminatedString(t *testing.T) {
	toks, err := Scan("x = \"oops\nrest = 1\n")
	uerr, ok := err.(*UnterminatedLiteralError)
	if !ok {
		t.Fatalf("expected UnterminatedLiteralError, got %v", err)
	}
	if uerr.Pos.Line != 1 || uerr.Pos.Column != 5 {
		t.Errorf("opening position = %d:%d, want 1:5", uerr.Pos.Line, uerr.Pos.Column)
	}
	// Tokens before the opening quote survive; the remainder is skipped.
	for _, tok := range toks {
		if strings.Contains(tok.Text, "rest") {
			t.Errorf("token produced past the unterminated region: %v", tok)
		}
	}
}

func TestScan_UnterminatedBitstring(t *testing.T) {
	_, err := Scan("<<1, 2\n")
	uerr, ok := err.(*UnterminatedLiteralError)
	if !ok {
		t.Fatalf("expected UnterminatedLiteralError, got %v", err)
	}
	if uerr.Delim != "<<" {
		t.Errorf("Delim = %q, want <<", uerr.Delim)
	}
	if uerr.Pos.Line != 1 || uerr.Pos.Column != 1 {
		t.Errorf("opening position = %d:%d, want 1:1", uerr.Pos.Line, uerr.Pos.Column)
	}
}

func TestScan_UnterminatedHeredoc(t *testing.T) {
	_, err := Scan("x = \"\"\"\nnever closed\n")
	uerr, ok := err.(*UnterminatedLiteralError)
	if !ok {
		t.Fatalf("expected UnterminatedLiteralError, got %v", err)
	}
	if uerr.Delim != `"""` {
		t.Errorf("Delim = %q, want triple quote", uerr.Delim)
	}
}

func TestScan_EscapedQuoteDoesNotTerminate(t *testing.T) {
	toks := roundTrip(t, `"a\"b"`)
	if len(toks) != 1 || toks[0].Kind != String {
		t.Fatalf("expected one string token, got %v", kinds(toks))
	}
}

func TestScan_CRLFNewline(t *testing.T) {
	toks := roundTrip(t, "a\r\nb\r\n")
	if toks[1].Kind != Newline || toks[1].Text != "\r\n" {
		t.Errorf("expected CRLF newline token, got %v", toks[1])
	}
	if toks[2].Pos.Line != 2 || toks[2].Pos.Column != 1 {
		t.Errorf("token after CRLF at %d:%d, want 2:1", toks[2].Pos.Line, toks[2].Pos.Column)
	}
}

func TestScan_ShebangIsComment(t *testing.T) {
	toks := roundTrip(t, "#!/usr/bin/env elixir\nIO.puts(:hi)\n")
	if toks[0].Kind != Comment {
		t.Errorf("shebang token kind = %v, want comment", toks[0].Kind)
	}
}

func TestScan_ColumnCountsRunes(t *testing.T) {
	toks := roundTrip(t, "# café\nx = 1\n")
	// The x on line 2 must be at column 1 regardless of the multibyte
	// rune on line 1.
	var x Token
	for _, tok := range toks {
		if tok.Kind == Ident && tok.Text == "x" {
			x = tok
		}
	}
	if x.Pos.Line != 2 || x.Pos.Column != 1 {
		t.Errorf("x at %d:%d, want 2:1", x.Pos.Line, x.Pos.Column)
	}
}
