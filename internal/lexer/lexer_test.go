package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `OBJECT Table 50000 Item
{
  PROPERTIES
  {
  }
  FIELDS
  {
    { 1 ; ; No. ; Code20 }
  }
}
`

	tests := []struct {
		expectedValue string
		expectedKind  TokenType
	}{
		{"OBJECT", KW_OBJECT},
		{"Table", IDENT},
		{"50000", INTEGER},
		{"Item", IDENT},
		{"{", LBRACE},
		{"PROPERTIES", KW_PROPERTIES},
		{"{", LBRACE},
		{"}", RBRACE},
		{"FIELDS", KW_FIELDS},
		{"{", LBRACE},
		{"{", LBRACE},
		{"1", INTEGER},
		{";", SEMICOLON},
		{";", SEMICOLON},
		{"No", IDENT},
		{".", DOT},
		{";", SEMICOLON},
		{"Code20", IDENT},
		{"}", RBRACE},
		{"}", RBRACE},
		{"}", RBRACE},
		{"", EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s (value=%q)",
				i, tt.expectedKind, tok.Kind, tok.Value)
		}
		if tok.Value != tt.expectedValue {
			t.Fatalf("tests[%d] - value wrong. expected=%q, got=%q", i, tt.expectedValue, tok.Value)
		}
	}
}

func TestOperators(t *testing.T) {
	input := ":= += -= *= /= + - * / = <> < <= > >= :: @ ?"
	tests := []TokenType{
		ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, TIMES_ASSIGN, DIV_ASSIGN,
		PLUS, MINUS, ASTERISK, SLASH, EQ, NOT_EQ, LESS, LESS_EQ, GREATER, GREATER_EQ,
		DOTDOTCOL, AT, QUESTION, EOF,
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Kind != want {
			t.Fatalf("tests[%d] - expected=%s, got=%s (value=%q)", i, want, tok.Kind, tok.Value)
		}
	}
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	input := "if IF If then THEN begin BEGIN end procedure LOCAL trigger temporary"
	tests := []TokenType{
		KW_IF, KW_IF, KW_IF, KW_THEN, KW_THEN, KW_BEGIN, KW_BEGIN, KW_END,
		KW_PROCEDURE, KW_LOCAL, KW_TRIGGER, KW_TEMPORARY, EOF,
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Kind != want {
			t.Fatalf("tests[%d] - expected=%s, got=%s (value=%q)", i, want, tok.Kind, tok.Value)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"'hello'", "hello"},
		{"'it''s ok'", "it's ok"},
		{"'unterminated", "unterminated"},
		{"''", ""},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Kind != STRING {
			t.Fatalf("input %q: expected STRING, got %s", tt.input, tok.Kind)
		}
		if tok.Value != tt.want {
			t.Errorf("input %q: value = %q, want %q", tt.input, tok.Value, tt.want)
		}
	}
}

func TestApostropheInIdentifier(t *testing.T) {
	l := New("John's Item 'standalone'")

	tok := l.NextToken()
	if tok.Kind != IDENT || tok.Value != "John's" {
		t.Fatalf("expected IDENT John's, got %s %q", tok.Kind, tok.Value)
	}

	tok = l.NextToken()
	if tok.Kind != IDENT || tok.Value != "Item" {
		t.Fatalf("expected IDENT Item, got %s %q", tok.Kind, tok.Value)
	}

	tok = l.NextToken()
	if tok.Kind != STRING || tok.Value != "standalone" {
		t.Fatalf("expected STRING standalone, got %s %q", tok.Kind, tok.Value)
	}
}

func TestCompoundTypeLexemes(t *testing.T) {
	input := "Text50 Code20 Record18 Decimal5 TextConst"
	tests := []string{"Text50", "Code20", "Record18", "Decimal5", "TextConst"}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Kind != IDENT {
			t.Fatalf("tests[%d] - expected IDENT, got %s", i, tok.Kind)
		}
		if tok.Value != want {
			t.Errorf("tests[%d] - value = %q, want %q", i, tok.Value, want)
		}
	}
}

func TestUnknownByteRecovery(t *testing.T) {
	l := New("x := #$%; y")

	want := []struct {
		kind  TokenType
		value string
	}{
		{IDENT, "x"}, {ASSIGN, ":="}, {UNKNOWN, "#"}, {UNKNOWN, "$"}, {UNKNOWN, "%"},
		{SEMICOLON, ";"}, {IDENT, "y"}, {EOF, ""},
	}

	for i, w := range want {
		tok := l.NextToken()
		if tok.Kind != w.kind || tok.Value != w.value {
			t.Fatalf("tests[%d] - expected %s %q, got %s %q", i, w.kind, w.value, tok.Kind, tok.Value)
		}
	}
}

func TestNeverHalts(t *testing.T) {
	// The lexer must always reach EOF, no matter how malformed the input.
	inputs := []string{"", "'''", "@@@@", "\x00\x01\x02", "Text[[[", "'"}
	for _, input := range inputs {
		l := New(input)
		count := 0
		for {
			tok := l.NextToken()
			count++
			if tok.Kind == EOF {
				break
			}
			if count > 10000 {
				t.Fatalf("input %q did not reach EOF within 10000 tokens", input)
			}
		}
	}
}

func TestLineComment(t *testing.T) {
	input := "x := 1; // a comment\ny := 2;"
	l := New(input)

	want := []TokenType{IDENT, ASSIGN, INTEGER, SEMICOLON, IDENT, ASSIGN, INTEGER, SEMICOLON, EOF}
	for i, k := range want {
		tok := l.NextToken()
		if tok.Kind != k {
			t.Fatalf("tests[%d] - expected %s, got %s (value=%q)", i, k, tok.Kind, tok.Value)
		}
	}
}

func TestPositions(t *testing.T) {
	input := "x\ny := 2;"
	l := New(input)

	tok := l.NextToken() // x
	if tok.Line != 1 || tok.Column != 1 {
		t.Errorf("x: line=%d col=%d, want 1,1", tok.Line, tok.Column)
	}

	tok = l.NextToken() // y
	if tok.Line != 2 || tok.Column != 1 {
		t.Errorf("y: line=%d col=%d, want 2,1", tok.Line, tok.Column)
	}
}

func TestBOMStripped(t *testing.T) {
	input := "\xEF\xBB\xBFOBJECT"
	l := New(input)
	tok := l.NextToken()
	if tok.Kind != KW_OBJECT {
		t.Fatalf("expected KW_OBJECT after BOM strip, got %s %q", tok.Kind, tok.Value)
	}
	if tok.Column != 1 {
		t.Errorf("expected column 1 after BOM strip, got %d", tok.Column)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("a b c")

	peeked := l.Peek(0)
	if peeked.Value != "a" {
		t.Fatalf("Peek(0) = %q, want a", peeked.Value)
	}
	peeked1 := l.Peek(1)
	if peeked1.Value != "b" {
		t.Fatalf("Peek(1) = %q, want b", peeked1.Value)
	}

	next := l.NextToken()
	if next.Value != "a" {
		t.Fatalf("NextToken() after Peek = %q, want a", next.Value)
	}
	next = l.NextToken()
	if next.Value != "b" {
		t.Fatalf("NextToken() = %q, want b", next.Value)
	}
}

func TestSaveRestoreState(t *testing.T) {
	l := New("a b c")
	l.NextToken() // consume a

	state := l.SaveState()
	second := l.NextToken()
	if second.Value != "b" {
		t.Fatalf("expected b, got %q", second.Value)
	}

	l.RestoreState(state)
	replay := l.NextToken()
	if replay.Value != "b" {
		t.Fatalf("after restore expected b again, got %q", replay.Value)
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("x := 1;")
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		t.Fatalf("Tokenize() did not terminate with EOF: %+v", tokens)
	}
	if tokens[0].Kind != IDENT || tokens[0].Value != "x" {
		t.Fatalf("Tokenize()[0] = %+v, want IDENT x", tokens[0])
	}
}

func TestLookupKeyword(t *testing.T) {
	if kind, ok := LookupKeyword("begin"); !ok || kind != KW_BEGIN {
		t.Errorf("LookupKeyword(begin) = %s, %v, want KW_BEGIN, true", kind, ok)
	}
	if _, ok := LookupKeyword("NotAKeyword"); ok {
		t.Error("LookupKeyword(NotAKeyword) unexpectedly matched")
	}
}

func TestLookupObjectKind(t *testing.T) {
	if kind, ok := LookupObjectKind("codeunit"); !ok || kind != KW_CODEUNIT {
		t.Errorf("LookupObjectKind(codeunit) = %s, %v, want KW_CODEUNIT, true", kind, ok)
	}
	if _, ok := LookupObjectKind("Table50000"); ok {
		t.Error("LookupObjectKind(Table50000) unexpectedly matched")
	}
}

func TestIsStructuralKeyword(t *testing.T) {
	if !IsStructuralKeyword(KW_BEGIN) {
		t.Error("KW_BEGIN should be structural")
	}
	if IsStructuralKeyword(KW_TEMPORARY) {
		t.Error("KW_TEMPORARY should not be structural")
	}
}
