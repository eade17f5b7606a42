package lexer

import "testing"

// lex is a test helper returning tokens without the clean-exit report
func lex(t *testing.T, source string) []Token {
	t.Helper()
	tokens, _ := New(source).Tokenize()
	return tokens
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexer_StructuralTokens(t *testing.T) {
	tokens := lex(t, "( ) [ ] ; , @")

	expected := []TokenType{
		TOKEN_LPAREN, TOKEN_RPAREN, TOKEN_LBRACKET, TOKEN_RBRACKET,
		TOKEN_SEMICOLON, TOKEN_COMMA, TOKEN_AT, TOKEN_EOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Errorf("token %d: expected %s, got %s", i, want, tokens[i].Type)
		}
	}
}

func TestLexer_Operators(t *testing.T) {
	tests := []struct {
		source string
		want   TokenType
	}{
		{":=", TOKEN_ASSIGN},
		{"+=", TOKEN_PLUS_ASSIGN},
		{"-=", TOKEN_MINUS_ASSIGN},
		{"*=", TOKEN_MULT_ASSIGN},
		{"/=", TOKEN_DIV_ASSIGN},
		{"::", TOKEN_DOUBLECOLON},
		{"..", TOKEN_RANGE},
		{".", TOKEN_DOT},
		{":", TOKEN_COLON},
		{"<>", TOKEN_NOT_EQUALS},
		{"<=", TOKEN_LESS_EQUAL},
		{">=", TOKEN_GREATER_EQUAL},
		{"<", TOKEN_LESS},
		{">", TOKEN_GREATER},
		{"=", TOKEN_EQUALS},
		{"+", TOKEN_PLUS},
		{"-", TOKEN_MINUS},
		{"*", TOKEN_MULTIPLY},
		{"/", TOKEN_DIVIDE},
	}

	for _, tt := range tests {
		tokens := lex(t, tt.source)
		if tokens[0].Type != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.source, tt.want, tokens[0].Type)
		}
	}
}

func TestLexer_NumberLiterals(t *testing.T) {
	tests := []struct {
		source string
		want   TokenType
		value  string
	}{
		{"42", TOKEN_INTEGER, "42"},
		{"3.14", TOKEN_DECIMAL, "3.14"},
		{"311298D", TOKEN_DATE, "311298D"},
		{"120000T", TOKEN_TIME, "120000T"},
		{"0DT", TOKEN_DATETIME, "0DT"},
		{"0D", TOKEN_DATE, "0D"},
		{"0T", TOKEN_TIME, "0T"},
	}

	for _, tt := range tests {
		tokens := lex(t, tt.source)
		if tokens[0].Type != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.source, tt.want, tokens[0].Type)
		}
		if tokens[0].Value != tt.value {
			t.Errorf("%q: expected value %q, got %q", tt.source, tt.value, tokens[0].Value)
		}
	}
}

func TestLexer_RangeKeepsBothBounds(t *testing.T) {
	tokens := lex(t, "1..5")

	expected := []TokenType{TOKEN_INTEGER, TOKEN_RANGE, TOKEN_INTEGER, TOKEN_EOF}
	got := tokenTypes(tokens)
	for i, want := range expected {
		if got[i] != want {
			t.Fatalf("token %d: expected %s, got %s", i, want, got[i])
		}
	}
}

func TestLexer_StringEscape(t *testing.T) {
	tokens := lex(t, "'it''s here'")

	if tokens[0].Type != TOKEN_STRING {
		t.Fatalf("expected STRING, got %s", tokens[0].Type)
	}
	if tokens[0].Value != "it's here" {
		t.Errorf("expected value %q, got %q", "it's here", tokens[0].Value)
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	tokens := lex(t, "'never closed")

	if tokens[0].Type != TOKEN_UNKNOWN {
		t.Fatalf("expected UNKNOWN, got %s", tokens[0].Type)
	}
	if tokens[0].Message == "" {
		t.Error("expected a message describing the unclosed literal")
	}
	// The raw content stays internal; the message must not embed it
	if contains(tokens[0].Message, "never closed") {
		t.Errorf("message leaks raw content: %q", tokens[0].Message)
	}
}

func TestLexer_QuotedIdentifier(t *testing.T) {
	tokens := lex(t, `"Customer No."`)

	if tokens[0].Type != TOKEN_QUOTED_IDENTIFIER {
		t.Fatalf("expected QUOTED_IDENTIFIER, got %s", tokens[0].Type)
	}
	if tokens[0].Value != "Customer No." {
		t.Errorf("expected value without quotes, got %q", tokens[0].Value)
	}
}

func TestLexer_CommentsProduceNoTokens(t *testing.T) {
	tokens := lex(t, "x // line comment\ny /* block\ncomment */ z")

	expected := []TokenType{TOKEN_IDENTIFIER, TOKEN_IDENTIFIER, TOKEN_IDENTIFIER, TOKEN_EOF}
	got := tokenTypes(tokens)
	if len(got) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(got), got)
	}
	for i, want := range expected {
		if got[i] != want {
			t.Errorf("token %d: expected %s, got %s", i, want, got[i])
		}
	}
}

func TestLexer_UnterminatedBlockComment(t *testing.T) {
	tokens := lex(t, "/* runs off the end")
	if tokens[0].Type != TOKEN_UNKNOWN {
		t.Fatalf("expected UNKNOWN, got %s", tokens[0].Type)
	}
}

func TestLexer_LineEndings(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"lf", "a\nb\nc"},
		{"crlf", "a\r\nb\r\nc"},
		{"cr", "a\rb\rc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := lex(t, tt.source)
			for i, wantLine := range []int{1, 2, 3} {
				if tokens[i].Line != wantLine {
					t.Errorf("token %d: expected line %d, got %d", i, wantLine, tokens[i].Line)
				}
				if tokens[i].Column != 1 {
					t.Errorf("token %d: expected column 1, got %d", i, tokens[i].Column)
				}
			}
		})
	}
}

func TestLexer_LineTerminatorsInsideStrings(t *testing.T) {
	tokens := lex(t, "'line\nbreak' after")

	if tokens[0].Type != TOKEN_STRING {
		t.Fatalf("expected STRING, got %s", tokens[0].Type)
	}
	if tokens[1].Line != 2 {
		t.Errorf("expected following token on line 2, got %d", tokens[1].Line)
	}
}

func TestLexer_KeywordCaseInsensitivity(t *testing.T) {
	casings := []string{"BEGIN", "begin", "Begin", "bEgIn"}
	for _, casing := range casings {
		tokens := lex(t, casing)
		if tokens[0].Type != TOKEN_BEGIN {
			t.Errorf("%q: expected BEGIN, got %s", casing, tokens[0].Type)
		}
		if tokens[0].Value != casing {
			t.Errorf("%q: stored value must preserve casing, got %q", casing, tokens[0].Value)
		}
	}
}

func TestLexer_ALOnlyKeywordPolicy(t *testing.T) {
	keywordCases := []struct {
		source string
		want   TokenType
	}{
		{"RUNONCLIENT", TOKEN_RUNONCLIENT},
		{"WITHEVENTS", TOKEN_WITHEVENTS},
		{"INDATASET", TOKEN_INDATASET},
		{"SECURITYFILTERING", TOKEN_SECURITYFILTERING},
		{"TEMPORARY", TOKEN_TEMPORARY},
		{"VAR", TOKEN_VAR},
	}
	for _, tt := range keywordCases {
		tokens := lex(t, tt.source)
		if tokens[0].Type != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.source, tt.want, tokens[0].Type)
		}
	}

	// Record-method names stay identifiers
	for _, name := range []string{"MODIFY", "INSERT", "DELETE", "GET", "SETRANGE"} {
		tokens := lex(t, name)
		if tokens[0].Type != TOKEN_IDENTIFIER {
			t.Errorf("%q: expected IDENTIFIER, got %s", name, tokens[0].Type)
		}
	}
}

func TestLexer_ObjectPropertiesKeyword(t *testing.T) {
	tokens := lex(t, "OBJECT-PROPERTIES")
	if tokens[0].Type != TOKEN_OBJECT_PROPERTIES {
		t.Fatalf("expected OBJECT-PROPERTIES keyword, got %s", tokens[0].Type)
	}
}

func TestLexer_OffsetCoverage(t *testing.T) {
	source := "OBJECT Table 18 Customer { PROPERTIES { CaptionML=ENU=Customer; } }"
	tokens := lex(t, source)

	runes := []rune(source)
	prevEnd := 0
	for _, tok := range tokens {
		if tok.Start < prevEnd {
			t.Fatalf("token %s overlaps previous token", tok)
		}
		// Gaps must be whitespace or comments only
		for _, r := range runes[prevEnd:tok.Start] {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				t.Fatalf("non-whitespace rune %q skipped between tokens", r)
			}
		}
		if tok.End > len(runes) {
			t.Fatalf("token %s ends past the source", tok)
		}
		prevEnd = tok.End
	}

	last := tokens[len(tokens)-1]
	if last.Type != TOKEN_EOF {
		t.Fatalf("expected trailing EOF, got %s", last.Type)
	}
}

func TestLexer_Determinism(t *testing.T) {
	source := "OBJECT Codeunit 1 Run { CODE { PROCEDURE P(); BEGIN x := 1; END; BEGIN END. } }"
	l := New(source)

	first, firstReport := l.Tokenize()
	second, secondReport := l.Tokenize()

	if len(first) != len(second) {
		t.Fatalf("token counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
	if firstReport.Passed != secondReport.Passed {
		t.Error("clean-exit results differ between runs")
	}
}

func TestLexer_UnexpectedCharacterCitesCodePoint(t *testing.T) {
	tokens := lex(t, "x § y")

	var unknown *Token
	for i := range tokens {
		if tokens[i].Type == TOKEN_UNKNOWN {
			unknown = &tokens[i]
			break
		}
	}
	if unknown == nil {
		t.Fatal("expected an UNKNOWN token")
	}
	if !contains(unknown.Message, "U+00A7") {
		t.Errorf("expected code point citation, got %q", unknown.Message)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
