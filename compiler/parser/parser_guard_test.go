package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cal-lang/cal/compiler/lexer"
)

// TestParseErrorSingleConstructionSite enforces the sanitization design:
// every ParseError must be built by the factory in parser_error.go so the
// redaction pipeline cannot be bypassed. The scan fails the build when a
// ParseError composite literal appears anywhere else in the package.
func TestParseErrorSingleConstructionSite(t *testing.T) {
	entries, err := os.ReadDir(".")
	if err != nil {
		t.Fatal(err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(".", name))
		if err != nil {
			t.Fatal(err)
		}

		count := strings.Count(string(data), "ParseError{")
		if name == "parser_error.go" {
			if count != 1 {
				t.Errorf("parser_error.go must contain exactly one ParseError literal, found %d", count)
			}
			continue
		}
		if count != 0 {
			t.Errorf("%s constructs ParseError directly %d time(s); use the factory", name, count)
		}
	}
}

// TestSanitization_NoRawTokenValuesInMessages exercises the sanitization
// law: no raw token value from the source may appear as a substring of any
// error message.
func TestSanitization_NoRawTokenValuesInMessages(t *testing.T) {
	sources := []string{
		"OBJECT Table 1 SecretName77 { PROPERTIES SecretProp=SecretValue99; }",
		"OBJECT Codeunit 1 X {\nCODE\n{\nPROCEDURE P@1();\nBEGIN\n  CASE SecretExpr88 OF SecretFunc66(SecretArg55: SecretBranch44: MESSAGE('hidden33');\nEND;\nBEGIN\nEND.\n}\n}",
		"OBJECT Codeunit 1 X {\nCODE\n{\nVAR\n  SecretVar22@1 : Record 18 SECURITYFILTERING NoParen11;\nBEGIN\nEND.\n}\n}",
	}

	secrets := []string{
		"SecretName77", "SecretProp", "SecretValue99", "SecretExpr88",
		"SecretFunc66", "SecretArg55", "SecretBranch44", "hidden33",
		"SecretVar22", "NoParen11",
	}

	for _, source := range sources {
		_, errs := parseSource(t, source)
		for _, e := range errs {
			for _, secret := range secrets {
				if strings.Contains(e.Message, secret) {
					t.Errorf("error message leaks source content %q: %q", secret, e.Message)
				}
			}
		}
	}
}

// TestSanitization_PathsRedacted confirms path-like content cannot survive
// the factory
func TestSanitization_PathsRedacted(t *testing.T) {
	err := newParseError(CategoryUnexpectedToken,
		"cannot include /usr/share/objects/customer.txt in output",
		lexer.Token{Line: 1, Column: 1}, "", "")
	if !strings.Contains(err.Message, "<REDACTED>") {
		t.Errorf("expected path redaction, got %q", err.Message)
	}
}
