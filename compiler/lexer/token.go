package lexer

import "fmt"

// TokenType represents the type of token in the C/AL language
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_UNKNOWN

	// Literals
	TOKEN_IDENTIFIER
	TOKEN_QUOTED_IDENTIFIER
	TOKEN_INTEGER
	TOKEN_DECIMAL
	TOKEN_STRING
	TOKEN_DATE
	TOKEN_TIME
	TOKEN_DATETIME
	TOKEN_PROPERTY_VALUE

	// Structural
	TOKEN_LBRACE      // {
	TOKEN_RBRACE      // }
	TOKEN_LBRACKET    // [
	TOKEN_RBRACKET    // ]
	TOKEN_LPAREN      // (
	TOKEN_RPAREN      // )
	TOKEN_SEMICOLON   // ;
	TOKEN_COMMA       // ,
	TOKEN_COLON       // :
	TOKEN_DOUBLECOLON // ::
	TOKEN_RANGE       // ..
	TOKEN_DOT         // .
	TOKEN_AT          // @

	// Operators
	TOKEN_ASSIGN        // :=
	TOKEN_PLUS_ASSIGN   // +=
	TOKEN_MINUS_ASSIGN  // -=
	TOKEN_MULT_ASSIGN   // *=
	TOKEN_DIV_ASSIGN    // /=
	TOKEN_PLUS          // +
	TOKEN_MINUS         // -
	TOKEN_MULTIPLY      // *
	TOKEN_DIVIDE        // /
	TOKEN_EQUALS        // =
	TOKEN_NOT_EQUALS    // <>
	TOKEN_LESS          // <
	TOKEN_GREATER       // >
	TOKEN_LESS_EQUAL    // <=
	TOKEN_GREATER_EQUAL // >=

	// Keywords - Object kinds
	TOKEN_OBJECT
	TOKEN_TABLE
	TOKEN_CODEUNIT
	TOKEN_PAGE
	TOKEN_REPORT
	TOKEN_QUERY
	TOKEN_XMLPORT
	TOKEN_MENUSUITE

	// Keywords - Sections
	TOKEN_OBJECT_PROPERTIES
	TOKEN_PROPERTIES
	TOKEN_FIELDS
	TOKEN_KEYS
	TOKEN_FIELDGROUPS
	TOKEN_CONTROLS
	TOKEN_ACTIONS
	TOKEN_ELEMENTS
	TOKEN_DATASET
	TOKEN_CODE
	TOKEN_RDLDATA
	TOKEN_REQUESTPAGE
	TOKEN_LABELS
	TOKEN_MENUNODES

	// Keywords - Control flow
	TOKEN_BEGIN
	TOKEN_END
	TOKEN_IF
	TOKEN_THEN
	TOKEN_ELSE
	TOKEN_CASE
	TOKEN_OF
	TOKEN_FOR
	TOKEN_TO
	TOKEN_DOWNTO
	TOKEN_DO
	TOKEN_WHILE
	TOKEN_REPEAT
	TOKEN_UNTIL
	TOKEN_WITH
	TOKEN_EXIT
	TOKEN_ASSERTERROR

	// Keywords - Declarations
	TOKEN_VAR
	TOKEN_PROCEDURE
	TOKEN_FUNCTION
	TOKEN_LOCAL
	TOKEN_TRIGGER
	TOKEN_EVENT
	TOKEN_ARRAY

	// Keywords - Word operators
	TOKEN_DIV
	TOKEN_MOD
	TOKEN_NOT
	TOKEN_AND
	TOKEN_OR
	TOKEN_XOR
	TOKEN_IN

	// Keywords - Variable modifiers
	TOKEN_TEMPORARY
	TOKEN_RUNONCLIENT
	TOKEN_WITHEVENTS
	TOKEN_INDATASET
	TOKEN_SECURITYFILTERING

	// Keywords - Boolean literals
	TOKEN_TRUE
	TOKEN_FALSE

	// Keywords - Data types
	TOKEN_RECORD
	TOKEN_OPTION
	TOKEN_TEXTCONST
	TOKEN_BOOLEAN
	TOKEN_CHAR
	TOKEN_BYTE
	TOKEN_BIGINTEGER
	TOKEN_BIGTEXT
	TOKEN_BLOB
	TOKEN_DURATION
	TOKEN_GUID
	TOKEN_VARIANT
	TOKEN_RECORDID
	TOKEN_RECORDREF
	TOKEN_FIELDREF
	TOKEN_KEYREF
	TOKEN_DIALOG
	TOKEN_DOTNET
	TOKEN_AUTOMATION
	TOKEN_OCX
	TOKEN_TESTPAGE
)

// tokenNames maps token types to their display names
var tokenNames = map[TokenType]string{
	TOKEN_EOF:               "EOF",
	TOKEN_UNKNOWN:           "UNKNOWN",
	TOKEN_IDENTIFIER:        "IDENTIFIER",
	TOKEN_QUOTED_IDENTIFIER: "QUOTED_IDENTIFIER",
	TOKEN_INTEGER:           "INTEGER",
	TOKEN_DECIMAL:           "DECIMAL",
	TOKEN_STRING:            "STRING",
	TOKEN_DATE:              "DATE",
	TOKEN_TIME:              "TIME",
	TOKEN_DATETIME:          "DATETIME",
	TOKEN_PROPERTY_VALUE:    "PROPERTY_VALUE",

	TOKEN_LBRACE:      "LBRACE",
	TOKEN_RBRACE:      "RBRACE",
	TOKEN_LBRACKET:    "LBRACKET",
	TOKEN_RBRACKET:    "RBRACKET",
	TOKEN_LPAREN:      "LPAREN",
	TOKEN_RPAREN:      "RPAREN",
	TOKEN_SEMICOLON:   "SEMICOLON",
	TOKEN_COMMA:       "COMMA",
	TOKEN_COLON:       "COLON",
	TOKEN_DOUBLECOLON: "DOUBLECOLON",
	TOKEN_RANGE:       "RANGE",
	TOKEN_DOT:         "DOT",
	TOKEN_AT:          "AT",

	TOKEN_ASSIGN:        "ASSIGN",
	TOKEN_PLUS_ASSIGN:   "PLUS_ASSIGN",
	TOKEN_MINUS_ASSIGN:  "MINUS_ASSIGN",
	TOKEN_MULT_ASSIGN:   "MULT_ASSIGN",
	TOKEN_DIV_ASSIGN:    "DIV_ASSIGN",
	TOKEN_PLUS:          "PLUS",
	TOKEN_MINUS:         "MINUS",
	TOKEN_MULTIPLY:      "MULTIPLY",
	TOKEN_DIVIDE:        "DIVIDE",
	TOKEN_EQUALS:        "EQUALS",
	TOKEN_NOT_EQUALS:    "NOT_EQUALS",
	TOKEN_LESS:          "LESS",
	TOKEN_GREATER:       "GREATER",
	TOKEN_LESS_EQUAL:    "LESS_EQUAL",
	TOKEN_GREATER_EQUAL: "GREATER_EQUAL",

	TOKEN_OBJECT:    "OBJECT",
	TOKEN_TABLE:     "TABLE",
	TOKEN_CODEUNIT:  "CODEUNIT",
	TOKEN_PAGE:      "PAGE",
	TOKEN_REPORT:    "REPORT",
	TOKEN_QUERY:     "QUERY",
	TOKEN_XMLPORT:   "XMLPORT",
	TOKEN_MENUSUITE: "MENUSUITE",

	TOKEN_OBJECT_PROPERTIES: "OBJECT-PROPERTIES",
	TOKEN_PROPERTIES:        "PROPERTIES",
	TOKEN_FIELDS:            "FIELDS",
	TOKEN_KEYS:              "KEYS",
	TOKEN_FIELDGROUPS:       "FIELDGROUPS",
	TOKEN_CONTROLS:          "CONTROLS",
	TOKEN_ACTIONS:           "ACTIONS",
	TOKEN_ELEMENTS:          "ELEMENTS",
	TOKEN_DATASET:           "DATASET",
	TOKEN_CODE:              "CODE",
	TOKEN_RDLDATA:           "RDLDATA",
	TOKEN_REQUESTPAGE:       "REQUESTPAGE",
	TOKEN_LABELS:            "LABELS",
	TOKEN_MENUNODES:         "MENUNODES",

	TOKEN_BEGIN:       "BEGIN",
	TOKEN_END:         "END",
	TOKEN_IF:          "IF",
	TOKEN_THEN:        "THEN",
	TOKEN_ELSE:        "ELSE",
	TOKEN_CASE:        "CASE",
	TOKEN_OF:          "OF",
	TOKEN_FOR:         "FOR",
	TOKEN_TO:          "TO",
	TOKEN_DOWNTO:      "DOWNTO",
	TOKEN_DO:          "DO",
	TOKEN_WHILE:       "WHILE",
	TOKEN_REPEAT:      "REPEAT",
	TOKEN_UNTIL:       "UNTIL",
	TOKEN_WITH:        "WITH",
	TOKEN_EXIT:        "EXIT",
	TOKEN_ASSERTERROR: "ASSERTERROR",

	TOKEN_VAR:       "VAR",
	TOKEN_PROCEDURE: "PROCEDURE",
	TOKEN_FUNCTION:  "FUNCTION",
	TOKEN_LOCAL:     "LOCAL",
	TOKEN_TRIGGER:   "TRIGGER",
	TOKEN_EVENT:     "EVENT",
	TOKEN_ARRAY:     "ARRAY",

	TOKEN_DIV: "DIV",
	TOKEN_MOD: "MOD",
	TOKEN_NOT: "NOT",
	TOKEN_AND: "AND",
	TOKEN_OR:  "OR",
	TOKEN_XOR: "XOR",
	TOKEN_IN:  "IN",

	TOKEN_TEMPORARY:         "TEMPORARY",
	TOKEN_RUNONCLIENT:       "RUNONCLIENT",
	TOKEN_WITHEVENTS:        "WITHEVENTS",
	TOKEN_INDATASET:         "INDATASET",
	TOKEN_SECURITYFILTERING: "SECURITYFILTERING",

	TOKEN_TRUE:  "TRUE",
	TOKEN_FALSE: "FALSE",

	TOKEN_RECORD:     "RECORD",
	TOKEN_OPTION:     "OPTION",
	TOKEN_TEXTCONST:  "TEXTCONST",
	TOKEN_BOOLEAN:    "BOOLEAN",
	TOKEN_CHAR:       "CHAR",
	TOKEN_BYTE:       "BYTE",
	TOKEN_BIGINTEGER: "BIGINTEGER",
	TOKEN_BIGTEXT:    "BIGTEXT",
	TOKEN_BLOB:       "BLOB",
	TOKEN_DURATION:   "DURATION",
	TOKEN_GUID:       "GUID",
	TOKEN_VARIANT:    "VARIANT",
	TOKEN_RECORDID:   "RECORDID",
	TOKEN_RECORDREF:  "RECORDREF",
	TOKEN_FIELDREF:   "FIELDREF",
	TOKEN_KEYREF:     "KEYREF",
	TOKEN_DIALOG:     "DIALOG",
	TOKEN_DOTNET:     "DOTNET",
	TOKEN_AUTOMATION: "AUTOMATION",
	TOKEN_OCX:        "OCX",
	TOKEN_TESTPAGE:   "TESTPAGE",
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a single lexical token
type Token struct {
	Type   TokenType
	Value  string // Source text; strings and quoted identifiers exclude their delimiters
	Line   int    // 1-based line of the first character
	Column int    // 1-based column of the first character
	Start  int    // Offset in source where the token starts
	End    int    // Offset in source where the token ends (exclusive)

	// Message carries a human-readable description for UNKNOWN tokens. The
	// raw content stays in Value for offset arithmetic; Message never
	// embeds it.
	Message string
}

// Length returns the token's span in source code units
func (t Token) Length() int {
	return t.End - t.Start
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s(%s) [%d:%d]", t.Type, t.Value, t.Line, t.Column)
}

// IsKeyword reports whether the token type is a reserved word
func (t TokenType) IsKeyword() bool {
	return t >= TOKEN_OBJECT && t <= TOKEN_TESTPAGE
}

// IsObjectKind reports whether the token type names an object kind,
// the word that may follow OBJECT at the top of a document
func (t TokenType) IsObjectKind() bool {
	switch t {
	case TOKEN_TABLE, TOKEN_CODEUNIT, TOKEN_PAGE, TOKEN_REPORT,
		TOKEN_QUERY, TOKEN_XMLPORT, TOKEN_MENUSUITE:
		return true
	}
	return false
}

// IsSectionKeyword reports whether the token type opens an object section
func (t TokenType) IsSectionKeyword() bool {
	switch t {
	case TOKEN_OBJECT_PROPERTIES, TOKEN_PROPERTIES, TOKEN_FIELDS, TOKEN_KEYS,
		TOKEN_FIELDGROUPS, TOKEN_CONTROLS, TOKEN_ACTIONS, TOKEN_ELEMENTS,
		TOKEN_DATASET, TOKEN_CODE, TOKEN_RDLDATA, TOKEN_REQUESTPAGE,
		TOKEN_LABELS, TOKEN_MENUNODES:
		return true
	}
	return false
}
