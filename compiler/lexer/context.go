package lexer

// Context identifies which region of an object the scanner is inside.
// The context decides how `{` is read: structural opener, field-record
// delimiter, or block-comment opener (inside CODE_BLOCK).
type Context int

const (
	ContextNormal Context = iota
	ContextObjectLevel
	ContextProperties
	ContextFields
	ContextKeys
	ContextFieldGroups
	ContextControls
	ContextElements
	ContextDataset
	ContextCodeBlock
)

var contextNames = map[Context]string{
	ContextNormal:      "NORMAL",
	ContextObjectLevel: "OBJECT_LEVEL",
	ContextProperties:  "PROPERTIES",
	ContextFields:      "FIELDS",
	ContextKeys:        "KEYS",
	ContextFieldGroups: "FIELDGROUPS",
	ContextControls:    "CONTROLS",
	ContextElements:    "ELEMENTS",
	ContextDataset:     "DATASET",
	ContextCodeBlock:   "CODE_BLOCK",
}

// String returns the context's display name
func (c Context) String() string {
	if name, ok := contextNames[c]; ok {
		return name
	}
	return "NORMAL"
}

// isSection reports whether the context is a brace-delimited object section
// whose inner braces delimit records rather than open new section kinds
func (c Context) isSection() bool {
	switch c {
	case ContextProperties, ContextFields, ContextKeys, ContextFieldGroups,
		ContextControls, ContextElements, ContextDataset:
		return true
	}
	return false
}

// sectionContextFor maps a section keyword to the context its `{` pushes.
// ACTIONS shares the CONTROLS context and RDLDATA/REQUESTPAGE share DATASET;
// their bodies follow the same record shape.
func sectionContextFor(t TokenType) (Context, bool) {
	switch t {
	case TOKEN_OBJECT_PROPERTIES, TOKEN_PROPERTIES:
		return ContextProperties, true
	case TOKEN_FIELDS:
		return ContextFields, true
	case TOKEN_KEYS:
		return ContextKeys, true
	case TOKEN_FIELDGROUPS, TOKEN_LABELS:
		return ContextFieldGroups, true
	case TOKEN_CONTROLS, TOKEN_ACTIONS, TOKEN_MENUNODES:
		return ContextControls, true
	case TOKEN_ELEMENTS:
		return ContextElements, true
	case TOKEN_DATASET, TOKEN_RDLDATA, TOKEN_REQUESTPAGE:
		return ContextDataset, true
	case TOKEN_CODE:
		return ContextCodeBlock, true
	}
	return ContextNormal, false
}

// FieldDefColumn tracks the current column within a `{ id ; ; name ; type ; props }`
// field record. Columns advance on each top-level `;` inside the record.
type FieldDefColumn int

const (
	FieldColumnNone FieldDefColumn = iota
	FieldColumnID
	FieldColumnReserved
	FieldColumnName
	FieldColumnType
	FieldColumnProperties
	FieldColumnTriggers
)

var fieldColumnNames = map[FieldDefColumn]string{
	FieldColumnNone:       "NONE",
	FieldColumnID:         "ID",
	FieldColumnReserved:   "RESERVED",
	FieldColumnName:       "NAME",
	FieldColumnType:       "TYPE",
	FieldColumnProperties: "PROPERTIES",
	FieldColumnTriggers:   "TRIGGERS",
}

// String returns the column's display name
func (c FieldDefColumn) String() string {
	if name, ok := fieldColumnNames[c]; ok {
		return name
	}
	return "NONE"
}

// next advances to the following column, saturating at TRIGGERS
func (c FieldDefColumn) next() FieldDefColumn {
	if c == FieldColumnNone || c == FieldColumnTriggers {
		return c
	}
	return c + 1
}
