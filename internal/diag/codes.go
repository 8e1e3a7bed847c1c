// Package diag provides the compiler's stable diagnostic codes, phases, and
// the uniform command envelope every top-level command returns (§3.5, §4.1,
// §6.4, §6.5).
package diag

// Phase identifies which pipeline component raised a diagnostic.
type Phase string

const (
	PhaseLex        Phase = "LEX"
	PhaseParse      Phase = "PARSE"
	PhaseCanon      Phase = "CANON"
	PhaseType       Phase = "TYPE"
	PhaseMutability Phase = "MUTABILITY"
	PhaseExtern     Phase = "EXTERN"
	PhaseCodegen    Phase = "CODEGEN"
	PhaseRuntime    Phase = "RUNTIME"
	PhaseCLI        Phase = "CLI"
)

// Code is a stable, versioned diagnostic code. Codes never change meaning
// across versions (§6.5).
const (
	// ------------------------------------------------------------------
	// Lexer (LEX-*)
	// ------------------------------------------------------------------
	LexUnknownCodepoint   = "LEX-UNKNOWN-CODEPOINT"
	LexUnterminatedComment = "LEX-UNTERMINATED-COMMENT"
	LexUnterminatedString = "LEX-UNTERMINATED-STRING"
	LexUnterminatedChar   = "LEX-UNTERMINATED-CHAR"
	LexEmptyChar          = "LEX-EMPTY-CHAR"
	LexMultiCodepointChar = "LEX-MULTI-CODEPOINT-CHAR"
	LexUnknownEscape      = "LEX-UNKNOWN-ESCAPE"
	LexInvalidNumber      = "LEX-INVALID-NUMBER"

	// ------------------------------------------------------------------
	// Parser (PARSE-*)
	// ------------------------------------------------------------------
	ParseUnexpectedToken  = "PARSE-UNEXPECTED-TOKEN"
	ParseMissingColon     = "PARSE-MISSING-COLON"
	ParseMissingArrow     = "PARSE-MISSING-ARROW"
	ParseMissingParen     = "PARSE-MISSING-PAREN"
	ParseMissingBrace     = "PARSE-MISSING-BRACE"
	ParseBadNamespaceSep  = "PARSE-BAD-NAMESPACE-SEP"
	ParseBadImportKeyword = "PARSE-BAD-IMPORT-KEYWORD"
	ParseBadConstSyntax   = "PARSE-BAD-CONST-SYNTAX"
	ParseBadLetSyntax     = "PARSE-BAD-LET-SYNTAX"
	ParseBadMatchArm      = "PARSE-BAD-MATCH-ARM"
	ParseBadFoldArity     = "PARSE-BAD-FOLD-ARITY"

	// ------------------------------------------------------------------
	// Canonical-form validator (CANON-*), including surface-form (§4.2)
	// ------------------------------------------------------------------
	CanonSurfaceTab            = "CANON-SURFACE-TAB"
	CanonSurfaceCRLF           = "CANON-SURFACE-CRLF"
	CanonSurfaceTrailingWS     = "CANON-SURFACE-TRAILING-WS"
	CanonSurfaceBlankLines     = "CANON-SURFACE-BLANK-LINES"
	CanonSurfaceMissingNewline = "CANON-SURFACE-MISSING-NEWLINE"
	CanonSurfaceFilename       = "CANON-SURFACE-FILENAME"
	CanonOrderCategory         = "CANON-ORDER-CATEGORY"
	CanonOrderExport           = "CANON-ORDER-EXPORT"
	CanonOrderAlpha            = "CANON-ORDER-ALPHA"
	CanonDupDecl               = "CANON-DUP-DECL"
	CanonDupExternMember       = "CANON-DUP-EXTERN-MEMBER"
	CanonDupImport             = "CANON-DUP-IMPORT"
	CanonFilekindMainMissing   = "CANON-FILEKIND-MAIN-MISSING"
	CanonFilekindMainForbidden = "CANON-FILEKIND-MAIN-FORBIDDEN"
	CanonTestPlacement         = "CANON-TEST-PLACEMENT"
	CanonRecursionAccumulator  = "CANON-RECURSION-ACCUMULATOR"
	CanonRecursionCPS          = "CANON-RECURSION-CPS"
	CanonMatchBoolean          = "CANON-MATCH-BOOLEAN"
	CanonMatchDupWildcard      = "CANON-MATCH-DUP-WILDCARD"
	CanonMatchDupArm           = "CANON-MATCH-DUP-ARM"
	CanonParamOrder            = "CANON-PARAM-ORDER"
	CanonEffectOrder           = "CANON-EFFECT-ORDER"
	CanonLetUntyped            = "CANON-LET-UNTYPED"
	CanonConstUntyped          = "CANON-CONST-UNTYPED"

	// ------------------------------------------------------------------
	// Type checker (TYPE-*)
	// ------------------------------------------------------------------
	TypeUnboundName         = "TYPE-UNBOUND-NAME"
	TypeArityMismatch       = "TYPE-ARITY-MISMATCH"
	TypeMismatch            = "TYPE-MISMATCH"
	TypeNonexhaustive       = "TYPE-NONEXHAUSTIVE"
	TypeNotExported         = "TYPE-NOT-EXPORTED"
	TypeUnknownCrossModule  = "TYPE-UNKNOWN-CROSS-MODULE"
	TypeNoEquality          = "TYPE-NO-EQUALITY"
	TypeBadCoercion         = "TYPE-BAD-COERCION"
	TypeEmptyListUnresolved = "TYPE-EMPTY-LIST-UNRESOLVED"
	TypeIfBranchMismatch    = "TYPE-IF-BRANCH-MISMATCH"
	TypeFieldUnknown        = "TYPE-FIELD-UNKNOWN"
	TypeIndexNotList        = "TYPE-INDEX-NOT-LIST"

	// ------------------------------------------------------------------
	// Mutability checker (MUTABILITY-*)
	// ------------------------------------------------------------------
	MutabilityAssignImmutable = "MUTABILITY-ASSIGN-IMMUTABLE"
	MutabilityAlias           = "MUTABILITY-ALIAS"
	MutabilityCaptureEscape   = "MUTABILITY-CAPTURE-ESCAPE"
	MutabilityParamAlias      = "MUTABILITY-PARAM-ALIAS"

	// ------------------------------------------------------------------
	// Extern / mocking (EXTERN-*)
	// ------------------------------------------------------------------
	ExternArityMismatch = "EXTERN-ARITY-MISMATCH"
	ExternUnknownMember = "EXTERN-UNKNOWN-MEMBER"

	// ------------------------------------------------------------------
	// Codegen (CODEGEN-*) — reserved for unreachable-state diagnostics
	// ------------------------------------------------------------------
	CodegenUnreachable = "CODEGEN-UNREACHABLE"

	// ------------------------------------------------------------------
	// Runtime (RUNTIME-*) — surfaced from the external runner
	// ------------------------------------------------------------------
	RuntimeExternal = "RUNTIME-EXTERNAL"

	// ------------------------------------------------------------------
	// CLI / command surface (CLI-*)
	// ------------------------------------------------------------------
	CLIUnknownCommand     = "CLI-UNKNOWN-COMMAND"
	CLIMissingArgument    = "CLI-MISSING-ARGUMENT"
	CLIUnsupportedOption  = "CLI-UNSUPPORTED-OPTION"
	CLIImportCycle        = "CLI-IMPORT-CYCLE"
	CLIModuleNotFound     = "CLI-MODULE-NOT-FOUND"
	CLIProjectMarkerMiss  = "CLI-PROJECT-MARKER-MISSING"
	CLIWriteFailed        = "CLI-WRITE-FAILED"
)

// Info describes a code's phase, category, and a short human description.
// The registry is the catalogue referenced by §6.5 ("a small catalogue
// (≥50 codes) must be maintained").
type Info struct {
	Code        string
	Phase       Phase
	Category    string
	Description string
}

// Registry maps every code to its Info.
var Registry = map[string]Info{
	LexUnknownCodepoint:    {LexUnknownCodepoint, PhaseLex, "scan", "Unknown codepoint"},
	LexUnterminatedComment: {LexUnterminatedComment, PhaseLex, "comment", "Unterminated ⟦ ⟧ comment"},
	LexUnterminatedString:  {LexUnterminatedString, PhaseLex, "literal", "Unterminated string literal"},
	LexUnterminatedChar:    {LexUnterminatedChar, PhaseLex, "literal", "Unterminated char literal"},
	LexEmptyChar:           {LexEmptyChar, PhaseLex, "literal", "Empty char literal"},
	LexMultiCodepointChar:  {LexMultiCodepointChar, PhaseLex, "literal", "Char literal has more than one codepoint"},
	LexUnknownEscape:       {LexUnknownEscape, PhaseLex, "literal", "Unknown escape sequence"},
	LexInvalidNumber:       {LexInvalidNumber, PhaseLex, "literal", "Invalid numeric literal"},

	ParseUnexpectedToken:  {ParseUnexpectedToken, PhaseParse, "syntax", "Unexpected token"},
	ParseMissingColon:     {ParseMissingColon, PhaseParse, "syntax", "Missing ':' in annotation"},
	ParseMissingArrow:     {ParseMissingArrow, PhaseParse, "syntax", "Missing '→' in signature"},
	ParseMissingParen:     {ParseMissingParen, PhaseParse, "syntax", "Missing closing parenthesis"},
	ParseMissingBrace:     {ParseMissingBrace, PhaseParse, "syntax", "Missing closing brace"},
	ParseBadNamespaceSep:  {ParseBadNamespaceSep, PhaseParse, "syntax", "Namespace path must use '⋅'"},
	ParseBadImportKeyword: {ParseBadImportKeyword, PhaseParse, "syntax", "Import must use 'i', not 'let'/'import'"},
	ParseBadConstSyntax:   {ParseBadConstSyntax, PhaseParse, "syntax", "Const declaration missing type ascription"},
	ParseBadLetSyntax:     {ParseBadLetSyntax, PhaseParse, "syntax", "Let binding missing type ascription"},
	ParseBadMatchArm:      {ParseBadMatchArm, PhaseParse, "syntax", "Malformed match arm"},
	ParseBadFoldArity:     {ParseBadFoldArity, PhaseParse, "syntax", "Fold requires fn and init separated by '⊕'"},

	CanonSurfaceTab:            {CanonSurfaceTab, PhaseCanon, "surface", "Tab character in source"},
	CanonSurfaceCRLF:           {CanonSurfaceCRLF, PhaseCanon, "surface", "CR not followed by LF, or CR present"},
	CanonSurfaceTrailingWS:     {CanonSurfaceTrailingWS, PhaseCanon, "surface", "Trailing whitespace on a line"},
	CanonSurfaceBlankLines:     {CanonSurfaceBlankLines, PhaseCanon, "surface", "Two or more consecutive blank lines"},
	CanonSurfaceMissingNewline: {CanonSurfaceMissingNewline, PhaseCanon, "surface", "File does not end with a newline"},
	CanonSurfaceFilename:       {CanonSurfaceFilename, PhaseCanon, "surface", "Filename violates canonical naming rules"},
	CanonOrderCategory:         {CanonOrderCategory, PhaseCanon, "order", "Declaration category out of order"},
	CanonOrderExport:           {CanonOrderExport, PhaseCanon, "order", "Exported declarations must precede non-exported"},
	CanonOrderAlpha:            {CanonOrderAlpha, PhaseCanon, "order", "Declarations not in alphabetical order"},
	CanonDupDecl:               {CanonDupDecl, PhaseCanon, "uniqueness", "Duplicate declaration name in category"},
	CanonDupExternMember:       {CanonDupExternMember, PhaseCanon, "uniqueness", "Duplicate or unsorted extern member"},
	CanonDupImport:             {CanonDupImport, PhaseCanon, "uniqueness", "Duplicate import"},
	CanonFilekindMainMissing:   {CanonFilekindMainMissing, PhaseCanon, "filekind", "File must define main"},
	CanonFilekindMainForbidden: {CanonFilekindMainForbidden, PhaseCanon, "filekind", "Library file must not define main"},
	CanonTestPlacement:         {CanonTestPlacement, PhaseCanon, "placement", "Test declaration outside tests/ directory"},
	CanonRecursionAccumulator:  {CanonRecursionAccumulator, PhaseCanon, "recursion", "Recursive function has an accumulator parameter"},
	CanonRecursionCPS:          {CanonRecursionCPS, PhaseCanon, "recursion", "Recursive function returns a function type (CPS)"},
	CanonMatchBoolean:          {CanonMatchBoolean, PhaseCanon, "pattern", "Match scrutinee has boolean type"},
	CanonMatchDupWildcard:      {CanonMatchDupWildcard, PhaseCanon, "pattern", "Consecutive wildcards in list pattern"},
	CanonMatchDupArm:           {CanonMatchDupArm, PhaseCanon, "pattern", "Duplicate match arm"},
	CanonParamOrder:            {CanonParamOrder, PhaseCanon, "order", "Parameters not in alphabetical order"},
	CanonEffectOrder:           {CanonEffectOrder, PhaseCanon, "order", "Effect labels not in alphabetical order"},
	CanonLetUntyped:            {CanonLetUntyped, PhaseCanon, "annotation", "Let binding missing type annotation"},
	CanonConstUntyped:          {CanonConstUntyped, PhaseCanon, "annotation", "Const binding missing type annotation"},

	TypeUnboundName:         {TypeUnboundName, PhaseType, "scope", "Unbound name"},
	TypeArityMismatch:       {TypeArityMismatch, PhaseType, "application", "Argument count does not match parameter count"},
	TypeMismatch:            {TypeMismatch, PhaseType, "type", "Type mismatch"},
	TypeNonexhaustive:       {TypeNonexhaustive, PhaseType, "pattern", "Match is not exhaustive"},
	TypeNotExported:         {TypeNotExported, PhaseType, "module", "Accessed member is not exported"},
	TypeUnknownCrossModule:  {TypeUnknownCrossModule, PhaseType, "module", "Unknown cross-module type reference"},
	TypeNoEquality:          {TypeNoEquality, PhaseType, "operator", "No defined equality/order over operand types"},
	TypeBadCoercion:         {TypeBadCoercion, PhaseType, "operator", "Operand types are not eligible for implicit coercion"},
	TypeEmptyListUnresolved: {TypeEmptyListUnresolved, PhaseType, "inference", "Empty list's element type could not be resolved from context"},
	TypeIfBranchMismatch:    {TypeIfBranchMismatch, PhaseType, "control", "If branches have different types"},
	TypeFieldUnknown:        {TypeFieldUnknown, PhaseType, "record", "Unknown field on record type"},
	TypeIndexNotList:        {TypeIndexNotList, PhaseType, "operator", "Index access on a non-list type"},

	MutabilityAssignImmutable: {MutabilityAssignImmutable, PhaseMutability, "binding", "Mutation of an immutable binding"},
	MutabilityAlias:           {MutabilityAlias, PhaseMutability, "alias", "Two mut names alias the same object"},
	MutabilityCaptureEscape:   {MutabilityCaptureEscape, PhaseMutability, "capture", "mut binding captured by an escaping closure"},
	MutabilityParamAlias:      {MutabilityParamAlias, PhaseMutability, "alias", "mut argument passed to a non-mut parameter"},

	ExternArityMismatch: {ExternArityMismatch, PhaseExtern, "mock", "with_mock replacement arity does not match the extern"},
	ExternUnknownMember: {ExternUnknownMember, PhaseExtern, "mock", "Extern member referenced by mock key is unknown"},

	CodegenUnreachable: {CodegenUnreachable, PhaseCodegen, "invariant", "Reached a state the type/canon checkers should have ruled out"},

	RuntimeExternal: {RuntimeExternal, PhaseRuntime, "external", "Failure reported by the external runner"},

	CLIUnknownCommand:    {CLIUnknownCommand, PhaseCLI, "usage", "Unknown command"},
	CLIMissingArgument:   {CLIMissingArgument, PhaseCLI, "usage", "Missing required argument"},
	CLIUnsupportedOption: {CLIUnsupportedOption, PhaseCLI, "usage", "Unsupported option"},
	CLIImportCycle:       {CLIImportCycle, PhaseCLI, "module", "Import cycle detected"},
	CLIModuleNotFound:    {CLIModuleNotFound, PhaseCLI, "module", "Module could not be resolved"},
	CLIProjectMarkerMiss: {CLIProjectMarkerMiss, PhaseCLI, "project", "No project marker found; using ad-hoc layout"},
	CLIWriteFailed:       {CLIWriteFailed, PhaseCLI, "output", "Could not write a generated output file"},
}

// Lookup returns the Info for a code, if known.
func Lookup(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}
