package sql

import "strings"

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenSelect TokenType = iota
	TokenDistinct
	TokenFrom
	TokenWhere
	TokenAnd
	TokenOr
	TokenNot
	TokenAs
	TokenOrder
	TokenBy
	TokenAsc
	TokenDesc
	TokenLimit
	TokenIn
	TokenIs
	TokenNull
	TokenBool

	// Operators
	TokenEqual        // =
	TokenNotEqual     // != or <>
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=
	TokenPlus         // +
	TokenMinus        // -
	TokenStar         // *
	TokenSlash        // /
	TokenPercent      // %

	// Literals and names
	TokenString
	TokenNumber
	TokenIdent

	// Delimiters
	TokenComma      // ,
	TokenLeftParen  // (
	TokenRightParen // )

	TokenEOF
	TokenError
)

var tokenNames = map[TokenType]string{
	TokenSelect:       "SELECT",
	TokenDistinct:     "DISTINCT",
	TokenFrom:         "FROM",
	TokenWhere:        "WHERE",
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenNot:          "NOT",
	TokenAs:           "AS",
	TokenOrder:        "ORDER",
	TokenBy:           "BY",
	TokenAsc:          "ASC",
	TokenDesc:         "DESC",
	TokenLimit:        "LIMIT",
	TokenIn:           "IN",
	TokenIs:           "IS",
	TokenNull:         "NULL",
	TokenBool:         "boolean",
	TokenEqual:        "=",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenPercent:      "%",
	TokenString:       "string",
	TokenNumber:       "number",
	TokenIdent:        "identifier",
	TokenComma:        ",",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenEOF:          "end of query",
	TokenError:        "invalid token",
}

// String returns a readable name for a TokenType
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

var keywords = map[string]TokenType{
	"SELECT":   TokenSelect,
	"DISTINCT": TokenDistinct,
	"FROM":     TokenFrom,
	"WHERE":    TokenWhere,
	"AND":      TokenAnd,
	"OR":       TokenOr,
	"NOT":      TokenNot,
	"AS":       TokenAs,
	"ORDER":    TokenOrder,
	"BY":       TokenBy,
	"ASC":      TokenAsc,
	"DESC":     TokenDesc,
	"LIMIT":    TokenLimit,
	"IN":       TokenIn,
	"IS":       TokenIs,
	"NULL":     TokenNull,
	"TRUE":     TokenBool,
	"FALSE":    TokenBool,
}

// identifierType determines if an identifier is a keyword
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[strings.ToUpper(ident)]; ok {
		return tokType
	}
	return TokenIdent
}
