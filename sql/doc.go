// Package sql runs simple SELECT queries against the views of a catalog.
//
// Supported queries take the form
//
//	SELECT [DISTINCT] <* | expr [[AS] alias], ...> FROM <view>
//	[WHERE <predicate>] [ORDER BY <column> [ASC|DESC], ...] [LIMIT <n>]
//
// Expressions may use comparisons (= != <> < <= > >=), AND, OR, NOT,
// IN (...), IS [NOT] NULL, arithmetic (+ - * / %), parentheses, string,
// number, boolean and NULL literals, and the functions UPPER, LOWER, INITCAP,
// TRIM, LENGTH, CONCAT, COALESCE and ROUND. Keywords are case-insensitive.
// Identifiers containing other characters may be quoted with backticks.
package sql
