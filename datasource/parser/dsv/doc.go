// Package dsv reads and writes delimiter-separated values, such as CSV and TSV.
package dsv
