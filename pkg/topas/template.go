// Package topas renders MLC layouts as TOPAS parameter files.
package topas

import (
	"strconv"
	"strings"
)

// Field is one parameter line: <Type>:<Key><Sep>= <Value>[ <Unit>]<Trailing>
type Field struct {
	// Type is the TOPAS parameter type prefix: s, d, sv, uv
	Type string
	Key  string
	// Sep is the whitespace between key and '=' as the simulator files
	// have always carried it, tabs included
	Sep      string
	Value    string
	Unit     string
	Trailing string
}

// Block is a group of fields, optionally headed by a banner line
type Block struct {
	Banner string
	Fields []Field
}

// Render writes the block. Blocks with fields end with a blank line; a
// banner is followed by one.
func (b Block) Render(sb *strings.Builder) {
	if b.Banner != "" {
		sb.WriteString(b.Banner)
		sb.WriteString("\n\n")
	}
	for _, f := range b.Fields {
		f.Render(sb)
	}
	if len(b.Fields) > 0 {
		sb.WriteString("\n")
	}
}

// Render writes the field line
func (f Field) Render(sb *strings.Builder) {
	sb.WriteString(f.Type)
	sb.WriteString(":")
	sb.WriteString(f.Key)
	sb.WriteString(f.Sep)
	sb.WriteString("= ")
	sb.WriteString(f.Value)
	if f.Unit != "" {
		sb.WriteString(" ")
		sb.WriteString(f.Unit)
	}
	sb.WriteString(f.Trailing)
	sb.WriteString("\n")
}

// Quote renders a string parameter value
func Quote(s string) string {
	return `"` + s + `"`
}

// Number renders a numeric value as the shortest decimal text that parses
// back to v. Negative zero is written as 0.
func Number(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Render concatenates blocks into one document
func Render(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		b.Render(&sb)
	}
	return sb.String()
}
