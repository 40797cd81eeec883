// Package normalize provides the text canonicalization shared by every
// answer validator. All functions are pure and idempotent.
package normalize

import (
	"strings"
)

// Options controls how Text canonicalizes its input.
type Options struct {
	// CaseSensitive keeps letter case. The default folds to lower case.
	CaseSensitive bool
	// Strict keeps internal whitespace untouched and only trims the ends.
	// The default collapses every whitespace run to a single space.
	Strict bool
}

// codePunctuation lists the characters whose neighbouring whitespace is
// insignificant when comparing code.
const codePunctuation = "{}();,"

// Text canonicalizes s according to opts.
func Text(s string, opts Options) string {
	if !opts.CaseSensitive {
		s = strings.ToLower(s)
	}
	if opts.Strict {
		return strings.TrimSpace(s)
	}
	return collapse(s)
}

// Default is Text with zero Options: lower-cased and whitespace-collapsed.
func Default(s string) string {
	return Text(s, Options{})
}

// Code canonicalizes source code for structural comparison. Case is kept,
// whitespace runs collapse to one space and whitespace touching any of
// { } ( ) ; , is dropped.
func Code(s string) string {
	collapsed := collapse(s)
	if collapsed == "" {
		return ""
	}

	runes := []rune(collapsed)
	var sb strings.Builder
	sb.Grow(len(collapsed))
	for i, r := range runes {
		if r == ' ' {
			prevPunct := i > 0 && isCodePunct(runes[i-1])
			nextPunct := i+1 < len(runes) && isCodePunct(runes[i+1])
			if prevPunct || nextPunct {
				continue
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Tokens splits the default normalization of s into words.
func Tokens(s string) []string {
	return strings.Fields(Default(s))
}

// Lines splits s on newlines and trims each line. Line i of the result is
// line i+1 of the input.
func Lines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isCodePunct(r rune) bool {
	return strings.ContainsRune(codePunctuation, r)
}
