// Package visitors provides the two read-only projections of a query
// tree: a pretty-printer emitting source text and a summary builder
// emitting a structural description for the presentation layer. Neither
// projection mutates the tree.
package visitors

import "strings"

// TokenKind discriminates the instruction stream the text projection
// emits: literal text plus three layout markers.
type TokenKind int

const (
	// TokenText is a literal run of characters.
	TokenText TokenKind = iota
	// TokenNewline ends the current line.
	TokenNewline
	// TokenIndent deepens subsequent lines by one level.
	TokenIndent
	// TokenOutdent shallows subsequent lines by one level.
	TokenOutdent
)

// Token is one instruction of the layout stream.
type Token struct {
	Kind TokenKind
	Text string
}

// TextWriter accumulates a flat stream of literal tokens and layout
// markers. Content generation only appends; Render interprets the stream
// in a single pass. Nested pipelines need no special casing; they just
// append more tokens to the same stream.
type TextWriter struct {
	tokens []Token
}

// Write appends a literal text token.
func (w *TextWriter) Write(text string) {
	w.tokens = append(w.tokens, Token{Kind: TokenText, Text: text})
}

// Newline ends the current line.
func (w *TextWriter) Newline() {
	w.tokens = append(w.tokens, Token{Kind: TokenNewline})
}

// Indent deepens subsequent lines by one level.
func (w *TextWriter) Indent() {
	w.tokens = append(w.tokens, Token{Kind: TokenIndent})
}

// Outdent shallows subsequent lines by one level.
func (w *TextWriter) Outdent() {
	w.tokens = append(w.tokens, Token{Kind: TokenOutdent})
}

// Tokens returns the accumulated stream.
func (w *TextWriter) Tokens() []Token {
	return w.tokens
}

// Render interprets the stream, tracking indent depth and emitting
// leading whitespace only at the start of a line.
func (w *TextWriter) Render(indent string) string {
	var sb strings.Builder
	depth := 0
	lineStart := true
	for _, tok := range w.tokens {
		switch tok.Kind {
		case TokenText:
			if tok.Text == "" {
				continue
			}
			if lineStart {
				sb.WriteString(strings.Repeat(indent, depth))
				lineStart = false
			}
			sb.WriteString(tok.Text)
		case TokenNewline:
			sb.WriteString("\n")
			lineStart = true
		case TokenIndent:
			depth++
		case TokenOutdent:
			if depth > 0 {
				depth--
			}
		}
	}
	return sb.String()
}
