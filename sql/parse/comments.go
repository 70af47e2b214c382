package parse

import (
	"bufio"
	"io"
	"strings"
)

// removeComments strips `-- ` line comments and `/* */` block comments
// from the query, leaving quoted strings untouched.
func removeComments(s string) string {
	r := bufio.NewReader(strings.NewReader(s))
	var result []rune
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		switch ru {
		case '\'', '"':
			result = append(result, ru)
			result = append(result, readString(r, ru)...)
		case '-':
			peeked, err := r.Peek(2)
			if err == nil && peeked[0] == '-' && peeked[1] == ' ' {
				discardUntilEOL(r)
			} else {
				result = append(result, ru)
			}
		case '/':
			peeked, err := r.Peek(1)
			if err == nil && peeked[0] == '*' {
				_, _, _ = r.ReadRune()
				discardMultilineComment(r)
			} else {
				result = append(result, ru)
			}
		default:
			result = append(result, ru)
		}
	}
	return string(result)
}

func discardUntilEOL(r *bufio.Reader) {
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF || ru == '\n' {
			return
		}
	}
}

func discardMultilineComment(r *bufio.Reader) {
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			return
		}
		if ru != '*' {
			continue
		}

		peeked, err := r.Peek(1)
		if err == nil && peeked[0] == '/' {
			_, _, _ = r.ReadRune()
			return
		}
	}
}

// readString reads the rest of a string literal, closing quote included.
func readString(r *bufio.Reader, quote rune) []rune {
	var result []rune
	var escaped bool
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			return result
		}
		if err != nil {
			continue
		}

		result = append(result, ru)
		if ru == quote && !escaped {
			return result
		}
		escaped = !escaped && ru == '\\'
	}
}
