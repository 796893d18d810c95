package main

import (
	"bufio"
	"io"
	"unicode"
)

const counterBufSize = 64 * 1024

// countReader consumes r to end-of-stream in a single pass and tallies
// lines, words, bytes, characters, and the longest line.
//
// Semantics match conventional word-count tools:
//   - Lines counts newline bytes, so a final unterminated line does not
//     add a line (it still contributes to every other metric).
//   - A word is a maximal run of non-whitespace characters, with
//     whitespace per unicode.IsSpace.
//   - Chars counts decoded Unicode scalar values. Invalid UTF-8 is
//     decoded leniently: bufio.Reader.ReadRune yields the replacement
//     character with size 1 for each offending byte, so every byte of a
//     malformed sequence counts as one character (and as word content,
//     since it is not whitespace). Content never causes an error.
//
// Only a reader I/O failure produces an error, and the counts gathered up
// to that point are returned with it.
func countReader(r io.Reader) (Counts, error) {
	br := bufio.NewReaderSize(r, counterBufSize)

	var c Counts
	var lineLen int64
	inWord := false

	for {
		ru, size, err := br.ReadRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return c, err
		}
		c.Bytes += int64(size)
		c.Chars++

		if ru == '\n' {
			c.Lines++
			if lineLen > c.MaxLineLength {
				c.MaxLineLength = lineLen
			}
			lineLen = 0
		} else {
			lineLen++
		}

		if unicode.IsSpace(ru) {
			inWord = false
		} else if !inWord {
			inWord = true
			c.Words++
		}
	}

	// A trailing line without a newline still competes for longest line.
	if lineLen > c.MaxLineLength {
		c.MaxLineLength = lineLen
	}
	return c, nil
}
