package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// readLine returns the next line without its line terminator. A final line
// without a newline is returned too; ok is false once input is exhausted.
func readLine(r *bufio.Reader) (string, bool) {
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// GetSimpleText prints a prompt to w and reads a single trimmed line of
// input from reader.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, ok := readLine(reader)
	if !ok {
		return "", io.EOF
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Only "y" and "yes" count as consent; EOF
// counts as no.
func Confirm(reader *bufio.Reader, question string, w io.Writer) bool {
	answer, err := GetSimpleText(reader, question+" [y/N]", w)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
