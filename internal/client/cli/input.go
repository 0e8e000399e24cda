package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams around golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText prints prompt and reads one trimmed line. A final line
// without a newline is accepted.
func GetSimpleText(reader *bufio.Reader, prompt string, out io.Writer) (string, error) {
	fmt.Fprintf(out, "%s: ", prompt)
	text, err := reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || text == "") {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// GetPassword reads a secret without echo when stdin is a terminal, and as a
// plain line otherwise (piped input). The caller should wipe the result.
func GetPassword(reader *bufio.Reader, prompt string, out io.Writer) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		text, err := GetSimpleText(reader, prompt, out)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	}

	fmt.Fprintf(out, "%s: ", prompt)
	pw, err := readPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline reads lines until an empty line or EOF. EOF before any
// line is returned as an error.
func GetMultiline(reader *bufio.Reader, prompt string, out io.Writer) (string, error) {
	fmt.Fprintf(out, "%s (finish with an empty line):\n", prompt)

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil && len(lines) == 0 {
				return "", err
			}
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetConfirm asks a yes/no question. Anything but y or yes is a no.
func GetConfirm(reader *bufio.Reader, prompt string, out io.Writer) (bool, error) {
	answer, err := GetSimpleText(reader, prompt+" [y/N]", out)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
