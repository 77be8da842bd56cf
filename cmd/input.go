package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

var stdin = bufio.NewReader(os.Stdin)

// readLine prompts for a single echoed line, trimming the newline.
// Used for non-secret fields only; passwords go through ReadPassword.
func readLine(prompt string) string {
	fmt.Print(prompt)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// readLineDefault prompts with a default shown in brackets; an empty
// answer keeps the default
func readLineDefault(prompt, def string) string {
	if def == "" {
		return readLine(prompt + ": ")
	}
	answer := readLine(fmt.Sprintf("%s [%s]: ", prompt, def))
	if answer == "" {
		return def
	}
	return answer
}

// confirm asks a yes/no question, defaulting to no
func confirm(prompt string) bool {
	answer := readLine(prompt + " [y/N]: ")
	return strings.ToLower(answer) == "y" || strings.ToLower(answer) == "yes"
}
