package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownCommand is returned for input the player does not understand.
var ErrUnknownCommand = errors.New("unknown command")

type commandKind int

const (
	cmdNext commandKind = iota
	cmdPrev
	cmdFirst
	cmdLast
	cmdGoto
	cmdPlay
	cmdQuit
	cmdHelp
)

type command struct {
	kind commandKind
	// index is zero-based and only set for cmdGoto.
	index int
}

// maxCommandLength bounds one command line. The longest command is "goto" and a step number.
const maxCommandLength = 32

const helpText = "**Commands:** `enter`/`n` next, `p` previous, `f` first, `l` last, " +
	"`g N` go to step N, `a` autoplay, `q` quit"

// parseCommand accepts only the command alphabet: ASCII letters, digits, '?' and blanks.
// Anything else, escape sequences included, is rejected before it is interpreted.
func parseCommand(input string) (command, error) {
	if len(input) > maxCommandLength {
		return command{}, fmt.Errorf("%w: %d bytes is too long for a command", ErrUnknownCommand, len(input))
	}
	for _, r := range input {
		if !isCommandRune(r) {
			return command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, input)
		}
	}

	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return command{kind: cmdNext}, nil
	}

	switch fields[0] {
	case "n", "next":
		return command{kind: cmdNext}, nil
	case "p", "prev", "b", "back":
		return command{kind: cmdPrev}, nil
	case "f", "first":
		return command{kind: cmdFirst}, nil
	case "l", "last":
		return command{kind: cmdLast}, nil
	case "a", "play":
		return command{kind: cmdPlay}, nil
	case "q", "quit", "exit":
		return command{kind: cmdQuit}, nil
	case "h", "help", "?":
		return command{kind: cmdHelp}, nil
	case "g", "goto":
		if len(fields) != 2 {
			return command{}, fmt.Errorf("%w: usage is g N", ErrUnknownCommand)
		}
		return parseGoto(fields[1])
	}
	if len(fields) == 1 {
		if _, err := strconv.Atoi(fields[0]); err == nil {
			return parseGoto(fields[0])
		}
	}
	return command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, input)
}

func parseGoto(s string) (command, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return command{}, fmt.Errorf("%w: %q is not a step number", ErrUnknownCommand, s)
	}
	return command{kind: cmdGoto, index: n - 1}, nil
}

func isCommandRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return r == ' ' || r == '\t' || r == '?'
}
