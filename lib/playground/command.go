// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package playground

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kcforge/kchash/lib/kchash"
)

// ErrParse is wrapped by every error [ParseLine] and [ParseBatch]
// return.
var ErrParse = errors.New("malformed command")

// Kind identifies what a [Command] does.
type Kind int

const (
	// Literal hashes the text as is.
	Literal Kind = iota

	// Path derives a file identifier from an asset path and hashes it.
	Path

	// Search reverses a template.
	Search

	// Repeat reverses a template at every wildcard run width.
	Repeat

	// Suffix searches for names starting with the template text.
	Suffix
)

// String returns the name used in batch files and JSON output.
func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Path:
		return "path"
	case Search:
		return "search"
	case Repeat:
		return "repeat"
	case Suffix:
		return "suffix"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Command is one parsed playground line.
type Command struct {
	Kind Kind

	// Text is the literal, the path, or the template.
	Text string

	// Target is the hash to reverse. Unused by Literal and Path.
	Target kchash.Hash

	// Debug enables tracing and candidate verification.
	Debug bool

	// DisableRepeat forces a full search.
	DisableRepeat bool
}

// ParseLine parses one line of the command grammar.
func ParseLine(line string) (Command, error) {
	switch {
	case strings.HasPrefix(line, "$"), strings.HasPrefix(line, "!"):
		command := Command{Kind: Search, Debug: line[0] == '!'}
		body := line[1:]
		if strings.HasSuffix(body, "!") {
			body = body[:len(body)-1]
			command.DisableRepeat = true
		}
		return parseSearch(command, body)

	case strings.HasPrefix(line, "@"):
		return parseSearch(Command{Kind: Repeat}, line[1:])

	case strings.HasPrefix(line, `\`), strings.HasPrefix(line, "/"):
		return Command{Kind: Path, Text: line}, nil

	default:
		return Command{Kind: Literal, Text: line}, nil
	}
}

// parseSearch fills in the target and template from "HASH,TEMPLATE".
func parseSearch(command Command, body string) (Command, error) {
	hashText, template, found := strings.Cut(body, ",")
	if !found {
		return Command{}, fmt.Errorf("%w: expected HASH,TEMPLATE in %q", ErrParse, body)
	}
	target, err := kchash.Parse(hashText)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	command.Target = target
	command.Text = template
	return command, nil
}
