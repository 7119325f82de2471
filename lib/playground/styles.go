// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package playground

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Styles colours session output. The zero value prints plain text.
type Styles struct {
	enabled bool

	Prompt    lipgloss.Style
	Heading   lipgloss.Style
	Candidate lipgloss.Style
	Best      lipgloss.Style
	Summary   lipgloss.Style
	Hash      lipgloss.Style
	Error     lipgloss.Style
}

// ColorStyles returns the terminal palette. Colours are ANSI 256-color
// codes for broad terminal compatibility.
func ColorStyles() Styles {
	return Styles{
		enabled:   true,
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		Heading:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
		Candidate: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Best:      lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		Summary:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Hash:      lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// StylesFor returns [ColorStyles] when output is a terminal and plain
// styles otherwise.
func StylesFor(output io.Writer) Styles {
	file, ok := output.(*os.File)
	if ok && term.IsTerminal(int(file.Fd())) {
		return ColorStyles()
	}
	return Styles{}
}

func (s Styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}
