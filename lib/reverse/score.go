// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package reverse

import (
	"slices"
	"strings"

	"github.com/kcforge/kchash/lib/kchash"
)

// separators never add to the score when doubled.
const separators = "_-\\"

// followers lists, for each lower-case letter, the letters that follow
// it in English text from least to most likely. A later position is a
// more plausible digraph.
var followers = map[byte]string{
	'a': "ajqoxhzwfykvueigdpmbscrnlt",
	'b': "xqzkwgvfnhpmjcdtysburoaeil",
	'c': "xvgfwbpzmdqnscylkurtiehao",
	'd': "xqzktpcjfbvhwmgnydsluroaie",
	'e': "jzkqhywbvfgiuxoepmcatldnsr",
	'f': "vxzjkgpcdhwnmbsytrfauleoi",
	'g': "qvjzckpfdbwtmsygnhuolraie",
	'h': "qjzvkghcdpfbwsmnlturyaioe",
	'i': "yjwhqixukbfpgrmvzedlaotcsn",
	'j': "vbgwlpstkmcjyhdrnioeau",
	'k': "qxzjvgcdkpfmbtwrhuynolsaie",
	'l': "xqjzrhwbgkfnvcmpdstuloyaie",
	'm': "xqzjkgvhdwctrflnsymubpoiea",
	'n': "xqjzwhbmylvrkpufncsdaoitge",
	'o': "jqzhykxfeawbivodgctpsmlurn",
	'p': "xzqvjkgdcfwbmnypustliaorhe",
	'q': "fgmydhlnpvwoqsertiau",
	'r': "xzqjwfvkhlbgpndcrumytsoaie",
	's': "zjvdgrbfqwknylmpoacuhiest",
	't': "xqjkvdgzpbnfmwclstuyhraoei",
	'u': "wqujhyzxvkfogedaicpbmtlrsn",
	'v': "bhwmpzkcgtdnlsvryuoaie",
	'w': "qvjzgcwpufmytkbdlsrnhoeia",
	'x': "zkvxgnqrdmwbflshucyopaeti",
	'y': "qyjvkxhuzfwbgidoeratcnmspl",
	'z': "jfqgvrnkthmscpwbdulyzoiae",
}

// Score rates how much candidate looks like a real asset name. Higher
// is more plausible. Traits that look right add to the score; only
// traits that are certainly wrong, such as unbalanced brackets,
// subtract. The total is divided by the length so candidates of
// different lengths compare fairly.
func Score(candidate string) float64 {
	length := len(candidate)
	if length == 0 {
		return 0
	}

	// Skip a directory code such as "S00lI".
	start := 0
	if length >= 5 && isLetter(candidate[0]) && isDigit(candidate[1]) && isDigit(candidate[2]) &&
		isLetter(candidate[3]) && isLetter(candidate[4]) {
		start = 5
	}

	var score float64
	var last byte
	var digitsSeen int
	var squareOpen, curlyOpen bool
	wasDigit := true
	penalty := float64(length)
	for i := start; i < length; i++ {
		current := kchash.FoldCase(candidate[i])
		var next byte
		if i+1 < length {
			next = kchash.FoldCase(candidate[i+1])
		}
		digit := isDigit(current)
		strayDigit := false
		if digit {
			digitsSeen++
			strayDigit = digitsSeen > 1 && !wasDigit
		}

		switch {
		case isLetter(current):
			if i > 0 {
				if options, ok := followers[kchash.FoldCase(candidate[i-1])]; ok {
					score += float64(strings.IndexByte(options, current)+1) / float64(len(options))
				}
			}
		case strayDigit:
			// A second number after letters is unlike a real name.
		case strings.IndexByte(separators, current) >= 0 && (last == current || next == current):
			// Doubled separator.
		case current == '\\' && (i <= start+2 || i >= length-3):
			// Path separator too close to either end.
		case current == '[':
			if squareOpen {
				score -= penalty
			} else {
				score += .5
				squareOpen = true
			}
		case current == ']':
			if squareOpen {
				score += .5
				squareOpen = false
			} else {
				score -= penalty
			}
		case current == '{':
			if curlyOpen {
				score -= penalty
			} else {
				score += .5
				curlyOpen = true
			}
		case current == '}':
			if curlyOpen {
				score += .5
				curlyOpen = false
			} else {
				score -= penalty
			}
		default:
			score += .5
		}

		wasDigit = digit
		last = current
	}

	if squareOpen {
		score -= penalty
	}
	if curlyOpen {
		score -= penalty
	}
	return score / float64(length)
}

// Rank sorts candidates by descending [Score] in place. Equal scores
// keep their relative order.
func Rank(candidates []string) {
	scores := make(map[string]float64, len(candidates))
	for _, candidate := range candidates {
		scores[candidate] = Score(candidate)
	}
	slices.SortStableFunc(candidates, func(a, b string) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		}
		return 0
	})
}

func isLetter(value byte) bool {
	return (value >= 'a' && value <= 'z') || (value >= 'A' && value <= 'Z')
}

func isDigit(value byte) bool {
	return value >= '0' && value <= '9'
}
