package receipt

import (
	"golang.org/x/text/unicode/bidi"
)

// LRM is the left-to-right mark. The formatter embeds it around tokens that
// must keep their visual order (timestamps) for renderers that apply Unicode
// bidi; the ESC/POS writer strips it before encoding.
const LRM = "\u200e"

// Policy selects how RTL text is prepared for an LTR-only printer. The source
// hardware went through several firmwares and each wanted a different
// treatment, so the strategy is configuration, not code.
type Policy string

const (
	// PolicyNoReorder sends lines untouched, for firmware that applies its
	// own bidi reordering.
	PolicyNoReorder Policy = "none"
	// PolicyReverseHebrew reverses Hebrew-only lines for firmware that
	// renders left-to-right only. Any Arabic content disables the reversal:
	// naive reversal corrupts Arabic shaping, and losing legibility on a
	// mixed line beats corrupting it.
	PolicyReverseHebrew Policy = "reverse_hebrew"
	// PolicyBilingualDuplicate prints both the reversed and the raw form of
	// a Hebrew line, so one of the two reads correctly on any firmware.
	PolicyBilingualDuplicate Policy = "bilingual_duplicate"
)

func (p Policy) IsValid() bool {
	switch p {
	case PolicyNoReorder, PolicyReverseHebrew, PolicyBilingualDuplicate:
		return true
	default:
		return false
	}
}

// ParsePolicy maps a configured policy name to a Policy, defaulting to
// PolicyReverseHebrew for anything unknown.
func ParsePolicy(s string) Policy {
	p := Policy(s)
	if p.IsValid() {
		return p
	}
	return PolicyReverseHebrew
}

// Shaper prepares one logical line for the printer. Shape may expand a line
// into several physical lines.
type Shaper interface {
	Shape(line string) []string
}

// NewShaper returns the shaper implementing the given policy.
func NewShaper(p Policy) Shaper {
	switch p {
	case PolicyNoReorder:
		return noReorder{}
	case PolicyBilingualDuplicate:
		return bilingualDuplicate{}
	default:
		return reverseHebrew{}
	}
}

type noReorder struct{}

func (noReorder) Shape(line string) []string { return []string{line} }

type reverseHebrew struct{}

func (reverseHebrew) Shape(line string) []string {
	if ContainsArabic(line) || !ContainsHebrew(line) {
		return []string{line}
	}
	return []string{ReverseVisual(line)}
}

type bilingualDuplicate struct{}

func (bilingualDuplicate) Shape(line string) []string {
	if ContainsArabic(line) || !ContainsHebrew(line) {
		return []string{line}
	}
	reversed := ReverseVisual(line)
	if reversed == line {
		return []string{line}
	}
	return []string{reversed, line}
}

// ContainsHebrew reports whether the string has a strongly right-to-left,
// non-Arabic rune (bidi class R: Hebrew letters).
func ContainsHebrew(s string) bool {
	for _, r := range s {
		p, _ := bidi.LookupRune(r)
		if p.Class() == bidi.R {
			return true
		}
	}
	return false
}

// ContainsArabic reports whether the string has an Arabic letter or an
// Arabic-indic digit (bidi classes AL and AN).
func ContainsArabic(s string) bool {
	for _, r := range s {
		p, _ := bidi.LookupRune(r)
		if c := p.Class(); c == bidi.AL || c == bidi.AN {
			return true
		}
	}
	return false
}

// ReverseVisual reverses a line for an LTR-only printer while keeping
// left-to-right runs (Latin, European digits and the separators inside
// numbers like "10.50" or "02/01/2026") in their original order.
func ReverseVisual(s string) string {
	runes := []rune(s)
	n := len(runes)
	if n < 2 {
		return s
	}

	ltr := make([]bool, n)
	for i, r := range runes {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.L, bidi.EN:
			ltr[i] = true
		}
	}
	// Separators glue an LTR run together only when flanked by LTR runes.
	for i := 1; i < n-1; i++ {
		if !ltr[i] && ltr[i-1] && ltr[i+1] && isRunJoiner(runes[i]) {
			ltr[i] = true
		}
	}

	out := make([]rune, 0, n)
	end := n
	for end > 0 {
		start := end - 1
		if ltr[start] {
			for start > 0 && ltr[start-1] {
				start--
			}
			out = append(out, runes[start:end]...)
		} else {
			for start > 0 && !ltr[start-1] {
				start--
			}
			for i := end - 1; i >= start; i-- {
				out = append(out, runes[i])
			}
		}
		end = start
	}
	return string(out)
}

func isRunJoiner(r rune) bool {
	switch r {
	case '.', ',', ':', '/', '-':
		return true
	}
	return false
}
