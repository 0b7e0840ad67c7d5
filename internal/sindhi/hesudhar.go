package sindhi

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// Heh is ARABIC LETTER HEH, the form hesudhar rewrites.
	Heh = '\u0647'
	// HehDoachashmee is ARABIC LETTER HEH DOACHASHMEE, the Sindhi aspiration mark.
	HehDoachashmee = '\u06BE'

	arabicBlockStart = '\u0600'
	arabicBlockEnd   = '\u06FF'
)

// Mode selects how aggressively hesudhar rewrites HEH.
type Mode string

const (
	// ModeSmart only rewrites HEH surrounded by Arabic-block characters.
	ModeSmart Mode = "smart"
	// ModeGlobal rewrites every HEH.
	ModeGlobal Mode = "global"
)

// ParseMode converts user input into a Mode. An empty string means ModeSmart.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeSmart):
		return ModeSmart, nil
	case string(ModeGlobal):
		return ModeGlobal, nil
	default:
		return "", fmt.Errorf("unknown hesudhar mode %q", s)
	}
}

func (m Mode) String() string {
	return string(m)
}

// NormalizeHesudhar replaces U+0647 with U+06BE and reports how many runes changed.
//
// In smart mode a HEH is only replaced when both neighbours are in the
// Arabic block (U+0600..U+06FF). The start and end of the string count as
// non-letters, so a HEH at either edge is never touched. Any mode other than
// ModeGlobal behaves like ModeSmart. Bytes that are not valid UTF-8 are
// copied through unchanged.
func NormalizeHesudhar(text string, mode Mode) (string, int) {
	if text == "" || !strings.ContainsRune(text, Heh) {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))
	count, last := 0, 0
	prev := utf8.RuneError
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == Heh && (mode == ModeGlobal || (isArabicBlock(prev) && nextIsArabic(text[i+size:]))) {
			b.WriteString(text[last:i])
			b.WriteRune(HehDoachashmee)
			last = i + size
			count++
		}
		prev = r
		i += size
	}
	if count == 0 {
		return text, 0
	}
	b.WriteString(text[last:])
	return b.String(), count
}

func nextIsArabic(rest string) bool {
	if rest == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return isArabicBlock(r)
}

// isArabicBlock reports whether r lies in U+0600..U+06FF, diacritics and
// Arabic-Indic digits included.
func isArabicBlock(r rune) bool {
	return r >= arabicBlockStart && r <= arabicBlockEnd
}
