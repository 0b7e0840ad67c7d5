package sindhi

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// separatorPattern matches runs of whitespace and the punctuation set that is
// copied through verbatim during romanization.
var separatorPattern = regexp.MustCompile(`[\s.,!?;:'"()\[\]{}\-–—…،؛؟۔«»]+`)

// Romanizer converts Sindhi script text to a Latin approximation.
// It is safe for concurrent use as long as its Lexicon is.
type Romanizer struct {
	lexicon Lexicon
}

// Romanization is the detailed result of a Romanize call.
type Romanization struct {
	Text           string
	Mode           Mode
	Replacements   int
	DictionaryHits int
	Words          int
}

// NewRomanizer returns a Romanizer backed by lex. A nil lex disables
// dictionary overrides.
func NewRomanizer(lex Lexicon) *Romanizer {
	return &Romanizer{lexicon: lex}
}

// Transliterate converts a single token. found reports a dictionary hit.
func (r *Romanizer) Transliterate(word string) (string, bool) {
	if r.lexicon != nil {
		if roman, ok := r.lexicon.Lookup(word); ok {
			return roman, true
		}
	}

	var b strings.Builder
	b.Grow(len(word))
	for i := 0; i < len(word); {
		c, size := utf8.DecodeRuneInString(word[i:])
		if roman, ok := romanFor(c); ok {
			b.WriteString(roman)
		} else {
			b.WriteString(word[i : i+size])
		}
		i += size
	}
	return b.String(), false
}

// Romanize applies hesudhar normalization and then transliterates every
// word, keeping whitespace and punctuation exactly as they were.
func (r *Romanizer) Romanize(text string, mode Mode) string {
	return r.RomanizeDetailed(text, mode).Text
}

// RomanizeDetailed is Romanize with replacement and dictionary hit counts.
func (r *Romanizer) RomanizeDetailed(text string, mode Mode) Romanization {
	normalized, replacements := NormalizeHesudhar(text, mode)
	res := Romanization{Mode: mode, Replacements: replacements}

	var b strings.Builder
	b.Grow(len(normalized))
	for _, tok := range Tokenize(normalized) {
		if tok.Separator {
			b.WriteString(tok.Text)
			continue
		}
		roman, found := r.Transliterate(tok.Text)
		if found {
			res.DictionaryHits++
		}
		res.Words++
		b.WriteString(roman)
	}
	res.Text = b.String()
	return res
}

// Token is a piece of tokenized text.
type Token struct {
	Text      string
	Separator bool
}

// Tokenize splits text into words and separator runs. Concatenating the Text
// of every token reproduces the input.
func Tokenize(text string) []Token {
	if text == "" {
		return nil
	}
	spans := separatorPattern.FindAllStringIndex(text, -1)
	tokens := make([]Token, 0, 2*len(spans)+1)

	prev := 0
	for _, span := range spans {
		if span[0] > prev {
			tokens = append(tokens, Token{Text: text[prev:span[0]]})
		}
		tokens = append(tokens, Token{Text: text[span[0]:span[1]], Separator: true})
		prev = span[1]
	}
	if prev < len(text) {
		tokens = append(tokens, Token{Text: text[prev:]})
	}
	return tokens
}
