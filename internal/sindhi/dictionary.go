package sindhi

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	dictionarySeparator = "|"
	dictionaryComment   = "#"
)

// Lexicon resolves whole words to a preferred Roman rendering.
type Lexicon interface {
	Lookup(word string) (string, bool)
}

// Dictionary is a static word override table. Keys are kept in NFC form.
type Dictionary map[string]string

// Entry is a single word/correction pair.
type Entry struct {
	Word       string
	Correction string
}

// NewDictionary builds a Dictionary from entries. Later entries win.
func NewDictionary(entries ...Entry) Dictionary {
	d := make(Dictionary, len(entries))
	for _, e := range entries {
		d[norm.NFC.String(e.Word)] = e.Correction
	}
	return d
}

// Lookup implements Lexicon.
func (d Dictionary) Lookup(word string) (string, bool) {
	if len(d) == 0 {
		return "", false
	}
	if v, ok := d[word]; ok {
		return v, true
	}
	v, ok := d[norm.NFC.String(word)]
	return v, ok
}

// Entries returns the dictionary sorted by word.
func (d Dictionary) Entries() []Entry {
	out := make([]Entry, 0, len(d))
	for w, c := range d {
		out = append(out, Entry{Word: w, Correction: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// ParseDictionary reads the flat `word|correction` format.
// Blank lines and lines starting with # are ignored.
func ParseDictionary(r io.Reader) (Dictionary, error) {
	d := make(Dictionary)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if line == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		if raw == "" || strings.HasPrefix(raw, dictionaryComment) {
			continue
		}

		word, correction, ok := strings.Cut(raw, dictionarySeparator)
		if !ok {
			return nil, fmt.Errorf("dictionary line %d: missing %q separator", line, dictionarySeparator)
		}
		word = strings.TrimSpace(word)
		correction = strings.TrimSpace(correction)
		if word == "" || correction == "" {
			return nil, fmt.Errorf("dictionary line %d: empty word or correction", line)
		}
		d[norm.NFC.String(word)] = correction
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return d, nil
}

// LoadDictionary parses the dictionary file at path.
func LoadDictionary(path string) (Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	d, err := ParseDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteDictionary renders entries in the flat file format, sorted by word.
// Entries with an empty word or correction, or containing a separator or
// newline in the word, are skipped and counted in the returned value.
func WriteDictionary(w io.Writer, entries []Entry, header ...string) (int, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Word < sorted[j].Word })

	bw := bufio.NewWriter(w)
	for _, h := range header {
		if _, err := fmt.Fprintf(bw, "%s %s\n", dictionaryComment, h); err != nil {
			return 0, err
		}
	}

	skipped := 0
	for _, e := range sorted {
		word := strings.TrimSpace(e.Word)
		correction := strings.TrimSpace(e.Correction)
		if word == "" || correction == "" ||
			strings.ContainsAny(word, dictionarySeparator+"\r\n") ||
			strings.ContainsAny(correction, "\r\n") ||
			strings.HasPrefix(word, dictionaryComment) {
			skipped++
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s%s%s\n", word, dictionarySeparator, correction); err != nil {
			return skipped, err
		}
	}
	return skipped, bw.Flush()
}
