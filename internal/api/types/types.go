package types

// TextRequest is the body of the romanize and hesudhar endpoints. Text is a
// pointer so a missing field can be told apart from an empty one.
type TextRequest struct {
	Text *string `json:"text"`
	Mode string  `json:"mode"`
}

// TransliterateRequest is the body of the single-word endpoint
type TransliterateRequest struct {
	Word *string `json:"word"`
}

// RomanizeResponse represents the response of a romanize call
type RomanizeResponse struct {
	Original       string `json:"original"`
	Romanized      string `json:"romanized"`
	Mode           string `json:"mode"`
	Replacements   int    `json:"replacements"`
	DictionaryHits int    `json:"dictionary_hits"`
	Words          int    `json:"words"`
}

// HesudharResponse represents the response of a hesudhar call
type HesudharResponse struct {
	Original     string `json:"original"`
	Hesudhar     string `json:"hesudhar"`
	Replacements int    `json:"replacements"`
	Mode         string `json:"mode"`
}

// TransliterateResponse represents a single-word transliteration
type TransliterateResponse struct {
	Word  string `json:"word"`
	Roman string `json:"roman"`
	Found bool   `json:"found"`
}
