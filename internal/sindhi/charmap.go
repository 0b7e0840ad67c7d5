package sindhi

// romanTable maps single Sindhi/Arabic script runes to a Latin approximation.
// Runes without an entry (ASCII digits, Latin letters, Arabic-Indic digits,
// punctuation) are copied through unchanged.
var romanTable = map[rune]string{
	// alef family
	'ا': "a",
	'آ': "aa",
	'أ': "a",
	'إ': "i",

	// labials and dentals
	'ب': "b",
	'ٻ': "bb",
	'ڀ': "bh",
	'پ': "p",
	'ت': "t",
	'ٿ': "th",
	'ٽ': "tt",
	'ٺ': "tth",
	'ث': "s",

	// palatals
	'ج': "j",
	'ڄ': "jj",
	'ڃ': "ny",
	'چ': "ch",
	'ڇ': "chh",

	'ح': "h",
	'خ': "kh",

	// dentals and retroflex
	'د': "d",
	'ڌ': "dh",
	'ڏ': "dd",
	'ڊ': "d",
	'ڍ': "ddh",
	'ذ': "z",
	'ر': "r",
	'ڙ': "rr",
	'ز': "z",
	'ژ': "zh",

	// sibilants and emphatics
	'س': "s",
	'ش': "sh",
	'ص': "s",
	'ض': "z",
	'ط': "t",
	'ظ': "z",
	'ع': "a",
	'غ': "gh",

	// velars
	'ف': "f",
	'ڦ': "ph",
	'ق': "q",
	'ڪ': "k",
	'ك': "k",
	'ک': "kh",
	'گ': "g",
	'ڳ': "gg",
	'ڱ': "ng",

	'ل': "l",
	'م': "m",
	'ن': "n",
	'ڻ': "n",
	'و': "w",
	'ؤ': "o",
	'ه': "h",
	'ھ': "h",
	'ة': "t",
	'ء': "",
	'ئ': "",
	'ي': "y",
	'ی': "y",
	'ې': "e",
	'ے': "e",

	// Sindhi ligatures
	'۽': "e",
	'۾': "me",

	// harakat
	'َ': "a",
	'ِ': "i",
	'ُ': "u",
	'ً': "an",
	'ٍ': "in",
	'ٌ': "un",
	'ّ': "",
	'ْ': "",
	'ٰ': "a",
	'ٖ': "",
	'ٗ': "",
	'ٔ': "",
	'ـ': "",
}

// romanFor returns the table value for r and whether an entry exists.
func romanFor(r rune) (string, bool) {
	s, ok := romanTable[r]
	return s, ok
}
