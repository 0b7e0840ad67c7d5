// Package sindhi implements the Sindhi text normalization engine.
//
// Two transforms are provided:
//
//   - Hesudhar (NormalizeHesudhar) rewrites ARABIC LETTER HEH (U+0647) to
//     HEH DOACHASHMEE (U+06BE), either everywhere or only between
//     Arabic-block characters.
//   - Romanization (Romanizer) maps Sindhi script to a Latin approximation,
//     preferring whole-word overrides from a Lexicon over the per-rune table.
//
// All functions are pure; the static tables are read-only and a Romanizer may
// be shared across goroutines.
package sindhi
