// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are the stable, human-readable identity of catalog entities
// (e.g., "attack-on-titan"). Because imported titles arrive in Cyrillic,
// Japanese romaji, or accented Latin, this package romanizes and sanitizes
// input deterministically: the same title always yields the same slug.
//
// From is pure and total. It never returns an error and never panics on
// untrusted input; unmappable characters are simply dropped.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxLength caps slug size so externally supplied titles cannot blow up
// index keys. Truncation happens after sanitization.
const maxLength = 100

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric, non-hyphen characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// cyrillic maps lowercase Cyrillic letters to their GOST-style Latin
// romanization. Applied before Unicode normalization so Russian titles
// ("Атака Титанов") produce usable slugs ("ataka-titanov") instead of
// collapsing to an empty string.
var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Lowercases the input.
// 2. Romanizes Cyrillic letters via the transliteration table.
// 3. Normalizes to NFD and strips combining marks (é → e).
// 4. Replaces non-alphanumeric runs with hyphens and collapses repeats.
// 5. Trims leading/trailing hyphens and truncates to 100 characters.
func From(s string) string {
	// 1. Lowercase first so the transliteration table stays small.
	result := strings.ToLower(s)

	// 2. Romanize Cyrillic.
	var romanized strings.Builder
	romanized.Grow(len(result))
	for _, r := range result {
		if latin, ok := cyrillic[r]; ok {
			romanized.WriteString(latin)
			continue
		}
		romanized.WriteRune(r)
	}
	result = romanized.String()

	// 3. Normalize and remove accents.
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ = transform.String(t, result)

	// 4. Replace whitespace and special chars with hyphens.
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	// 5. Clean up hyphenation.
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	// 6. Truncate. The string is pure ASCII at this point, so a byte cut
	// cannot split a rune.
	if len(result) > maxLength {
		result = strings.TrimRight(result[:maxLength], "-")
	}

	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
