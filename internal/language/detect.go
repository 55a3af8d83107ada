// Package language detects whether input text is English, Sinhala, or
// mixed, and resolves the translation direction for "auto" requests.
package language

import "unicode"

// Language is a detected input language.
type Language string

const (
	English Language = "en"
	Sinhala Language = "si"
	Mixed   Language = "mixed"
	Unknown Language = "unknown"
)

// Direction is the source-to-target language pair of a translation request.
type Direction string

const (
	DirectionAuto    Direction = "auto"
	EnglishToSinhala Direction = "en-si"
	SinhalaToEnglish Direction = "si-en"
)

// sinhalaRange covers the Sinhala Unicode block U+0D80 to U+0DFF.
var sinhalaRange = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0D80, Hi: 0x0DFF, Stride: 1}},
}

// Detect classifies text by script: Sinhala characters, Latin letters, a
// mixture of both, or neither.
func Detect(text string) Language {
	hasSinhala := false
	hasLatin := false
	for _, r := range text {
		switch {
		case unicode.Is(sinhalaRange, r):
			hasSinhala = true
		case r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
			hasLatin = true
		}
		if hasSinhala && hasLatin {
			return Mixed
		}
	}

	switch {
	case hasSinhala:
		return Sinhala
	case hasLatin:
		return English
	default:
		return Unknown
	}
}

// ResolveDirection turns an "auto" (or empty) direction into a concrete one
// based on the detected input language: Sinhala text translates to English,
// anything else to Sinhala.
func ResolveDirection(direction Direction, text string) Direction {
	if direction != DirectionAuto && direction != "" {
		return direction
	}
	if Detect(text) == Sinhala {
		return SinhalaToEnglish
	}
	return EnglishToSinhala
}

// Supported reports whether the detected language can be translated by the
// English-Sinhala system.
func Supported(lang Language) bool {
	return lang == English || lang == Sinhala || lang == Mixed
}
