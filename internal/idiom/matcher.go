package idiom

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match is a located occurrence of an idiom inside an input string. Start
// and End are byte offsets into the input text as given; Start < End, and
// no two matches reported for the same input overlap.
type Match struct {
	Entry
	Start int
	End   int
}

// Matcher scans text for occurrences of dictionary phrases. Matching is
// plain substring containment, case-insensitive on the English side. Word
// boundaries are deliberately not enforced.
type Matcher struct {
	dict *Dictionary
}

// NewMatcher creates a matcher over the given dictionary.
func NewMatcher(dict *Dictionary) *Matcher {
	return &Matcher{dict: dict}
}

// Detect finds English idiom occurrences in text, ordered by start
// position. Longer phrases are matched first, and any later match that
// overlaps an already-claimed span is discarded, so the result never
// double-counts a region of the input. Empty text yields an empty result.
func (m *Matcher) Detect(text string) []Match {
	var matches []Match
	var claimed []span
	for _, phrase := range m.dict.englishPhrases {
		entry := m.dict.byEnglish[phrase]
		matches, claimed = appendOccurrences(matches, claimed, text, phrase, entry, indexFold)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

// DetectSinhala finds Sinhala idiom occurrences via the reverse index.
// Sinhala has no case distinction, so matching is exact substring search
// with the same longest-first overlap policy as Detect.
func (m *Matcher) DetectSinhala(text string) []Match {
	var matches []Match
	var claimed []span
	for _, phrase := range m.dict.sinhalaPhrases {
		entry := m.dict.bySinhala[phrase]
		matches, claimed = appendOccurrences(matches, claimed, text, phrase, entry, indexExact)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

type span struct {
	start int
	end   int
}

func (s span) overlaps(other span) bool {
	return s.start < other.end && s.end > other.start
}

// locateFunc finds the first occurrence of phrase in text at or after
// from and returns its byte span, or (-1, -1) when there is none.
type locateFunc func(text, phrase string, from int) (int, int)

// appendOccurrences records every non-overlapping occurrence of phrase in
// text, claiming each matched span so shorter or later phrases cannot reuse
// it.
func appendOccurrences(matches []Match, claimed []span, text, phrase string, entry Entry, locate locateFunc) ([]Match, []span) {
	if phrase == "" {
		return matches, claimed
	}

	from := 0
	for {
		start, end := locate(text, phrase, from)
		if start < 0 {
			break
		}

		candidate := span{start: start, end: end}
		from = start + 1

		taken := false
		for _, used := range claimed {
			if candidate.overlaps(used) {
				taken = true
				break
			}
		}
		if taken {
			continue
		}

		matches = append(matches, Match{
			Entry: entry,
			Start: candidate.start,
			End:   candidate.end,
		})
		claimed = append(claimed, candidate)
	}
	return matches, claimed
}

// indexFold locates phrase case-insensitively, comparing rune by rune so
// the returned span indexes text itself. Lowercasing the whole input first
// would shift offsets whenever a character's lowercase form has a
// different byte length (the Kelvin sign, dotted capital I).
func indexFold(text, phrase string, from int) (int, int) {
	for start := from; start < len(text); {
		if end, ok := foldPrefix(text, phrase, start); ok {
			return start, end
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	return -1, -1
}

// foldPrefix reports whether phrase occurs at byte offset start of text
// under per-rune lowercase folding, and the offset just past the match.
// Dictionary phrases are stored lowercased, so only the text side folds.
func foldPrefix(text, phrase string, start int) (int, bool) {
	offset := start
	for _, phraseRune := range phrase {
		if offset >= len(text) {
			return 0, false
		}
		textRune, size := utf8.DecodeRuneInString(text[offset:])
		if unicode.ToLower(textRune) != phraseRune {
			return 0, false
		}
		offset += size
	}
	return offset, true
}

func indexExact(text, phrase string, from int) (int, int) {
	index := strings.Index(text[from:], phrase)
	if index < 0 {
		return -1, -1
	}
	return from + index, from + index + len(phrase)
}
