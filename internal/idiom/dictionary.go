// Package idiom provides the curated English-Sinhala idiom dictionary and
// the matcher that locates idiom occurrences in free text.
package idiom

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Entry is a single idiom pair: the English phrase in its stored casing and
// the curated Sinhala equivalent.
type Entry struct {
	English string `json:"english"`
	Sinhala string `json:"sinhala"`
}

// Dictionary is an immutable mapping from English idiom phrases to Sinhala
// equivalents. It is loaded once at startup and safe for concurrent readers.
type Dictionary struct {
	// keyed by lowercased English phrase
	byEnglish map[string]Entry
	// reverse index keyed by Sinhala phrase
	bySinhala map[string]Entry

	// lowercased English phrases sorted by length (longest first), so the
	// matcher prefers the longest phrase at any position
	englishPhrases []string
	// Sinhala phrases sorted by length (longest first)
	sinhalaPhrases []string
}

// Load reads an idiom mapping file: a JSON object whose keys are English
// phrases and whose values are Sinhala translations. A missing file or a
// malformed document is a fatal configuration error; no partial dictionary
// is ever returned.
func Load(path string) (*Dictionary, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var mapping map[string]string
	if err := json.Unmarshal(contents, &mapping); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(%s) > %w", path, err)
	}

	return NewDictionary(mapping), nil
}

// NewDictionary builds a dictionary from an in-memory mapping. Keys that
// collapse to the same lowercased phrase are resolved deterministically:
// the lexicographically last original phrase wins.
func NewDictionary(mapping map[string]string) *Dictionary {
	keys := make([]string, 0, len(mapping))
	for english := range mapping {
		keys = append(keys, english)
	}
	sort.Strings(keys)

	dict := &Dictionary{
		byEnglish: make(map[string]Entry, len(mapping)),
		bySinhala: make(map[string]Entry, len(mapping)),
	}
	for _, english := range keys {
		entry := Entry{
			English: english,
			Sinhala: mapping[english],
		}
		dict.byEnglish[strings.ToLower(english)] = entry
		dict.bySinhala[entry.Sinhala] = entry
	}

	for lowered := range dict.byEnglish {
		dict.englishPhrases = append(dict.englishPhrases, lowered)
	}
	sortByLengthDesc(dict.englishPhrases)

	for sinhala := range dict.bySinhala {
		dict.sinhalaPhrases = append(dict.sinhalaPhrases, sinhala)
	}
	sortByLengthDesc(dict.sinhalaPhrases)

	return dict
}

// Lookup returns the Sinhala translation of an English phrase. Matching is
// case-insensitive.
func (dict *Dictionary) Lookup(phrase string) (string, bool) {
	entry, ok := dict.byEnglish[strings.ToLower(phrase)]
	if !ok {
		return "", false
	}
	return entry.Sinhala, true
}

// LookupSinhala returns the English phrase for a Sinhala idiom.
func (dict *Dictionary) LookupSinhala(phrase string) (string, bool) {
	entry, ok := dict.bySinhala[phrase]
	if !ok {
		return "", false
	}
	return entry.English, true
}

// Entries returns every idiom pair, ordered by English phrase.
func (dict *Dictionary) Entries() []Entry {
	entries := make([]Entry, 0, len(dict.byEnglish))
	for _, entry := range dict.byEnglish {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].English < entries[j].English
	})
	return entries
}

// Len returns the number of idiom pairs.
func (dict *Dictionary) Len() int {
	return len(dict.byEnglish)
}

// sortByLengthDesc orders phrases from longest to shortest, breaking ties
// lexicographically so detection order is deterministic.
func sortByLengthDesc(phrases []string) {
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
}
