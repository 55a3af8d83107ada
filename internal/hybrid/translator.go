// Package hybrid implements the idiom-aware translation strategy: neural
// machine translation combined with dictionary-forced idiom substitution.
package hybrid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lankanlp/sinhalate/internal/idiom"
	"github.com/lankanlp/sinhalate/internal/language"
	"github.com/lankanlp/sinhalate/internal/memory"
	"github.com/lankanlp/sinhalate/internal/translation"
)

// Method identifies how a translation was produced.
type Method string

const (
	// MethodNLLB is a raw model translation with no idiom involvement.
	MethodNLLB Method = "nllb"
	// MethodHybrid combines the model output with dictionary idiom
	// substitutions.
	MethodHybrid Method = "hybrid"
	// MethodDatasetMatch is an exact hit in the curated translation memory.
	MethodDatasetMatch Method = "dataset_match"
)

// ErrInvalidInput indicates empty or otherwise unusable request text. The
// translation backend is never called for such input.
var ErrInvalidInput = errors.New("invalid input text")

// Result is the outcome of a translation request.
type Result struct {
	Source      string
	Translation string
	SourceLang  language.Language
	TargetLang  language.Language
	Idioms      []idiom.Entry
	Accuracy    float64
	Method      Method
}

// Translator orchestrates idiom detection, the translation memory, and the
// neural backend. It is stateless per request and safe for concurrent use;
// the dictionary is read-only and no lock is held across backend calls.
type Translator struct {
	dict    *idiom.Dictionary
	matcher *idiom.Matcher
	backend translation.Translator
	memory  memory.Repository
	logger  *slog.Logger
}

// NewTranslator creates a hybrid translator. memoryRepo may be nil, in
// which case the translation memory is skipped.
func NewTranslator(dict *idiom.Dictionary, backend translation.Translator, memoryRepo memory.Repository, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		dict:    dict,
		matcher: idiom.NewMatcher(dict),
		backend: backend,
		memory:  memoryRepo,
		logger:  logger,
	}
}

// Entries returns every dictionary idiom pair for read-only enumeration.
func (t *Translator) Entries() []idiom.Entry {
	return t.dict.Entries()
}

// DetectIdioms finds dictionary idioms in text, choosing the English or
// Sinhala detector by script. Empty text yields an empty result, never an
// error.
func (t *Translator) DetectIdioms(text string) []idiom.Entry {
	text = strings.TrimSpace(text)

	var matches []idiom.Match
	if language.Detect(text) == language.Sinhala {
		matches = t.matcher.DetectSinhala(text)
	} else {
		matches = t.matcher.Detect(text)
	}

	entries := make([]idiom.Entry, 0, len(matches))
	for _, match := range matches {
		entries = append(entries, match.Entry)
	}
	return entries
}

// Translate translates text in the given direction. Idiom substitution
// applies to the English-to-Sinhala direction only; the reverse direction
// is a pure pass-through to the backend. A backend failure yields a single
// error, never a partial result.
func (t *Translator) Translate(ctx context.Context, text string, direction language.Direction) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, fmt.Errorf("%w: empty text", ErrInvalidInput)
	}

	switch direction {
	case language.EnglishToSinhala:
		return t.translateEnglishToSinhala(ctx, text)
	case language.SinhalaToEnglish:
		return t.translateSinhalaToEnglish(ctx, text)
	default:
		return Result{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, direction)
	}
}

func (t *Translator) translateSinhalaToEnglish(ctx context.Context, text string) (Result, error) {
	translated, err := t.backend.Translate(ctx, text, "si", "en")
	if err != nil {
		return Result{}, fmt.Errorf("backend.Translate(si-en) > %w", err)
	}

	return Result{
		Source:      text,
		Translation: translated,
		SourceLang:  language.Sinhala,
		TargetLang:  language.English,
		Idioms:      []idiom.Entry{},
		Accuracy:    1.0,
		Method:      MethodNLLB,
	}, nil
}

func (t *Translator) translateEnglishToSinhala(ctx context.Context, text string) (Result, error) {
	matches := t.matcher.Detect(text)
	entries := make([]idiom.Entry, 0, len(matches))
	for _, match := range matches {
		entries = append(entries, match.Entry)
	}

	if pair := t.lookupMemory(ctx, text); pair != nil {
		return Result{
			Source:      text,
			Translation: pair.SinhalaText,
			SourceLang:  language.English,
			TargetLang:  language.Sinhala,
			Idioms:      entries,
			Accuracy:    1.0,
			Method:      MethodDatasetMatch,
		}, nil
	}

	if len(matches) == 0 {
		translated, err := t.backend.Translate(ctx, text, "en", "si")
		if err != nil {
			return Result{}, fmt.Errorf("backend.Translate(en-si) > %w", err)
		}
		return Result{
			Source:      text,
			Translation: translated,
			SourceLang:  language.English,
			TargetLang:  language.Sinhala,
			Idioms:      []idiom.Entry{},
			Accuracy:    1.0,
			Method:      MethodNLLB,
		}, nil
	}

	modified, placeholders := maskIdioms(text, matches)
	translated, err := t.backend.Translate(ctx, modified, "en", "si")
	if err != nil {
		return Result{}, fmt.Errorf("backend.Translate(en-si) > %w", err)
	}

	for _, placeholder := range placeholders {
		if strings.Contains(translated, placeholder.token) {
			translated = strings.ReplaceAll(translated, placeholder.token, placeholder.sinhala)
		} else {
			translated = injectIdiom(translated, placeholder.sinhala)
		}
	}

	accuracy := idiomAccuracy(entries, translated)
	if accuracy < 1.0 {
		t.logger.Warn("idiom substitution incomplete",
			"accuracy", accuracy,
			"idioms", len(entries))
	}

	return Result{
		Source:      text,
		Translation: translated,
		SourceLang:  language.English,
		TargetLang:  language.Sinhala,
		Idioms:      entries,
		Accuracy:    accuracy,
		Method:      MethodHybrid,
	}, nil
}

// lookupMemory consults the translation memory when configured. Lookup
// failures degrade to the model path instead of failing the request.
func (t *Translator) lookupMemory(ctx context.Context, text string) *memory.SentencePair {
	if t.memory == nil {
		return nil
	}

	pair, err := t.memory.FindBySource(ctx, text)
	if err != nil {
		t.logger.Warn("translation memory lookup failed", "error", err)
		return nil
	}
	return pair
}

type placeholder struct {
	token   string
	sinhala string
}

// maskIdioms replaces each matched idiom span in the source with a unique
// placeholder token the model passes through untranslated, so its position
// in the output marks where the curated Sinhala phrase belongs. Spans are
// replaced from the end of the text so earlier offsets stay valid.
func maskIdioms(text string, matches []idiom.Match) (string, []placeholder) {
	placeholders := make([]placeholder, len(matches))
	for i, match := range matches {
		placeholders[i] = placeholder{
			token:   fmt.Sprintf("__IDIOM_%d__", i),
			sinhala: match.Sinhala,
		}
	}

	order := make([]int, len(matches))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return matches[order[i]].Start > matches[order[j]].Start
	})

	masked := text
	for _, i := range order {
		match := matches[i]
		if match.Start < 0 || match.End > len(masked) {
			continue
		}
		masked = masked[:match.Start] + placeholders[i].token + masked[match.End:]
	}
	return masked, placeholders
}

// injectIdiom falls back to positional injection when the model dropped the
// placeholder: the phrase is inserted near the start of the translation,
// which is where Sinhala sentence structure usually places an adverbial
// idiom.
func injectIdiom(translated, sinhala string) string {
	if strings.Contains(translated, sinhala) {
		return translated
	}

	words := strings.Fields(translated)
	if len(words) <= 3 {
		return strings.TrimSpace(sinhala + " " + translated)
	}

	position := len(words) / 2
	if position > 3 {
		position = 3
	}
	words = append(words[:position], append([]string{sinhala}, words[position:]...)...)
	return strings.Join(words, " ")
}

// idiomAccuracy is the fraction of detected idioms whose Sinhala
// translation appears verbatim in the final output. By convention it is
// 1.0 when no idioms were detected.
func idiomAccuracy(entries []idiom.Entry, translated string) float64 {
	if len(entries) == 0 {
		return 1.0
	}

	found := 0
	for _, entry := range entries {
		if strings.Contains(translated, entry.Sinhala) {
			found++
		}
	}
	return float64(found) / float64(len(entries))
}
