package memory

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ImportResult tracks counts for a memory import run.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
}

// Importer reads curated sentence pairs from YAML and writes them to the
// translation memory.
type Importer struct {
	repo   Repository
	writer io.Writer
}

// NewImporter creates a new Importer. Progress output goes to writer.
func NewImporter(repo Repository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
	}
}

// pairFile is the YAML import format: a list of english/sinhala pairs.
type pairFile struct {
	Pairs []struct {
		English string `yaml:"english"`
		Sinhala string `yaml:"sinhala"`
	} `yaml:"pairs"`
}

// ImportFile upserts every pair from a YAML file. Pairs with an empty side
// are skipped, not errors.
func (imp *Importer) ImportFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var file pairFile
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}

	var result ImportResult
	for _, pair := range file.Pairs {
		if pair.English == "" || pair.Sinhala == "" || Normalize(pair.English) == "" {
			result.Skipped++
			continue
		}

		if opts.DryRun {
			fmt.Fprintf(imp.writer, "would import: %q\n", pair.English)
			result.Imported++
			continue
		}

		if err := imp.repo.Upsert(ctx, &SentencePair{
			SourceText:  pair.English,
			SinhalaText: pair.Sinhala,
		}); err != nil {
			return nil, fmt.Errorf("repo.Upsert(%q) > %w", pair.English, err)
		}
		result.Imported++
	}

	fmt.Fprintf(imp.writer, "imported %d pairs, skipped %d\n", result.Imported, result.Skipped)
	return &result, nil
}
