package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lankanlp/sinhalate/internal/idiom"
	"github.com/lankanlp/sinhalate/internal/language"
)

func newIdiomsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "idioms",
		Short: "List every idiom in the dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			dict, err := loadDictionary(cfg)
			if err != nil {
				return err
			}

			for _, entry := range dict.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", entry.English, entry.Sinhala)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d idioms\n", dict.Len())
			return nil
		},
	}
}

// detectEntries runs the matcher appropriate for the script of text.
func detectEntries(dict *idiom.Dictionary, text string) []idiom.Entry {
	matcher := idiom.NewMatcher(dict)
	text = strings.TrimSpace(text)

	var matches []idiom.Match
	if language.Detect(text) == language.Sinhala {
		matches = matcher.DetectSinhala(text)
	} else {
		matches = matcher.Detect(text)
	}

	entries := make([]idiom.Entry, 0, len(matches))
	for _, match := range matches {
		entries = append(entries, match.Entry)
	}
	return entries
}
