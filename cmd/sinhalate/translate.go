package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lankanlp/sinhalate/internal/language"
)

func newTranslateCommand() *cobra.Command {
	var direction string

	command := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate a sentence between English and Sinhala",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			translator, closeBackend, err := newTranslator(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeBackend()
			}()

			resolved := language.ResolveDirection(language.Direction(direction), text)
			result, err := translator.Translate(cmd.Context(), text, resolved)
			if err != nil {
				return fmt.Errorf("translator.Translate() > %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s (%s)\n", result.SourceLang, result.TargetLang, result.Method)
			fmt.Fprintln(out, result.Translation)

			if len(result.Idioms) > 0 {
				highlight := color.New(color.FgYellow, color.Bold)
				fmt.Fprintln(out)
				for _, entry := range result.Idioms {
					fmt.Fprintf(out, "  %s = %s\n", highlight.Sprint(entry.English), entry.Sinhala)
				}
				fmt.Fprintf(out, "idiom accuracy: %.2f\n", result.Accuracy)
			}
			return nil
		},
	}
	command.Flags().StringVar(&direction, "direction", string(language.DirectionAuto),
		"Translation direction: en-si, si-en or auto")
	return command
}

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text]",
		Short: "Detect dictionary idioms in text without translating",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Detection needs no backend, only the dictionary.
			dict, err := loadDictionary(cfg)
			if err != nil {
				return err
			}

			entries := detectEntries(dict, text)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no idioms detected")
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", entry.English, entry.Sinhala)
			}
			return nil
		},
	}
}
