package main

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lankanlp/sinhalate/internal/database"
	"github.com/lankanlp/sinhalate/internal/memory"
	"github.com/lankanlp/sinhalate/schemas"
)

func newMemoryCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "memory",
		Short: "Manage the curated translation memory",
	}

	var pairsFile string
	var dryRun bool
	importCommand := &cobra.Command{
		Use:   "import",
		Short: "Import curated sentence pairs from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if !cfg.Database.Enabled {
				return fmt.Errorf("database is not enabled in the configuration")
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			importer := memory.NewImporter(memory.NewDBRepository(db), cmd.OutOrStdout())
			if _, err := importer.ImportFile(cmd.Context(), pairsFile, memory.ImportOptions{DryRun: dryRun}); err != nil {
				return fmt.Errorf("importer.ImportFile(%s) > %w", pairsFile, err)
			}
			return nil
		},
	}
	importCommand.Flags().StringVar(&pairsFile, "file", "", "YAML file of english/sinhala sentence pairs")
	importCommand.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be imported without writing")
	_ = importCommand.MarkFlagRequired("file")

	migrateCommand := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the translation memory schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if !cfg.Database.Enabled {
				return fmt.Errorf("database is not enabled in the configuration")
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			names, err := fs.Glob(schemas.Migrations, "migrations/*.sql")
			if err != nil {
				return fmt.Errorf("fs.Glob(migrations) > %w", err)
			}
			sort.Strings(names)
			for _, name := range names {
				contents, err := schemas.Migrations.ReadFile(name)
				if err != nil {
					return fmt.Errorf("read migration %s > %w", name, err)
				}
				if _, err := db.ExecContext(cmd.Context(), string(contents)); err != nil {
					return fmt.Errorf("apply migration %s > %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}

	rootCommand.AddCommand(importCommand, migrateCommand)
	return rootCommand
}
