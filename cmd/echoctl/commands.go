package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/config"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/database"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
)

// openDB loads and validates config, then connects without touching database.DB.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect: %w", err)
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := database.Migrate(db, &journal.Entry{}); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", cfg.DBDriver)
			return nil
		},
	}
}

func newInsightsCmd() *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "insights [user-id]",
		Short: "Print a user's analytics summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			if window <= 0 {
				window = cfg.ConsistencyWindowDays
			}

			entries, err := journal.NewGormRepository(db).QueryByOwner(cmd.Context(), userID, false)
			if err != nil {
				return fmt.Errorf("failed to query entries: %w", err)
			}

			summary := analytics.Summarize(entries, time.Now().In(cfg.Location()), window)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
	cmd.Flags().IntVarP(&window, "window", "w", 0, "consistency window in days (default from config)")
	return cmd
}

func newTaxonomyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "Print the emotion categories and their labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tax journal.Taxonomy
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, cat := range tax.Categories() {
				labels, err := tax.SpecificEmotionsFor(cat)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", cat, strings.Join(labels, ", "))
			}
			return w.Flush()
		},
	}
}
