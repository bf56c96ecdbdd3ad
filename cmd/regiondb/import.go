/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lewtec/regiondb/internal/domain"
)

// importCmd applies annotation snapshots without going through the webserver.
var importCmd = &cobra.Command{
	Use:   "import snapshot.json...",
	Short: "Apply annotation snapshots from JSON files",
	Long: `Reads annotation snapshots, one image per file, and reconciles each
against the persisted tables exactly as the /api/data endpoint would.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		db, index, err := openDatabase(cmd.Context(), config)
		if err != nil {
			return err
		}
		defer index.Close()

		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("while reading %s: %w", path, err)
			}
			var data domain.ImageData
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("while parsing %s: %w", path, err)
			}
			if !db.HandleNewData(cmd.Context(), data) {
				return fmt.Errorf("snapshot %s was not applied", path)
			}
			log.Printf("import: applied %s: image %s with %d regions", path, data.Src, len(data.Regions))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
