/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty every annotation table and persist the empty state",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("clearing the database is irreversible, confirm with --yes")
		}

		config, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		db, index, err := openDatabase(cmd.Context(), config)
		if err != nil {
			return err
		}
		defer index.Close()

		if err := db.ClearDatabase(); err != nil {
			return fmt.Errorf("while clearing the database: %w", err)
		}
		log.Printf("clear: all tables emptied")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolP("yes", "y", false, "Confirm that the tables should be wiped")
	rootCmd.AddCommand(clearCmd)
}
