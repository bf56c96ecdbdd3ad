/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print how many regions exist per class",
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

		distribution := db.GetClassDistribution()
		classes := make([]string, 0, len(distribution))
		for class := range distribution {
			classes = append(classes, class)
		}
		sort.Strings(classes)

		for _, class := range classes {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", class, distribution[class])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
