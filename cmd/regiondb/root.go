/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/spf13/cobra"

	"github.com/lewtec/regiondb/annotation"
	"github.com/lewtec/regiondb/internal/classindex"
	"github.com/lewtec/regiondb/internal/repository"
	"github.com/lewtec/regiondb/internal/table"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "regiondb [config.yaml]",
	Short: "Persist image annotation regions in flat CSV tables",
	Long: strings.TrimSpace(`
Store user-drawn regions (circles, boxes, polygons) with their classes, comments
and tags, reconcile incoming annotation snapshots against persisted state, and
keep a class to image index in sync as a side effect.
    `),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}

		db, index, err := openDatabase(cmd.Context(), config)
		if err != nil {
			return err
		}
		defer index.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = config.Addr
		}

		app := &annotation.AnnotatorApp{DB: db, Config: config}
		log.Printf("serve: data dir: %s", config.DataDir)
		log.Printf("serve: class index: %s", config.ClassIndexDB)
		log.Printf("serve: starting server on: %s", addr)
		return http.ListenAndServe(addr, app.GetHTTPHandler())
	},
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config file from the positional argument or the
// --config flag, in that order.
func loadConfig(cmd *cobra.Command, args []string) (*annotation.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		configFile = args[0]
	}

	config, err := annotation.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("while loading config %s: %w", configFile, err)
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		spew.Dump(config)
	}
	return config, nil
}

// openDatabase opens the class index and the four annotation tables,
// bootstrapping files on first start, and creates the configured labels.
func openDatabase(ctx context.Context, config *annotation.Config) (*repository.Database, *classindex.SQLite, error) {
	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("while creating data dir %s: %w", config.DataDir, err)
	}
	if err := os.MkdirAll(filepath.Dir(config.ClassIndexDB), 0755); err != nil {
		return nil, nil, fmt.Errorf("while creating class index dir: %w", err)
	}

	index, err := classindex.Open(config.ClassIndexDB)
	if err != nil {
		return nil, nil, err
	}

	store := table.NewStore(osfs.New(config.DataDir))
	db, err := repository.Open(store, repository.DefaultFiles(), index, nil)
	if err != nil {
		index.Close()
		return nil, nil, err
	}

	if err := db.CreateCategories(ctx, config.Labels); err != nil {
		index.Close()
		return nil, nil, fmt.Errorf("while creating configured labels: %w", err)
	}
	return db, index, nil
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "config.yaml", "Config file for the annotation database")
	rootCmd.PersistentFlags().Bool("debug", false, "Dump the effective configuration at startup")
	rootCmd.Flags().StringP("addr", "a", "", "Address to bind the webserver (overrides the config)")
}
