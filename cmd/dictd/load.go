package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/config"
	"github.com/harriteja/dict-go-sdk/pkg/store/sqlite"
)

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load a dictionary seed file into the store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runLoad(args[0]); err != nil {
			log.Fatalf("Failed to load dictionary: %v", err)
		}
	},
}

func runLoad(path string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = zlog.Sync() }()

	st, err := sqlite.New(sqlite.Options{
		Path:          cfg.Store.Path,
		BusyTimeout:   cfg.Store.BusyTimeout,
		KeyField:      cfg.Fields.Key,
		CodeSection:   cfg.Fields.Code,
		EnumPredicate: cfg.Dictionary.EnumPredicate,
		Logger:        zlog,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	count, err := st.ImportDictionary(context.Background(), path)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d terms from %s\n", count, path)
	return nil
}
