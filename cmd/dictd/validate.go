package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/cache"
	"github.com/harriteja/dict-go-sdk/pkg/config"
	"github.com/harriteja/dict-go-sdk/pkg/store/sqlite"
	"github.com/harriteja/dict-go-sdk/pkg/validator"
)

var (
	validateDescriptor string
	validateZip        bool
	validateResolve    bool
	validateStrict     bool
	validateLanguage   string
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a JSON value from a file against the dictionary",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			log.Fatalf("Failed to validate: %v", err)
		}
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateDescriptor, "descriptor", "d", "", "descriptor term key")
	validateCmd.Flags().BoolVar(&validateZip, "zip", false, "validate each list element against the descriptor")
	validateCmd.Flags().BoolVar(&validateResolve, "resolve", false, "rewrite almost-correct values into canonical form")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail object keys that are not terms")
	validateCmd.Flags().StringVar(&validateLanguage, "language", "", "report message language")
}

func runValidate(path string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	st, err := sqlite.New(sqlite.Options{
		Path:          cfg.Store.Path,
		BusyTimeout:   cfg.Store.BusyTimeout,
		KeyField:      cfg.Fields.Key,
		CodeSection:   cfg.Fields.Code,
		EnumPredicate: cfg.Dictionary.EnumPredicate,
		Logger:        zap.NewNop(),
	})
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := cache.New(cache.Options{Store: st, Config: cfg})
	if err != nil {
		return err
	}

	v, err := validator.New(validator.Options{
		Value:       value,
		Descriptor:  validateDescriptor,
		Zip:         validateZip,
		Resolve:     validateResolve,
		ExpectTerms: validateStrict,
		UseCache:    true,
		Cache:       c,
		Config:      cfg,
	})
	if err != nil {
		return err
	}

	valid, err := v.Validate(context.Background(), validateLanguage)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(struct {
		Valid  bool        `json:"valid"`
		Value  interface{} `json:"value"`
		Report interface{} `json:"report"`
	}{valid, v.Value, v.Report}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !valid {
		os.Exit(1)
	}
	return nil
}
