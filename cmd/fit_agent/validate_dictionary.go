package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/fit-engine/internal/dictionary"
	"github.com/jonathan/fit-engine/internal/schemas"
	"github.com/spf13/cobra"
)

var validateDictionaryCmd = &cobra.Command{
	Use:   "validate-dictionary",
	Short: "Validate a skill dictionary file",
	Long:  "Checks a JSON or YAML skill dictionary: JSON files are validated against the dictionary schema, then every file is loaded to catch duplicate names, synonym collisions and empty phrases.",
	RunE:  runValidateDictionary,
}

var validateDictionaryPath string

func init() {
	validateDictionaryCmd.Flags().StringVarP(&validateDictionaryPath, "dictionary", "f", "", "Path to dictionary JSON or YAML file (required)")

	if err := validateDictionaryCmd.MarkFlagRequired("dictionary"); err != nil {
		panic(fmt.Sprintf("failed to mark dictionary flag as required: %v", err))
	}

	rootCmd.AddCommand(validateDictionaryCmd)
}

func runValidateDictionary(_ *cobra.Command, _ []string) error {
	if strings.EqualFold(filepath.Ext(validateDictionaryPath), ".json") {
		data, err := os.ReadFile(validateDictionaryPath)
		if err != nil {
			return fmt.Errorf("failed to read dictionary file %s: %w", validateDictionaryPath, err)
		}
		if err := schemas.ValidateBytes(schemas.Dictionary, data); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("dictionary does not match schema: %w", err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate dictionary against schema: %v\n", err)
		}
	}

	dict, err := dictionary.Load(validateDictionaryPath)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Dictionary is valid: %d skills (version %s)\n", dict.Len(), dict.Version())
	return nil
}
