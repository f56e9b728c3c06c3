package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/shelfcheck/catalog"
	"github.com/use-agent/shelfcheck/config"
)

// errVerificationFailed makes the process exit non-zero on a FAILURE verdict.
var errVerificationFailed = errors.New("verification failed")

func newVerifyCmd() *cobra.Command {
	var expectedPath string

	cmd := &cobra.Command{
		Use:   "verify <url>",
		Short: "Verify the product table rendered at url and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if expectedPath != "" {
				cfg.Verify.ExpectedPath = expectedPath
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			initLogger(cfg.Log, os.Stderr)

			v, err := newVerifier(cfg, nil)
			if err != nil {
				return err
			}

			res := v.Verify(context.Background(), args[0])
			if err := printJSON(cmd, res); err != nil {
				return err
			}
			if !res.Succeeded() {
				return fmt.Errorf("%w: %s", errVerificationFailed, res.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&expectedPath, "expected", "", "YAML/JSON file with the expected rows (overrides SHELFCHECK_EXPECTED_PATH)")
	return cmd
}

func newProductsCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Print the catalog file as served by GET /api/products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if path == "" {
				path = cfg.Catalog.Path
			}
			products, err := catalog.Read(path)
			if err != nil {
				return err
			}
			return printJSON(cmd, products)
		},
	}
	cmd.Flags().StringVar(&path, "catalog", "", "catalog file (overrides SHELFCHECK_CATALOG_PATH)")
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
