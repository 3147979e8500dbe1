package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/uslanozan/asset-smith/models"
)

// SharedDTOs, HTTP API'nin dışarıya açtığı gövdelerdir.
type SharedDTOs struct {
	AssetCreate   models.AssetCreate   `json:"asset_create"`
	AssetUpdate   models.AssetUpdate   `json:"asset_update"`
	AssetOut      models.Asset         `json:"asset_out"`
	AgentRequest  models.AgentRequest  `json:"agent_request"`
	AgentResponse models.AgentResponse `json:"agent_response"`
	Error         models.ErrorResponse `json:"error"`
}

var schemaOutDir string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Write the JSON Schema of the API bodies",
	// config ve logger gerekmiyor
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := writeSchema(schemaOutDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema written:", path)
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaOutDir, "out", "o", "schemas", "output directory")
	rootCmd.AddCommand(schemaCmd)
}

func writeSchema(outputDir string) (string, error) {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	schema := r.Reflect(&SharedDTOs{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return "", err
	}
	outputFile := filepath.Join(outputDir, "asset_schema.json")
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return "", err
	}
	return filepath.Abs(outputFile)
}
