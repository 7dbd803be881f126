// Schema Generator
//
// Generates JSON Schema files from the admin API request and response types so the admin
// UI can validate payloads against the Go source of truth.
//
// Usage:
//
//	go run ./cmd/schema-gen [output-dir]
//
// Output (default directory ./schemas):
//
//	waste.json
//	index.json
//	segments.json
//	catalog.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/commerceintel/admin-service/internal/catalog"
	"github.com/commerceintel/admin-service/internal/handlers"
	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/service"
	"github.com/commerceintel/admin-service/internal/store"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func schemaGroups() []SchemaGroup {
	return []SchemaGroup{
		{
			Name: "waste",
			Types: []any{
				// Request types
				pricing.WasteConfiguration{},
				service.SuggestRequest{},
				handlers.ListWastePricesRequest{},
				handlers.UpdateStatusRequest{},
				// Response types
				store.WasteConfigDocument{},
				pricing.WasteSuggestion{},
				service.GenerateResult{},
				handlers.ListWastePricesResponse{},
			},
			Output: "waste.json",
		},
		{
			Name: "index",
			Types: []any{
				// Request types
				service.IndexValueInput{},
				handlers.ListIndexValuesRequest{},
				service.QuoteRequest{},
				handlers.SegmentPricesRequest{},
				// Response types
				handlers.ListIndexValuesResponse{},
				service.ImportSummary{},
				service.Quote{},
				service.SegmentPricing{},
				handlers.KVIBandResponse{},
			},
			Output: "index.json",
		},
		{
			Name: "segments",
			Types: []any{
				store.Segment{},
				store.Warehouse{},
			},
			Output: "segments.json",
		},
		{
			Name: "catalog",
			Types: []any{
				handlers.ProductsResponse{},
				catalog.Vendor{},
				catalog.ExpiryItem{},
				handlers.ErrorResponse{},
			},
			Output: "catalog.json",
		},
	}
}

func main() {
	outputDir := "schemas"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, group := range schemaGroups() {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{}

	definitions := make(map[string]any)
	for _, t := range group.Types {
		schema := reflector.Reflect(t)
		for name, def := range schema.Definitions {
			definitions[name] = def
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://schemas.commerce-admin.local/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
