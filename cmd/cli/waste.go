package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/service"
)

var (
	suggestSelling  float64
	suggestBuying   float64
	suggestDays     int
	suggestOffline  bool
	configSetFile   string
	configUpdatedBy string
)

var wasteCmd = &cobra.Command{
	Use:   "waste",
	Short: "Near-expiry markdown pricing",
}

var wasteSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a waste price for one product",
	Long: `Run the waste engine for one product. By default the stored configuration is used;
--offline uses the built-in default schedule and does not touch the store.`,
	Example: `  admin-cli waste suggest --selling 100 --buying 60 --days 5
  admin-cli waste suggest --selling 100 --buying 60 --days 5 --offline --output json`,
	Annotations: map[string]string{needsStore: unlessOffline},
	RunE:        runWasteSuggest,
}

var wasteGenerateCmd = &cobra.Command{
	Use:         "generate",
	Short:       "Regenerate pending waste prices from catalog expiry data",
	Annotations: map[string]string{needsStore: "true"},
	RunE:        runWasteGenerate,
}

var wasteConfigCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show or replace the stored waste configuration",
	Example:     `  admin-cli waste config --set ./waste.json --by ops@example.com`,
	Annotations: map[string]string{needsStore: "true"},
	RunE:        runWasteConfig,
}

func init() {
	rootCmd.AddCommand(wasteCmd)
	wasteCmd.AddCommand(wasteSuggestCmd, wasteGenerateCmd, wasteConfigCmd)

	wasteSuggestCmd.Flags().Float64Var(&suggestSelling, "selling", 0, "Selling price (required)")
	wasteSuggestCmd.Flags().Float64Var(&suggestBuying, "buying", 0, "Buying price (required)")
	wasteSuggestCmd.Flags().IntVar(&suggestDays, "days", 0, "Days until expiry")
	wasteSuggestCmd.Flags().BoolVar(&suggestOffline, "offline", false, "Use the default configuration instead of the stored one")
	_ = wasteSuggestCmd.MarkFlagRequired("selling")
	_ = wasteSuggestCmd.MarkFlagRequired("buying")

	wasteConfigCmd.Flags().StringVar(&configSetFile, "set", "", "JSON file with the new configuration")
	wasteConfigCmd.Flags().StringVar(&configUpdatedBy, "by", "cli", "User recorded as the author of the change")
}

func runWasteSuggest(cmd *cobra.Command, args []string) error {
	var (
		suggestion *pricing.WasteSuggestion
		err        error
	)
	if suggestOffline {
		suggestion, err = pricing.SuggestWastePrice(suggestSelling, suggestBuying, suggestDays, pricing.DefaultWasteConfiguration())
	} else {
		svc := service.NewWasteService(appStore, nil)
		suggestion, err = svc.Suggest(cmd.Context(), service.SuggestRequest{
			SellingPrice:    suggestSelling,
			BuyingPrice:     suggestBuying,
			DaysUntilExpiry: suggestDays,
		})
	}
	if err != nil {
		return err
	}

	if output == "json" {
		return printJSON(os.Stdout, suggestion)
	}
	tier := suggestion.TierName
	if !suggestion.TierMatched {
		tier = "(no tier, fallback discount)"
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Waste Price\t%.2f\n", suggestion.WastePrice)
	fmt.Fprintf(w, "Discount %%\t%.1f\n", suggestion.DiscountPercent)
	fmt.Fprintf(w, "Margin %%\t%.1f\n", suggestion.MarginPercent)
	fmt.Fprintf(w, "Tier\t%s\n", tier)
	fmt.Fprintf(w, "Margin Floor Applied\t%t\n", suggestion.MarginFloorApplied)
	return w.Flush()
}

func runWasteGenerate(cmd *cobra.Command, args []string) error {
	svc := service.NewWasteService(appStore, newCatalogClient())

	logger.Info().Msg("Generating waste prices")
	result, err := svc.Generate(cmd.Context())
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if output == "json" {
		return printJSON(os.Stdout, result)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Generated\t%d\n", result.Generated)
	fmt.Fprintf(w, "Skipped\t%d\n", result.Skipped)
	fmt.Fprintf(w, "Pending Replaced\t%d\n", result.DeletedPending)
	fmt.Fprintf(w, "Margin Floored\t%d\n", result.MarginFloored)
	fmt.Fprintf(w, "Duration\t%dms\n", result.DurationMs)
	return w.Flush()
}

func runWasteConfig(cmd *cobra.Command, args []string) error {
	svc := service.NewWasteService(appStore, nil)

	if configSetFile != "" {
		data, err := os.ReadFile(configSetFile)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		var next pricing.WasteConfiguration
		if err := json.Unmarshal(data, &next); err != nil {
			return fmt.Errorf("invalid configuration JSON: %w", err)
		}
		doc, err := svc.UpdateConfiguration(cmd.Context(), next, configUpdatedBy)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, doc)
	}

	doc, err := svc.GetConfiguration(cmd.Context())
	if err != nil {
		return err
	}
	if output == "json" {
		return printJSON(os.Stdout, doc)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Tier\tDays\tBase %%\tDaily %%\n")
	fmt.Fprintf(w, "----\t----\t------\t-------\n")
	for _, t := range doc.AggressionTiers {
		fmt.Fprintf(w, "%s\t%d-%d\t%.1f\t%.1f\n", t.Name, t.MinDays, t.MaxDays, t.BaseDiscount, t.DailyIncrement)
	}
	fmt.Fprintf(w, "\nMin Margin %%\t%.1f\n", doc.MinMarginPercent)
	fmt.Fprintf(w, "Max Discount %%\t%.1f\n", doc.MaxDiscountPercent)
	return w.Flush()
}
