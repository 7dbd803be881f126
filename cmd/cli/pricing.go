package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/commerceintel/admin-service/internal/pricing"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <price>...",
	Short: "Apply the retail rounding rule to one or more prices",
	Example: `  admin-cli normalize 10.2 10.5 12`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNormalize,
}

var kviCmd = &cobra.Command{
	Use:   "kvi",
	Short: "KVI band helpers",
}

var kviBandCmd = &cobra.Command{
	Use:     "band <label>...",
	Short:   "Map numeric KVI labels to their band",
	Example: `  admin-cli kvi band 97 91.5 40`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runKVIBand,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(kviCmd)
	kviCmd.AddCommand(kviBandCmd)
}

type normalizedPrice struct {
	Input      float64 `json:"input"`
	Normalized float64 `json:"normalized"`
}

func runNormalize(cmd *cobra.Command, args []string) error {
	results := make([]normalizedPrice, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", arg, err)
		}
		n, err := pricing.NormalizePrice(v)
		if err != nil {
			return err
		}
		results = append(results, normalizedPrice{Input: v, Normalized: n})
	}

	if output == "json" {
		return printJSON(os.Stdout, results)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Input\tNormalized\n")
	fmt.Fprintf(w, "-----\t----------\n")
	for _, r := range results {
		fmt.Fprintf(w, "%.2f\t%.2f\n", r.Input, r.Normalized)
	}
	return w.Flush()
}

type kviBand struct {
	Label float64         `json:"label"`
	Type  pricing.KVIType `json:"kviType"`
}

func runKVIBand(cmd *cobra.Command, args []string) error {
	bands := make([]kviBand, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid label %q: %w", arg, err)
		}
		bands = append(bands, kviBand{Label: v, Type: pricing.KVIBand(v)})
	}

	if output == "json" {
		return printJSON(os.Stdout, bands)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Label\tBand\n")
	fmt.Fprintf(w, "-----\t----\n")
	for _, b := range bands {
		fmt.Fprintf(w, "%g\t%s\n", b.Label, b.Type)
	}
	return w.Flush()
}
