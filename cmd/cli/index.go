package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/commerceintel/admin-service/internal/service"
	"github.com/commerceintel/admin-service/internal/storage"
	"github.com/commerceintel/admin-service/internal/store"
)

var (
	quotePrice    float64
	quoteIndex    float64
	quoteLocation string
	quoteSegment  string
	quoteKVIType  string
	quoteComp     string
	quoteChannel  string

	importBy string

	pricesCompetitor string
	pricesChannel    string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Competitor index pricing",
}

var indexQuoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price one national competitor price",
	Long: `Apply the location multiplier and index to a competitor price. With --segment the
pricing location and index are looked up in the store for whatever is not given on the
command line.`,
	Example: `  admin-cli index quote --price 100 --index 105 --location ankara
  admin-cli index quote --price 50 --segment seg-1 --kvi SKVI --competitor migros`,
	Annotations: map[string]string{needsStore: whenSegment},
	RunE:        runIndexQuote,
}

var indexImportCmd = &cobra.Command{
	Use:         "import <file>",
	Short:       "Import index values from an XLSX or CSV sheet",
	Example:     `  admin-cli index import ./index-values.xlsx --by ops@example.com`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{needsStore: "true"},
	RunE:        runIndexImport,
}

var indexPricesCmd = &cobra.Command{
	Use:         "segment-prices <segmentId>",
	Short:       "Compute sell prices for every SKU of a segment",
	Example:     `  admin-cli index segment-prices seg-1 --competitor migros`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{needsStore: "true"},
	RunE:        runIndexPrices,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexQuoteCmd, indexImportCmd, indexPricesCmd)

	indexQuoteCmd.Flags().Float64Var(&quotePrice, "price", 0, "National competitor price (required)")
	indexQuoteCmd.Flags().Float64Var(&quoteIndex, "index", 0, "Index value in percent")
	indexQuoteCmd.Flags().StringVar(&quoteLocation, "location", "", "Pricing location")
	indexQuoteCmd.Flags().StringVar(&quoteSegment, "segment", "", "Segment ID used to resolve location and index")
	indexQuoteCmd.Flags().StringVar(&quoteKVIType, "kvi", "", "KVI type for the index lookup")
	indexQuoteCmd.Flags().StringVar(&quoteComp, "competitor", "", "Competitor ID for the index lookup")
	indexQuoteCmd.Flags().StringVar(&quoteChannel, "channel", "", "Sales channel for the index lookup")
	_ = indexQuoteCmd.MarkFlagRequired("price")

	indexImportCmd.Flags().StringVar(&importBy, "by", "cli", "User recorded as the author of the imported values")

	indexPricesCmd.Flags().StringVar(&pricesCompetitor, "competitor", "", "Competitor ID (required)")
	indexPricesCmd.Flags().StringVar(&pricesChannel, "channel", "", "Sales channel; defaults to the segment's only channel")
	_ = indexPricesCmd.MarkFlagRequired("competitor")
}

func runIndexQuote(cmd *cobra.Command, args []string) error {
	req := service.QuoteRequest{
		CompetitorPrice: quotePrice,
		Location:        quoteLocation,
		SegmentID:       quoteSegment,
		KVIType:         quoteKVIType,
		CompetitorID:    quoteComp,
		SalesChannel:    quoteChannel,
	}
	if cmd.Flags().Changed("index") {
		idx := quoteIndex
		req.Index = &idx
	}

	st := appStore
	if st == nil {
		st = store.NewMemoryStore()
	}
	svc := service.NewIndexService(st, nil)
	quote, err := svc.Quote(cmd.Context(), req)
	if err != nil {
		return err
	}

	if output == "json" {
		return printJSON(os.Stdout, quote)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Status\t%s\n", quote.Status)
	if quote.Priced() {
		fmt.Fprintf(w, "Sell Price\t%.2f\n", quote.Price)
	} else {
		fmt.Fprintf(w, "Message\t%s\n", quote.Message)
	}
	fmt.Fprintf(w, "Location\t%s\n", quote.Location)
	fmt.Fprintf(w, "Multiplier\t%.2f\n", quote.Multiplier)
	if quote.Index != nil {
		fmt.Fprintf(w, "Index\t%g\n", *quote.Index)
	}
	return w.Flush()
}

func runIndexImport(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	logger.Info().Str("file", filePath).Msg("Reading file")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	svc := service.NewIndexService(appStore, nil)
	if dir := cfg.Uploads.ArchiveDir; dir != "" {
		archive, err := storage.NewLocalArchive(dir)
		if err != nil {
			return err
		}
		svc.WithArchive(archive)
	}
	summary, err := svc.Import(cmd.Context(), content, filepath.Base(filePath), importBy)
	if err != nil {
		return err
	}

	if output == "json" {
		return printJSON(os.Stdout, summary)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Format\t%s\n", summary.Format)
	fmt.Fprintf(w, "Total Rows\t%d\n", summary.TotalRows)
	fmt.Fprintf(w, "Imported\t%d\n", summary.Imported)
	fmt.Fprintf(w, "Rejected\t%d\n", summary.Rejected)
	if summary.ArchiveKey != "" {
		fmt.Fprintf(w, "Archived As\t%s\n", summary.ArchiveKey)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(summary.Errors) > 0 {
		fmt.Printf("\nFirst %d Errors:\n", min(len(summary.Errors), 10))
		for _, e := range summary.Errors[:min(len(summary.Errors), 10)] {
			fmt.Printf("  row %d: %s\n", e.Row, e.Message)
		}
	}
	return nil
}

func runIndexPrices(cmd *cobra.Command, args []string) error {
	svc := service.NewIndexService(appStore, newCatalogClient())
	result, err := svc.SegmentPrices(cmd.Context(), args[0], pricesCompetitor, pricesChannel)
	if err != nil {
		return err
	}

	if output == "json" {
		return printJSON(os.Stdout, result)
	}
	fmt.Printf("Segment %s (%s), competitor %s, channel %s\n",
		result.SegmentID, orDash(result.PricingLocation), result.CompetitorID, result.SalesChannel)
	if result.Message != "" {
		fmt.Println(result.Message)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "SKU\tKVI\tCompetitor\tIndex\tSell Price\n")
	fmt.Fprintf(w, "---\t---\t----------\t-----\t----------\n")
	for _, r := range result.Rows {
		index, sell := "-", r.Message
		if r.Index != nil {
			index = fmt.Sprintf("%g", *r.Index)
		}
		if r.SellPrice != nil {
			sell = fmt.Sprintf("%.2f", *r.SellPrice)
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", r.SKUID, r.KVIType, r.CompetitorPrice, index, sell)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if result.Skipped > 0 {
		fmt.Printf("\n%d SKUs skipped without a competitor price\n", result.Skipped)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
