package cmd

import "github.com/spf13/cobra"

// newProductsCmd builds the product discovery subcommand. Same pipeline as
// labels, but with fewer pages per target, tighter pacing, and sitemap-first
// seeding since retailer sites rarely link their full catalogs.
func newProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "Crawl retailer sites for product and brand names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrawl(cmd, "products")
		},
	}
}
