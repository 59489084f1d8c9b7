package cmd

import "github.com/spf13/cobra"

// newLabelsCmd builds the certification-label discovery subcommand.
func newLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Crawl certification-label sites for member entities",
		Long: `labels crawls each configured certification label's site, looking for
member directories and partner listings, and merges the entities it can
corroborate into the persisted dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrawl(cmd, "labels")
		},
	}
}
