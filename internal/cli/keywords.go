package cli

import (
	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Print the active keyword lists",
	Long: `Prints the TMP indicators and TCAWS compliance indicators in use,
after applying KEYWORDS_FILE if it is set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cmd.Println("TMP indicators:")
		for _, k := range cfg.Keywords.TMPIndicators {
			cmd.Printf("- %s\n", k)
		}
		cmd.Println()
		cmd.Println("TCAWS compliance indicators:")
		for _, k := range cfg.Keywords.ComplianceIndicators {
			cmd.Printf("- %s\n", k)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}
