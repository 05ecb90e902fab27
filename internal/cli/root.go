package cli

import (
	"github.com/assetlink-labs/assetlink/internal/branding"
	"github.com/assetlink-labs/assetlink/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` is the device-side data engine of an M2M management agent:
it maintains the tree of managed objects, instances and resources that a
remote server reads, writes, executes and observes, and speaks the LWM2M
TLV wire format.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
