package main

import (
	"github.com/aretw0/vine/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [inventory|counter|counters]",
	Short: "Run a feature interactively",
	Long: `Starts an interactive session of a feature. Type actions as
"name key=value ...", for example:

  add_button_tapped
  add_item.set_name name="Blue hat"
  confirm_add_item_button_tapped

The session is saved after every change and resumed on the next run.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"inventory", "counter", "counters"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) > 0 && !cmd.Flags().Changed("feature") {
			cfg.Feature = args[0]
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		plain, _ := cmd.Flags().GetBool("plain")
		debug, _ := cmd.Flags().GetBool("debug")

		return cli.Execute(cli.RunOptions{
			Config:    cfg,
			SessionID: sessionID,
			Debug:     debug,
			Fresh:     fresh,
			Plain:     plain,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", cli.DefaultSessionID, "Session ID to create or resume")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().Bool("plain", false, "Print raw markdown instead of styled output")
}
