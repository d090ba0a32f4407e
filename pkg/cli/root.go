package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root convocheck command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "convocheck",
		Short: "Deterministic conversational test engine",
		Long: `convocheck drives scripted conversations against a simulated or real agent,
captures transcripts, and judges them turn-by-turn against the script.`,
	}

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewViewCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
