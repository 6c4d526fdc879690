package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "zendesk-mcp",
		Short: "Zendesk tools for AI assistants over MCP",
		Long: `zendesk-mcp serves Zendesk tickets, Help Center articles and macros as
Model Context Protocol tools over stdio.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Config file (default ./zendesk-mcp.yaml or ./configs/zendesk-mcp.yaml)")
	flags.StringVar(&opts.envFile, "env-file", "", "Env file to load (default .env if present)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCommand(),
		newToolsCommand(),
		newCallCommand(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
