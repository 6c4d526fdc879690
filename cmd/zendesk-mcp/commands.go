package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/conf"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/data"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/logger"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/markdown"
	toolrouter "github.com/zendesk-mcp/zendesk-mcp-go/internal/mcp"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/server"
)

type options struct {
	configFile string
	envFile    string
	logLevel   string
}

// build loads configuration and wires every layer
func build(opts *options) (*server.MCPServer, error) {
	cfg, err := conf.Load(conf.LoadOptions{
		ConfigFile: opts.configFile,
		EnvFile:    opts.envFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	logger.Init(cfg.Log, os.Stderr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repos, err := data.NewRepositories(cfg.ToZendeskConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}

	uc := biz.NewUsecases(repos.Ticketing, biz.Options{
		Knowledge:          cfg.ToKnowledgeConfig(),
		AttachmentMaxBytes: cfg.Attachments.MaxBytes,
		Renderer:           markdown.NewRenderer(),
	})

	return server.NewMCPServer(uc, cfg), nil
}

func serve(ctx context.Context, opts *options) error {
	srv, err := build(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Get().Info("shutting down")
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", server.ServerName, server.Version)
		},
	}
}

func newToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool definitions as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(toolrouter.Tools())
		},
	}
}

// newCallCommand runs one tool call without an MCP client, for debugging
func newCallCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-arguments]",
		Short: "Call a single tool and print its result",
		Example: `  zendesk-mcp call get_ticket '{"ticket_id": 123}'
  zendesk-mcp call list_kb_sections`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := build(opts)
			if err != nil {
				return err
			}

			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
				if !json.Valid(raw) {
					return fmt.Errorf("arguments are not valid JSON")
				}
			}

			result := srv.Handler().HandleToolCall(cmd.Context(), args[0], raw)
			out := cmd.OutOrStdout()
			for _, content := range result.Content {
				switch c := content.(type) {
				case *mcp.TextContent:
					fmt.Fprintln(out, c.Text)
				case *mcp.ImageContent:
					fmt.Fprintf(out, "[image %s, %d bytes]\n", c.MIMEType, len(c.Data))
				}
			}
			if result.IsError {
				return fmt.Errorf("tool %s failed", args[0])
			}
			return nil
		},
	}
}
