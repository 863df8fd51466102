package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/ollamalocal/internal/api"
	"github.com/matiasleandrokruk/ollamalocal/internal/domain/assistant"
	"github.com/matiasleandrokruk/ollamalocal/internal/infra/config"
	"github.com/matiasleandrokruk/ollamalocal/internal/infra/llm"
	"github.com/matiasleandrokruk/ollamalocal/internal/infra/logging"
	"github.com/matiasleandrokruk/ollamalocal/internal/mcptools"
	"github.com/matiasleandrokruk/ollamalocal/internal/server"
	"github.com/matiasleandrokruk/ollamalocal/internal/version"
)

// app is built once per command invocation from configuration.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	assistant *assistant.Service
}

func newApp(ctx context.Context, errOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(errOut, cfg.LogLevel, cfg.LogFormat)

	provider, err := llm.NewProvider(ctx, cfg.LLMProvider, llm.OllamaConfig{
		BaseURL:    cfg.OllamaBaseURL,
		ChatModel:  cfg.OllamaChatModel,
		EmbedModel: cfg.OllamaModel,
		Timeout:    cfg.OllamaTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, assistant: assistant.NewService(provider)}, nil
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var showVersion bool

	root := &cobra.Command{
		Use:   "ollamalocal",
		Short: "Forward prompts to a local Ollama runtime",
		Long: `ollamalocal exposes GET /ai?message=<text> in front of a locally running
Ollama server and returns the model's reply as plain text.

Configuration comes from environment variables (OLLAMA_BASE_URL, OLLAMA_CHAT_MODEL,
OLLAMA_MODEL, LLM_PROVIDER, HTTP_HOST, HTTP_PORT, LOG_LEVEL, LOG_FORMAT) and an
optional YAML file named by OLLAMALOCAL_CONFIG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.String()) //nolint:errcheck
				return nil
			}
			return cmd.Help()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return flagError{err: err}
	})
	root.Flags().BoolVar(&showVersion, "version", false, "Show version information")

	root.AddCommand(
		newServeCmd(errOut),
		newChatCmd(errOut),
		newEmbedCmd(errOut),
		newMCPCmd(errOut),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String()) //nolint:errcheck
		},
	}
}

func newServeCmd(errOut io.Writer) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), errOut)
			if err != nil {
				return err
			}

			router, err := api.NewRouter(a.assistant, a.logger)
			if err != nil {
				return err
			}

			srvCfg := serverConfig(a.cfg)
			if cmd.Flags().Changed("host") {
				srvCfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				srvCfg.Port = port
			}

			meta := a.assistant.Model()
			a.logger.Info("server_starting",
				"version", version.Version,
				"provider", meta.Provider,
				"chat_model", meta.ID,
				"embed_model", meta.EmbedModel,
				"write_timeout", srvCfg.WriteTimeout.String(),
			)
			return server.NewServer(router, srvCfg, a.logger).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides HTTP_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides HTTP_PORT)")
	return cmd
}

// serverConfig maps cfg onto server.Config. The write timeout never drops
// below the Ollama client timeout, so a slow completion still gets its 500.
func serverConfig(cfg config.Config) server.Config {
	upstream := cfg.OllamaTimeout
	if upstream <= 0 {
		upstream = llm.DefaultTimeout
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.HTTPHost
	srvCfg.Port = cfg.HTTPPort
	if cfg.HTTPReadTimeout > 0 {
		srvCfg.ReadTimeout = cfg.HTTPReadTimeout
	}
	if cfg.HTTPWriteTimeout > 0 {
		srvCfg.WriteTimeout = cfg.HTTPWriteTimeout
	}
	srvCfg.WriteTimeout = server.WriteTimeoutFor(srvCfg.WriteTimeout, upstream)
	return srvCfg
}

func newChatCmd(errOut io.Writer) *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "chat MESSAGE...",
		Short: "Send one prompt to the chat model and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), errOut)
			if err != nil {
				return err
			}
			text, err := a.assistant.CompleteWith(cmd.Context(), assistant.CompleteInput{
				System: system,
				Prompt: strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text) //nolint:errcheck
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "Optional system instruction sent before the message")
	return cmd
}

func newEmbedCmd(errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "embed TEXT...",
		Short: "Compute and print the embedding of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), errOut)
			if err != nil {
				return err
			}
			vec, err := a.assistant.Embed(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
				"dims":      len(vec),
				"embedding": vec,
			})
		},
	}
}

func newMCPCmd(errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server (stdio) with complete and embed tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), errOut)
			if err != nil {
				return err
			}
			a.logger.Info("mcp_starting", "provider", a.assistant.Model().Provider)
			return mcptools.Run(cmd.Context(), a.assistant, version.Version)
		},
	}
}
