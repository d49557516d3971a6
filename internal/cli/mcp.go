package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/strata/pkg/mcp"
	"github.com/macropower/strata/pkg/registry"
	"github.com/macropower/strata/pkg/tracing"
)

type MCPArgs struct {
	*RootArgs

	Address      string
	OTLPEndpoint string
	Watch        bool
}

func NewMCPArgs(rootArgs *RootArgs) *MCPArgs {
	return &MCPArgs{
		RootArgs: rootArgs,
	}
}

func (ma *MCPArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ma.Address, "address", "",
		"Serve MCP over HTTP at the specified address instead of stdio")
	cmd.Flags().BoolVarP(&ma.Watch, "watch", "w", false,
		"Watch the instruction set and document sources, reloading on change")
	cmd.Flags().StringVar(&ma.OTLPEndpoint, "otlp-endpoint", "",
		"Export traces via OTLP gRPC to the specified endpoint")
}

func NewMCPCmd(rootArgs *RootArgs) *cobra.Command {
	ma := NewMCPArgs(rootArgs)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve instruction resolution over the Model Context Protocol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd, ma)
		},
	}
	ma.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runMCP(cmd *cobra.Command, ma *MCPArgs) error {
	ctx := cmd.Context()

	shutdown, err := tracing.Init(ctx, ma.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}

	defer func() {
		err := shutdown(ctx)
		if err != nil {
			slog.Error("shutdown tracing", slog.Any("error", err))
		}
	}()

	eng, err := buildEngine(ma.RootArgs, ".", -1)
	if err != nil {
		return err
	}

	if ma.Watch {
		paths := eng.watchPaths()
		if len(paths) == 0 {
			slog.Warn("nothing to watch, no instruction set file in use")
		} else {
			watcher, err := registry.NewWatcher(eng.reload, paths...)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}

			defer func() {
				err := watcher.Close()
				if err != nil {
					slog.Error("close watcher", slog.Any("error", err))
				}
			}()

			go watcher.Watch(ctx)
		}
	}

	server := mcp.NewServer(ma.Address, eng.svc)

	err = server.Serve(ctx)
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}

	return nil
}
