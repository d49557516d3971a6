package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macropower/strata/pkg/document"
	"github.com/macropower/strata/pkg/resolve"
)

type ResolveArgs struct {
	*RootArgs

	Event     string
	Template  string
	Output    string
	MaxTokens int
}

func NewResolveArgs(rootArgs *RootArgs) *ResolveArgs {
	return &ResolveArgs{
		RootArgs: rootArgs,
	}
}

func (ra *ResolveArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ra.Event, "event", "e", string(document.EventChat),
		fmt.Sprintf("Interaction event, one of: %v", document.AllEvents))
	cmd.Flags().StringVarP(&ra.Template, "template", "t", "",
		"Id of a prompt template to layer into the resolution")
	cmd.Flags().StringVarP(&ra.Output, "output", "o", "text",
		"Output format, one of: [text, json]")
	cmd.Flags().IntVar(&ra.MaxTokens, "max-tokens", -1,
		"Override the configured token budget for this invocation")

	events := make([]string, len(document.AllEvents))
	for i, e := range document.AllEvents {
		events[i] = string(e)
	}

	err := cmd.RegisterFlagCompletionFunc("event",
		cobra.FixedCompletions(events, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewResolveCmd(rootArgs *RootArgs) *cobra.Command {
	ra := NewResolveArgs(rootArgs)

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve the instruction context for a file path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, ra, args[0])
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runResolve(cmd *cobra.Command, ra *ResolveArgs, path string) error {
	event := document.EventType(ra.Event)
	if !event.Valid() {
		return fmt.Errorf("invalid argument: event %q, must be one of %v", ra.Event, document.AllEvents)
	}

	eng, err := buildEngine(ra.RootArgs, path, ra.MaxTokens)
	if err != nil {
		return err
	}

	path = relativeToConfig(eng.configPath, path)

	ctx := cmd.Context()

	var res *resolve.Result
	if ra.Template != "" {
		res, err = eng.svc.ResolveCombined(ctx, path, event, ra.Template)
	} else {
		res, err = eng.svc.Resolve(ctx, path, event)
	}

	if err != nil {
		var budgetErr *resolve.BudgetError
		if errors.As(err, &budgetErr) {
			return fmt.Errorf("instruction set %q: %w", eng.configPath, budgetErr)
		}

		return err
	}

	for _, d := range res.Dropped {
		slog.Warn("document dropped under budget pressure",
			slog.String("id", d.ID),
			slog.String("tier", string(d.Tier)),
			slog.Int("tokens", d.Tokens),
		)
	}

	switch ra.Output {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		err := enc.Encode(res)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

	case "text":
		mustN(fmt.Fprint(cmd.OutOrStdout(), res.Text))

	default:
		return fmt.Errorf("invalid argument: output %q, must be one of [text, json]", ra.Output)
	}

	return nil
}

// relativeToConfig rewrites targetPath relative to the directory of the
// active config file, so applicability patterns anchor at the project root.
// Paths outside the project, or paths resolved against the embedded
// defaults, pass through unchanged.
func relativeToConfig(configPath, targetPath string) string {
	if configPath == "" {
		return targetPath
	}

	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return targetPath
	}

	absRoot, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return targetPath
	}

	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") {
		return targetPath
	}

	return filepath.ToSlash(rel)
}
