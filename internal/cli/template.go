package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/strata/pkg/document"
	"github.com/macropower/strata/pkg/resolve"
)

func NewTemplateCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template <id>",
		Short: "Print a prompt template by id",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
			return templateCompletions(rootArgs), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(rootArgs, ".", -1)
			if err != nil {
				return err
			}

			res, err := eng.svc.ResolveExplicit(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, resolve.ErrUnknownTemplate) {
					return fmt.Errorf("%w, use %q to see available templates",
						err, cmdName+" list --tier prompt")
				}

				return err
			}

			mustN(fmt.Fprint(cmd.OutOrStdout(), res.Text))

			return nil
		},
	}

	bindEnvVars(cmd)

	return cmd
}

// Try to load config to get available template names.
func templateCompletions(rootArgs *RootArgs) []cobra.Completion {
	eng, err := buildEngine(rootArgs, ".", -1)
	if err != nil {
		return nil
	}

	docs := eng.reg.Snapshot().ByTier(document.TierPrompt)
	if len(docs) == 0 {
		return nil
	}

	completions := make([]cobra.Completion, 0, len(docs))
	for _, doc := range docs {
		completions = append(completions, doc.ID)
	}

	return completions
}
