package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrInvalidInstructionSet is returned when validation finds problems.
var ErrInvalidInstructionSet = errors.New("invalid instruction set")

func NewValidateCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the instruction set for errors and budget problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Registration errors (bad patterns, expressions, duplicate
			// ids) surface while building the engine.
			eng, err := buildEngine(rootArgs, ".", -1)
			if err != nil {
				return err
			}

			findings := eng.svc.Validate()
			if len(findings) == 0 {
				mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d documents)\n",
					displayPath(eng.configPath), eng.reg.Snapshot().Len()))

				return nil
			}

			for _, f := range findings {
				if f.DocumentID != "" {
					mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s: %s: %s\n",
						displayPath(eng.configPath), f.DocumentID, f.Message))

					continue
				}

				mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n",
					displayPath(eng.configPath), f.Message))
			}

			return fmt.Errorf("%w: %d finding(s)", ErrInvalidInstructionSet, len(findings))
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func displayPath(configPath string) string {
	if configPath == "" {
		return "(embedded defaults)"
	}

	return configPath
}
