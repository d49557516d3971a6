package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/strata/pkg/config"
)

type ConfigArgs struct {
	*RootArgs

	Write bool
	Path  bool
}

func NewConfigArgs(rootArgs *RootArgs) *ConfigArgs {
	return &ConfigArgs{
		RootArgs: rootArgs,
	}
}

func (ca *ConfigArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ca.Write, "write", false,
		"Write the default instruction set to the user config directory and exit")
	cmd.Flags().BoolVar(&ca.Path, "path", false,
		"Print the path of the active instruction set and exit")
}

func NewConfigCmd(rootArgs *RootArgs) *cobra.Command {
	ca := NewConfigArgs(rootArgs)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the active instruction set configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd, ca)
		},
	}
	ca.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runConfig(cmd *cobra.Command, ca *ConfigArgs) error {
	if ca.Write {
		path := config.DefaultPath()

		err := config.WriteDefault(path)
		if err != nil {
			return err
		}

		mustN(fmt.Fprintln(cmd.OutOrStdout(), path))

		return nil
	}

	set, cfgPath, err := loadSet(ca.RootArgs, ".")
	if err != nil {
		return err
	}

	if ca.Path {
		mustN(fmt.Fprintln(cmd.OutOrStdout(), displayPath(cfgPath)))

		return nil
	}

	yamlBytes, err := set.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal instruction set: %w", err)
	}

	mustN(fmt.Fprint(cmd.OutOrStdout(), string(yamlBytes)))

	return nil
}
