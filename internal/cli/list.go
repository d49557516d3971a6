package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/macropower/strata/pkg/document"
)

type ListArgs struct {
	*RootArgs

	Tier string
}

func NewListArgs(rootArgs *RootArgs) *ListArgs {
	return &ListArgs{
		RootArgs: rootArgs,
	}
}

func (la *ListArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&la.Tier, "tier", "",
		fmt.Sprintf("Filter by tier, one of: %v", document.AllTiers))

	tiers := make([]string, len(document.AllTiers))
	for i, t := range document.AllTiers {
		tiers[i] = string(t)
	}

	err := cmd.RegisterFlagCompletionFunc("tier",
		cobra.FixedCompletions(tiers, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewListCmd(rootArgs *RootArgs) *cobra.Command {
	la := NewListArgs(rootArgs)

	cmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "List registered instruction documents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}

			return runList(cmd, la, filter)
		},
	}
	la.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runList(cmd *cobra.Command, la *ListArgs, filter string) error {
	eng, err := buildEngine(la.RootArgs, ".", -1)
	if err != nil {
		return err
	}

	snap := eng.reg.Snapshot()

	docs := snap.All()
	if la.Tier != "" {
		tier := document.Tier(la.Tier)
		if !tier.Valid() {
			return fmt.Errorf("invalid argument: tier %q, must be one of %v", la.Tier, document.AllTiers)
		}

		docs = snap.ByTier(tier)
	}

	if filter != "" {
		ids := make([]string, len(docs))
		for i, doc := range docs {
			ids[i] = doc.ID
		}

		matched := make([]*document.Document, 0, len(docs))
		for _, m := range fuzzy.Find(filter, ids) {
			matched = append(matched, docs[m.Index])
		}

		docs = matched
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	mustN(fmt.Fprintln(w, "ID\tTIER\tTOKENS\tAPPLIES TO\tEVENTS"))

	for _, doc := range docs {
		appliesTo := strings.Join(doc.AppliesTo, " ")
		if appliesTo == "" && doc.Tier.AlwaysApplies() {
			appliesTo = "(always)"
		}

		events := "(all)"
		if len(doc.Events) > 0 {
			parts := make([]string, len(doc.Events))
			for i, e := range doc.Events {
				parts[i] = string(e)
			}

			events = strings.Join(parts, ",")
		}

		mustN(fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			doc.ID, doc.Tier, humanize.Comma(int64(doc.Tokens)), appliesTo, events))
	}

	err = w.Flush()
	if err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
