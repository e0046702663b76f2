package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/pkg/errors"
)

var mergeRuleCmd = &cobra.Command{
	Use:   "merge-rule",
	Short: "Manage merge rules",
}

var mergeRuleAddCmd = &cobra.Command{
	Use:   "add <owner/name> <base-branch> <head-branch> <merge|squash|rebase>",
	Short: "Add a new merge rule",
	Long: `Add a new merge rule. Branches are literal names or "*" for any branch.
The "*" -> "*" pair is the repository default and updates the default strategy
instead of creating a rule.`,
	Args: cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))
		base := model.RuleBranchFromString(args[1])
		head := model.RuleBranchFromString(args[2])
		strategy := parseMergeStrategyArg(args[3])

		// The catch-all pair is the repository default strategy
		if base.Wildcard && head.Wildcard {
			if err := rt.Store.Repository().SetDefaultStrategy(repo.ID, strategy); err != nil {
				fatal(err)
			}
			color.Green("Default strategy set to \"%s\" for repository \"%s\".", strategy, repo.Path())
			return
		}

		rule := &model.MergeRule{
			RepositoryID: repo.ID,
			BaseBranch:   base.String(),
			HeadBranch:   head.String(),
			Strategy:     strategy,
		}
		if err := rt.Store.MergeRule().Create(rule); err != nil {
			fatal(err)
		}
		color.Green("Merge rule created.")
	},
}

var mergeRuleRemoveCmd = &cobra.Command{
	Use:   "remove <owner/name> <base-branch> <head-branch>",
	Short: "Remove a specific merge rule",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))
		base := model.RuleBranchFromString(args[1])
		head := model.RuleBranchFromString(args[2])

		rule, err := rt.Store.MergeRule().GetByBranches(repo, base, head)
		if err != nil {
			if errors.IsNotFound(err) {
				color.Yellow("Merge rule not found.")
				return
			}
			fatal(err)
		}
		if err := rt.Store.MergeRule().Delete(rule.ID); err != nil {
			fatal(err)
		}
		color.Green("Merge rule deleted.")
	},
}

var mergeRuleListCmd = &cobra.Command{
	Use:   "list <owner/name>",
	Short: "List known merge rules",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))

		// The repository default is the implicit catch-all rule
		fmt.Printf("- (Default) * (head) -> * (base): %s\n", repo.DefaultStrategy)

		rules, err := rt.Store.MergeRule().ListByRepositoryID(repo.ID)
		if err != nil {
			fatal(err)
		}
		for _, rule := range rules {
			fmt.Printf("- %s (head) -> %s (base): %s\n", rule.HeadBranch, rule.BaseBranch, rule.Strategy)
		}
	},
}

func init() {
	mergeRuleCmd.AddCommand(mergeRuleAddCmd)
	mergeRuleCmd.AddCommand(mergeRuleRemoveCmd)
	mergeRuleCmd.AddCommand(mergeRuleListCmd)
}
