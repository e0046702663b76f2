package main

import (
	"encoding/json"
	"os"
	"regexp"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/prbot/prbot/internal/model"
)

var repositoryCmd = &cobra.Command{
	Use:   "repository",
	Short: "Manage repositories",
}

var repositorySyncCmd = &cobra.Command{
	Use:   "sync <owner/name>",
	Short: "Register a repository, creating it if unknown",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		path := parseRepositoryPathArg(args[0])
		repo, created, err := rt.Store.Repository().GetOrCreate(path.Owner, path.Name)
		if err != nil {
			fatal(err)
		}

		if created {
			color.Green("Repository \"%s\" created.", repo.Path())
		} else {
			color.Green("Repository \"%s\" already known.", repo.Path())
		}
	},
}

var repositoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known repositories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repositories, err := rt.Store.Repository().ListAll()
		if err != nil {
			fatal(err)
		}
		if len(repositories) == 0 {
			color.Yellow("No repository found.")
			return
		}

		table := tablewriter.NewTable(os.Stdout)
		table.Header("Repository", "Strategy", "Automerge", "QA", "Checks", "Manual interaction")
		for _, repo := range repositories {
			_ = table.Append(
				repo.Path().String(),
				string(repo.DefaultStrategy),
				yesNo(repo.DefaultAutomerge),
				yesNo(repo.DefaultEnableQa),
				yesNo(repo.DefaultEnableChecks),
				yesNo(repo.ManualInteraction),
			)
		}
		_ = table.Render()
	},
}

var repositoryShowCmd = &cobra.Command{
	Use:   "show <owner/name>",
	Short: "Show info about a specific repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))

		table := tablewriter.NewTable(os.Stdout)
		table.Header("Field", "Value")
		_ = table.Append("Repository", repo.Path().String())
		_ = table.Append("Default strategy", string(repo.DefaultStrategy))
		_ = table.Append("Default automerge", yesNo(repo.DefaultAutomerge))
		_ = table.Append("Default QA enabled", yesNo(repo.DefaultEnableQa))
		_ = table.Append("Default checks enabled", yesNo(repo.DefaultEnableChecks))
		_ = table.Append("Manual interaction", yesNo(repo.ManualInteraction))
		_ = table.Append("Title validation regex", repo.PRTitleValidationRegex)
		_ = table.Render()
	},
}

var repositorySetManualInteractionCmd = &cobra.Command{
	Use:   "set-manual-interaction <owner/name> <true|false>",
	Short: "Enable/Disable the manual interaction mode for a specific repository",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))
		value := parseBoolArg(args[1])

		if err := rt.Store.Repository().SetManualInteraction(repo.ID, value); err != nil {
			fatal(err)
		}
		color.Green("Manual interaction set to \"%v\" for repository \"%s\".", value, repo.Path())
	},
}

var repositorySetTitleValidationRegexCmd = &cobra.Command{
	Use:   "set-title-validation-regex <owner/name> <regex>",
	Short: "Set the title validation regex for a specific repository",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))

		if _, err := regexp.Compile(args[1]); err != nil {
			color.Red("Invalid regex: %v", err)
			os.Exit(1)
		}

		if err := rt.Store.Repository().SetTitleValidationRegex(repo.ID, args[1]); err != nil {
			fatal(err)
		}
		color.Green("Title validation regex set to \"%s\" for repository \"%s\".", args[1], repo.Path())
	},
}

var repositorySetDefaultStrategyCmd = &cobra.Command{
	Use:   "set-default-strategy <owner/name> <merge|squash|rebase>",
	Short: "Set the default merge strategy for a specific repository",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))
		strategy := parseMergeStrategyArg(args[1])

		if err := rt.Store.Repository().SetDefaultStrategy(repo.ID, strategy); err != nil {
			fatal(err)
		}
		color.Green("Default strategy set to \"%s\" for repository \"%s\".", strategy, repo.Path())
	},
}

var repositorySetDefaultAutomergeCmd = &cobra.Command{
	Use:   "set-default-automerge <owner/name> <true|false>",
	Short: "Set the default automerge value for a specific repository",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))
		value := parseBoolArg(args[1])

		if err := rt.Store.Repository().SetDefaultAutomerge(repo.ID, value); err != nil {
			fatal(err)
		}
		color.Green("Default automerge value set to \"%v\" for repository \"%s\".", value, repo.Path())
	},
}

var repositorySetDefaultQaCmd = &cobra.Command{
	Use:   "set-default-qa <owner/name> <true|false>",
	Short: "Set if the QA status is enabled/skipped for a specific repository",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))
		value := parseBoolArg(args[1])

		if err := rt.Store.Repository().SetDefaultEnableQa(repo.ID, value); err != nil {
			fatal(err)
		}
		color.Green("Default QA status value set to \"%v\" for repository \"%s\".", value, repo.Path())
	},
}

var repositorySetDefaultChecksCmd = &cobra.Command{
	Use:   "set-default-checks <owner/name> <true|false>",
	Short: "Set if the checks status is enabled/skipped for a specific repository",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))
		value := parseBoolArg(args[1])

		if err := rt.Store.Repository().SetDefaultEnableChecks(repo.ID, value); err != nil {
			fatal(err)
		}
		color.Green("Default checks status value set to \"%v\" for repository \"%s\".", value, repo.Path())
	},
}

// Repository rules

var repositoryRuleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage repository rules",
}

var repositoryRuleAddCmd = &cobra.Command{
	Use:   "add <owner/name> <rule-name> <conditions-json> <actions-json>",
	Short: "Add a new repository rule",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))

		var conditions model.RuleConditionList
		if err := json.Unmarshal([]byte(args[2]), &conditions); err != nil {
			color.Red("Invalid conditions: %v", err)
			os.Exit(1)
		}
		var actions model.RuleActionList
		if err := json.Unmarshal([]byte(args[3]), &actions); err != nil {
			color.Red("Invalid actions: %v", err)
			os.Exit(1)
		}

		rule := &model.RepositoryRule{
			RepositoryID: repo.ID,
			Name:         args[1],
			Conditions:   conditions,
			Actions:      actions,
		}
		if err := rt.Store.RepositoryRule().Create(rule); err != nil {
			fatal(err)
		}
		color.Green("Rule \"%s\" created for repository \"%s\".", rule.Name, repo.Path())
	},
}

var repositoryRuleDeleteCmd = &cobra.Command{
	Use:   "delete <owner/name> <rule-name>",
	Short: "Delete a specific repository rule",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))

		rule, err := rt.Store.RepositoryRule().GetByName(repo, args[1])
		if err != nil {
			color.Yellow("Rule not found.")
			return
		}
		if err := rt.Store.RepositoryRule().Delete(rule.ID); err != nil {
			fatal(err)
		}
		color.Green("Rule \"%s\" deleted.", rule.Name)
	},
}

var repositoryRuleListCmd = &cobra.Command{
	Use:   "list <owner/name>",
	Short: "List rules of a specific repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))

		rules, err := rt.Store.RepositoryRule().ListByRepositoryID(repo.ID)
		if err != nil {
			fatal(err)
		}
		if len(rules) == 0 {
			color.Yellow("No rule found.")
			return
		}

		table := tablewriter.NewTable(os.Stdout)
		table.Header("Name", "Conditions", "Actions")
		for _, rule := range rules {
			conditions, _ := json.Marshal(rule.Conditions)
			actions, _ := json.Marshal(rule.Actions)
			_ = table.Append(rule.Name, string(conditions), string(actions))
		}
		_ = table.Render()
	},
}

func parseBoolArg(value string) bool {
	switch value {
	case "true":
		return true
	case "false":
		return false
	default:
		color.Red("Invalid boolean value: %s", value)
		os.Exit(1)
		return false
	}
}

func init() {
	repositoryCmd.AddCommand(repositorySyncCmd)
	repositoryCmd.AddCommand(repositoryListCmd)
	repositoryCmd.AddCommand(repositoryShowCmd)
	repositoryCmd.AddCommand(repositorySetManualInteractionCmd)
	repositoryCmd.AddCommand(repositorySetTitleValidationRegexCmd)
	repositoryCmd.AddCommand(repositorySetDefaultStrategyCmd)
	repositoryCmd.AddCommand(repositorySetDefaultAutomergeCmd)
	repositoryCmd.AddCommand(repositorySetDefaultQaCmd)
	repositoryCmd.AddCommand(repositorySetDefaultChecksCmd)

	repositoryRuleCmd.AddCommand(repositoryRuleAddCmd)
	repositoryRuleCmd.AddCommand(repositoryRuleDeleteCmd)
	repositoryRuleCmd.AddCommand(repositoryRuleListCmd)
	repositoryCmd.AddCommand(repositoryRuleCmd)
}
