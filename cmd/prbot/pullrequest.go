package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var pullRequestCmd = &cobra.Command{
	Use:   "pull-request",
	Short: "Manage pull requests",
}

var pullRequestSyncCmd = &cobra.Command{
	Use:   "sync <owner/name#number>",
	Short: "Synchronize a specific pull request",
	Long: `Synchronize a specific pull request.
Will synchronize even if the pull request is not yet present in the database.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		path := parsePullRequestPathArg(args[0])
		result, err := rt.Syncer.Process(cmd.Context(), path.Owner, path.Name, path.Number, true)
		if err != nil {
			fatal(err)
		}

		if result.Skipped {
			color.Yellow("Pull request \"%s\" skipped.", path)
			return
		}
		color.Green("Pull request \"%s\" synchronized: %s", path, result.StepLabel)
	},
}

var pullRequestListCmd = &cobra.Command{
	Use:   "list <owner/name>",
	Short: "List known pull requests of a specific repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		repo := ensureRepository(rt, parseRepositoryPathArg(args[0]))

		pullRequests, err := rt.Store.PullRequest().ListByRepositoryID(repo.ID)
		if err != nil {
			fatal(err)
		}
		if len(pullRequests) == 0 {
			color.Yellow("No pull request found.")
			return
		}

		table := tablewriter.NewTable(os.Stdout)
		table.Header("Number", "QA", "Checks", "Automerge", "Locked", "Strategy override")
		for _, pr := range pullRequests {
			override := "-"
			if pr.StrategyOverride != nil {
				override = string(*pr.StrategyOverride)
			}
			_ = table.Append(
				fmt.Sprintf("#%d", pr.Number),
				string(pr.QaStatus),
				yesNo(pr.ChecksEnabled),
				yesNo(pr.Automerge),
				yesNo(pr.Locked),
				override,
			)
		}
		_ = table.Render()
	},
}

var pullRequestShowCmd = &cobra.Command{
	Use:   "show <owner/name#number>",
	Short: "Show info about a specific pull request",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		path := parsePullRequestPathArg(args[0])
		_, pr := ensurePullRequest(rt, path)

		override := "-"
		if pr.StrategyOverride != nil {
			override = string(*pr.StrategyOverride)
		}

		table := tablewriter.NewTable(os.Stdout)
		table.Header("Field", "Value")
		_ = table.Append("Pull request", path.String())
		_ = table.Append("QA status", string(pr.QaStatus))
		_ = table.Append("Checks enabled", yesNo(pr.ChecksEnabled))
		_ = table.Append("Automerge", yesNo(pr.Automerge))
		_ = table.Append("Locked", yesNo(pr.Locked))
		_ = table.Append("Strategy override", override)
		_ = table.Append("Status comment", fmt.Sprintf("%d", pr.StatusCommentID))
		_ = table.Render()
	},
}

func init() {
	pullRequestCmd.AddCommand(pullRequestSyncCmd)
	pullRequestCmd.AddCommand(pullRequestListCmd)
	pullRequestCmd.AddCommand(pullRequestShowCmd)
}
