package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/pkg/errors"
)

// Argument parsing helpers. Invalid arguments and unknown records abort the
// command with exit code 1, matching shell script expectations.

func parseRepositoryPathArg(value string) model.RepositoryPath {
	path, err := model.ParseRepositoryPath(value)
	if err != nil {
		color.Red("Invalid repository path: %s", value)
		os.Exit(1)
	}
	return path
}

func parsePullRequestPathArg(value string) model.PullRequestPath {
	path, err := model.ParsePullRequestPath(value)
	if err != nil {
		color.Red("Invalid pull request path: %s", value)
		os.Exit(1)
	}
	return path
}

func parseMergeStrategyArg(value string) model.MergeStrategy {
	strategy, err := model.ParseMergeStrategy(value)
	if err != nil {
		color.Red("Invalid merge strategy: %s", value)
		os.Exit(1)
	}
	return strategy
}

func ensureRepository(rt *runtime, path model.RepositoryPath) *model.Repository {
	repo, err := rt.Store.Repository().GetByPath(path.Owner, path.Name)
	if err != nil {
		if errors.IsNotFound(err) {
			color.Red("Unknown repository: %s", path)
			os.Exit(1)
		}
		fatal(err)
	}
	return repo
}

func ensurePullRequest(rt *runtime, path model.PullRequestPath) (*model.Repository, *model.PullRequest) {
	repo := ensureRepository(rt, model.RepositoryPath{Owner: path.Owner, Name: path.Name})

	pr, err := rt.Store.PullRequest().GetByNumber(repo, path.Number)
	if err != nil {
		if errors.IsNotFound(err) {
			color.Red("Unknown pull request: %s", path)
			os.Exit(1)
		}
		fatal(err)
	}
	return repo, pr
}

func ensureExternalAccount(rt *runtime, username string) *model.ExternalAccount {
	account, err := rt.Store.ExternalAccount().GetByUsername(username)
	if err != nil {
		if errors.IsNotFound(err) {
			color.Red("Unknown external account: %s", username)
			os.Exit(1)
		}
		fatal(err)
	}
	return account
}

// yesNo renders a boolean for table output
func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
