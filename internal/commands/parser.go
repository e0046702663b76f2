package commands

import (
	"fmt"
	"strings"

	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/pkg/errors"
)

// Parse parses one comment line into a command. Lines that are not addressed
// to botName return (nil, nil); lines addressed to it with a malformed
// command return a parse error whose message is posted back to the author.
func Parse(botName, line string) (Command, error) {
	fields := strings.Split(line, " ")
	if len(fields) < 2 {
		return nil, nil
	}
	if fields[0] != botName {
		return nil, nil
	}

	verb := fields[1]
	args := fields[2:]

	switch verb {
	case "qa+":
		return noArgs(args, SetQa{Status: model.QaStatusPass})
	case "qa-":
		return noArgs(args, SetQa{Status: model.QaStatusFail})
	case "qa?":
		return noArgs(args, SetQa{Status: model.QaStatusWaiting})
	case "noqa+":
		return noArgs(args, SetQa{Status: model.QaStatusSkipped})

	case "nochecks+":
		return noArgs(args, SetChecksEnabled{Enabled: false})
	case "nochecks-":
		return noArgs(args, SetChecksEnabled{Enabled: true})

	case "automerge+":
		return noArgs(args, SetAutomerge{Enabled: true})
	case "automerge-":
		return noArgs(args, SetAutomerge{Enabled: false})

	case "lock+":
		return SetLocked{Locked: true, Comment: strings.Join(args, " ")}, nil
	case "lock-":
		return SetLocked{Locked: false, Comment: strings.Join(args, " ")}, nil

	case "r+":
		if len(args) == 0 {
			return nil, parseError("Missing reviewers to set")
		}
		return AssignReviewers{Reviewers: args}, nil
	case "r-":
		if len(args) == 0 {
			return nil, parseError("Missing reviewers to unset")
		}
		return UnassignReviewers{Reviewers: args}, nil

	case "strategy+":
		if len(args) == 0 {
			return nil, parseError("Missing strategy name")
		}
		if len(args) > 1 {
			return nil, parseError("Unexpected arguments for command")
		}
		strategy, err := model.ParseMergeStrategy(args[0])
		if err != nil {
			return nil, parseError(fmt.Sprintf("Invalid merge strategy: %s", args[0]))
		}
		return SetStrategy{Strategy: &strategy}, nil
	case "strategy?":
		return noArgs(args, SetStrategy{})

	case "merge":
		if len(args) == 0 {
			return Merge{}, nil
		}
		if len(args) > 1 {
			return nil, parseError("Unexpected arguments for command")
		}
		strategy, err := model.ParseMergeStrategy(args[0])
		if err != nil {
			return nil, parseError(fmt.Sprintf("Invalid merge strategy: %s", args[0]))
		}
		return Merge{Strategy: &strategy}, nil

	case "labels+":
		if len(args) == 0 {
			return nil, parseError("Missing labels to set")
		}
		return AssignLabels{Labels: args}, nil
	case "labels-":
		if len(args) == 0 {
			return nil, parseError("Missing labels to unset")
		}
		return UnassignLabels{Labels: args}, nil

	case "ping":
		return noArgs(args, Ping{})

	case "gif":
		if len(args) == 0 {
			return nil, parseError("Missing GIF query")
		}
		return Gif{Search: strings.Join(args, " ")}, nil

	case "sync":
		return noArgs(args, Sync{})

	default:
		return nil, parseError(fmt.Sprintf("Unknown command %q", verb))
	}
}

func noArgs(args []string, command Command) (Command, error) {
	if len(args) != 0 {
		return nil, parseError("Unexpected arguments for command")
	}
	return command, nil
}

func parseError(message string) error {
	return errors.New(errors.ErrCodeCommandParse, message)
}
