package sync

import (
	"fmt"
	"strings"

	"github.com/prbot/prbot/consts"
	"github.com/prbot/prbot/internal/model"
)

// BuildSummary renders the auto-generated summary comment for a state. The
// exact textual form is part of the external contract; tests pin it.
func BuildSummary(state *State) string {
	return "_This is an auto-generated message summarizing this pull request._\n" +
		"\n" +
		summaryRules(state) + "\n" +
		"\n" +
		summaryChecks(state) + "\n" +
		"\n" +
		summaryConfig(state) + "\n" +
		"\n" +
		summaryFooter(state) + "\n" +
		consts.MessageFooter
}

func summaryRules(state *State) string {
	return ":pencil: &mdash; **Rules**\n" +
		"\n" +
		summaryTitleValidation(state.ValidPRTitle) + "\n" +
		summaryTitleRegex(state.TitleRegex) + "\n" +
		summaryMergeStrategy(state.MergeStrategy) + "\n" +
		summaryRuleList(state.Rules)
}

func summaryTitleValidation(valid bool) string {
	verdict := "_invalid!_ :x:"
	if valid {
		verdict = "_valid!_ :heavy_check_mark:"
	}
	return "> - :speech_balloon: **Title validation**: " + verdict
}

func summaryTitleRegex(pattern string) string {
	if pattern == "" {
		pattern = "None"
	}
	return ">   - _Rule_: " + pattern
}

func summaryMergeStrategy(strategy model.MergeStrategy) string {
	name := strings.ToUpper(string(strategy)[:1]) + string(strategy)[1:]
	return "> - :twisted_rightwards_arrows: **Merge strategy**: _" + name + "_"
}

func summaryRuleList(rules []model.RepositoryRule) string {
	text := "None"
	if len(rules) > 0 {
		names := make([]string, len(rules))
		for i, rule := range rules {
			names[i] = rule.Name
		}
		text = strings.Join(names, ", ")
	}
	return "> - :straight_ruler: **Pull request rules**: _" + text + "_"
}

func summaryChecks(state *State) string {
	return ":speech_balloon: &mdash; **Status comment**\n" +
		"\n" +
		summaryWip(state.Wip) + "\n" +
		summaryCheckStatus(state.CheckStatus) + "\n" +
		summaryReviews(state) + "\n" +
		summaryQa(state.QaStatus) + "\n" +
		summaryLocked(state.Locked) + "\n" +
		summaryMergeable(state)
}

func summaryWip(wip bool) string {
	message := "No :heavy_check_mark:"
	if wip {
		message = "Yes :x:"
	}
	return "> - :construction: **WIP?**: " + message
}

func summaryCheckStatus(status model.CheckStatus) string {
	var message string
	switch status {
	case model.CheckStatusPass:
		message = "_passed_! :heavy_check_mark:"
	case model.CheckStatusWaiting:
		message = "_waiting_... :clock2:"
	case model.CheckStatusFail:
		message = "_failed_. :x:"
	default:
		message = "_skipped_. :heavy_check_mark:"
	}
	return "> - :checkered_flag: **Checks**: " + message
}

func summaryReviews(state *State) string {
	var message string
	switch {
	case state.ChangesRequested():
		message = "_waiting on change requests..._ :x:"
	case state.ReviewRequired():
		message = "_waiting..._ :clock2:"
	case state.ReviewSkipped():
		message = "_skipped._ :heavy_check_mark:"
	default:
		message = "_passed!_ :heavy_check_mark:"
	}
	return "> - :mag: **Code reviews**: " + message
}

func summaryQa(status model.QaStatus) string {
	var message string
	switch status {
	case model.QaStatusPass:
		message = "_passed_! :heavy_check_mark:"
	case model.QaStatusWaiting:
		message = "_waiting_... :clock2:"
	case model.QaStatusFail:
		message = "_failed_. :x:"
	default:
		message = "_skipped_. :heavy_check_mark:"
	}
	return "> - :test_tube: **QA**: " + message
}

func summaryLocked(locked bool) string {
	message := "No :heavy_check_mark:"
	if locked {
		message = "Yes :x:"
	}
	return "> - :lock: **Locked?**: " + message
}

func summaryMergeable(state *State) string {
	message := "No :x:"
	if state.Mergeable || state.Merged {
		message = "Yes :heavy_check_mark:"
	}
	return "> - :twisted_rightwards_arrows: **Mergeable?**: " + message
}

func summaryConfig(state *State) string {
	message := "No :x:"
	if state.Automerge {
		message = "Yes :heavy_check_mark:"
	}
	return ":gear: &mdash; **Configuration**\n" +
		"\n" +
		"> - :twisted_rightwards_arrows: **Automerge**: " + message
}

func summaryFooter(state *State) string {
	status := BuildCommitStatus(state)
	return ":scroll: &mdash; **Current status**\n" +
		"\n" +
		fmt.Sprintf("> %s: %s\n", status.State.Name(), status.Message) +
		"\n" +
		fmt.Sprintf("[_See checks output by clicking this link :triangular_flag_on_post:_](%s)", state.CheckURL)
}
