// Package model defines the data models for the application.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RuleBranch is a branch matcher: either a literal branch name or a wildcard.
// It is persisted as "*" for wildcard, otherwise the literal name.
type RuleBranch struct {
	Wildcard bool
	Name     string
}

// NamedBranch creates a matcher for a literal branch name
func NamedBranch(name string) RuleBranch {
	return RuleBranch{Name: name}
}

// WildcardBranch creates a matcher for any branch
func WildcardBranch() RuleBranch {
	return RuleBranch{Wildcard: true}
}

// RuleBranchFromString parses the persisted branch form
func RuleBranchFromString(value string) RuleBranch {
	if value == "*" {
		return WildcardBranch()
	}
	return NamedBranch(value)
}

// Matches reports whether the matcher accepts the given branch name
func (b RuleBranch) Matches(branch string) bool {
	return b.Wildcard || b.Name == branch
}

// String returns the persisted branch form
func (b RuleBranch) String() string {
	if b.Wildcard {
		return "*"
	}
	return b.Name
}

// ruleBranchWire is the JSON wire form of a RuleBranch
type ruleBranchWire struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (b RuleBranch) MarshalJSON() ([]byte, error) {
	if b.Wildcard {
		return json.Marshal(ruleBranchWire{Type: "wildcard"})
	}
	return json.Marshal(ruleBranchWire{Type: "named", Value: b.Name})
}

// UnmarshalJSON implements json.Unmarshaler
func (b *RuleBranch) UnmarshalJSON(data []byte) error {
	var wire ruleBranchWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Type {
	case "wildcard":
		*b = WildcardBranch()
	case "named":
		*b = NamedBranch(wire.Value)
	default:
		return fmt.Errorf("invalid rule branch type: %s", wire.Type)
	}
	return nil
}

// RuleConditionType discriminates rule condition variants
type RuleConditionType string

const (
	RuleConditionAuthor     RuleConditionType = "author"
	RuleConditionBaseBranch RuleConditionType = "base_branch"
	RuleConditionHeadBranch RuleConditionType = "head_branch"
)

// RuleCondition is one condition of a repository rule. Exactly one of Author
// or Branch is meaningful depending on Type.
type RuleCondition struct {
	Type   RuleConditionType
	Author string
	Branch RuleBranch
}

// AuthorCondition matches pull requests opened by the given login
func AuthorCondition(login string) RuleCondition {
	return RuleCondition{Type: RuleConditionAuthor, Author: login}
}

// BaseBranchCondition matches pull requests targeting the given base branch
func BaseBranchCondition(branch RuleBranch) RuleCondition {
	return RuleCondition{Type: RuleConditionBaseBranch, Branch: branch}
}

// HeadBranchCondition matches pull requests coming from the given head branch
func HeadBranchCondition(branch RuleBranch) RuleCondition {
	return RuleCondition{Type: RuleConditionHeadBranch, Branch: branch}
}

// MarshalJSON implements json.Marshaler
func (c RuleCondition) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case RuleConditionAuthor:
		return json.Marshal(struct {
			Type  RuleConditionType `json:"type"`
			Value string            `json:"value"`
		}{c.Type, c.Author})
	case RuleConditionBaseBranch, RuleConditionHeadBranch:
		return json.Marshal(struct {
			Type  RuleConditionType `json:"type"`
			Value RuleBranch        `json:"value"`
		}{c.Type, c.Branch})
	default:
		return nil, fmt.Errorf("invalid rule condition type: %s", c.Type)
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (c *RuleCondition) UnmarshalJSON(data []byte) error {
	var head struct {
		Type  RuleConditionType `json:"type"`
		Value json.RawMessage   `json:"value"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	switch head.Type {
	case RuleConditionAuthor:
		var login string
		if err := json.Unmarshal(head.Value, &login); err != nil {
			return err
		}
		*c = AuthorCondition(login)
	case RuleConditionBaseBranch, RuleConditionHeadBranch:
		var branch RuleBranch
		if err := json.Unmarshal(head.Value, &branch); err != nil {
			return err
		}
		*c = RuleCondition{Type: head.Type, Branch: branch}
	default:
		return fmt.Errorf("invalid rule condition type: %s", head.Type)
	}
	return nil
}

// RuleActionType discriminates rule action variants
type RuleActionType string

const (
	RuleActionSetAutomerge     RuleActionType = "set_automerge"
	RuleActionSetQaStatus      RuleActionType = "set_qa_enabled"
	RuleActionSetChecksEnabled RuleActionType = "set_checks_enabled"
)

// RuleAction is one action of a repository rule. BoolValue carries the value
// for automerge and checks actions, QaValue for QA status actions.
type RuleAction struct {
	Type      RuleActionType
	BoolValue bool
	QaValue   QaStatus
}

// SetAutomergeAction enables or disables automerge on matching pull requests
func SetAutomergeAction(value bool) RuleAction {
	return RuleAction{Type: RuleActionSetAutomerge, BoolValue: value}
}

// SetQaStatusAction forces the QA status on matching pull requests
func SetQaStatusAction(status QaStatus) RuleAction {
	return RuleAction{Type: RuleActionSetQaStatus, QaValue: status}
}

// SetChecksEnabledAction enables or disables check aggregation on matching pull requests
func SetChecksEnabledAction(value bool) RuleAction {
	return RuleAction{Type: RuleActionSetChecksEnabled, BoolValue: value}
}

// MarshalJSON implements json.Marshaler
func (a RuleAction) MarshalJSON() ([]byte, error) {
	switch a.Type {
	case RuleActionSetAutomerge, RuleActionSetChecksEnabled:
		return json.Marshal(struct {
			Type  RuleActionType `json:"type"`
			Value bool           `json:"value"`
		}{a.Type, a.BoolValue})
	case RuleActionSetQaStatus:
		return json.Marshal(struct {
			Type  RuleActionType `json:"type"`
			Value QaStatus       `json:"value"`
		}{a.Type, a.QaValue})
	default:
		return nil, fmt.Errorf("invalid rule action type: %s", a.Type)
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (a *RuleAction) UnmarshalJSON(data []byte) error {
	var head struct {
		Type  RuleActionType  `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	switch head.Type {
	case RuleActionSetAutomerge, RuleActionSetChecksEnabled:
		var value bool
		if err := json.Unmarshal(head.Value, &value); err != nil {
			return err
		}
		*a = RuleAction{Type: head.Type, BoolValue: value}
	case RuleActionSetQaStatus:
		var status QaStatus
		if err := json.Unmarshal(head.Value, &status); err != nil {
			return err
		}
		*a = SetQaStatusAction(status)
	default:
		return fmt.Errorf("invalid rule action type: %s", head.Type)
	}
	return nil
}

// RuleConditionList stores rule conditions as a JSON array in SQLite
type RuleConditionList []RuleCondition

// Value implements driver.Valuer interface
func (l RuleConditionList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	return string(data), err
}

// Scan implements sql.Scanner interface
func (l *RuleConditionList) Scan(value any) error {
	return scanJSONList(value, l)
}

// RuleActionList stores rule actions as a JSON array in SQLite
type RuleActionList []RuleAction

// Value implements driver.Valuer interface
func (l RuleActionList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	return string(data), err
}

// Scan implements sql.Scanner interface
func (l *RuleActionList) Scan(value any) error {
	return scanJSONList(value, l)
}

// scanJSONList decodes a JSON column stored as string or bytes
func scanJSONList(value, target any) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
	return json.Unmarshal(bytes, target)
}
