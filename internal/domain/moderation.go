package domain

import "context"

// ModerateAction is an admin action on a reported item.
type ModerateAction string

const (
	ActionDismiss   ModerateAction = "dismiss"
	ActionWarn      ModerateAction = "warn"
	ActionHide      ModerateAction = "hide"
	ActionRemove    ModerateAction = "remove"
	ActionSuspend   ModerateAction = "suspend"
	ActionApprove   ModerateAction = "approve"
	ActionReject    ModerateAction = "reject"
	ActionUnpublish ModerateAction = "unpublish"
	ActionReopen    ModerateAction = "reopen"
)

var reportActions = map[ModerateAction]bool{
	ActionDismiss: true, ActionWarn: true, ActionHide: true, ActionRemove: true, ActionSuspend: true, ActionReopen: true,
}

var eventActions = map[ModerateAction]bool{
	ActionApprove: true, ActionReject: true, ActionHide: true, ActionUnpublish: true, ActionRemove: true,
}

// IsModerateAction reports whether s is a valid action on a report.
func IsModerateAction(s string) bool { return reportActions[ModerateAction(s)] }

// IsEventModerateAction reports whether s is a valid action on an event.
func IsEventModerateAction(s string) bool { return eventActions[ModerateAction(s)] }

// ReportTargetType is the kind of item a user report targets.
type ReportTargetType string

const (
	ReportTargetUser      ReportTargetType = "user"
	ReportTargetMessage   ReportTargetType = "message"
	ReportTargetReference ReportTargetType = "reference"
	ReportTargetEvent     ReportTargetType = "event"
)

// IsReportTargetType reports whether s is a reportable item kind.
func IsReportTargetType(s string) bool {
	switch ReportTargetType(s) {
	case ReportTargetUser, ReportTargetMessage, ReportTargetReference, ReportTargetEvent:
		return true
	}
	return false
}

// ReportInput is the payload of create_report.
type ReportInput struct {
	TargetType ReportTargetType `json:"target_type"`
	TargetID   string           `json:"target_id"`
	Reason     string           `json:"reason"`
	Details    string           `json:"details,omitempty"`
}

// ModerationDecision is an admin's decision on a report or event.
type ModerationDecision struct {
	Action ModerateAction `json:"action"`
	Note   string         `json:"note,omitempty"`
}

// ModerationService forwards moderation and reporting to the database procedures.
type ModerationService interface {
	ModerateReport(ctx context.Context, userID, reportID string, d ModerationDecision) error
	ModerateEvent(ctx context.Context, userID, eventID string, d ModerationDecision) error
	CreateReport(ctx context.Context, userID string, in ReportInput) (string, error)
}
