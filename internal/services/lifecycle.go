package services

import (
	"fmt"

	"back2u-backend/internal/models"
)

// Actions lists what a viewer may do with a report
type Actions struct {
	MarkFound    bool `json:"mark_found"`
	SubmitReturn bool `json:"submit_return"`
}

// CheckTransition validates a status change requested by callerUID.
// OPEN -> FOUND is the only transition and only the owner may make it.
// FOUND is terminal for everyone.
func CheckTransition(report *models.Report, to models.ReportStatus, callerUID string) error {
	if report.Status != models.StatusOpen {
		return fmt.Errorf("report is %s: %w", report.Status, ErrInvalidTransition)
	}
	if callerUID != report.UserID {
		return fmt.Errorf("only the report owner can change its status: %w", ErrPermissionDenied)
	}
	if to != models.StatusFound {
		return fmt.Errorf("cannot move report from %s to %s: %w", report.Status, to, ErrInvalidTransition)
	}
	return nil
}

// VisibleActions returns the actions offered to viewerUID on report
func VisibleActions(report *models.Report, viewerUID string) Actions {
	if report.Status != models.StatusOpen {
		return Actions{}
	}
	if viewerUID == report.UserID {
		return Actions{MarkFound: true}
	}
	return Actions{SubmitReturn: true}
}
