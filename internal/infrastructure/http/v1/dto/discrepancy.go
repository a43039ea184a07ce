package dto

import "jargas/internal/domain/discrepancy"

// CheckResponse lists the warning pairs found by a check.
type CheckResponse struct {
	ProjectID int64                `json:"projectId"`
	Warnings  []discrepancy.Report `json:"warnings"`
}

// NotificationListQuery contains the notification list parameters.
type NotificationListQuery struct {
	ListQuery
	UnreadOnly bool   `form:"unreadOnly"`
	MandorID   *int64 `form:"mandorId"`
}

// MarkReadResponse reports how many notifications changed.
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
