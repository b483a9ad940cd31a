// File: internal/models/report.go
package models

import "time"

type ReportTargetType string

const (
	ReportTargetUser    ReportTargetType = "user"
	ReportTargetPost    ReportTargetType = "post"
	ReportTargetComment ReportTargetType = "comment"
	ReportTargetMessage ReportTargetType = "message"
)

type ReportReason string

const (
	ReasonSpam          ReportReason = "spam"
	ReasonScam          ReportReason = "scam"
	ReasonAbuse         ReportReason = "abuse"
	ReasonInappropriate ReportReason = "inappropriate"
	ReasonOther         ReportReason = "other"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportActioned  ReportStatus = "actioned"
	ReportDismissed ReportStatus = "dismissed"
)

type Report struct {
	ID             string           `json:"id"`
	ReporterID     string           `json:"reporter_id"`
	TargetType     ReportTargetType `json:"target_type"`
	TargetID       string           `json:"target_id"`
	TargetOwnerID  string           `json:"target_owner_id"`
	Reason         ReportReason     `json:"reason"`
	Description    string           `json:"description"`
	Status         ReportStatus     `json:"status"`
	ResolutionNote string           `json:"resolution_note,omitempty"`
	ResolvedBy     *string          `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

type CreateReportRequest struct {
	TargetType  ReportTargetType `json:"target_type" validate:"required,oneof=user post comment message"`
	TargetID    string           `json:"target_id" validate:"required,uuid"`
	Reason      ReportReason     `json:"reason" validate:"required,oneof=spam scam abuse inappropriate other"`
	Description string           `json:"description" validate:"max=1000"`
}

type ResolveReportRequest struct {
	Status ReportStatus `json:"status" validate:"required,oneof=actioned dismissed"`
	Note   string       `json:"note" validate:"max=500"`
}

type ReportFilter struct {
	Status     ReportStatus
	TargetType ReportTargetType
	Page       int
	Limit      int
}
