package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/validation"

	"github.com/rs/zerolog"
)

const maxReportDescription = 1000

type ReportService struct {
	repo   core.ReportRepository
	users  core.UserRepository
	posts  core.PostRepository
	chat   core.ChatRepository
	tx     core.TxManager
	logger zerolog.Logger
	now    clock
}

func NewReportService(repo core.ReportRepository, users core.UserRepository, posts core.PostRepository, chat core.ChatRepository, tx core.TxManager, logger zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, users: users, posts: posts, chat: chat, tx: tx, logger: logger, now: utcNow}
}

// targetOwner resolves who is responsible for the reported target.
func (s *ReportService) targetOwner(ctx context.Context, reporterID string, targetType models.ReportTargetType, targetID string) (string, error) {
	switch targetType {
	case models.ReportTargetUser:
		user, err := s.users.GetByID(ctx, targetID)
		if err != nil {
			return "", err
		}
		return user.ID, nil
	case models.ReportTargetPost:
		post, err := s.posts.GetByID(ctx, targetID)
		if err != nil {
			return "", err
		}
		return post.AuthorID, nil
	case models.ReportTargetComment:
		comment, err := s.posts.GetComment(ctx, targetID)
		if err != nil {
			return "", err
		}
		return comment.AuthorID, nil
	case models.ReportTargetMessage:
		msg, err := s.chat.GetMessage(ctx, targetID)
		if err != nil {
			return "", err
		}
		room, err := s.chat.GetRoom(ctx, msg.RoomID)
		if err != nil {
			return "", err
		}
		// Messages are only visible to room members.
		if !room.HasMember(reporterID) {
			return "", fmt.Errorf("%w: message not found", errs.ErrNotFound)
		}
		if msg.SenderID == nil {
			return "", fmt.Errorf("%w: system messages cannot be reported", errs.ErrInvalidInput)
		}
		return *msg.SenderID, nil
	}
	return "", fmt.Errorf("%w: unknown target_type %q", errs.ErrInvalidInput, targetType)
}

func validReason(r models.ReportReason) bool {
	switch r {
	case models.ReasonSpam, models.ReasonScam, models.ReasonAbuse, models.ReasonInappropriate, models.ReasonOther:
		return true
	}
	return false
}

func (s *ReportService) Create(ctx context.Context, reporterID string, req models.CreateReportRequest) (*models.Report, error) {
	targetID := normalizeID(req.TargetID)
	if targetID == "" {
		return nil, fmt.Errorf("%w: target_id must be a valid id", errs.ErrInvalidInput)
	}
	if !validReason(req.Reason) {
		return nil, fmt.Errorf("%w: unknown reason %q", errs.ErrInvalidInput, req.Reason)
	}
	description := validation.SanitizeString(req.Description)
	if utf8.RuneCountInString(description) > maxReportDescription {
		return nil, fmt.Errorf("%w: description must be at most %d characters", errs.ErrInvalidInput, maxReportDescription)
	}

	ownerID, err := s.targetOwner(ctx, reporterID, req.TargetType, targetID)
	if err != nil {
		return nil, err
	}
	if ownerID == reporterID {
		return nil, fmt.Errorf("%w: you cannot report yourself or your own content", errs.ErrInvalidInput)
	}

	open, err := s.repo.HasOpen(ctx, reporterID, req.TargetType, targetID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, fmt.Errorf("%w: you already reported this", errs.ErrConflict)
	}

	report := &models.Report{
		ID:            newID(),
		ReporterID:    reporterID,
		TargetType:    req.TargetType,
		TargetID:      targetID,
		TargetOwnerID: ownerID,
		Reason:        req.Reason,
		Description:   description,
		Status:        models.ReportPending,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("report_id", report.ID).
		Str("target_type", string(report.TargetType)).
		Str("target_id", report.TargetID).
		Msg("Report filed")
	return report, nil
}

func (s *ReportService) ListMine(ctx context.Context, reporterID string) ([]models.Report, error) {
	return s.repo.ListByReporter(ctx, reporterID)
}

func (s *ReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, *models.PaginationMetadata, error) {
	filter.Page, filter.Limit = models.NormalizePage(filter.Page, filter.Limit)
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return reports, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Resolve closes a pending report. Actioning a user report deactivates the user and
// actioning a post report closes the post; comment and message reports are only recorded.
func (s *ReportService) Resolve(ctx context.Context, adminID, reportID string, req models.ResolveReportRequest) (*models.Report, error) {
	if req.Status != models.ReportActioned && req.Status != models.ReportDismissed {
		return nil, fmt.Errorf("%w: status must be actioned or dismissed", errs.ErrInvalidInput)
	}

	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportPending {
		return nil, fmt.Errorf("%w: report already %s", errs.ErrInvalidTransition, report.Status)
	}

	note := validation.SanitizeString(req.Note)
	now := s.now()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Resolve(ctx, report.ID, req.Status, note, adminID, now); err != nil {
			return err
		}
		if req.Status != models.ReportActioned {
			return nil
		}
		switch report.TargetType {
		case models.ReportTargetUser:
			return s.users.SetActive(ctx, report.TargetID, false)
		case models.ReportTargetPost:
			return s.posts.UpdateStatus(ctx, report.TargetID, models.PostClosed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.Status = req.Status
	report.ResolutionNote = note
	report.ResolvedBy = &adminID
	report.ResolvedAt = &now

	s.logger.Info().
		Str("report_id", report.ID).
		Str("admin_id", adminID).
		Str("status", string(report.Status)).
		Msg("Report resolved")
	return report, nil
}
