package handlers

import (
	"net/http"

	"pocaswap-api/internal/models"
)

// CreateReport handles POST /api/v1/reports
func (h *Handlers) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReportRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	report, err := h.svc.Reports.Create(r.Context(), currentUser(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCreated(w, report)
}

// ListMyReports handles GET /api/v1/reports/mine
func (h *Handlers) ListMyReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.Reports.ListMine(r.Context(), currentUser(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, reports)
}

// AdminListReports handles GET /api/v1/admin/reports?status=&target_type=
func (h *Handlers) AdminListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := pageParams(r)
	filter := models.ReportFilter{
		Status:     models.ReportStatus(q.Get("status")),
		TargetType: models.ReportTargetType(q.Get("target_type")),
		Page:       page,
		Limit:      limit,
	}

	reports, meta, err := h.svc.Reports.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeList(w, reports, meta)
}

// ResolveReport handles POST /api/v1/admin/reports/{id}/resolve
func (h *Handlers) ResolveReport(w http.ResponseWriter, r *http.Request) {
	var req models.ResolveReportRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	report, err := h.svc.Reports.Resolve(r.Context(), currentUser(r), pathVar(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.app.Logger.Info().
		Str("request_id", getRequestID(r)).
		Str("admin_id", currentUser(r)).
		Str("report_id", report.ID).
		Str("status", string(report.Status)).
		Msg("Report resolved")

	h.writeSuccess(w, report)
}
