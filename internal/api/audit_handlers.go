package api

import (
	"net/http"
	"strconv"

	"github.com/gatehouse-sec/gatehouse/internal/api/presenter"
	"github.com/gatehouse-sec/gatehouse/internal/audit"
)

const defaultAuditLimit = 50

// handleListAudits returns the most recent audit entries. Only available
// when the in-memory auditor is configured; file auditors are consumed
// out-of-band.
func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	memAuditor, ok := s.auditor.(*audit.InMemoryAuditor)
	if !ok {
		presenter.Error(w, r, "audit listing requires the memory auditor", http.StatusNotImplemented)
		return
	}

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			presenter.Error(w, r, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := memAuditor.GetRecent(limit)
	if err != nil {
		presenter.Err(w, r, err, "listing audit entries failed")
		return
	}
	presenter.JSON(w, r, entries, http.StatusOK)
}
