package server

import (
	"encoding/json"
	"net/http"

	"github.com/llmscope/llmscope/pkg/models"
)

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	list, err := s.engine.ListModels(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if list == nil {
		list = []models.ModelConfig{}
	}
	writeJSON(w, http.StatusOK, list)
}

type upsertModelRequest struct {
	Name     string                  `json:"name"`
	Provider models.Provider         `json:"provider"`
	Version  string                  `json:"version"`
	Settings models.ProviderSettings `json:"settings"`
}

func (s *Server) handleUpsertModel(w http.ResponseWriter, r *http.Request) {
	var req upsertModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Provider == "" {
		writeJSONError(w, http.StatusBadRequest, "name and provider are required")
		return
	}
	m, err := s.engine.UpsertModel(r.Context(), req.Name, req.Provider, req.Version, req.Settings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	m, err := s.engine.GetModel(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	ok, err := s.engine.TestConnection(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"connected": ok})
}

type startAuditRequest struct {
	ModelID string   `json:"model_id"`
	Suites  []string `json:"suites"`
}

// handleStartAudit validates and creates the run, then returns the run id
// immediately while suite execution proceeds in the background.
func (s *Server) handleStartAudit(w http.ResponseWriter, r *http.Request) {
	var req startAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	handle, err := s.engine.StartAudit(r.Context(), req.ModelID, req.Suites)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": handle.ID})
}

func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	rec, err := s.engine.GetAudit(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleExportAudit(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	data, err := s.engine.ExportAudit(r.Context(), r.PathValue("id"), format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-"+r.PathValue("id")+".json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type compareRequest struct {
	AuditA string `json:"audit_a"`
	AuditB string `json:"audit_b"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AuditA == "" || req.AuditB == "" {
		writeJSONError(w, http.StatusBadRequest, "audit_a and audit_b are required")
		return
	}
	rec, err := s.comparator.CompareAudits(r.Context(), req.AuditA, req.AuditB)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	rec, err := s.comparator.GetComparison(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListComparisons(w http.ResponseWriter, r *http.Request) {
	list, err := s.comparator.ListForModel(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if list == nil {
		list = []models.ComparisonRecord{}
	}
	writeJSON(w, http.StatusOK, list)
}
