package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/couchcryptid/landslide-monitor/internal/domain"
	"github.com/couchcryptid/landslide-monitor/internal/monitor"
)

const maxBodyBytes = 64 << 10

// Submitter stores a reading typed into the entry form.
type Submitter interface {
	Submit(ctx context.Context, rawMoisture, rawSlope string) (domain.SensorRecord, error)
}

// HistoryViewer lists and clears stored records.
type HistoryViewer interface {
	Load(ctx context.Context) ([]domain.SensorRecord, error)
	Clear(ctx context.Context, confirmed bool) (monitor.ClearResult, error)
}

// RiskAssessor assesses the most recent reading.
type RiskAssessor interface {
	Latest(ctx context.Context) (monitor.LatestRisk, error)
}

// Services bundles the operations the API serves.
type Services struct {
	Recorder Submitter
	History  HistoryViewer
	Risk     RiskAssessor
}

// formValue is a form field that arrives as a JSON string ("60,5") or, from
// non-browser clients, as a bare JSON number (60.5). Either way the raw text is
// validated by the domain.
type formValue string

func (f *formValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = formValue(n.String())
	return nil
}

type submitRequest struct {
	SoilMoisture formValue `json:"soilMoisture"`
	Slope        formValue `json:"slope"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

type historyResponse struct {
	Records []domain.SensorRecord `json:"records"`
}

type riskResponse struct {
	domain.Assessment
	Record *domain.SensorRecord `json:"record,omitempty"`
}

type mitigationResponse struct {
	Sections []domain.AdviceSection `json:"sections"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be a JSON object with soilMoisture and slope"})
		return
	}

	rec, err := s.api.Recorder.Submit(r.Context(), string(req.SoilMoisture), string(req.Slope))
	if err != nil {
		s.writeError(w, r, err, "could not save the reading, please try again")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	recs, err := s.api.History.Load(r.Context())
	if err != nil {
		s.writeError(w, r, err, "could not load the history")
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Records: recs})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	confirmed := false
	if v := r.URL.Query().Get("confirm"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "confirm must be true or false"})
			return
		}
		confirmed = b
	}

	res, err := s.api.History.Clear(r.Context(), confirmed)
	if err != nil {
		s.writeError(w, r, err, "could not clear the history")
		return
	}

	status := http.StatusOK
	if res.Outcome == monitor.ClearNeedsConfirmation {
		status = http.StatusConflict
	}
	writeJSON(w, status, res)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	latest, err := s.api.Risk.Latest(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		writeJSON(w, http.StatusInternalServerError, riskResponse{Assessment: domain.ErrorAssessment()})
		return
	}
	writeJSON(w, http.StatusOK, riskResponse{Assessment: latest.Assessment, Record: latest.Record})
}

func (s *Server) handleMitigation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mitigationResponse{Sections: domain.MitigationAdvice()})
}

// writeError maps validation failures to 400 with details and everything else
// to a generic 500. Nothing is written once the client has gone away.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, generic string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: verr.Error(),
			Kind:  string(verr.Kind),
			Field: verr.Field,
		})
		return
	}
	if r.Context().Err() != nil {
		s.logger.Debug("request abandoned", "path", r.URL.Path, "error", err)
		return
	}
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: generic})
}
