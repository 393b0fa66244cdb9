// Package server exposes the reconciliation pipeline over HTTP. The
// layer stays thin: it parses uploads, delegates to the pipeline and
// maps failures to structured JSON errors.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"agencypulse/pipeline"
	"agencypulse/report"
	"agencypulse/store"
	"agencypulse/table"
)

const (
	maxUploadBytes = 64 << 20
	previewRows    = 5
)

// Server routes HTTP traffic to the pipeline and the record store.
type Server struct {
	pipeline *pipeline.Service
	store    *store.Store
	log      *logrus.Logger
	origins  []string
}

// New wires the HTTP layer.
func New(p *pipeline.Service, st *store.Store, log *logrus.Logger, origins []string) *Server {
	return &Server{pipeline: p, store: st, log: log, origins: origins}
}

// Handler returns the fully routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/process_excels", s.handleProcess).Methods(http.MethodPost)
	r.HandleFunc("/main_data", s.handleMainData).Methods(http.MethodGet)
	r.HandleFunc("/preview_performance", s.handlePreviewPerformance).Methods(http.MethodPost)
	r.HandleFunc("/preview_interview", s.handlePreviewInterview).Methods(http.MethodPost)
	r.HandleFunc("/test", s.handleTest).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

// handleProcess accepts the two spreadsheet uploads, runs the full
// pipeline and answers with run metadata plus a bounded preview.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("parsing upload: %w", err))
		return
	}
	first, err := s.formTable(r, "performance")
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	second, err := s.formTable(r, "interview")
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.pipeline.Run(r.Context(), first, second)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrUnjoinable) || errors.Is(err, pipeline.ErrNoColumns) {
			status = http.StatusUnprocessableEntity
		}
		s.fail(w, status, err)
		return
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []pipeline.Warning{}
	}
	s.respond(w, http.StatusOK, map[string]any{
		"success":         true,
		"processing_time": result.Duration.Seconds(),
		"total_records":   result.Records,
		"preview":         result.Table.Head(previewRows).Maps(),
		"warnings":        warnings,
	})
}

// handleMainData returns the stored dataset with the segmentation view,
// as JSON or as a French-format CSV download.
func (s *Server) handleMainData(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.All(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	segmented := report.Segment(records)

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="main_data.csv"`)
		if err := report.TableOf(segmented).WriteCSVFrench(w); err != nil {
			s.log.WithError(err).Error("writing csv export")
		}
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   len(segmented),
		"data":    segmented,
	})
}

// handlePreviewPerformance cleans the establishment numbers of a single
// performance upload and shows the derived composite keys.
func (s *Server) handlePreviewPerformance(w http.ResponseWriter, r *http.Request) {
	t, err := s.singleUpload(r)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	if !t.HasColumn(pipeline.ColEstablishmentNumber) || !t.HasColumn(pipeline.ColAgencyCode) {
		s.fail(w, http.StatusUnprocessableEntity, pipeline.ErrUnjoinable)
		return
	}

	sirets := t.Column(pipeline.ColEstablishmentNumber)
	agencies := t.Column(pipeline.ColAgencyCode)
	keys := make([]string, len(sirets))
	for i := range sirets {
		sirets[i] = pipeline.CleanEstablishmentNumber(sirets[i])
		if sirets[i] != "" {
			keys[i] = sirets[i] + strings.TrimSpace(agencies[i])
		}
	}
	t = t.WithColumn(pipeline.ColEstablishmentNumber, sirets)
	t = t.WithColumn(pipeline.KeyColumn, keys)

	s.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"columns": t.Columns(),
		"preview": t.Head(previewRows).Maps(),
	})
}

// handlePreviewInterview renames an interview upload to the canonical
// headers, fills placeholders and scores the text fields with the
// lexicon analyzer only. The model is never loaded for previews.
func (s *Server) handlePreviewInterview(w http.ResponseWriter, r *http.Request) {
	t, err := s.singleUpload(r)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	rename := make(map[string]string)
	for _, spec := range pipeline.InterviewSpecs {
		if col, ok := spec.Resolve(t); ok && col != spec.Canonical {
			rename[col] = spec.Canonical
		}
	}
	t = t.Rename(rename)
	t = pipeline.PrepareInterview(t)

	preview, err := pipeline.PreviewSentiment(r.Context(), t)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"columns": preview.Columns(),
		"preview": preview.Head(previewRows).Maps(),
	})
}

func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "agencypulse backend up",
	})
}

// formTable reads one named multipart file into a table, picking the
// loader from the file extension.
func (s *Server) formTable(r *http.Request, field string) (table.Table, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return table.Table{}, fmt.Errorf("missing upload %q: %w", field, err)
	}
	defer file.Close()
	return loadByExtension(file, header.Filename)
}

// singleUpload accepts the preview form shape: one file under "file".
func (s *Server) singleUpload(r *http.Request) (table.Table, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return table.Table{}, fmt.Errorf("parsing upload: %w", err)
	}
	return s.formTable(r, "file")
}

func loadByExtension(f multipart.File, name string) (table.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return table.LoadCSV(f, ';')
	case ".xlsx", ".xlsm":
		return table.LoadXLSX(f)
	default:
		return table.Table{}, fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
}

func (s *Server) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.WithError(err).Error("encoding response")
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.log.WithError(err).Warn("request failed")
	s.respond(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}
