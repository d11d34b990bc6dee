package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/procodec/internal/export"
	"github.com/JonMunkholm/procodec/internal/logging"
	"github.com/JonMunkholm/procodec/internal/pro"
	"github.com/JonMunkholm/procodec/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var filenameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,100}$`)

// TranslateResponse is returned by GET /api/translate.
type TranslateResponse struct {
	Excel       string `json:"excel"`
	Strftime    string `json:"strftime"`
	Layout      string `json:"layout,omitempty"`
	LayoutError string `json:"layout_error,omitempty"`
}

// ImportResponse is returned by POST /api/import/{table}.
type ImportResponse struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status   string               `json:"status"`
	Database bool                 `json:"database"`
	Imports  *store.LimiterStatus `json:"imports,omitempty"`
}

// handleHealth reports liveness and whether imports are available.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: s.importer.Enabled()}
	if limiter := s.importer.Limiter(); limiter != nil {
		status := limiter.Status()
		resp.Imports = &status
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTranslate converts an Excel date pattern to strftime and Go layout
// notation.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		badRequest(w, "pattern is required", "Pass an Excel date pattern, e.g. ?pattern=dd/mm/yyyy")
		return
	}

	resp := TranslateResponse{Excel: pattern, Strftime: pro.TranslateExcelDate(pattern)}
	if layout, err := pro.GoLayout(resp.Strftime); err != nil {
		resp.LayoutError = err.Error()
	} else {
		resp.Layout = layout
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRead decodes a PRO document into a JSON table.
func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.readDocument(w, r, "read")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tableToJSON(tbl))
}

// handleWrite serializes a JSON table as a PRO document.
func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(pro.NewCountingReader(r.Body, s.cfg.Upload.MaxFileSize))
	dec.UseNumber()

	var in TableJSON
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, pro.ErrDocumentTooLarge) {
			respondError(w, r, err, 0)
			return
		}
		badRequest(w, "request body is not a valid JSON table", "Send {\"columns\": [...], \"rows\": [[...]]}")
		return
	}

	tbl, err := tableFromJSON(in)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	data, err := pro.Marshal(tbl, s.writeOpt)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	logging.WithFields(r.Context(), "op", "write").Debug("pro document written",
		"columns", len(tbl.Columns),
		"rows", tbl.NumRows(),
		"bytes", len(data),
	)

	w.Header().Set("Content-Type", "text/csv; charset="+s.cfg.Codec.OutputEncoding)
	w.Header().Set("Content-Disposition", attachment(r, "table", ".pro"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleExportXLSX decodes a PRO document and returns it as a workbook.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.readDocument(w, r, "export")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, tbl, r.URL.Query().Get("sheet")); err != nil {
		respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", attachment(r, "table", ".xlsx"))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleImport decodes a PRO document and copies it into a database table.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !s.importer.Enabled() {
		respondError(w, r, store.ErrDatabaseNotConfigured, 0)
		return
	}

	table := chi.URLParam(r, "table")
	tbl, ok := s.readDocument(w, r, "import")
	if !ok {
		return
	}

	n, err := s.importer.Import(r.Context(), table, tbl)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Table: table, Rows: n})
}

// readDocument reads the request body as a PRO document, applying the
// per-request overrides ?header= and ?types=. It writes the error response
// itself and reports false on failure.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request, op string) (*pro.Table, bool) {
	opts := s.readOpts
	q := r.URL.Query()

	if q.Has("header") {
		re, err := pro.CompileHeaderPattern(q.Get("header"))
		if err != nil {
			respondError(w, r, err, 0)
			return nil, false
		}
		opts.HeaderPattern = re
	}
	if raw := q.Get("types"); raw != "" {
		types, err := parseTypes(raw)
		if err != nil {
			badRequest(w, err.Error(), "Use ?types=COLUMN:kind,... with kinds string, numeric, integer")
			return nil, false
		}
		opts.Types = types
	}

	body := pro.NewCountingReader(r.Body, s.cfg.Upload.MaxFileSize)
	opts.Logger = logging.WithFields(r.Context(), "op", op)

	tbl, err := pro.ReadFrom(body, opts)
	if err != nil {
		respondError(w, r, err, 0)
		return nil, false
	}
	opts.Logger.Debug("pro document read", "bytes", body.BytesRead)
	return tbl, true
}

// parseTypes parses "NAME:kind,NAME:kind".
func parseTypes(raw string) (map[string]pro.Kind, error) {
	types := make(map[string]pro.Kind)
	for _, pair := range strings.Split(raw, ",") {
		name, kindName, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid types entry %q", pair)
		}
		kind, err := pro.ParseKind(kindName)
		if err != nil {
			return nil, err
		}
		types[name] = kind
	}
	return types, nil
}

// attachment builds a Content-Disposition header from ?name=, falling back
// to def when the name is missing or unsafe.
func attachment(r *http.Request, def, ext string) string {
	name := r.URL.Query().Get("name")
	if !filenameRegex.MatchString(name) {
		name = def
	}
	if !strings.HasSuffix(name, ext) {
		name += ext
	}
	return fmt.Sprintf("attachment; filename=%q", name)
}

// badRequest writes a 400 for malformed requests that never reached the codec.
func badRequest(w http.ResponseWriter, message, action string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   message,
		Message: message,
		Action:  action,
		Code:    "REQ001",
	})
}
