package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/cardpress/pkg/buildinfo"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/pipeline"
	"github.com/matzehuels/cardpress/pkg/render/card"
	"github.com/matzehuels/cardpress/pkg/render/page"
	"github.com/matzehuels/cardpress/pkg/render/sink"
)

type apiError struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Deficit float64     `json:"deficit,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

type cardStatus struct {
	ID     string    `json:"id"`
	OK     bool      `json:"ok"`
	Cached bool      `json:"cached,omitempty"`
	Error  *apiError `json:"error,omitempty"`
}

type sheetRequest struct {
	Cards []card.Spec `json:"cards"`
	Page  page.Config `json:"page"`
}

type sheetResponse struct {
	ID        string       `json:"id,omitempty"`
	Grid      page.Grid    `json:"grid"`
	Pages     int          `json:"pages"`
	Instances int          `json:"instances"`
	Cards     []cardStatus `json:"cards"`
	PageURLs  []string     `json:"page_urls,omitempty"`
	PDFURL    string       `json:"pdf_url,omitempty"`
}

type gridResponse struct {
	Grid     page.Grid `json:"grid"`
	Capacity int       `json:"capacity"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	if s.composer == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "card rendering is not configured"))
		return
	}
	var spec card.Spec
	if err := decodeJSON(w, r, &spec); err != nil {
		writeError(w, err)
		return
	}

	res := s.runner.RenderCards(r.Context(), s.composer, []card.Spec{spec})[0]
	if res.Err != nil {
		writeError(w, res.Err)
		return
	}

	var buf bytes.Buffer
	if err := sink.EncodePNG(&buf, res.Card.Image); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode card"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Cache", cacheStatus(res.Cached))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	cfg := s.page
	if err := decodeJSON(w, r, &cfg); err != nil {
		writeError(w, err)
		return
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, err)
		return
	}
	g, err := cfg.Grid()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gridResponse{Grid: g, Capacity: g.Capacity()})
}

func (s *Server) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	if s.composer == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "card rendering is not configured"))
		return
	}
	req := sheetRequest{Page: s.page}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Cards) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "sheet has no cards"))
		return
	}
	if err := req.Page.Validate(); err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	results := s.runner.RenderCards(ctx, s.composer, req.Cards)
	resp := sheetResponse{Cards: statuses(results)}

	items := pipeline.Items(results)
	if len(items) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	sheet, err := s.runner.TilePages(ctx, items, req.Page)
	if err != nil {
		writeError(w, err)
		return
	}

	id := uuid.NewString()
	if err := s.storeSheet(ctx, id, sheet); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store sheet"))
		return
	}

	resp.ID = id
	resp.Grid = sheet.Grid
	resp.Pages = len(sheet.Pages)
	resp.Instances = sheet.Instances()
	for n := 1; n <= resp.Pages; n++ {
		resp.PageURLs = append(resp.PageURLs, fmt.Sprintf("/api/sheets/%s/pages/%d", id, n))
	}
	resp.PDFURL = fmt.Sprintf("/api/sheets/%s/pdf", id)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSheetPage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "page number must be a positive integer"))
		return
	}
	s.serveSheetPart(w, r, pagePart(n), "image/png")
}

func (s *Server) handleSheetPDF(w http.ResponseWriter, r *http.Request) {
	s.serveSheetPart(w, r, "pdf", "application/pdf")
}

func (s *Server) serveSheetPart(w http.ResponseWriter, r *http.Request, part, contentType string) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid sheet id %q", id))
		return
	}

	data, hit, err := s.runner.Cache.Get(r.Context(), s.runner.Keyer.SheetKey(id, part))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load sheet"))
		return
	}
	if !hit {
		writeError(w, errors.New(errors.ErrCodeResourceNotFound, "sheet %s has no %s (expired or never created)", id, part))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// storeSheet caches every page PNG and the PDF of sheet under id.
func (s *Server) storeSheet(ctx context.Context, id string, sheet *pipeline.Sheet) error {
	for i, img := range sheet.Images {
		var buf bytes.Buffer
		if err := sink.EncodePNG(&buf, img); err != nil {
			return err
		}
		if err := s.runner.Cache.Set(ctx, s.runner.Keyer.SheetKey(id, pagePart(i+1)), buf.Bytes(), s.sheetTTL); err != nil {
			return err
		}
	}
	return s.runner.Cache.Set(ctx, s.runner.Keyer.SheetKey(id, "pdf"), sheet.PDF, s.sheetTTL)
}

func pagePart(n int) string { return "page-" + strconv.Itoa(n) }

func statuses(results []pipeline.CardResult) []cardStatus {
	out := make([]cardStatus, len(results))
	for i, r := range results {
		out[i] = cardStatus{ID: r.Spec.ID, OK: r.OK(), Cached: r.Cached}
		if r.Err != nil {
			e := toAPIError(r.Err)
			out[i].Error = &e
		}
	}
	return out
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
