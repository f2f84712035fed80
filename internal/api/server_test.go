package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/observability"
	"github.com/matzehuels/cardpress/pkg/pipeline"
	"github.com/matzehuels/cardpress/pkg/render/card"
	"github.com/matzehuels/cardpress/pkg/render/page"
	"github.com/matzehuels/cardpress/pkg/resource"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	var art bytes.Buffer
	if err := imaging.Encode(&art, imaging.New(60, 40, color.NRGBA{B: 200, A: 255}), imaging.PNG); err != nil {
		t.Fatal(err)
	}
	composer, err := card.NewComposer(card.DefaultConfig(), nil, resource.MapResolver{"art": art.Bytes()})
	if err != nil {
		t.Fatal(err)
	}

	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	runner.Workers = 2

	pageCfg := page.DefaultConfig()
	pageCfg.DPI = 50

	return NewServer(Options{Runner: runner, Composer: composer, Page: pageCfg, Logger: logger})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

const goodCard = `{"header":"Dragon","body":"Breathes fire.","image":"art","color":"red","id":"dragon"}`

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestCreateCard(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/cards", goodCard)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s", ct)
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first request X-Cache = %s", rec.Header().Get("X-Cache"))
	}
	img, err := imaging.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode card: %v", err)
	}
	cfg := card.DefaultConfig()
	if img.Bounds().Dx() != cfg.Width || img.Bounds().Dy() != cfg.Height {
		t.Errorf("card size = %v", img.Bounds())
	}

	rec = do(t, s, http.MethodPost, "/api/cards", goodCard)
	if rec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second request X-Cache = %s", rec.Header().Get("X-Cache"))
	}
}

func TestCreateCardErrors(t *testing.T) {
	s := newTestServer(t)
	overflow := `{"header":"Scroll","body":"` + strings.Repeat(`x\\n`, 80) + `","image":"art","color":"red","id":"scroll"}`

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"missing image", `{"header":"H","body":"B","image":"ghost","color":"red","id":"g"}`, http.StatusNotFound, errors.ErrCodeResourceNotFound},
		{"empty field", `{"header":"H","body":"","image":"art","color":"red","id":"g"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unsafe id", `{"header":"H","body":"B","image":"art","color":"red","id":"../g"}`, http.StatusBadRequest, errors.ErrCodeInvalidName},
		{"bad json", `{"header":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"title":"H"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"overflow", overflow, http.StatusUnprocessableEntity, errors.ErrCodeOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/cards", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			e := decodeError(t, rec)
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
			if tt.code == errors.ErrCodeOverflow && e.Deficit <= 0 {
				t.Errorf("overflow deficit = %v, want > 0", e.Deficit)
			}
		})
	}
}

func TestGrid(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		status   int
		wantCols int
		wantRows int
	}{
		{"defaults", ``, http.StatusOK, 4, 2},
		{"portrait", `{"page_width_mm":210,"page_height_mm":297}`, http.StatusOK, 3, 2},
		{"card too large", `{"card_width_mm":400}`, http.StatusUnprocessableEntity, 0, 0},
		{"zero copies", `{"copies":0}`, http.StatusBadRequest, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/grid", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			var resp gridResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Grid.Cols != tt.wantCols || resp.Grid.Rows != tt.wantRows {
				t.Errorf("grid = %dx%d, want %dx%d", resp.Grid.Cols, resp.Grid.Rows, tt.wantCols, tt.wantRows)
			}
			if resp.Capacity != tt.wantCols*tt.wantRows {
				t.Errorf("capacity = %d", resp.Capacity)
			}
		})
	}
}

func TestSheetLifecycle(t *testing.T) {
	s := newTestServer(t)
	body := `{"cards":[` + goodCard + `,
		{"header":"Ghost","body":"B","image":"ghost","color":"blue","id":"ghost"},
		{"header":"Knight","body":"Holds.","image":"art","color":"blue","id":"knight"}
	],"page":{"copies":3}}`

	rec := do(t, s, http.MethodPost, "/api/sheets", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var resp sheetResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Instances != 6 {
		t.Errorf("instances = %d, want 2 cards x 3 copies", resp.Instances)
	}
	if resp.Pages != 1 || len(resp.PageURLs) != 1 {
		t.Errorf("pages = %d, urls = %v", resp.Pages, resp.PageURLs)
	}
	if len(resp.Cards) != 3 || resp.Cards[1].OK || resp.Cards[1].Error == nil {
		t.Errorf("card statuses = %+v", resp.Cards)
	} else if resp.Cards[1].Error.Code != errors.ErrCodeResourceNotFound {
		t.Errorf("ghost error = %s", resp.Cards[1].Error.Code)
	}

	rec = do(t, s, http.MethodGet, resp.PageURLs[0], "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("page 1: status %d, type %s", rec.Code, rec.Header().Get("Content-Type"))
	}

	rec = do(t, s, http.MethodGet, resp.PDFURL, "")
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Errorf("pdf: status %d", rec.Code)
	}

	if rec := do(t, s, http.MethodGet, "/api/sheets/"+resp.ID+"/pages/2", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing page: status %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/sheets/"+resp.ID+"/pages/zero", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad page number: status %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/sheets/not-a-uuid/pdf", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/sheets/6f1c1f0e-6f4e-4a43-9a0e-2b8f3a4f9c11/pdf", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown sheet: status %d", rec.Code)
	}
}

func TestSheetErrors(t *testing.T) {
	s := newTestServer(t)

	if rec := do(t, s, http.MethodPost, "/api/sheets", `{"cards":[]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("no cards: status %d", rec.Code)
	}

	allBad := `{"cards":[{"header":"H","body":"B","image":"ghost","color":"red","id":"g"}]}`
	rec := do(t, s, http.MethodPost, "/api/sheets", allBad)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("no rendered card: status %d", rec.Code)
	}
}

func TestNoComposer(t *testing.T) {
	s := NewServer(Options{Page: page.DefaultConfig(), Logger: log.New(io.Discard)})
	if rec := do(t, s, http.MethodPost, "/api/cards", goodCard); rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/grid", ""); rec.Code != http.StatusOK {
		t.Errorf("grid without composer: status = %d", rec.Code)
	}
}

type routeRecorder struct {
	observability.NoopServerHooks
	mu     sync.Mutex
	routes []string
}

func (r *routeRecorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, method+" "+route)
}

func TestServerHooksSeeRoutePatterns(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)
	rec := &routeRecorder{}
	observability.SetServerHooks(rec)

	s := newTestServer(t)
	do(t, s, http.MethodGet, "/api/sheets/6f1c1f0e-6f4e-4a43-9a0e-2b8f3a4f9c11/pdf", "")

	if len(rec.routes) != 1 || rec.routes[0] != "GET /api/sheets/{id}/pdf" {
		t.Errorf("routes = %v", rec.routes)
	}
}
