package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/layout"
	"github.com/matzehuels/schemaflow/pkg/observability"
	"github.com/matzehuels/schemaflow/pkg/route"
)

const blog = `Table users {
  id int [pk]
  name varchar
}
Table posts {
  id int [pk]
  author_id int
}
Ref: posts.author_id > users.id`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return NewServer(Config{}).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestParse(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/parse", map[string]string{"dbml": blog})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	for _, want := range []string{`"users"`, `"posts"`, `"author_id"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("body missing %s: %s", want, rec.Body)
		}
	}
}

func TestLayout(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/v1/layout", map[string]any{"dbml": blog, "direction": "TB", "node_sep": 10})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	res := decodeBody[layout.Result](t, rec)
	if res.Direction != layout.TB || len(res.Nodes) != 2 || len(res.Edges) != 1 {
		t.Errorf("layout = %+v", res)
	}
}

func TestLayout_Errors(t *testing.T) {
	tests := []struct {
		name string
		body any
		code errors.Code
	}{
		{"bad direction", map[string]any{"dbml": blog, "direction": "RL"}, errors.ErrCodeInvalidDirection},
		{"negative spacing", map[string]any{"dbml": blog, "rank_sep": -5}, errors.ErrCodeInvalidSpacing},
		{"unknown field", map[string]any{"schema": blog}, errors.ErrCodeInvalidInput},
		{"null byte", map[string]any{"dbml": "Table a {\x00}"}, errors.ErrCodeInvalidInput},
	}
	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/layout", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if got := decodeBody[errorBody](t, rec); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestRoute(t *testing.T) {
	body := map[string]any{
		"source": route.Box{X: 0, Y: 0, Width: 40, Height: 20},
		"target": route.Box{X: 200, Y: 0, Width: 40, Height: 20},
	}
	rec := do(t, newTestServer(t), http.MethodPost, "/v1/route", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	p := decodeBody[route.Path](t, rec)
	if p.D != "M40,10 L200,10" || p.SourceSide != route.Right {
		t.Errorf("path = %+v", p)
	}
}

func TestRender(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/v1/render?format=svg", map[string]string{"dbml": blog})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("body = %.40q", rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/v1/render?format=gif", map[string]string{"dbml": blog})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d, want 400", rec.Code)
	}
}

func TestSessions(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/v1/sessions/", map[string]string{"dbml": blog})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	created := decodeBody[sessionView](t, rec)
	if created.Positions.Len() != 2 || len(created.Routes) != 1 {
		t.Fatalf("created = %+v", created)
	}
	base := "/v1/sessions/" + created.ID

	rec = do(t, h, http.MethodPut, base+"/nodes/users", moveRequest{X: 900, Y: 900})
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodGet, base+"/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d: %s", rec.Code, rec.Body)
	}
	got := decodeBody[sessionView](t, rec)
	if r, _ := got.Positions.Get("users"); r.X != 900 || r.Y != 900 {
		t.Errorf("users = %+v, want the moved position", r)
	}

	rec = do(t, h, http.MethodPut, base+"/nodes/comments", moveRequest{X: 1, Y: 1})
	if rec.Code != http.StatusNotFound {
		t.Errorf("move unknown table status = %d, want 404", rec.Code)
	}

	rec = do(t, h, http.MethodPut, base+"/", map[string]string{"dbml": "Table x {\x00}"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad update status = %d, want 400", rec.Code)
	}
	rec = do(t, h, http.MethodGet, base+"/", nil)
	if got := decodeBody[sessionView](t, rec); got.Text != blog {
		t.Error("failed update replaced the stored schema")
	}

	rec = do(t, h, http.MethodPost, base+"/relayout", relayoutRequest{Direction: layout.TB})
	if rec.Code != http.StatusOK {
		t.Fatalf("relayout status = %d: %s", rec.Code, rec.Body)
	}
	relaid := decodeBody[sessionView](t, rec)
	if relaid.Direction != layout.TB {
		t.Errorf("direction = %s, want TB", relaid.Direction)
	}
	if r, _ := relaid.Positions.Get("users"); r.X == 900 && r.Y == 900 {
		t.Error("relayout kept the moved position")
	}

	rec = do(t, h, http.MethodGet, base+"/render?format=svg", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `id="table-users"`) {
		t.Errorf("render status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodDelete, base+"/", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, base+"/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestSessions_KeepSpacing(t *testing.T) {
	h := newTestServer(t)
	text := "Table a {\n  id int\n}\nTable b {\n  id int\n}"

	rec := do(t, h, http.MethodPost, "/v1/sessions/", map[string]any{"dbml": text, "node_sep": 300})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	created := decodeBody[sessionView](t, rec)
	if created.Config == nil || created.Config.NodeSep != 300 {
		t.Fatalf("config = %+v, want node_sep 300", created.Config)
	}
	base := "/v1/sessions/" + created.ID

	gap := func(v sessionView) float64 {
		a, _ := v.Positions.Get("a")
		b, _ := v.Positions.Get("b")
		return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
	}

	rec = do(t, h, http.MethodPost, base+"/relayout", relayoutRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("relayout status = %d: %s", rec.Code, rec.Body)
	}
	relaid := decodeBody[sessionView](t, rec)
	if got, want := gap(relaid), gap(created); got != want {
		t.Errorf("gap after relayout = %v, want %v", got, want)
	}

	rec = do(t, h, http.MethodGet, base+"/", nil)
	if got := decodeBody[sessionView](t, rec); got.Config == nil || got.Config.NodeSep != 300 {
		t.Errorf("stored config = %+v, want node_sep 300", got.Config)
	}
}

func TestSessions_InvalidID(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/sessions/not-a-uuid/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if got := decodeBody[errorBody](t, rec); got.Code != errors.ErrCodeSessionNotFound {
		t.Errorf("code = %s", got.Code)
	}
}

type recordedResponse struct {
	method, route string
	status        int
}

type recordingHooks struct {
	mu   sync.Mutex
	seen []recordedResponse
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, recordedResponse{method, route, status})
}

func TestObserve(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	h := newTestServer(t)
	do(t, h, http.MethodGet, "/healthz", nil)
	do(t, h, http.MethodPost, "/v1/render?format=gif", map[string]string{"dbml": blog})

	want := []recordedResponse{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodPost, "/v1/render", http.StatusBadRequest},
	}
	if len(hooks.seen) != len(want) {
		t.Fatalf("recorded %v, want %v", hooks.seen, want)
	}
	for i := range want {
		if hooks.seen[i] != want[i] {
			t.Errorf("response %d = %+v, want %+v", i, hooks.seen[i], want[i])
		}
	}
}
