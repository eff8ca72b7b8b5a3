package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/structboard/pkg/buildinfo"
	"github.com/matzehuels/structboard/pkg/store"
)

const listJSON = `[
  {"type": "Struct", "id": "s", "x": 0, "y": 0, "name": "node", "width": 200, "height": 120,
   "children": [{"type": "PointerCell", "id": "p", "x": 0, "y": 0, "name": "next", "width": 120, "height": 60, "targetId": "t"}]},
  {"type": "DataCell", "id": "t", "x": 400, "y": 0, "name": "tail", "value": "9", "width": 120, "height": 60}
]`

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(New(s, nil, nil).Handler())
	t.Cleanup(ts.Close)
	return ts, s
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, "GET", ts.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	type health struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}
	if body := decode[health](t, resp); body.Status != "ok" || body.Build != buildinfo.Current() {
		t.Errorf("body = %+v", body)
	}
}

func TestDiagramLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	if got := decode[[]store.Info](t, do(t, "GET", ts.URL+"/diagrams", "", "")); len(got) != 0 {
		t.Fatalf("initial list = %v", got)
	}

	resp := do(t, "PUT", ts.URL+"/diagrams/list", "application/json", listJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d", resp.StatusCode)
	}
	put := decode[putResponse](t, resp)
	if put.Elements != 3 || put.Skipped != 0 || put.Dangling != 0 {
		t.Errorf("PUT response = %+v", put)
	}

	infos := decode[[]store.Info](t, do(t, "GET", ts.URL+"/diagrams", "", ""))
	if len(infos) != 1 || infos[0].Name != "list" || infos[0].Elements != 3 {
		t.Errorf("list = %+v", infos)
	}

	resp = do(t, "GET", ts.URL+"/diagrams/list", "", "")
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s", ct)
	}
	if body, _ := io.ReadAll(resp.Body); !strings.Contains(string(body), `"targetId": "t"`) {
		t.Errorf("GET body = %s", body)
	}

	resp = do(t, "GET", ts.URL+"/diagrams/list?format=yaml", "", "")
	if body, _ := io.ReadAll(resp.Body); !strings.Contains(string(body), "targetId: t") {
		t.Errorf("GET yaml body = %s", body)
	}

	if resp := do(t, "DELETE", ts.URL+"/diagrams/list", "", ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d", resp.StatusCode)
	}
	if resp := do(t, "GET", ts.URL+"/diagrams/list", "", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after DELETE status = %d", resp.StatusCode)
	}
}

func TestPutReportsProblems(t *testing.T) {
	ts, s := newTestServer(t)
	body := `[
  {"type": "PointerCell", "id": "p", "x": 0, "y": 0, "name": "p", "width": 120, "height": 60, "targetId": "gone"},
  {"type": "Blob", "id": "b", "x": 0, "y": 0, "name": "b", "width": 1, "height": 1}
]`
	put := decode[putResponse](t, do(t, "PUT", ts.URL+"/diagrams/broken", "application/json", body))
	if put.Elements != 1 || put.Skipped != 1 || put.Dangling != 1 || len(put.Problems) != 2 {
		t.Errorf("PUT response = %+v", put)
	}

	// the stored copy is the cleaned document
	records, err := s.Get(context.Background(), "broken")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].TargetID != nil {
		t.Errorf("stored records = %+v", records)
	}
}

func TestPutYAML(t *testing.T) {
	ts, _ := newTestServer(t)
	body := "- type: DataCell\n  id: a\n  x: 0\n  y: 0\n  name: n\n  value: \"1\"\n  width: 120\n  height: 60\n"
	put := decode[putResponse](t, do(t, "PUT", ts.URL+"/diagrams/yml", "application/yaml", body))
	if put.Elements != 1 {
		t.Errorf("PUT yaml = %+v", put)
	}
}

func TestErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	do(t, "PUT", ts.URL+"/diagrams/list", "application/json", listJSON)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing", "GET", "/diagrams/nope", "", 404, "NOT_FOUND"},
		{"delete missing", "DELETE", "/diagrams/nope", "", 404, "NOT_FOUND"},
		{"bad name", "PUT", "/diagrams/..bad", "[]", 400, "INVALID_NAME"},
		{"syntax", "PUT", "/diagrams/x", "[{", 400, "INVALID_DOCUMENT"},
		{"bad format", "GET", "/diagrams/list/render/gif", "", 400, "INVALID_FORMAT"},
		{"bad scale", "GET", "/diagrams/list/render/png?scale=big", "", 400, "INVALID_INPUT"},
		{"bad doc format", "GET", "/diagrams/list?format=xml", "", 400, "INVALID_FORMAT"},
		{"render missing", "GET", "/diagrams/nope/render/svg", "", 404, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, ts.URL+tt.path, "application/json", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decode[map[string]string](t, resp); body["code"] != tt.code {
				t.Errorf("code = %q, want %q (%s)", body["code"], tt.code, body["error"])
			}
		})
	}
}

func TestRender(t *testing.T) {
	ts, _ := newTestServer(t)
	do(t, "PUT", ts.URL+"/diagrams/list", "application/json", listJSON)

	tests := []struct {
		path     string
		ctype    string
		contains string
	}{
		{"/diagrams/list/render/svg?grid=true", "image/svg+xml", `class="grid"`},
		{"/diagrams/list/render/dot", "text/vnd.graphviz", `"p" -> "t";`},
		{"/diagrams/list/render/png?scale=2", "image/png", "\x89PNG"},
		{"/diagrams/list/render/json", "application/json", `"id": "s"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := do(t, "GET", ts.URL+tt.path, "", "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.ctype {
				t.Errorf("Content-Type = %s", ct)
			}
			if resp.Header.Get("ETag") == "" {
				t.Error("no ETag")
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}
