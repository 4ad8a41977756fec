package httpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpserver "cineplan/internal/adapters/http_server"
	"cineplan/internal/app"
	"cineplan/internal/catalog"
	"cineplan/internal/domain"
	"cineplan/internal/geo"
)

var center = geo.Coordinate{Lat: 48.0, Lon: 2.0}

type fixedGeo struct{}

func (fixedGeo) Resolve(ctx context.Context, label string) (geo.Coordinate, error) {
	if strings.EqualFold(label, "paris") {
		return center, nil
	}
	return geo.Coordinate{}, domain.ErrGeoNotFound
}

type fixedParser struct{ intents, refinement string }

func (p fixedParser) ParseIntents(ctx context.Context, q string) (string, error) {
	return p.intents, nil
}
func (p fixedParser) ParseRefinement(ctx context.Context, q string) (string, error) {
	return p.refinement, nil
}

func newTestServer(t *testing.T, parser domain.IntentParser) *httptest.Server {
	t.Helper()
	const data = `[
	  {"cinema": "Le Central", "adresse": "1 rue A", "lat": 48.01, "lon": 2.0, "salles": [{"salle": "1", "capacite": 200}]},
	  {"cinema": "Rex", "adresse": "2 rue B", "lat": 48.02, "lon": 2.0, "salles": [{"salle": "G", "capacite": 150}]}
	]`
	cat, _, err := catalog.Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	sel := app.NewSelector(fixedGeo{}, cat)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Store:         app.NewSessionStore(),
		Planner:       app.NewPlanner(sel),
		Refiner:       app.NewRefiner(sel),
		Parser:        parser,
		DefaultRadius: 50,
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string, out any) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp
}

func createSession(t *testing.T, base string) string {
	t.Helper()
	var created struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, http.MethodPost, base+"/v1/sessions", "", &created)
	if resp.StatusCode != http.StatusCreated || created.ID == "" {
		t.Fatalf("create session: status %d, id %q", resp.StatusCode, created.ID)
	}
	return created.ID
}

func TestSearchAndRefineFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createSession(t, ts.URL)

	// Pre-parsed intents: two rooms in Paris.
	var search app.SearchResult
	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/search",
		`{"intents": [{"localisation": "Paris", "nombre": 500, "nombre_seances": 2}]}`, &search)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status %d", resp.StatusCode)
	}
	if len(search.Groups) != 1 || len(search.Groups[0].Rooms) != 2 {
		t.Fatalf("search result: %+v", search)
	}

	// Criterion removal through the pre-parsed instruction path.
	var ref app.Outcome
	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/refine",
		`{"instruction": {"action": "supprimer", "critere": "capacite_min", "valeur": 180, "operateur": "inferieur"}}`, &ref)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refine status %d", resp.StatusCode)
	}
	if ref.RoomsRemoved != 1 || len(ref.Groups[0].Rooms) != 1 {
		t.Fatalf("refine outcome: %+v", ref)
	}
	if ref.Groups[0].Rooms[0].Capacity != 200 {
		t.Fatalf("kept room: %+v", ref.Groups[0].Rooms[0])
	}
}

func TestFreeTextGoesThroughParser(t *testing.T) {
	parser := fixedParser{
		intents:    `[{"localisation": "Paris", "nombre": 300, "nombre_seances": 1}]`,
		refinement: `{"action": "supprimer", "localisation": "Paris"}`,
	}
	ts := newTestServer(t, parser)
	id := createSession(t, ts.URL)

	var search app.SearchResult
	doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/search", `{"query": "une séance à Paris"}`, &search)
	if len(search.Groups) != 1 || len(search.Groups[0].Rooms) != 1 {
		t.Fatalf("search result: %+v", search)
	}

	var ref app.Outcome
	doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/refine", `{"query": "supprime les séances à Paris"}`, &ref)
	if ref.RoomsRemoved != 1 {
		t.Fatalf("refine outcome: %+v", ref)
	}
}

func TestFreeTextWithoutParserIs503(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createSession(t, ts.URL)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/search", `{"query": "une séance à Paris"}`, nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestGetSessionETag(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createSession(t, ts.URL)

	resp := doJSON(t, http.MethodGet, ts.URL+"/v1/sessions/"+id, "", nil)
	etag := resp.Header.Get("ETag")
	if resp.StatusCode != http.StatusOK || etag == "" {
		t.Fatalf("status %d, etag %q", resp.StatusCode, etag)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/sessions/"+id, nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", resp2.StatusCode)
	}
}

func TestExportFormats(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createSession(t, ts.URL)
	doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/"+id+"/search",
		`{"intents": [{"localisation": "Paris", "nombre": 100, "nombre_seances": 1}]}`, nil)

	for _, tc := range []struct{ format, want string }{
		{"table", "Zone : Paris"},
		{"csv", "Zone,"},
	} {
		resp, err := http.Get(fmt.Sprintf("%s/v1/sessions/%s/export?format=%s", ts.URL, id, tc.format))
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		b := make([]byte, 4096)
		n, _ := resp.Body.Read(b)
		resp.Body.Close()
		if !strings.Contains(string(b[:n]), tc.want) {
			t.Fatalf("format %s: missing %q in %q", tc.format, tc.want, string(b[:n]))
		}
	}

	resp, _ := http.Get(ts.URL + "/v1/sessions/" + id + "/export?format=xlsx")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown format status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnknownSessionIs404(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := doJSON(t, http.MethodGet, ts.URL+"/v1/sessions/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
