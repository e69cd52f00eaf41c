package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "roomreviews/internal/adapters/http_server"
	"roomreviews/internal/app"
	"roomreviews/internal/domain"
)

// ---- fakes ----

type fakeRunner struct {
	gotURLs     []string
	gotMaxItems int
	results     []domain.RoomResult
	report      app.Report
}

func (f *fakeRunner) Run(_ context.Context, urls []string, maxItems int) ([]domain.RoomResult, app.Report) {
	f.gotURLs = urls
	f.gotMaxItems = maxItems
	return f.results, f.report
}

func newTestServer(t *testing.T, runner *fakeRunner) *httptest.Server {
	t.Helper()
	srv := httpserver.New(time.Second)
	srv.MountHandlers(&httpserver.Handlers{Runner: runner, MaxRooms: 3, DefaultMaxItems: 10})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func postScrape(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/scrape", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestScrape_OK(t *testing.T) {
	runner := &fakeRunner{
		results: []domain.RoomResult{
			{RoomURL: "https://rooms.example.com/rooms/1", Reviews: []domain.ReviewRecord{{ID: "r1", Rating: 5}}},
			{RoomURL: "https://rooms.example.com/rooms/2", Reviews: []domain.ReviewRecord{},
				Err: &domain.RoomError{Kind: domain.ErrKindTransport, Message: "feed: unexpected status 500"}},
		},
		report: app.Report{RunID: "run-1", Rooms: 2, Succeeded: 1, Failed: 1, Reviews: 1},
	}
	ts := newTestServer(t, runner)

	resp := postScrape(t, ts, `{"roomUrls":["https://rooms.example.com/rooms/1","https://rooms.example.com/rooms/2"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		RunID     string              `json:"runId"`
		Rooms     int                 `json:"rooms"`
		Succeeded int                 `json:"succeeded"`
		Failed    int                 `json:"failed"`
		Reviews   int                 `json:"reviews"`
		Results   []domain.RoomResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RunID != "run-1" || out.Succeeded != 1 || out.Failed != 1 {
		t.Fatalf("report: %+v", out)
	}
	if len(out.Results) != 2 {
		t.Fatalf("results: %d", len(out.Results))
	}
	if out.Results[1].Err == nil || out.Results[1].Err.Kind != domain.ErrKindTransport {
		t.Fatalf("error marker lost: %+v", out.Results[1].Err)
	}

	if len(runner.gotURLs) != 2 {
		t.Fatalf("runner urls: %v", runner.gotURLs)
	}
	if runner.gotMaxItems != 10 {
		t.Fatalf("default maxItems not applied: %d", runner.gotMaxItems)
	}
}

func TestScrape_ExplicitMaxItemsZeroMeansNoCap(t *testing.T) {
	runner := &fakeRunner{report: app.Report{RunID: "run-2", Rooms: 1, Succeeded: 1}}
	ts := newTestServer(t, runner)

	resp := postScrape(t, ts, `{"roomUrls":["https://rooms.example.com/rooms/1"],"maxItems":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if runner.gotMaxItems != 0 {
		t.Fatalf("maxItems = %d, want 0", runner.gotMaxItems)
	}
}

func TestScrape_Validation(t *testing.T) {
	cases := map[string]string{
		"not json":          `roomUrls`,
		"empty urls":        `{"roomUrls":[]}`,
		"too many rooms":    `{"roomUrls":["u1","u2","u3","u4"]}`,
		"negative maxItems": `{"roomUrls":["u1"],"maxItems":-1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			runner := &fakeRunner{}
			ts := newTestServer(t, runner)

			resp := postScrape(t, ts, body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
				t.Fatalf("content type = %q", ct)
			}
			var p struct {
				Title  string `json:"title"`
				Status int    `json:"status"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
				t.Fatalf("decode problem: %v", err)
			}
			if p.Status != http.StatusBadRequest || p.Title == "" {
				t.Fatalf("problem: %+v", p)
			}
			if runner.gotURLs != nil {
				t.Fatalf("runner called on invalid input")
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &fakeRunner{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
