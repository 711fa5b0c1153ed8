package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/srcwatch/internal/adapters/http/api"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockRecords struct {
	entries []api.RecordEntry
}

func (m *mockRecords) Records(ctx context.Context, includeEmpty bool) []api.RecordEntry {
	if includeEmpty {
		return m.entries
	}
	var out []api.RecordEntry
	for _, e := range m.entries {
		if e.HasRecord {
			out = append(out, e)
		}
	}
	return out
}

type mockStats struct {
	stats map[string]interface{}
}

func (m *mockStats) GetStats() map[string]interface{} {
	return m.stats
}

func testEntries() []api.RecordEntry {
	return []api.RecordEntry{
		{
			SlotKey:   "any||platform=n64",
			Category:  "Any%",
			Choices:   map[string]string{"Platform": "N64"},
			RunID:     "run1",
			Seconds:   3723.45,
			Time:      "1h 02m 03.450s",
			HasRecord: true,
		},
		{
			SlotKey:   "any||platform=vc",
			Category:  "Any%",
			Choices:   map[string]string{"Platform": "VC"},
			HasRecord: false,
		},
	}
}

func newTestServer(records []api.RecordEntry, stats map[string]interface{}) *httptest.Server {
	srv := api.NewServer(&mockRecords{entries: records}, &mockStats{stats: stats})
	mux := http.NewServeMux()
	srv.Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestRecordsEndpoint(t *testing.T) {
	Convey("Given a server with one filled and one empty slot", t, func() {
		ts := newTestServer(testEntries(), nil)
		defer ts.Close()

		Convey("When GET /records is requested", func() {
			resp, err := http.Get(ts.URL + "/records")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then only slots holding a record are returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "application/json")

				var body struct {
					Count   int               `json:"count"`
					Records []api.RecordEntry `json:"records"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.Count, ShouldEqual, 1)
				So(body.Records[0].SlotKey, ShouldEqual, "any||platform=n64")
				So(body.Records[0].RunID, ShouldEqual, "run1")
				So(body.Records[0].Time, ShouldEqual, "1h 02m 03.450s")
			})
		})

		Convey("When GET /records?all=true is requested", func() {
			resp, err := http.Get(ts.URL + "/records?all=true")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then empty slots are included", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var body struct {
					Count   int               `json:"count"`
					Records []api.RecordEntry `json:"records"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.Count, ShouldEqual, 2)
				So(body.Records[1].HasRecord, ShouldBeFalse)
				So(body.Records[1].RunID, ShouldBeEmpty)
			})
		})

		Convey("When the all parameter is not a boolean", func() {
			resp, err := http.Get(ts.URL + "/records?all=maybe")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

				var body struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.Code, ShouldEqual, "invalid_query")
			})
		})

		Convey("When a non-GET method is used", func() {
			resp, err := http.Post(ts.URL+"/records", "application/json", nil)
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the route is not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a server with no slots at all", t, func() {
		ts := newTestServer(nil, nil)
		defer ts.Close()

		Convey("When GET /records is requested", func() {
			resp, err := http.Get(ts.URL + "/records")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the count is zero", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var body struct {
					Count int `json:"count"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.Count, ShouldEqual, 0)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a server with stats", t, func() {
		stats := map[string]interface{}{
			"gameName":   "Test Game",
			"totalSlots": 6,
		}
		ts := newTestServer(nil, stats)
		defer ts.Close()

		Convey("When GET /stats is requested", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the provider's stats come back as JSON", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var body map[string]interface{}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["gameName"], ShouldEqual, "Test Game")
				So(body["totalSlots"], ShouldEqual, float64(6))
			})
		})

		Convey("When a non-GET method is used", func() {
			resp, err := http.Post(ts.URL+"/stats", "application/json", nil)
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the route is not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given a server", t, func() {
		ts := newTestServer(nil, nil)
		defer ts.Close()

		Convey("When GET /healthz is requested", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the metrics exposition is served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}
