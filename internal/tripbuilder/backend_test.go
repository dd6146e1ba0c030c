package tripbuilder

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"golang.org/x/text/language"
)

func init() {
	logger.IsTest = true
}

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

// fakeBackend serves the trip, day, hotel and GPX proxy endpoints of one trip.
type fakeBackend struct {
	mu sync.Mutex

	trip    map[string]interface{}
	days    []map[string]interface{}
	details map[string]map[string]interface{}
	costs   map[string]float64
	sales   map[string]float64
	hotels  []map[string]interface{}
	tracks  map[string]string

	// failures maps "METHOD /path" to a backend error message.
	failures map[string]string
	requests []recordedRequest
	nextID   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		trip:     map[string]interface{}{"id": "t1", "name": "Alpes 2026", "isPublished": false, "slug": "alpes-2026", "salePricePerPerson": 75.0},
		details:  map[string]map[string]interface{}{},
		costs:    map[string]float64{"double_room": 100, "solo_room": 80},
		sales:    map[string]float64{"double_room": 150, "solo_room": 110},
		tracks:   map[string]string{},
		failures: map[string]string{},
	}
}

func (fb *fakeBackend) start(t *testing.T) *Session {
	server := httptest.NewServer(fb)
	t.Cleanup(server.Close)
	return NewSession("t1", adminapi.NewClient(server.URL, ""), "https://voyages.example.com/", language.French)
}

func (fb *fakeBackend) ok(w http.ResponseWriter, fields map[string]interface{}) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["success"] = true
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fields)
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	fb.requests = append(fb.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})

	if msg, ok := fb.failures[r.Method+" "+r.URL.Path]; ok {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": msg})
		return
	}

	path := r.URL.Path
	switch {
	case path == "/admin/api/proxy-gpx":
		track, ok := fb.tracks[r.URL.Query().Get("url")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, track)
	case path == "/admin/api/hotels" && r.Method == http.MethodGet:
		fb.ok(w, map[string]interface{}{"hotels": fb.hotels})
	case strings.HasPrefix(path, "/admin/api/hotels/"):
		id := strings.TrimPrefix(path, "/admin/api/hotels/")
		for _, h := range fb.hotels {
			if h["id"] == id {
				fb.ok(w, map[string]interface{}{"hotel": h})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "Hôtel introuvable"})
	case path == "/admin/api/trips/t1" && r.Method == http.MethodGet:
		fb.ok(w, map[string]interface{}{"trip": fb.trip})
	case path == "/admin/api/trips/t1" && r.Method == http.MethodPut:
		var patch map[string]interface{}
		json.Unmarshal(body, &patch)
		for k, v := range patch {
			fb.trip[k] = v
		}
		if published, _ := fb.trip["isPublished"].(bool); published {
			fb.trip["publishedSlug"] = "alpes-2026-moto"
		}
		fb.ok(w, nil)
	case path == "/admin/api/trips/t1/days" && r.Method == http.MethodGet:
		days := fb.days
		if days == nil {
			days = []map[string]interface{}{}
		}
		fb.ok(w, map[string]interface{}{"days": days, "costs": fb.costs, "sale_prices": fb.sales})
	case path == "/admin/api/trips/t1/days" && r.Method == http.MethodPost:
		var day map[string]interface{}
		json.Unmarshal(body, &day)
		fb.nextID++
		id := fmt.Sprintf("d%d", 100+fb.nextID)
		day["id"] = id
		fb.days = append(fb.days, day)
		fb.ok(w, map[string]interface{}{"day": map[string]interface{}{"id": id}})
	case strings.HasPrefix(path, "/admin/api/trips/t1/days/"):
		rest := strings.Split(strings.TrimPrefix(path, "/admin/api/trips/t1/days/"), "/")
		fb.serveDay(w, r, rest, body)
	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "route inconnue"})
	}
}

func (fb *fakeBackend) serveDay(w http.ResponseWriter, r *http.Request, rest []string, body []byte) {
	id := rest[0]
	idx := -1
	for i, d := range fb.days {
		if d["id"] == id {
			idx = i
		}
	}
	if idx < 0 {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "Jour introuvable"})
		return
	}

	switch {
	case len(rest) == 2 && rest[1] == "gpx":
		fb.days[idx]["gpxUrl"] = "https://cdn.example.com/" + id + ".gpx"
		fb.ok(w, map[string]interface{}{"message": "GPX enregistré"})
	case r.Method == http.MethodGet:
		if detail, ok := fb.details[id]; ok {
			fb.ok(w, map[string]interface{}{"day": detail})
			return
		}
		fb.ok(w, map[string]interface{}{"day": fb.days[idx]})
	case r.Method == http.MethodPut:
		var day map[string]interface{}
		json.Unmarshal(body, &day)
		day["id"] = id
		fb.days[idx] = day
		fb.ok(w, nil)
	case r.Method == http.MethodDelete:
		fb.days = append(fb.days[:idx], fb.days[idx+1:]...)
		fb.ok(w, nil)
	}
}

func (fb *fakeBackend) calls() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]string, 0, len(fb.requests))
	for _, r := range fb.requests {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}

func (fb *fakeBackend) lastBody(method, path string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i := len(fb.requests) - 1; i >= 0; i-- {
		if fb.requests[i].Method == method && fb.requests[i].Path == path {
			return fb.requests[i].Body
		}
	}
	return ""
}

func (fb *fakeBackend) reset() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.requests = nil
}

func gpxDoc(points ...[2]float64) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>`)
	for _, p := range points {
		fmt.Fprintf(&b, `<trkpt lat="%f" lon="%f"></trkpt>`, p[0], p[1])
	}
	b.WriteString(`</trkseg></trk></gpx>`)
	return b.String()
}
