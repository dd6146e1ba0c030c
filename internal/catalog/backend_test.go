package catalog

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

// fakeBackend is an in-memory admin API serving the collection endpoints.
type fakeBackend struct {
	mu          sync.Mutex
	collections map[string][]map[string]interface{}
	requests    []recordedRequest
	nextID      int
	failNext    string
}

func newFakeBackend(t *testing.T, seed map[string][]map[string]interface{}) (*fakeBackend, *adminapi.Client) {
	fb := &fakeBackend{collections: map[string][]map[string]interface{}{}}
	for k, v := range seed {
		fb.collections[k] = v
	}
	server := httptest.NewServer(fb)
	t.Cleanup(server.Close)
	return fb, adminapi.NewClient(server.URL, "")
}

func (fb *fakeBackend) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	fb.requests = append(fb.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})

	if fb.failNext != "" {
		msg := fb.failNext
		fb.failNext = ""
		fb.writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "error": msg})
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/admin/api/"), "/")
	resource := parts[0]
	items := fb.collections[resource]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		if items == nil {
			items = []map[string]interface{}{}
		}
		fb.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, resource: items})
	case len(parts) == 1 && r.Method == http.MethodPost:
		var record map[string]interface{}
		json.Unmarshal(body, &record)
		fb.nextID++
		id := fmt.Sprintf("new-%d", fb.nextID)
		record["id"] = id
		fb.collections[resource] = append(items, record)
		fb.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
	case len(parts) == 2 && r.Method == http.MethodPut:
		var patch map[string]interface{}
		json.Unmarshal(body, &patch)
		for _, item := range items {
			if item["id"] == parts[1] {
				for k, v := range patch {
					item[k] = v
				}
			}
		}
		fb.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	case len(parts) == 2 && r.Method == http.MethodDelete:
		kept := items[:0]
		for _, item := range items {
			if item["id"] != parts[1] {
				kept = append(kept, item)
			}
		}
		fb.collections[resource] = kept
		fb.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	case len(parts) == 3 && parts[2] == "upload-photos":
		fb.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "uploaded_count": strings.Count(string(body), `filename="`)})
	default:
		fb.writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": "route inconnue"})
	}
}

// mutations returns the non-GET requests received so far.
func (fb *fakeBackend) mutations() []recordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var out []recordedRequest
	for _, r := range fb.requests {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

var testLang = language.French
