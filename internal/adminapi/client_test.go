package adminapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://admin.example.com/", "key")

	assert.Equal(t, "https://admin.example.com", client.baseURL)
	assert.Equal(t, "key", client.apiKey)
	assert.Equal(t, time.Duration(0), client.httpClient.Timeout)
}

func TestNewClientWithOptions(t *testing.T) {
	custom := &http.Client{}
	client := NewClient("https://admin.example.com", "", WithHTTPClient(custom), WithTimeout(5*time.Second))

	assert.Same(t, custom, client.httpClient)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestCall_SuccessConvention(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType apperrors.ErrorType
		wantMsg  string
	}{
		{name: "ok", status: 200, body: `{"success":true,"hotels":[]}`},
		{name: "success false with message", status: 200, body: `{"success":false,"error":"Nom déjà utilisé"}`, wantType: apperrors.UpstreamError, wantMsg: "Nom déjà utilisé"},
		{name: "success false without message", status: 200, body: `{"success":false}`, wantType: apperrors.UpstreamError, wantMsg: apperrors.GenericFailureMessage},
		{name: "http error with json", status: 404, body: `{"error":"Introuvable"}`, wantType: apperrors.UpstreamError, wantMsg: "Introuvable"},
		{name: "http error with html", status: 502, body: `<html>Bad gateway</html>`, wantType: apperrors.UpstreamError, wantMsg: apperrors.GenericFailureMessage},
		{name: "non json success", status: 200, body: `not json`, wantType: apperrors.ServerError, wantMsg: "unexpected backend response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := NewClient(server.URL, "").Call(context.Background(), "/admin/api/hotels", CallOptions{})
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
			assert.Equal(t, tt.wantMsg, apperrors.UserMessage(err))
		})
	}
}

func TestCall_StatusConvention(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"error","message":"Requête trop courte","success":true}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").Call(context.Background(), "/api/hotels/suggest", CallOptions{Convention: ConventionStatus})
	require.Error(t, err)
	assert.Equal(t, "Requête trop courte", apperrors.UserMessage(err))
}

func TestCall_SendsJSONAndAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/api/trips/t1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["isPublished"])
		io.WriteString(w, `{"success":true}`)
	}))
	defer server.Close()

	published := true
	err := UpdateTrip(context.Background(), NewClient(server.URL, "secret"), "t1", types.TripUpdate{IsPublished: &published})
	assert.NoError(t, err)
}

func TestCall_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, "").Call(context.Background(), "/admin/api/customers", CallOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TransportError))
}

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/restaurants", r.URL.Path)
		io.WriteString(w, `{"success":true,"restaurants":[{"id":"r1","name":"Chez Marie","cuisineType":"Savoyarde"}]}`)
	}))
	defer server.Close()

	items, err := List[types.Restaurant](context.Background(), NewClient(server.URL, ""), "restaurants")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Savoyarde", items[0].CuisineType)
}

func TestSaveDay_ReturnsAssignedID(t *testing.T) {
	tests := []struct {
		name string
		body string
		day  types.Day
		want string
	}{
		{name: "nested day", body: `{"success":true,"day":{"id":"d9"}}`, want: "d9"},
		{name: "flat id", body: `{"success":true,"id":"d8"}`, want: "d8"},
		{name: "update keeps id", body: `{"success":true}`, day: types.Day{ID: "d1"}, want: "d1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.day.ID == "" {
					assert.Equal(t, http.MethodPost, r.Method)
					assert.Equal(t, "/admin/api/trips/t1/days", r.URL.Path)
				} else {
					assert.Equal(t, http.MethodPut, r.Method)
					assert.Equal(t, "/admin/api/trips/t1/days/d1", r.URL.Path)
				}
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			id, err := SaveDay(context.Background(), NewClient(server.URL, ""), "t1", tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestSaveDay_CreateWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true}`)
	}))
	defer server.Close()

	_, err := SaveDay(context.Background(), NewClient(server.URL, ""), "t1", types.Day{})
	assert.True(t, apperrors.IsType(err, apperrors.ServerError))
}

func TestUpload_Multipart(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["photos"]
		require.Len(t, files, 2)
		assert.Equal(t, "a.png", files[0].Filename)
		assert.Equal(t, "image/png", files[0].Header.Get("Content-Type"))
		io.WriteString(w, `{"success":true,"uploaded_count":2}`)
	}))
	defer server.Close()

	count, err := UploadPhotos(context.Background(), NewClient(server.URL, ""), "hotels", "h1", []File{
		{Field: "photos", Filename: "a.png", Content: png},
		{Field: "photos", Filename: "b.png", Content: png},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestProxyGPX_Passthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/proxy-gpx", r.URL.Path)
		assert.Equal(t, "https://cdn.example.com/j1.gpx", r.URL.Query().Get("url"))
		io.WriteString(w, `<gpx></gpx>`)
	}))
	defer server.Close()

	raw, err := ProxyGPX(context.Background(), NewClient(server.URL, ""), "https://cdn.example.com/j1.gpx")
	require.NoError(t, err)
	assert.Equal(t, "<gpx></gpx>", string(raw))
}

func TestSuggestHotels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "brian", r.URL.Query().Get("q"))
		assert.Equal(t, "fr", r.URL.Query().Get("lang"))
		io.WriteString(w, `{"status":"ok","suggestions":[{"display":"Briançon, France","type":"city","id":"c1","region_id":"r1","name":"Briançon"}]}`)
	}))
	defer server.Close()

	suggestions, err := SuggestHotels(context.Background(), NewClient(server.URL, ""), "brian", "fr")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "r1", suggestions[0].RegionID)
}

func TestSniffing(t *testing.T) {
	assert.True(t, IsImage([]byte("\xff\xd8\xff\xe0\x00\x10JFIF")))
	assert.False(t, IsImage([]byte("plain text")))
	assert.True(t, IsGPX([]byte(`<?xml version="1.0"?><gpx version="1.1" xmlns="http://www.topografix.com/GPX/1/1"></gpx>`)))
	assert.False(t, IsGPX([]byte("\x89PNG\r\n\x1a\n")))
}

func TestEndpointFamily(t *testing.T) {
	assert.Equal(t, "admin_trips", endpointFamily("/admin/api/trips/1/days"))
	assert.Equal(t, "public_hotels", endpointFamily("/api/hotels/suggest"))
	assert.Equal(t, "other", endpointFamily("/"))
}

func TestPing(t *testing.T) {
	status := http.StatusNotFound
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer server.Close()
	client := NewClient(server.URL, "")

	assert.NoError(t, client.Ping(context.Background()))

	status = http.StatusServiceUnavailable
	err := client.Ping(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.UpstreamError))

	server.Close()
	err = client.Ping(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.TransportError))
}
