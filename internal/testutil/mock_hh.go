// Package testutil provides testing utilities for the hh.ru fetcher.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for one mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest captures one request seen by the mock server.
type RecordedRequest struct {
	Path   string
	Query  url.Values
	Header http.Header
}

// MockHH is a configurable mock hh.ru API server for testing.
type MockHH struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	Requests     []RecordedRequest
}

// NewMockHH creates a new mock hh.ru server.
func NewMockHH() *MockHH {
	mock := &MockHH{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.Requests = append(mock.Requests, RecordedRequest{
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		})
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockHH) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockHH) Close() {
	m.server.Close()
}

// Reset clears all tracking state.
func (m *MockHH) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.Requests = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockHH) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockHH) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeMockResponse(w, resp)
	})
}

// SetSequence configures a path to serve the given responses one request at a
// time, sticking to the last one once the sequence is exhausted. Used to
// script retry scenarios such as 429, 429, 200.
func (m *MockHH) SetSequence(path string, resps ...MockResponse) {
	var mu sync.Mutex
	i := 0
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := resps[i]
		if i < len(resps)-1 {
			i++
		}
		mu.Unlock()
		writeMockResponse(w, resp)
	})
}

// SetPagedSearch configures the /vacancies path to serve a canned set of
// pages keyed on the "page" query parameter.
func (m *MockHH) SetPagedSearch(pages []string) {
	m.SetHandler("/vacancies", func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 0 || page >= len(pages) {
			writeMockResponse(w, MockResponse{StatusCode: http.StatusOK, Body: SearchPageJSON(len(pages))})
			return
		}
		writeMockResponse(w, MockResponse{StatusCode: http.StatusOK, Body: pages[page]})
	})
}

// RequestsTo returns the recorded requests matching a path.
func (m *MockHH) RequestsTo(path string) []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []RecordedRequest
	for _, req := range m.Requests {
		if req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockHH) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// defaultHandler serves an empty search result.
func (m *MockHH) defaultHandler(w http.ResponseWriter, r *http.Request) {
	writeMockResponse(w, MockResponse{
		StatusCode: http.StatusOK,
		Body:       SearchPageJSON(0),
	})
}

func writeMockResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}

	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// VacancyJSON builds a minimal vacancy item document.
func VacancyJSON(id, name string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": %q,
		"alternate_url": "https://hh.ru/vacancy/%s",
		"employer": {"id": "99", "name": "Acme"},
		"area": {"id": "1", "name": "Moscow"},
		"salary": {"from": 100000, "to": 150000, "currency": "RUR", "gross": true},
		"published_at": "2025-09-01T10:00:00+0300",
		"schedule": {"id": "remote", "name": "Remote"},
		"employment": {"id": "full", "name": "Full time"},
		"snippet": {"requirement": "Go", "responsibility": "Services"}
	}`, id, name, id)
}

// SearchPageJSON builds a search response with the given total page count and
// item documents.
func SearchPageJSON(pages int, items ...string) string {
	return fmt.Sprintf(`{"items": [%s], "found": %d, "pages": %d, "per_page": 100, "page": 0}`,
		strings.Join(items, ","), len(items), pages)
}

// DetailJSON builds a vacancy detail document.
func DetailJSON(id, description string, skills ...string) string {
	quoted := make([]string, 0, len(skills))
	for _, s := range skills {
		quoted = append(quoted, fmt.Sprintf(`{"name": %q}`, s))
	}
	return fmt.Sprintf(`{
		"id": %q,
		"description": %q,
		"key_skills": [%s],
		"professional_roles": [{"name": "Developer"}]
	}`, id, description, strings.Join(quoted, ","))
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"errors": [{"type": "captcha_required"}]}`,
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"errors": [{"type": "internal_error"}]}`,
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"errors": [{"type": "not_found"}]}`,
	}
}

// NewOKResponse creates a 200 OK response with the given JSON body.
func NewOKResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
	}
}
