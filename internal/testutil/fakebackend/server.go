// Package fakebackend is an in-memory stand-in for the dashboard REST backend used
// by tests. It serves the list, detail, status, rating and delete endpoints, records
// every request, and can be told to fail specific operations.
package fakebackend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"application-admin/internal/models"
)

// Operation names match the client's.
const (
	OpList   = "listApplications"
	OpGet    = "getApplication"
	OpStatus = "updateStatus"
	OpRating = "updateRating"
	OpDelete = "deleteApplication"
)

// Request is one captured call.
type Request struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Body      []byte
	Header    http.Header
}

type failure struct {
	status  int
	message string
}

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	PerPage int

	mu       sync.Mutex
	order    []string
	records  map[string]models.BackendRecord
	failures map[string]failure
	requests []Request
}

// New starts a server seeded with records. Close it with t.Cleanup(s.Close).
func New(records ...models.BackendRecord) *Server {
	s := &Server{
		PerPage:  10,
		records:  make(map[string]models.BackendRecord),
		failures: make(map[string]failure),
	}
	s.Seed(records...)

	r := chi.NewRouter()
	r.Route("/dashboard/applications", func(r chi.Router) {
		r.Get("/", s.capture(OpList, s.handleList))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.capture(OpGet, s.handleGet))
			r.Delete("/", s.capture(OpDelete, s.handleDelete))
			r.Put("/status", s.capture(OpStatus, s.handleStatus))
			r.Put("/rating", s.capture(OpRating, s.handleRating))
		})
	})
	s.Server = httptest.NewServer(r)
	return s
}

// Seed adds or replaces records, keeping insertion order for listing.
func (s *Server) Seed(records ...models.BackendRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		id := string(rec.ID)
		if _, exists := s.records[id]; !exists {
			s.order = append(s.order, id)
		}
		s.records[id] = rec
	}
}

// Fail makes op on id answer with status and message. An empty id matches every id.
func (s *Server) Fail(op, id string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op+"|"+id] = failure{status: status, message: message}
}

// Record returns the stored record for id.
func (s *Server) Record(id string) (models.BackendRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	return rec, ok
}

// Requests returns the captured requests, optionally filtered to one operation.
func (s *Server) Requests(op string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, 0, len(s.requests))
	for _, r := range s.requests {
		if op == "" || r.Operation == op {
			out = append(out, r)
		}
	}
	return out
}

// Count is len(Requests(op)).
func (s *Server) Count(op string) int {
	return len(s.Requests(op))
}

func (s *Server) capture(op string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		id := chi.URLParam(r, "id")

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Operation: op,
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.Query(),
			Body:      body,
			Header:    r.Header.Clone(),
		})
		f, failed := s.failures[op+"|"+id]
		if !failed {
			f, failed = s.failures[op+"|"]
		}
		s.mu.Unlock()

		if failed {
			writeJSON(w, f.status, map[string]interface{}{"success": false, "message": f.message})
			return
		}
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		next(w, r)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"success": false, "message": "invalid page"})
			return
		}
		page = n
	}

	s.mu.Lock()
	var matched []models.BackendRecord
	for _, id := range s.order {
		rec, ok := s.records[id]
		if !ok || !matches(rec, q) {
			continue
		}
		matched = append(matched, listView(rec))
	}
	perPage := s.PerPage
	s.mu.Unlock()

	total := len(matched)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	from := (page - 1) * perPage
	if from > total {
		from = total
	}
	to := from + perPage
	if to > total {
		to = total
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    append([]models.BackendRecord{}, matched[from:to]...),
		"pagination": models.BackendPagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			Total:       total,
			PerPage:     perPage,
		},
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.Record(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Application not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": rec})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "invalid body"})
		return
	}
	switch body.Status {
	case "pending", "approved", "rejected":
	default:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"success": false, "message": "invalid status"})
		return
	}

	rec, ok := s.update(chi.URLParam(r, "id"), func(rec *models.BackendRecord) {
		rec.Status = body.Status
	})
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Application not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Status updated", "data": rec})
}

func (s *Server) handleRating(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rating        int     `json:"rating"`
		RatingComment *string `json:"rating_comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Rating < 1 || body.Rating > 5 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"success": false, "message": "invalid rating"})
		return
	}

	_, ok := s.update(chi.URLParam(r, "id"), func(rec *models.BackendRecord) {
		rating := body.Rating
		rec.Rating = &rating
		rec.RatingComment = body.RatingComment
	})
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Application not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Rating saved"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.records[id]
	if ok {
		delete(s.records, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Application not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Application deleted"})
}

func (s *Server) update(id string, fn func(*models.BackendRecord)) (models.BackendRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return rec, false
	}
	fn(&rec)
	s.records[id] = rec
	return rec, true
}

// IDs returns the ids currently stored, sorted.
func (s *Server) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func matches(rec models.BackendRecord, q url.Values) bool {
	if status := q.Get("status"); status != "" && string(models.NormalizeStatus(rec.Status)) != status {
		return false
	}
	if dept := q.Get("department_id"); dept != "" && rec.Department.ID() != dept {
		return false
	}
	if search := strings.ToLower(q.Get("search")); search != "" &&
		!strings.Contains(strings.ToLower(rec.UserName), search) &&
		!strings.Contains(strings.ToLower(rec.Department.Name()), search) {
		return false
	}
	return true
}

// listView reshapes a stored record the way the list endpoint sends it: department
// as a bare name, completion instead of completion_percentage, no form data.
func listView(rec models.BackendRecord) models.BackendRecord {
	out := rec
	out.Department = models.NamedDepartment(rec.Department.Name())
	out.RatingComment = nil
	out.FormData = nil
	if rec.CompletionPercentage != nil {
		out.Completion = rec.CompletionPercentage
	}
	out.CompletionPercentage = nil
	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
