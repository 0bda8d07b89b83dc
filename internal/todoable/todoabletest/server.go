// Package todoabletest provides an in-process stand-in for the Todoable API.
//
// The server reproduces the remote endpoint set and its status conventions
// (201 with Location on create, 204 on delete, plain text on rename and
// finish, 401/404/422 failures) so client error paths can be exercised
// without the hosted service.
package todoabletest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	// Username and Password are the credentials the server accepts by default.
	Username = "username"
	Password = "password"
)

type item struct {
	id         string
	name       string
	finishedAt *time.Time
}

type list struct {
	id    string
	name  string
	seq   int
	items []*item
}

type failure struct {
	status int
	body   string
}

// Server is a Todoable API double backed by httptest.Server.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	username     string
	password     string
	tokens       map[string]bool
	lists        map[string]*list
	authCalls    int
	requests     int
	failNext     *failure
	omitLocation bool
	seenAuth     []string
	seq          int
}

// NewServer starts a server accepting the default credentials. Call Close
// when done.
func NewServer() *Server {
	s := &Server{
		username: Username,
		password: Password,
		tokens:   make(map[string]bool),
		lists:    make(map[string]*list),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/authenticate", s.handleAuthenticate).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(s.requireToken)
	api.HandleFunc("/lists", s.handleLists).Methods(http.MethodGet)
	api.HandleFunc("/lists", s.handleCreateList).Methods(http.MethodPost)
	api.HandleFunc("/lists/{list_id}", s.handleFindList).Methods(http.MethodGet)
	api.HandleFunc("/lists/{list_id}", s.handleRenameList).Methods(http.MethodPatch)
	api.HandleFunc("/lists/{list_id}", s.handleDeleteList).Methods(http.MethodDelete)
	api.HandleFunc("/lists/{list_id}/items", s.handleCreateItem).Methods(http.MethodPost)
	api.HandleFunc("/lists/{list_id}/items/{item_id}/finish", s.handleFinishItem).Methods(http.MethodPut)
	api.HandleFunc("/lists/{list_id}/items/{item_id}", s.handleDeleteItem).Methods(http.MethodDelete)
	return r
}

// AuthCalls returns how many times /authenticate was hit.
func (s *Server) AuthCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authCalls
}

// Requests returns how many token-bearing requests reached the server.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// AuthorizationHeaders returns every Authorization header seen on
// token-bearing requests, in order.
func (s *Server) AuthorizationHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.seenAuth...)
}

// FailNext makes the next token-bearing request answer with status and body
// instead of being handled.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = &failure{status: status, body: body}
}

// OmitLocation makes create endpoints answer without any id reference: no
// Location header and no src in the body.
func (s *Server) OmitLocation(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitLocation = omit
}

// RevokeTokens invalidates every issued token server-side.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]bool)
}

// SeedList stores a list directly and returns its id.
func (s *Server) SeedList(name string, items ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	l := &list{id: uuid.NewString(), name: name, seq: s.seq}
	for _, n := range items {
		l.items = append(l.items, &item{id: uuid.NewString(), name: n})
	}
	s.lists[l.id] = l
	return l.id
}

// ItemIDs returns the ids of a seeded list's items in insertion order.
func (s *Server) ItemIDs(listID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[listID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(l.items))
	for _, it := range l.items {
		ids = append(ids, it.id)
	}
	return ids
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authCalls++

	user, pass, ok := r.BasicAuth()
	if !ok || user != s.username || pass != s.password {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	token := uuid.NewString()
	s.tokens[token] = true
	writeJSON(w, http.StatusOK, map[string]string{
		"token":      token,
		"expires_at": time.Now().Add(20 * time.Minute).UTC().Format(time.RFC3339),
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		header := r.Header.Get("Authorization")
		s.seenAuth = append(s.seenAuth, header)
		token := strings.TrimPrefix(header, "Token token=")
		valid := token != header && s.tokens[token]
		injected := s.failNext
		s.failNext = nil
		s.mu.Unlock()

		if injected != nil {
			if strings.HasPrefix(strings.TrimSpace(injected.body), "{") {
				w.Header().Set("Content-Type", "application/json")
			}
			w.WriteHeader(injected.status)
			_, _ = w.Write([]byte(injected.body))
			return
		}
		if !valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := make([]*list, 0, len(s.lists))
	for _, l := range s.lists {
		ordered = append(ordered, l)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	out := make([]map[string]any, 0, len(ordered))
	for _, l := range ordered {
		out = append(out, map[string]any{
			"name": l.name,
			"src":  s.listURL(l.id),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"lists": out})
}

func (s *Server) handleFindList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[mux.Vars(r)["list_id"]]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	items := make([]map[string]any, 0, len(l.items))
	for _, it := range l.items {
		var finished any
		if it.finishedAt != nil {
			finished = it.finishedAt.UTC().Format(time.RFC3339)
		}
		items = append(items, map[string]any{
			"name":        it.name,
			"finished_at": finished,
			"src":         s.itemURL(l.id, it.id),
			"id":          it.id,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    l.id,
		"name":  l.name,
		"items": items,
	})
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r, "list")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if errs := s.validateListName(name, ""); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
		return
	}
	s.seq++
	l := &list{id: uuid.NewString(), name: name, seq: s.seq}
	s.lists[l.id] = l
	body := map[string]any{"name": l.name}
	if !s.omitLocation {
		w.Header().Set("Location", s.listURL(l.id))
		body["src"] = s.listURL(l.id)
	}
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) handleRenameList(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r, "list")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, found := s.lists[mux.Vars(r)["list_id"]]
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if errs := s.validateListName(name, l.id); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
		return
	}
	l.name = name
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "%s updated", name)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := mux.Vars(r)["list_id"]
	if _, ok := s.lists[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	delete(s.lists, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r, "item")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, found := s.lists[mux.Vars(r)["list_id"]]
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if strings.TrimSpace(name) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string][]string{"name": {"can't be blank"}},
		})
		return
	}
	it := &item{id: uuid.NewString(), name: name}
	l.items = append(l.items, it)
	if !s.omitLocation {
		w.Header().Set("Location", s.itemURL(l.id, it.id))
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleFinishItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.findItem(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	now := time.Now()
	it.finishedAt = &now
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "%s finished", it.name)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vars := mux.Vars(r)
	l, ok := s.lists[vars["list_id"]]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	for i, it := range l.items {
		if it.id == vars["item_id"] {
			l.items = append(l.items[:i], l.items[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (s *Server) findItem(r *http.Request) (*item, bool) {
	vars := mux.Vars(r)
	l, ok := s.lists[vars["list_id"]]
	if !ok {
		return nil, false
	}
	for _, it := range l.items {
		if it.id == vars["item_id"] {
			return it, true
		}
	}
	return nil, false
}

// validateListName returns the 422 error map, or nil when the name is valid.
func (s *Server) validateListName(name, selfID string) map[string][]string {
	if strings.TrimSpace(name) == "" {
		return map[string][]string{"name": {"can't be blank"}}
	}
	for id, l := range s.lists {
		if id != selfID && l.name == name {
			return map[string][]string{"name": {"has already been taken"}}
		}
	}
	return nil
}

func (s *Server) listURL(listID string) string {
	return s.URL + "/lists/" + listID
}

func (s *Server) itemURL(listID, itemID string) string {
	return s.URL + "/lists/" + listID + "/items/" + itemID
}

// decodeName reads {"<key>": {"name": ...}} and answers 400 on malformed input.
func decodeName(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	var body map[string]struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return "", false
	}
	inner, ok := body[key]
	if !ok {
		http.Error(w, fmt.Sprintf("missing %q", key), http.StatusBadRequest)
		return "", false
	}
	return inner.Name, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
