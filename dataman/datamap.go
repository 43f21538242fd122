package main

import (
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/godeepar/mapmesh/config"
	"github.com/godeepar/mapmesh/logger"
)

const keepManifests = 100

// manifests keeps the most recent build manifests of this process.
type manifests struct {
	mu    sync.Mutex
	limit int
	order []string
	byID  map[string]*config.Manifest
}

var recent = newManifests(keepManifests)

func newManifests(limit int) *manifests {
	return &manifests{limit: limit, byID: make(map[string]*config.Manifest)}
}

// Put stores m, dropping the oldest manifest beyond the limit.
func (s *manifests) Put(m *config.Manifest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	s.byID[m.ID] = m

	for len(s.order) > s.limit {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *manifests) Get(id string) (*config.Manifest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	return m, ok
}

func (s *manifests) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// manifestHandler answers GET /manifest/<id>.
func manifestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/manifest/")
	m, ok := recent.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := m.Encode(w); err != nil {
		logger.Get().Error("writing manifest", zap.String("id", id), zap.Error(err))
	}
}
