package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/ingest"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/stash"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/version"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/view"
)

// maxUploadBytes caps a single archive upload.
const maxUploadBytes = 512 << 20

// Server owns the current bundle and the collaborators the routes need.
// A new ingestion simply replaces the previous result; there is no
// cancellation or de-duplication of in-flight ingests.
type Server struct {
	Ingestor *ingest.Ingestor
	Stash    stash.Stash
	Hub      *WSHub
	Log      *logrus.Logger
	DemoBase string

	mu      sync.RWMutex
	current *ingest.Result
	source  string
}

func (s *Server) setCurrent(source string, res *ingest.Result) {
	s.mu.Lock()
	s.current = res
	s.source = source
	s.mu.Unlock()
}

// RegisterRoutes wires the HTTP handlers on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux, token string) {
	auth := authFunc(token)

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ilm-analyzer"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/v1/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"build": version.Build})
	})

	mux.HandleFunc("/api/v1/bundle/upload", func(w http.ResponseWriter, r *http.Request) {
		if !auth(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, header, err := r.FormFile("bundle")
		if err != nil {
			http.Error(w, "bundle file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if s.Hub != nil {
			s.Hub.Broadcast(WSMessage{Type: "ingest_started", Source: header.Filename})
		}
		res, err := s.Ingestor.IngestArchive(header.Filename, file, header.Size)
		if err != nil {
			s.Log.WithError(err).WithField("archive", header.Filename).Warn("ingest failed")
			if s.Hub != nil {
				s.Hub.Broadcast(WSMessage{Type: "ingest_failed", Source: header.Filename, Payload: err.Error()})
			}
			http.Error(w, "unreadable archive", http.StatusBadRequest)
			return
		}
		s.setCurrent(header.Filename, res)
		if s.Hub != nil {
			if res.Advisory != nil {
				s.Hub.Broadcast(WSMessage{Type: "ingest_advisory", Source: header.Filename, Payload: res.Advisory})
			}
			s.Hub.Broadcast(WSMessage{Type: "ingest_done", Source: header.Filename, Payload: res.Bundle.FieldNames()})
		}
		s.Log.WithFields(logrus.Fields{"archive": header.Filename, "fields": res.Bundle.FieldNames()}).Info("bundle ingested")
		writeJSON(w, http.StatusOK, summarize(header.Filename, res))
	})

	mux.HandleFunc("/api/v1/bundle/demo", func(w http.ResponseWriter, r *http.Request) {
		if !auth(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.Hub != nil {
			s.Hub.Broadcast(WSMessage{Type: "ingest_started", Source: "demo"})
		}
		res, err := s.Ingestor.LoadDemo(r.Context(), nil, s.DemoBase)
		if err != nil {
			s.Log.WithError(err).Warn("demo load failed")
			if s.Hub != nil {
				s.Hub.Broadcast(WSMessage{Type: "ingest_failed", Source: "demo", Payload: err.Error()})
			}
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		s.setCurrent("demo", res)
		if s.Hub != nil {
			s.Hub.Broadcast(WSMessage{Type: "ingest_done", Source: "demo", Payload: res.Bundle.FieldNames()})
		}
		writeJSON(w, http.StatusOK, summarize("demo", res))
	})

	mux.HandleFunc("/api/v1/bundle", func(w http.ResponseWriter, r *http.Request) {
		if !auth(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.mu.RLock()
		res, source := s.current, s.source
		s.mu.RUnlock()
		if res == nil {
			http.Error(w, "no bundle loaded", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, summarize(source, res))
	})

	mux.HandleFunc("/api/v1/views/", func(w http.ResponseWriter, r *http.Request) {
		if !auth(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.mu.RLock()
		res := s.current
		s.mu.RUnlock()
		if res == nil {
			http.Error(w, "no bundle loaded", http.StatusNotFound)
			return
		}
		switch strings.TrimPrefix(r.URL.Path, "/api/v1/views/") {
		case "nodes":
			writeJSON(w, http.StatusOK, view.BuildNodeCards(res.Bundle.NodesStats, res.Master))
		case "shards":
			writeJSON(w, http.StatusOK, view.BuildShardTable(res.Bundle.Shards))
		case "ilm":
			writeJSON(w, http.StatusOK, view.BuildIlmSummary(res.Bundle.Errors, res.Bundle.Policies))
		case "pipelines":
			writeJSON(w, http.StatusOK, view.BuildPipelineSummaries(res.Bundle.Pipelines))
		case "allocation":
			if res.Bundle.Allocation == nil {
				http.Error(w, "no allocation explanation in bundle", http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, res.Bundle.Allocation)
		default:
			http.Error(w, "unknown view", http.StatusNotFound)
		}
	})

	mux.HandleFunc("/api/v1/stash/", func(w http.ResponseWriter, r *http.Request) {
		if !auth(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		key := strings.TrimPrefix(r.URL.Path, "/api/v1/stash/")
		switch key {
		case stash.KeyIndexTemplates, stash.KeyAliases, stash.KeySettings:
		default:
			http.Error(w, "unknown key", http.StatusNotFound)
			return
		}
		value, ok, err := s.Stash.Get(key)
		if err != nil {
			http.Error(w, "stash read failed", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "not present", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(value)
	})

	mux.HandleFunc("/api/v1/history", func(w http.ResponseWriter, r *http.Request) {
		if !auth(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		records, err := ingest.ListHistory(50)
		if err != nil {
			http.Error(w, "failed to list history", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	if s.Hub != nil {
		mux.HandleFunc("/api/v1/ws/ui", s.Hub.HandleUI)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Debug("failed to write response")
	}
}

func authFunc(token string) func(r *http.Request) bool {
	if token == "" {
		return func(_ *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		h := r.Header.Get("X-Auth-Token")
		if h == "" {
			// also allow simple Bearer token
			authz := r.Header.Get("Authorization")
			if strings.HasPrefix(authz, "Bearer ") {
				h = strings.TrimPrefix(authz, "Bearer ")
			}
		}
		return h == token
	}
}
