package server

import (
	"net/http"
)

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /compressors", s.handleCompressors)
	mux.HandleFunc("POST /pair", s.handlePair)
	mux.HandleFunc("POST /matrix", s.handleMatrix)
	mux.HandleFunc("POST /estimate", s.handleEstimate)

	if s.sampler != nil {
		mux.HandleFunc("GET /host", s.handleHost)
	}

	return mux
}
