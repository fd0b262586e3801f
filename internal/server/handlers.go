package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"

	"github.com/haskel/ncdprime/internal/compressor"
	"github.com/haskel/ncdprime/internal/estimator"
	"github.com/haskel/ncdprime/internal/ncd"
)

// maxMatrixCells bounds the work a single /matrix request may ask for.
const maxMatrixCells = 1 << 16

type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CompressorsResponse struct {
	Compressors []string `json:"compressors"`
	Default     string   `json:"default"`
}

// CompressorParams selects the compressor of a request. Empty fields fall
// back to the server's run configuration.
type CompressorParams struct {
	Compressor string `json:"compressor,omitempty"`
	Level      int    `json:"level,omitempty"`
}

type PairRequest struct {
	CompressorParams
	A string `json:"a_b64"`
	B string `json:"b_b64"`
}

type PairResponse struct {
	Compressor string  `json:"compressor"`
	NCD        float64 `json:"ncd"`
	CX         int64   `json:"c_x"`
	CY         int64   `json:"c_y"`
	CXY        int64   `json:"c_xy"`
}

// MatrixRequest asks for NCD(a[i], b[j]). Without b the matrix is a x a.
type MatrixRequest struct {
	CompressorParams
	A []string `json:"a"`
	B []string `json:"b,omitempty"`
}

type MatrixResponse struct {
	Compressor string      `json:"compressor"`
	Values     [][]float64 `json:"values"`
}

type EstimateRequest struct {
	Samples []estimator.Sample `json:"samples"`
	// FitFirstN limits the fit window; 0 fits every usable sample.
	FitFirstN int     `json:"fit_first_n,omitempty"`
	Remaining []int64 `json:"remaining"`
}

type EstimateResponse struct {
	Samples          int                  `json:"samples"`
	Fit              *estimator.FitResult `json:"fit"`
	RemainingSeconds *float64             `json:"remaining_s"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, InfoResponse{
		Name:    "ncdprime",
		Version: s.version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleHost(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sampler.Snapshot())
}

func (s *Server) handleCompressors(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, CompressorsResponse{
		Compressors: s.registry.Names(),
		Default:     s.config.Run.Compressor,
	})
}

func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if !s.decode(w, r, &req) {
		return
	}

	a, err := base64.StdEncoding.DecodeString(req.A)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid base64 in a_b64: %w", err))
		return
	}
	b, err := base64.StdEncoding.DecodeString(req.B)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid base64 in b_b64: %w", err))
		return
	}

	c, ok := s.compressor(w, req.CompressorParams)
	if !ok {
		return
	}

	res, err := ncd.Compute(c, a, b)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, PairResponse{
		Compressor: c.Name(),
		NCD:        res.NCD,
		CX:         res.CX,
		CY:         res.CY,
		CXY:        res.CXY,
	})
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	var req MatrixRequest
	if !s.decode(w, r, &req) {
		return
	}

	a, err := decodeAll(req.A, "a")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	b := a
	if req.B != nil {
		if b, err = decodeAll(req.B, "b"); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	if cells := len(a) * len(b); cells > maxMatrixCells {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("matrix has %d cells, limit is %d", cells, maxMatrixCells))
		return
	}

	c, ok := s.compressor(w, req.CompressorParams)
	if !ok {
		return
	}

	m, err := ncd.Matrix(r.Context(), c, a, b, runtime.GOMAXPROCS(0))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, MatrixResponse{
		Compressor: c.Name(),
		Values:     ncd.Values(m),
	})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if !s.decode(w, r, &req) {
		return
	}

	est := estimator.New()
	for _, sample := range req.Samples {
		est.AddSample(sample)
	}

	n := req.FitFirstN
	if n <= 0 {
		n = est.Len()
	}

	resp := EstimateResponse{
		Samples: est.Len(),
		Fit:     est.FitFromFirstN(n),
	}
	if secs, ok := est.EstimateRemaining(req.Remaining); ok {
		resp.RemainingSeconds = &secs
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// compressor resolves the request's compressor, writing a 400 on failure.
func (s *Server) compressor(w http.ResponseWriter, p CompressorParams) (compressor.Compressor, bool) {
	name := p.Compressor
	if strings.TrimSpace(name) == "" {
		name = s.config.Run.Compressor
	}
	level := p.Level
	if level == 0 {
		level = s.config.Run.Level
	}

	c, err := s.registry.Get(name, compressor.Options{Level: level})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return c, true
}

func decodeAll(items []string, field string) ([][]byte, error) {
	out := make([][]byte, len(items))
	for i, item := range items {
		data, err := base64.StdEncoding.DecodeString(item)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 in %s[%d]: %w", field, i, err)
		}
		out[i] = data
	}
	return out, nil
}

// decode reads a JSON body, writing 400 or 413 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status,
		)
	}
}
