// Copyright 2025 Wayline Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/ingestion"
	"github.com/wayline/guidepost/retrieval"
)

// failureMessage is the only detail a failed request leaks to the caller.
const failureMessage = "There was an error"

// Server exposes the pipelines over HTTP.
type Server struct {
	pipeline   *ingestion.Pipeline
	retriever  *retrieval.Retriever
	placesPath string
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewServer creates a server around the given pipelines. placesPath is
// the JSON batch source that POST /ingest processes.
func NewServer(pipeline *ingestion.Pipeline, retriever *retrieval.Retriever, placesPath string, opts ...Option) *Server {
	s := &Server{
		pipeline:   pipeline,
		retriever:  retriever,
		placesPath: placesPath,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), TraceIDMiddleware())

	router.GET("/healthz", s.handleHealth)
	router.POST("/ingest", s.handleIngest)
	router.GET("/search", s.handleSearch)
	return router
}

// Run serves HTTP on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.Router().Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleIngest runs the batch pipeline over the configured places file.
// The request body is ignored; the batch source is fixed at startup.
func (s *Server) handleIngest(c *gin.Context) {
	raws, err := ingestion.LoadPlacesFile(s.placesPath)
	if err != nil {
		s.logger.Error("failed to load places file", "path", s.placesPath, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": failureMessage})
		return
	}

	report, err := s.pipeline.Ingest(c.Request.Context(), raws)
	if err != nil {
		s.logger.Error("ingestion failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": failureMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Processing complete",
		"ingested": len(report.Ingested),
		"skipped":  len(report.Skipped),
		"details":  report,
	})
}

type searchRequest struct {
	Query string   `json:"query"`
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
}

// handleSearch answers a traveler question. The endpoint is semantically
// a query; the JSON body on GET follows the original wire contract.
func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	query := core.Query{Text: req.Query}
	// Both coordinates are needed to form an origin.
	if req.Lat != nil && req.Lng != nil {
		query.Origin = &core.Location{Lat: *req.Lat, Lng: *req.Lng}
	}

	result, err := s.retriever.Retrieve(c.Request.Context(), query)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		s.logger.Error("retrieval failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": failureMessage})
		return
	}

	c.JSON(http.StatusOK, result)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyQuery) ||
		errors.Is(err, core.ErrInvalidLatitude) ||
		errors.Is(err, core.ErrInvalidLongitude)
}
