// Package api serves a loaded dataset over HTTP.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/mnist/pkg/mnist"
)

type Server struct {
	id        string
	split     string
	dataset   *mnist.Dataset
	createdAt time.Time

	summaryOnce sync.Once
	summary     mnist.Summary
}

// NewServer serves ds read-only. split is informational and may be empty.
func NewServer(ds *mnist.Dataset, split string) *Server {
	return &Server{
		id:        "ds_" + uuid.NewString(),
		split:     split,
		dataset:   ds,
		createdAt: time.Now(),
	}
}

// ID identifies the served dataset for the lifetime of the process.
func (s *Server) ID() string { return s.id }

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/dataset", s.handleDataset)
	e.GET("/v1/stats", s.handleStats)
	e.GET("/v1/labels", s.handleLabels)
	e.GET("/v1/samples/:index", s.handleSample)
}

func (s *Server) handleDataset(c *echo.Context) error {
	ds := s.dataset
	return c.JSON(http.StatusOK, DatasetResponse{
		ID:        s.id,
		Object:    "dataset",
		Split:     s.split,
		CreatedAt: s.createdAt.Unix(),
		Images: ImagesInfo{
			Count: ds.Images.Count,
			Rows:  ds.Images.Rows,
			Cols:  ds.Images.Cols,
		},
		Labels:  LabelsInfo{Count: len(ds.Labels)},
		Samples: ds.Len(),
	})
}

func (s *Server) handleStats(c *echo.Context) error {
	s.summaryOnce.Do(func() {
		s.summary = mnist.Summarize(s.dataset)
	})
	return c.JSON(http.StatusOK, StatsResponse{Object: "dataset.stats", Summary: s.summary})
}

func (s *Server) handleLabels(c *echo.Context) error {
	offset, limit, err := pageParams(c)
	if err != nil {
		return writeRequestError(c, err)
	}
	n := len(s.dataset.Labels)
	start := min(offset, n)
	end := start + min(limit, n-start)
	resp := LabelListResponse{
		Object:  "list",
		Data:    []LabelEntry{},
		Offset:  offset,
		HasMore: end < n,
	}
	for i := start; i < end; i++ {
		resp.Data = append(resp.Data, LabelEntry{Index: i, Label: s.dataset.Labels[i]})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSample(c *echo.Context) error {
	index, err := intParam("index", c.Param("index"), -1)
	if err != nil {
		return writeRequestError(c, err)
	}
	pixels, label, err := s.dataset.Sample(index)
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	return c.JSON(http.StatusOK, SampleResponse{
		Object: "sample",
		Index:  index,
		Label:  label,
		Rows:   s.dataset.Images.Rows,
		Cols:   s.dataset.Images.Cols,
		Pixels: pixels,
	})
}
