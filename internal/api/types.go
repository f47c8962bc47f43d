package api

import "github.com/samcharles93/mnist/pkg/mnist"

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
}

type ImagesInfo struct {
	Count int `json:"count"`
	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
}

type LabelsInfo struct {
	Count int `json:"count"`
}

type DatasetResponse struct {
	ID        string     `json:"id"`
	Object    string     `json:"object"`
	Split     string     `json:"split,omitempty"`
	CreatedAt int64      `json:"created_at"`
	Images    ImagesInfo `json:"images"`
	Labels    LabelsInfo `json:"labels"`
	Samples   int        `json:"samples"`
}

type SampleResponse struct {
	Object string    `json:"object"`
	Index  int       `json:"index"`
	Label  uint8     `json:"label"`
	Rows   int       `json:"rows"`
	Cols   int       `json:"cols"`
	Pixels []float32 `json:"pixels"`
}

type LabelEntry struct {
	Index int   `json:"index"`
	Label uint8 `json:"label"`
}

type LabelListResponse struct {
	Object  string       `json:"object"`
	Data    []LabelEntry `json:"data"`
	Offset  int          `json:"offset"`
	HasMore bool         `json:"has_more"`
}

type StatsResponse struct {
	Object string `json:"object"`
	mnist.Summary
}
