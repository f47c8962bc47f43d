package mnist

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Summary describes a loaded dataset.
type Summary struct {
	Images      int           `json:"images"`
	Labels      int           `json:"labels"`
	Rows        int           `json:"rows"`
	Cols        int           `json:"cols"`
	ClassCounts map[uint8]int `json:"class_counts"`
	PixelMean   float32       `json:"pixel_mean"`
	PixelStd    float32       `json:"pixel_std"`
	MeanImage   []float32     `json:"-"`
}

// Summarize computes the class histogram and pixel statistics of d.
func Summarize(d *Dataset) Summary {
	s := Summary{
		Images:      d.Images.Count,
		Labels:      len(d.Labels),
		Rows:        d.Images.Rows,
		Cols:        d.Images.Cols,
		ClassCounts: make(map[uint8]int),
	}
	for _, l := range d.Labels {
		s.ClassCounts[l]++
	}

	features := d.Images.Features()
	if d.Images.Count == 0 || features == 0 {
		return s
	}

	// mean image = X^T * 1 / count
	ones := make([]float32, d.Images.Count)
	for i := range ones {
		ones[i] = 1
	}
	s.MeanImage = make([]float32, features)
	blas32.Gemv(blas.Trans, 1/float32(d.Images.Count), d.Images.General(),
		blas32.Vector{N: len(ones), Inc: 1, Data: ones},
		0, blas32.Vector{N: features, Inc: 1, Data: s.MeanImage})

	all := blas32.Vector{N: len(d.Images.Data), Inc: 1, Data: d.Images.Data}
	n := float32(len(d.Images.Data))
	s.PixelMean = blas32.Asum(blas32.Vector{N: features, Inc: 1, Data: s.MeanImage}) / float32(features)
	variance := blas32.Dot(all, all)/n - s.PixelMean*s.PixelMean
	s.PixelStd = math32.Sqrt(max(variance, 0))
	return s
}
