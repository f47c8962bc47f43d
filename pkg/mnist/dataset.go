package mnist

import (
	"errors"
	"fmt"
)

// Classes is the number of digit classes.
const Classes = 10

var (
	ErrCountMismatch = errors.New("mnist: image and label counts differ")
	ErrLabelRange    = errors.New("mnist: label out of range")
)

// Validate checks that every image has a label and that every label is below
// classes. Decoding never performs these checks.
func (d *Dataset) Validate(classes int) error {
	if d.Images.Count != len(d.Labels) {
		return fmt.Errorf("%w: %d images, %d labels", ErrCountMismatch, d.Images.Count, len(d.Labels))
	}
	for i, l := range d.Labels {
		if int(l) >= classes {
			return fmt.Errorf("%w: label %d at index %d, want < %d", ErrLabelRange, l, i, classes)
		}
	}
	return nil
}

// Sample returns image i and its label.
func (d *Dataset) Sample(i int) ([]float32, uint8, error) {
	if i < 0 || i >= d.Len() {
		return nil, 0, fmt.Errorf("mnist: sample %d out of range [0, %d)", i, d.Len())
	}
	return d.Images.Row(i), d.Labels[i], nil
}
