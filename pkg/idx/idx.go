// Package idx implements the IDX container used by the MNIST dataset.
//
// An IDX file is a big-endian header followed by a flat unsigned byte payload.
// Only the two MNIST layouts are supported: image files (rank 3) and label
// files (rank 1). Streams passed to this package must already be decompressed.
package idx

import "fmt"

// Magic numbers must never change.
const (
	// MagicLabels identifies a label file: unsigned byte, rank 1.
	MagicLabels uint32 = 0x00000801

	// MagicImages identifies an image file: unsigned byte, rank 3.
	MagicImages uint32 = 0x00000803
)

const (
	labelHeaderSize = 8
	imageHeaderSize = 16
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindLabels
	KindImages
)

// KindOf maps a magic number to the file kind it identifies.
func KindOf(magic uint32) Kind {
	switch magic {
	case MagicLabels:
		return KindLabels
	case MagicImages:
		return KindImages
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindLabels:
		return "labels"
	case KindImages:
		return "images"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Magic returns the magic number for k, or zero for KindUnknown.
func (k Kind) Magic() uint32 {
	switch k {
	case KindLabels:
		return MagicLabels
	case KindImages:
		return MagicImages
	default:
		return 0
	}
}

// HeaderSize is the encoded header length for k.
func (k Kind) HeaderSize() int {
	if k == KindImages {
		return imageHeaderSize
	}
	return labelHeaderSize
}
