package topology

import "fmt"

// Limits on boards built from a Spec.
const (
	MaxCells     = 1 << 18
	MaxRadius    = 8
	MaxFrequency = 32
)

// Spec describes a topology declaratively, for presets and API requests.
type Spec struct {
	Kind      Kind   `yaml:"kind" json:"kind"`
	Width     int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height    int    `yaml:"height,omitempty" json:"height,omitempty"`
	Depth     int    `yaml:"depth,omitempty" json:"depth,omitempty"`
	Radius    int    `yaml:"radius,omitempty" json:"radius,omitempty"`
	Frequency int    `yaml:"frequency,omitempty" json:"frequency,omitempty"`
	Skew      int    `yaml:"skew,omitempty" json:"skew,omitempty"`
	Tiling    Tiling `yaml:"tiling,omitempty" json:"tiling,omitempty"`
}

// New builds the topology a Spec describes.
func New(spec Spec) (Topology, error) {
	if err := spec.checkSize(); err != nil {
		return nil, err
	}
	switch spec.Kind {
	case KindGrid, KindTorus:
		var opts []GridOption
		if spec.Kind == KindTorus {
			opts = append(opts, WithWrap())
		}
		if spec.Radius > 0 {
			opts = append(opts, WithRadius(spec.Radius))
		}
		return NewGrid(spec.Width, spec.Height, opts...)
	case KindHex:
		return NewHexGrid(spec.Width, spec.Height)
	case KindCubeSurface:
		return NewCubeSurface(spec.Width, spec.Height, spec.Depth)
	case KindCubeVolume:
		return NewCubeVolume(spec.Width, spec.Height, spec.Depth)
	case KindGeodesic:
		return NewGeodesic(spec.Frequency, spec.Skew, spec.Tiling)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
}

// checkSize rejects shapes larger than MaxCells, before anything is
// allocated. Negative sizes are left to the constructors.
func (s Spec) checkSize() error {
	w, h, d := int64(s.Width), int64(s.Height), int64(s.Depth)
	for _, n := range []int64{w, h, d} {
		if n > MaxCells {
			return fmt.Errorf("%w: %s exceeds %d cells", ErrInvalidDimensions, s, MaxCells)
		}
	}

	var cells int64
	switch s.Kind {
	case KindGrid, KindTorus, KindHex:
		cells = w * h
	case KindCubeSurface:
		cells = 2 * (d*w + h*w + h*d)
	case KindCubeVolume:
		cells = w * h * d
	case KindGeodesic:
		if s.Frequency > MaxFrequency {
			return fmt.Errorf("%w: frequency %d exceeds %d", ErrInvalidDimensions, s.Frequency, MaxFrequency)
		}
	}
	if cells > MaxCells {
		return fmt.Errorf("%w: %s exceeds %d cells", ErrInvalidDimensions, s, MaxCells)
	}
	if s.Radius > MaxRadius {
		return fmt.Errorf("%w: radius %d exceeds %d", ErrInvalidDimensions, s.Radius, MaxRadius)
	}
	return nil
}

func (s Spec) String() string {
	switch s.Kind {
	case KindCubeSurface, KindCubeVolume:
		return fmt.Sprintf("%s %dx%dx%d", s.Kind, s.Width, s.Height, s.Depth)
	case KindGeodesic:
		tiling := s.Tiling
		if tiling == "" {
			tiling = TilingTriangle
		}
		return fmt.Sprintf("%s N=%d c=%d %s", s.Kind, s.Frequency, s.Skew, tiling)
	}
	return fmt.Sprintf("%s %dx%d", s.Kind, s.Width, s.Height)
}
