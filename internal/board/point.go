package board

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/planboard/internal/axis"
)

// Point is a position on a board axis. In YAML it is either an integer
// (a slot index, or Unix milliseconds) or an RFC3339 timestamp. A Point
// read as a timestamp is written back as one.
type Point struct {
	Value int64
	Time  bool
}

// Slot returns a Point for a slot index.
func Slot(v int64) Point {
	return Point{Value: v}
}

// At returns a timestamp Point.
func At(t time.Time) Point {
	return Point{Value: axis.Millis(t), Time: true}
}

// IsZero lets yaml omitempty drop unset points.
func (p Point) IsZero() bool {
	return p.Value == 0 && !p.Time
}

// String formats the point the way it is written to YAML.
func (p Point) String() string {
	if p.Time {
		return axis.Time(p.Value).Format(time.RFC3339)
	}
	return strconv.FormatInt(p.Value, 10)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: axis point must be a scalar", node.Line)
	}

	var v int64
	if err := node.Decode(&v); err == nil {
		*p = Point{Value: v}
		return nil
	}

	t, err := time.Parse(time.RFC3339, node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %q is neither an integer nor an RFC3339 time", node.Line, node.Value)
	}
	*p = At(t)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Point) MarshalYAML() (any, error) {
	if p.Time {
		return axis.Time(p.Value), nil
	}
	return p.Value, nil
}

// Step is the axis snapping step. In YAML it is an integer in domain units
// or, for time axes, a Go duration such as "15m".
type Step int64

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var v int64
	if err := node.Decode(&v); err == nil {
		*s = Step(v)
		return nil
	}

	d, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: step %q is neither an integer nor a duration", node.Line, node.Value)
	}
	*s = Step(d / time.Millisecond)
	return nil
}
