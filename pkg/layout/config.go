package layout

import "github.com/matzehuels/schemaflow/pkg/errors"

// Direction is the primary flow of the diagram.
type Direction string

const (
	// LR places ranks left to right.
	LR Direction = errors.DirectionLR
	// TB places ranks top to bottom.
	TB Direction = errors.DirectionTB
)

// Default spacing, in diagram units.
const (
	DefaultNodeSep = 100.0
	DefaultRankSep = 150.0
	DefaultEdgeSep = 50.0
	DefaultMargin  = 40.0
	DefaultPadding = 20.0
)

// Config controls direction and spacing.
type Config struct {
	Direction Direction `json:"direction" toml:"direction"`

	// NodeSep is the minimum gap between neighbouring tables in a rank.
	NodeSep float64 `json:"node_sep" toml:"node_sep"`
	// RankSep is the gap between consecutive ranks.
	RankSep float64 `json:"rank_sep" toml:"rank_sep"`
	// EdgeSep is the gap kept around the virtual nodes of long edges.
	EdgeSep float64 `json:"edge_sep" toml:"edge_sep"`
	// Margin surrounds the whole diagram.
	Margin float64 `json:"margin" toml:"margin"`
	// Padding is added to each table's width and height before spacing.
	Padding float64 `json:"padding" toml:"padding"`
}

// DefaultConfig returns a left-to-right configuration with default spacing.
func DefaultConfig() Config {
	return Config{
		Direction: LR,
		NodeSep:   DefaultNodeSep,
		RankSep:   DefaultRankSep,
		EdgeSep:   DefaultEdgeSep,
		Margin:    DefaultMargin,
		Padding:   DefaultPadding,
	}
}

// Validate reports the first invalid field. [Compute] does not validate;
// callers are expected to.
func (c Config) Validate() error {
	if err := errors.ValidateDirection(string(c.Direction)); err != nil {
		return err
	}
	for _, s := range []struct {
		name string
		v    float64
	}{
		{"node_sep", c.NodeSep},
		{"rank_sep", c.RankSep},
		{"edge_sep", c.EdgeSep},
		{"margin", c.Margin},
		{"padding", c.Padding},
	} {
		if err := errors.ValidateSpacing(s.name, s.v); err != nil {
			return err
		}
	}
	return nil
}
