package cache

// LayoutKeyOpts are the inputs besides the schema text that change a layout.
type LayoutKeyOpts struct {
	Direction string  `json:"direction"`
	NodeSep   float64 `json:"node_sep"`
	RankSep   float64 `json:"rank_sep"`
	EdgeSep   float64 `json:"edge_sep"`
	Margin    float64 `json:"margin"`
	Padding   float64 `json:"padding"`
	NodeWidth float64 `json:"node_width"`
}

// ArtifactKeyOpts are the inputs besides the layout that change a rendered file.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style"`
	Scale  float64 `json:"scale"`
	Labels bool    `json:"labels"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey keys a computed layout by the hash of its schema text.
	LayoutKey(schemaHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered file by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(schemaHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", schemaHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
