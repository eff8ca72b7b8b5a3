package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies one rendered artifact of a document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string

	// DocumentKey identifies a stored document by backend and name.
	DocumentKey(backend, name string) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Grid       bool    `json:"grid,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Highlight  string  `json:"highlight,omitempty"`
	AutoLayout bool    `json:"auto_layout,omitempty"`
}

// DefaultKeyer produces prefixed, hashed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the document hash and options.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// DocumentKey returns "doc:<backend>:<name>". Names are validated by the
// store before they reach the cache, so they are not hashed.
func (DefaultKeyer) DocumentKey(backend, name string) string {
	return "doc:" + backend + ":" + name
}

var _ Keyer = DefaultKeyer{}
