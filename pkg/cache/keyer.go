package cache

const (
	prefixHTTP     = "http"
	prefixLayout   = "layout"
	prefixArtifact = "artifact"
)

// LayoutKeyOpts holds every option that changes a computed layout.
type LayoutKeyOpts struct {
	Columns       int     `json:"columns"`
	Width         float64 `json:"width"`
	CaptionHeight float64 `json:"caption_height"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels"`

	// Viewport is the clip rectangle as "x,y,w,h", empty for the full layout.
	Viewport string `json:"viewport,omitempty"`
}

// Keyer builds cache keys for each entry kind.
type Keyer interface {
	// HTTPKey generates a key for a downloaded response.
	HTTPKey(namespace, key string) string

	// LayoutKey generates a key for a layout computed from a manifest.
	LayoutKey(manifestHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for output rendered from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return prefixHTTP + ":" + namespace + ":" + key
}

// LayoutKey hashes the manifest hash together with the layout options.
func (DefaultKeyer) LayoutKey(manifestHash string, opts LayoutKeyOpts) string {
	return hashKey(prefixLayout, manifestHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(prefixArtifact, layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
