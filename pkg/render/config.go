package render

// Default visual parameters.
const (
	DefaultNodeRadius   = 20.0
	DefaultLabelOffsetX = 12.0
	DefaultLabelOffsetY = 4.0
	DefaultLinkColor    = "#999999"
	DefaultLinkOpacity  = 0.6
	DefaultLinkWidth    = 1.5
	DefaultArrowSize    = 6.0
)

// Config controls primitive geometry and cosmetic styling.
type Config struct {
	NodeRadius   float64 // Drawn circle radius
	LabelOffsetX float64 // Node label offset from the node center
	LabelOffsetY float64
	LinkColor    string
	LinkOpacity  float64
	LinkWidth    float64
	ArrowSize    float64
	LinkLabels   bool // Draw relationship labels
}

// DefaultConfig returns the default render parameters.
func DefaultConfig() Config {
	return Config{
		NodeRadius:   DefaultNodeRadius,
		LabelOffsetX: DefaultLabelOffsetX,
		LabelOffsetY: DefaultLabelOffsetY,
		LinkColor:    DefaultLinkColor,
		LinkOpacity:  DefaultLinkOpacity,
		LinkWidth:    DefaultLinkWidth,
		ArrowSize:    DefaultArrowSize,
		LinkLabels:   true,
	}
}
