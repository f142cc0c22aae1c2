package render

// PageSize represents paper dimensions in centimeters.
type PageSize struct {
	Width  float64 // Width in centimeters.
	Height float64 // Height in centimeters.
}

// A4 is the paper size of reader documents.
var A4 = PageSize{Width: 21.0, Height: 29.7}

// Orientation represents the page orientation.
type Orientation int

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = iota
	// Landscape rotates the page to horizontal orientation.
	Landscape
)

// Margin represents page margins in centimeters.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(cm float64) Margin {
	return Margin{Top: cm, Right: cm, Bottom: cm, Left: cm}
}

// PageConfig controls the paper the document is printed on.
//
// Zero-value fields take the values of [DefaultPageConfig].
type PageConfig struct {
	// Size specifies the paper size. Defaults to A4.
	Size PageSize

	// Orientation specifies portrait or landscape. Defaults to Portrait.
	Orientation Orientation

	// Margin specifies page margins in centimeters. Defaults to 2 cm on all
	// sides, matching the shell's @page rule.
	Margin Margin

	// Scale of the webpage rendering. Must be between 0.1 and 2.0. Defaults to 1.0.
	Scale float64

	// PrintBackground enables printing of background colors and images.
	PrintBackground bool

	// PreferCSSPageSize gives precedence to any CSS @page size declared
	// in the document over the Size field.
	PreferCSSPageSize bool
}

// DefaultPageConfig returns the page setup used for reader documents.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:              A4,
		Orientation:       Portrait,
		Margin:            UniformMargin(2.0),
		Scale:             1.0,
		PrintBackground:   true,
		PreferCSSPageSize: true,
	}
}

// resolved returns a PageConfig with all zero values replaced by defaults.
func (p *PageConfig) resolved() PageConfig {
	d := DefaultPageConfig()
	if p == nil {
		return d
	}
	r := *p
	if r.Size == (PageSize{}) {
		r.Size = d.Size
	}
	if r.Scale <= 0 {
		r.Scale = d.Scale
	}
	if r.Margin == (Margin{}) {
		r.Margin = d.Margin
	}
	return r
}

// cmToInches converts centimeters to inches.
func cmToInches(cm float64) float64 {
	return cm / 2.54
}

// paperDimensions returns the paper width and height in inches,
// accounting for orientation.
func (p PageConfig) paperDimensions() (width, height float64) {
	w := cmToInches(p.Size.Width)
	h := cmToInches(p.Size.Height)
	if p.Orientation == Landscape {
		return h, w
	}
	return w, h
}

// marginInches returns margins converted to inches.
func (p PageConfig) marginInches() (top, right, bottom, left float64) {
	return cmToInches(p.Margin.Top),
		cmToInches(p.Margin.Right),
		cmToInches(p.Margin.Bottom),
		cmToInches(p.Margin.Left)
}
