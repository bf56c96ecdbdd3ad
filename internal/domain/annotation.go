package domain

// Region type tags as sent by the annotation frontend. Anything else is
// dropped with a diagnostic instead of failing the whole snapshot.
const (
	RegionCircle  = "circle"
	RegionBox     = "box"
	RegionPolygon = "polygon"
)

// ListSeparator joins list-valued cells (tags, selected classes, polygon
// points) into a single scalar string before persistence.
const ListSeparator = ";"

// PixelSize is the original pixel size of an annotated image
type PixelSize struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Region is one user-drawn annotation shape on an image. Which of Coords
// and Points is populated depends on Type: circle and box regions carry
// named coordinates, polygon regions carry an ordered point list.
type Region struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"`
	Class   string             `json:"cls"`
	Comment string             `json:"comment,omitempty"`
	Tags    []string           `json:"tags,omitempty"`
	Coords  map[string]float64 `json:"coords,omitempty"`
	Points  [][]float64        `json:"points,omitempty"`
}

// ImageData is one full annotation session for a single image: its
// metadata plus the complete current region list. Regions absent from the
// list are considered deleted by the user.
type ImageData struct {
	Name      string     `json:"name"`
	Src       string     `json:"src"`
	Comment   string     `json:"comment"`
	Classes   []string   `json:"cls"`
	PixelSize *PixelSize `json:"pixelSize,omitempty"`
	Regions   []Region   `json:"regions"`
}
