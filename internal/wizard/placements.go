package wizard

type Dimensions struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	AspectRatio string `json:"aspectRatio"`
}

var (
	square     = Dimensions{Width: 1080, Height: 1080, AspectRatio: "1:1"}
	vertical   = Dimensions{Width: 1080, Height: 1920, AspectRatio: "9:16"}
	horizontal = Dimensions{Width: 1200, Height: 628, AspectRatio: "1.91:1"}
)

var placementDimensions = map[string]Dimensions{
	"feed":         square,
	"facebook":     square,
	"instagram":    square,
	"marketplace":  square,
	"stories":      vertical,
	"reels":        vertical,
	"right_column": horizontal,
}

// RecommendedDimensions is the media size that renders best on placement.
func RecommendedDimensions(placement string) (Dimensions, bool) {
	d, ok := placementDimensions[placement]
	return d, ok
}

// MediaGuidance lists the distinct recommended sizes for the chosen placements.
func MediaGuidance(placements []string) []Dimensions {
	seen := map[Dimensions]bool{}
	out := []Dimensions{}
	for _, p := range placements {
		d, ok := RecommendedDimensions(p)
		if ok && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
