package domain

// Cloud cover and visibility feature columns.
const (
	ColVisibilityCategory = "visibility_category"
	ColCloudCoverCategory = "cloud_cover_category"
)

// VisibilityCategory bands a visibility distance in meters.
func VisibilityCategory(meters float64) string {
	switch {
	case meters < 1000:
		return "very_poor"
	case meters < 4000:
		return "poor"
	case meters < 10000:
		return "moderate"
	case meters < 20000:
		return "good"
	default:
		return "excellent"
	}
}

// CloudCoverCategory bands cloud cover percentage; band edges are inclusive.
func CloudCoverCategory(pct float64) string {
	switch {
	case pct <= 10:
		return "clear"
	case pct <= 30:
		return "mostly_clear"
	case pct <= 70:
		return "partly_cloudy"
	case pct <= 90:
		return "mostly_cloudy"
	default:
		return "cloudy"
	}
}

func cloudVisibilityFeatures(t Table, _ FeatureOptions) ([]*Column, error) {
	n := t.Len()
	visibility := column(t, ColVisibility)
	clouds := column(t, ColCloudsAll)

	band := func(name string, c *Column, fn func(float64) string) *Column {
		return mapString(name, n, func(i int) (string, bool) {
			v, ok := floatAt(c, i)
			if !ok {
				return "", false
			}
			return fn(v), true
		})
	}
	return []*Column{
		band(ColVisibilityCategory, visibility, VisibilityCategory),
		band(ColCloudCoverCategory, clouds, CloudCoverCategory),
	}, nil
}
