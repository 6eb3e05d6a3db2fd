package matching

// Config holds runtime knobs for the ranking service.
type Config struct {
	DefaultRadiusKm float64
	DefaultLimit    int
	MaxLimit        int
	// FallbackLocation is shown for technicians with no last known position.
	FallbackLocation Location
	TrendingLimit    int
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultRadiusKm:  10,
		DefaultLimit:     50,
		MaxLimit:         100,
		FallbackLocation: Location{Lat: 12.9716, Lng: 77.5946},
		TrendingLimit:    5,
	}
}
