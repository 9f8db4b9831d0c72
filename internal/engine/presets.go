// ABOUTME: Static frequency presets and wellness disclaimer
// ABOUTME: Read-only data consumed by frontends; never gates synthesis
package engine

// Preset is a named frequency program a frontend can offer.
type Preset struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	FrequencyRange [2]float64 `json:"frequency_range_hz"`
	PrimaryHz      float64    `json:"primary_frequency_hz"`
	Research       string     `json:"research"`
	Target         string     `json:"target"`
}

// Presets returns the built-in frequency programs.
func Presets() []Preset {
	return []Preset{
		{
			ID:             "osteo-sync",
			Name:           "Osteo-Sync",
			FrequencyRange: [2]float64{35, 45},
			PrimaryHz:      40,
			Research:       "Rubin et al. (2006) - Low-magnitude mechanical signals",
			Target:         "Osteoblast activity optimization",
		},
		{
			ID:             "myo-resonance",
			Name:           "Myo-Resonance",
			FrequencyRange: [2]float64{45, 50},
			PrimaryHz:      47.5,
			Research:       "Judex & Rubin (2010) - Mechanical influences",
			Target:         "Myofibril coherence, fibrosis reduction",
		},
		{
			ID:             "neural-flow",
			Name:           "Neural-Flow",
			FrequencyRange: [2]float64{38, 42},
			PrimaryHz:      40,
			Research:       "Iaccarino et al. (2016) - Gamma entrainment",
			Target:         "Neural gamma oscillation, focus",
		},
		{
			ID:             "vaso-pulse",
			Name:           "Vaso-Pulse",
			FrequencyRange: [2]float64{8, 12},
			PrimaryHz:      10,
			Research:       "Kerschan-Schindl et al. (2001) - Blood flow",
			Target:         "Peripheral blood flow enhancement",
		},
		{
			ID:             "lymph-flow",
			Name:           "Lymph-Flow",
			FrequencyRange: [2]float64{1, 5},
			PrimaryHz:      3,
			Research:       "Piller (2015) - Lymphatic drainage",
			Target:         "Lymphatic system support",
		},
		{
			ID:             "custom",
			Name:           "Custom",
			FrequencyRange: [2]float64{MinFrequency, MaxFrequency},
			PrimaryHz:      40,
			Research:       "User-defined frequency",
			Target:         "Custom application",
		},
	}
}

// Disclaimer returns the wellness-only disclaimer text.
func Disclaimer() string {
	return "Wellness/Informational Tool - No Medical Advice. Not a medical device. " +
		"This application is designed for general wellness purposes only and should " +
		"not be used to diagnose, treat, cure, or prevent any disease or health condition. " +
		"Always consult a healthcare professional before starting any wellness program."
}
