package domain

// Spec keys that product listings may filter on. Specs is a free-form JSON
// object but only these keys are queryable, so arbitrary client input never
// reaches the JSONB containment query.
var filterableSpecKeys = map[string]struct{}{
	"processor_model":     {},
	"processor_cores":     {},
	"screen_size":         {},
	"screen_resolution":   {},
	"screen_refresh_rate": {},
	"memory_size":         {},
	"memory_type":         {},
	"graphics_model":      {},
	"graphics_vram":       {},
	"storage_size":        {},
	"storage_type":        {},
	"weight":              {},
	"battery":             {},
}

// IsFilterableSpecKey reports whether listings may filter on the given spec key.
func IsFilterableSpecKey(key string) bool {
	_, ok := filterableSpecKeys[key]
	return ok
}
