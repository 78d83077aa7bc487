package annotations

// Preset is a named filter chain defined in the project. Its contents are
// opaque to this package and interpreted by the runtime.
type Preset struct {
	Name     string
	Contents string
}

// Presets is the project's preset table.
type Presets []Preset

// Lookup finds a preset by name.
func (p Presets) Lookup(name string) (Preset, bool) {
	for _, preset := range p {
		if preset.Name == name {
			return preset, true
		}
	}
	return Preset{}, false
}
