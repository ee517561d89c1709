package kvdoc

// DetectionRule lists field names that hint at a section when no header is present.
type DetectionRule struct {
	Section string
	Fields  []string
}

// Config is the static, compiled-in description of a documentation type.
type Config struct {
	Type     Type
	Name     string
	Path     string   // schema document path inside a Source; empty means no schema
	Sections []string // declared section names, first is the default
	// DetectionFields is ordered; the first matching rule wins.
	DetectionFields []DetectionRule
}

// configs is declaration ordered. Detection iterates it front to back.
var configs = []Config{
	{
		Type:     DefCore,
		Name:     "DefCore",
		Path:     "defcore-fields.json",
		Sections: []string{"DefCore", "Physical"},
		DetectionFields: []DetectionRule{
			{Section: "DefCore", Fields: []string{"id", "Version", "Name", "Category", "Width", "Height"}},
			{Section: "Physical", Fields: []string{"Energy", "Breath", "Walk", "Jump", "Scale"}},
		},
	},
	{
		Type:     ActMap,
		Name:     "ActMap",
		Path:     "actmap-fields.json",
		Sections: []string{"ActMap"},
		DetectionFields: []DetectionRule{
			{Section: "ActMap", Fields: []string{"Procedure", "Length", "Delay", "Facet", "NextAction"}},
		},
	},
	{
		Type:     Script,
		Name:     "Script",
		Path:     "script-fields.json",
		Sections: []string{"Script"},
	},
	{
		Type:     Material,
		Name:     "Material",
		Path:     "material-fields.json",
		Sections: []string{"Material"},
		DetectionFields: []DetectionRule{
			{Section: "Material", Fields: []string{"Density", "Friction", "DigFree", "Blast2Object"}},
		},
	},
	{
		Type: Custom,
		Name: "Custom",
	},
}

// Types returns all documentation types in detection order.
func Types() []Type {
	types := make([]Type, len(configs))
	for i, cfg := range configs {
		types[i] = cfg.Type
	}
	return types
}

// ConfigFor returns the static configuration of t.
// Unknown types get the Custom configuration.
func ConfigFor(t Type) Config {
	if cfg, ok := lookupConfig(t); ok {
		return cfg
	}
	cfg, _ := lookupConfig(Custom)
	return cfg
}

// AvailableSections returns the declared sections of t.
func AvailableSections(t Type) []string {
	sections := ConfigFor(t).Sections
	out := make([]string, len(sections))
	copy(out, sections)
	return out
}

func lookupConfig(t Type) (Config, bool) {
	for _, cfg := range configs {
		if cfg.Type == t {
			return cfg, true
		}
	}
	return Config{}, false
}

func (c Config) hasSection(name string) bool {
	for _, s := range c.Sections {
		if s == name {
			return true
		}
	}
	return false
}
