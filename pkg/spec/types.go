package spec

// Project is the top-level definition loaded from city.yaml.
type Project struct {
	SpecVersion string       `yaml:"spec_version" json:"spec_version"`
	Title       string       `yaml:"title" json:"title"`
	InitialCity string       `yaml:"initial_city" json:"initial_city"`
	Viewport    FovDef       `yaml:"viewport" json:"viewport"`
	Cities      []CityConfig `yaml:"cities" json:"cities"`
}

// City returns the named city with the project viewport applied, or false.
func (p *Project) City(name string) (CityConfig, bool) {
	for _, c := range p.Cities {
		if c.Name == name {
			return p.withDefaults(c), true
		}
	}
	return CityConfig{}, false
}

// Initial returns the city named by initial_city, falling back to the first
// city when initial_city is empty.
func (p *Project) Initial() (CityConfig, bool) {
	if p.InitialCity == "" {
		if len(p.Cities) == 0 {
			return CityConfig{}, false
		}
		return p.withDefaults(p.Cities[0]), true
	}
	return p.City(p.InitialCity)
}

func (p *Project) withDefaults(c CityConfig) CityConfig {
	if c.Fov == nil {
		fov := p.Viewport
		c.Fov = &fov
	}
	return c
}

// CityConfig is the parameter bundle for one generated city.
type CityConfig struct {
	Name      string       `yaml:"name" json:"name"`
	Seed      uint64       `yaml:"seed" json:"seed"`
	City      CityDef      `yaml:"city" json:"city"`
	Buildings BuildingsDef `yaml:"buildings" json:"buildings"`
	Subway    SubwayDef    `yaml:"subway" json:"subway"`
	Fov       *FovDef      `yaml:"fov,omitempty" json:"fov,omitempty"`
}

// FovOrZero returns the configured field of view, or the zero value.
func (c CityConfig) FovOrZero() FovDef {
	if c.Fov == nil {
		return FovDef{}
	}
	return *c.Fov
}

// CityDef holds the city plan extents.
type CityDef struct {
	Length int `yaml:"length" json:"length"`
	Height int `yaml:"height" json:"height"`
}

// BuildingsDef holds the building size and spacing ranges.
type BuildingsDef struct {
	MinHeight             int     `yaml:"min_height" json:"min_height"`
	MaxHeight             int     `yaml:"max_height" json:"max_height"`
	MinWidth              int     `yaml:"min_width" json:"min_width"`
	MaxWidth              int     `yaml:"max_width" json:"max_width"`
	MinDistance           int     `yaml:"min_distance" json:"min_distance"`
	MaxDistance           int     `yaml:"max_distance" json:"max_distance"`
	AverageRoomPopulation float64 `yaml:"average_room_population" json:"average_room_population"`
}

// SubwayDef holds the subway band geometry.
type SubwayDef struct {
	Height         int `yaml:"height" json:"height"`
	OnrampDistance int `yaml:"onramp_distance" json:"onramp_distance"`
}

// FovDef is the initially visible window into the city.
type FovDef struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
}
