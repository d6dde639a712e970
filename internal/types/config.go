package types

// Mapping binds a user-chosen identifier to a position in the USB topology.
// Exactly one of Port or IDPath is expected; when both are present the port
// path wins. A mapping missing its identifier or carrying neither locator
// form is ignored.
type Mapping struct {
	Identifier string `yaml:"identifier"`
	Port       string `yaml:"port,omitempty"`
	IDPath     string `yaml:"idpath,omitempty"`
}

// SegmentPort annotates one downstream port of a mapped position. Port is a
// pointer so port 0 (the mapped device itself, e.g. a multi-function board)
// stays distinguishable from an absent entry.
type SegmentPort struct {
	Port  *int   `yaml:"port"`
	Label string `yaml:"label,omitempty"`

	// Env names the environment variable exported for device nodes on this
	// port, in the form "NAME" or "NAME,PREFIX" where PREFIX restricts the
	// node basename (e.g. "SERIAL,ttyUSB").
	Env string `yaml:"env,omitempty"`
}

// Segment attaches display labels and env rules to the ports downstream of
// a mapped identifier. Segments from all config files accumulate in file
// order; a segment naming an unknown identifier is skipped at resolve time.
type Segment struct {
	Identifier string        `yaml:"identifier"`
	Label      string        `yaml:"label,omitempty"`
	Ports      []SegmentPort `yaml:"ports,omitempty"`
}

// ConfigFile is one parsed YAML file from the labeling config directory.
type ConfigFile struct {
	Mappings []Mapping `yaml:"mappings,omitempty"`
	Segments []Segment `yaml:"segments,omitempty"`
}
