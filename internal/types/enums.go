package types

type LocatorKind string

const (
	LocatorKindPortPath LocatorKind = "port-path"
	LocatorKindIDPath   LocatorKind = "id-path"
)

// Locator is a named reference to a physical position: either a literal
// port path, or a udev identifier path matched against discovered devices.
type Locator struct {
	Identifier string
	Kind       LocatorKind
	Value      string
}
