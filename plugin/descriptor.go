package plugin

import "github.com/zernjs/kernel/store"

// Descriptor is the immutable declaration produced by Builder.Build. The
// lifecycle manager consumes Descriptors in resolver order; nothing in
// this package executes a plugin's setup or hooks.
type Descriptor struct {
	id      ID
	Name    string
	Version string

	Dependencies []Dependency
	Setup        SetupFunc
	Hooks        Hooks
	Extensions   []ExtensionDecl
	Proxies      []ProxyDecl

	StoreInitial map[string]any
	StoreOptions []store.Option

	Metadata map[string]any
}

// ID returns the plugin's stable identifier, derived once from Name at
// Build() time.
func (d *Descriptor) ID() ID { return d.id }
