package dispatch

import (
	"github.com/justyntemme/nativeplug/pkg/intern"
)

// Catalog binds the fixed opcode vocabulary to interned tokens. It is built
// once per session and read-only afterwards, so lookups are safe from any
// thread.
type Catalog struct {
	host     [hostOpcodeCount]intern.Token
	plugin   [pluginOpcodeCount]intern.Token
	toHost   map[intern.Token]HostOpcode
	toPlugin map[intern.Token]PluginOpcode
}

// NewCatalog interns every host and plugin opcode.
func NewCatalog(in *intern.Interner) *Catalog {
	c := &Catalog{
		toHost:   make(map[intern.Token]HostOpcode, hostOpcodeCount),
		toPlugin: make(map[intern.Token]PluginOpcode, pluginOpcodeCount),
	}
	for _, op := range HostOpcodes() {
		tok := in.Intern(op.String())
		c.host[op] = tok
		c.toHost[tok] = op
	}
	for _, op := range PluginOpcodes() {
		tok := in.Intern(op.String())
		c.plugin[op] = tok
		c.toPlugin[tok] = op
	}
	return c
}

// Host returns the token of a host opcode, or Undefined for HostNull.
func (c *Catalog) Host(op HostOpcode) intern.Token {
	if op >= hostOpcodeCount {
		return intern.Undefined
	}
	return c.host[op]
}

// Plugin returns the token of a plugin opcode.
func (c *Catalog) Plugin(op PluginOpcode) intern.Token {
	if op >= pluginOpcodeCount {
		return intern.Undefined
	}
	return c.plugin[op]
}

// HostOpcode maps a token back to a host opcode.
func (c *Catalog) HostOpcode(tok intern.Token) (HostOpcode, bool) {
	op, ok := c.toHost[tok]
	return op, ok
}

// PluginOpcode maps a token back to a plugin opcode.
func (c *Catalog) PluginOpcode(tok intern.Token) (PluginOpcode, bool) {
	op, ok := c.toPlugin[tok]
	return op, ok
}
