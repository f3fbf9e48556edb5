package mcp

import (
	"encoding/json"
	"slices"

	"github.com/thoreinstein/mmcp/internal/jsontree"
)

// Mode is the update policy applied to the managed servers region of a
// target document.
type Mode string

const (
	// ModeMerge adds or overwrites only the servers named in the Config and
	// leaves every other existing server untouched.
	ModeMerge Mode = "merge"

	// ModeReplace makes the managed servers region exactly equal to the
	// servers named in the Config.
	ModeReplace Mode = "replace"
)

// Valid reports whether m is one of the recognized modes.
func (m Mode) Valid() bool {
	return m == ModeMerge || m == ModeReplace
}

// Well-known server fields.
const (
	FieldCommand = "command"
	FieldArgs    = "args"
	FieldEnv     = "env"
	FieldURL     = "url"
	FieldHeaders = "headers"
	FieldType    = "type"
	FieldTools   = "tools"
)

// ServerSpec is one desired MCP server entry.
//
// It is an open record: the well-known fields have typed accessors, and every
// other field is carried through untouched in its original order. A field set
// to nil (JSON null) asks the merge algorithms to delete that field from the
// target entry; see [IsDeletion].
type ServerSpec struct {
	fields *jsontree.Object
}

// NewServerSpec creates an empty server spec.
func NewServerSpec() *ServerSpec {
	return &ServerSpec{fields: jsontree.NewObject()}
}

// ServerSpecFrom wraps a decoded JSON object. The object is not copied.
func ServerSpecFrom(obj *jsontree.Object) *ServerSpec {
	if obj == nil {
		obj = jsontree.NewObject()
	}
	return &ServerSpec{fields: obj}
}

// NewLocalServer builds a spec for a locally launched server.
// A nil env is written as an empty mapping.
func NewLocalServer(command string, args []string, env map[string]string) *ServerSpec {
	s := NewServerSpec()
	s.Set(FieldCommand, command)
	s.Set(FieldArgs, stringsToAny(args))
	s.Set(FieldEnv, stringMapToObject(env))
	return s
}

// NewRemoteServer builds a spec for a server reached over HTTP.
func NewRemoteServer(url string, headers map[string]string) *ServerSpec {
	s := NewServerSpec()
	s.Set(FieldURL, url)
	if len(headers) > 0 {
		s.Set(FieldHeaders, stringMapToObject(headers))
	}
	return s
}

// Fields exposes every field of the spec in order. Callers must not mutate
// the returned object; use [jsontree.CloneObject] first.
func (s *ServerSpec) Fields() *jsontree.Object {
	return s.fields
}

// Get returns the raw value of a field.
func (s *ServerSpec) Get(field string) (any, bool) {
	return s.fields.Get(field)
}

// Set stores a raw tree value under field.
func (s *ServerSpec) Set(field string, value any) {
	s.fields.Set(field, value)
}

// Command returns the command field, or "" when absent or not a string.
func (s *ServerSpec) Command() string {
	return s.stringField(FieldCommand)
}

// URL returns the url field, or "" when absent or not a string.
func (s *ServerSpec) URL() string {
	return s.stringField(FieldURL)
}

// Args returns the string elements of the args field.
func (s *ServerSpec) Args() []string {
	v, _ := s.fields.Get(FieldArgs)
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if str, ok := e.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// Env returns the string-valued entries of the env field.
func (s *ServerSpec) Env() map[string]string {
	v, _ := s.fields.Get(FieldEnv)
	obj, ok := v.(*jsontree.Object)
	if !ok {
		return nil
	}
	out := make(map[string]string, obj.Len())
	for k, val := range obj.All() {
		if str, ok := val.(string); ok {
			out[k] = str
		}
	}
	return out
}

// Clone returns a deep copy of the spec.
func (s *ServerSpec) Clone() *ServerSpec {
	return &ServerSpec{fields: jsontree.CloneObject(s.fields)}
}

// MarshalJSON implements json.Marshaler.
func (s *ServerSpec) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return jsontree.Marshal(s.fields)
}

func (s *ServerSpec) stringField(field string) string {
	v, _ := s.fields.Get(field)
	str, _ := v.(string)
	return str
}

// IsDeletion reports whether a field value is the deletion sentinel.
func IsDeletion(v any) bool {
	return v == nil
}

// Servers maps server names to specs in Config enumeration order.
// Names are opaque literal keys: dots and spaces never imply nesting.
type Servers = jsontree.Map[*ServerSpec]

// Config is the canonical, tool-agnostic description of the MCP servers that
// should be registered with each target agent.
type Config struct {
	// Mode governs how existing entries in each target are treated.
	Mode Mode

	// Agents lists target identifiers in the order they are applied.
	Agents []string

	// MCPServers holds the desired servers keyed by name.
	MCPServers *Servers
}

// NewConfig returns an empty Config in merge mode.
func NewConfig() *Config {
	return &Config{
		Mode:       ModeMerge,
		Agents:     []string{},
		MCPServers: jsontree.NewMap[*ServerSpec](),
	}
}

// SetServer adds or replaces a server. A replaced server keeps its position.
func (c *Config) SetServer(name string, spec *ServerSpec) {
	if c.MCPServers == nil {
		c.MCPServers = jsontree.NewMap[*ServerSpec]()
	}
	c.MCPServers.Set(name, spec)
}

// RemoveServer deletes a server by name and reports whether it existed.
func (c *Config) RemoveServer(name string) bool {
	if !c.MCPServers.Has(name) {
		return false
	}
	c.MCPServers.Delete(name)
	return true
}

// AddAgent appends id unless it is already listed. It reports whether the
// list changed.
func (c *Config) AddAgent(id string) bool {
	if slices.Contains(c.Agents, id) {
		return false
	}
	c.Agents = append(c.Agents, id)
	return true
}

// RemoveAgent removes every occurrence of id and reports whether the list
// changed.
func (c *Config) RemoveAgent(id string) bool {
	before := len(c.Agents)
	c.Agents = slices.DeleteFunc(c.Agents, func(a string) bool { return a == id })
	return len(c.Agents) != before
}

// MarshalJSON implements json.Marshaler, writing the canonical file layout.
func (c *Config) MarshalJSON() ([]byte, error) {
	obj := jsontree.NewObject()
	obj.Set("mode", string(c.Mode))
	obj.Set("agents", stringsToAny(c.Agents))
	servers := c.MCPServers
	if servers == nil {
		servers = jsontree.NewMap[*ServerSpec]()
	}
	obj.Set("mcpServers", json.Marshaler(servers))
	return jsontree.Marshal(obj)
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func stringMapToObject(in map[string]string) *jsontree.Object {
	obj := jsontree.NewObject()
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		obj.Set(k, in[k])
	}
	return obj
}
