package token

// Context is the evaluation environment passed to providers on update.
//
// The Token adapter forwards it without inspecting it; only providers
// read values out of it. Keys are compared case-sensitively.
type Context struct {
	tick   uint64
	values map[string][]string
}

func NewContext() *Context {
	return &Context{values: make(map[string][]string)}
}

// Tick returns the current update generation.
func (c *Context) Tick() uint64 { return c.tick }

// Bump advances the update generation.
func (c *Context) Bump() { c.tick++ }

// Set replaces the values stored under key.
func (c *Context) Set(key string, values ...string) {
	c.values[key] = append([]string(nil), values...)
}

// Lookup returns the values stored under key.
func (c *Context) Lookup(key string) ([]string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Value returns the first value stored under key, or "".
func (c *Context) Value(key string) string {
	if v, ok := c.values[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

// Keys returns the number of keys currently set.
func (c *Context) Keys() int { return len(c.values) }
