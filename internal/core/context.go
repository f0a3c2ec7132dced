package core

// Context bundles the principal, the target resource and the ambient request
// attributes for a single permission check. It is constructed once per check,
// read by predicates during evaluation, and discarded afterwards. The
// attribute map is copied on construction so the snapshot cannot change
// mid-evaluation.
type Context struct {
	principal Principal
	resource  Resource
	attrs     map[string]any
}

// NewContext builds an evaluation snapshot from the caller-supplied inputs.
func NewContext(principal Principal, resource Resource, attrs map[string]any) *Context {
	copied := make(map[string]any, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &Context{
		principal: principal,
		resource:  resource,
		attrs:     copied,
	}
}

// Principal returns the principal this check is evaluated for.
func (c *Context) Principal() *Principal {
	return &c.principal
}

// Resource returns the resource reference being checked.
func (c *Context) Resource() Resource {
	return c.resource
}

// Attr looks up an ambient attribute by key.
func (c *Context) Attr(key string) (any, bool) {
	v, ok := c.attrs[key]
	return v, ok
}

// Attrs returns the attribute snapshot. Callers must treat the returned map
// as read-only.
func (c *Context) Attrs() map[string]any {
	return c.attrs
}
