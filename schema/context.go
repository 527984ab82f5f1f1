package schema

import "fmt"

// Stats aggregates counters collected during one validation walk.
type Stats struct {
	// Definitions is the number of resolved $defs/definitions entries.
	Definitions int

	// AnyOfBlocks counts anyOf blocks seen anywhere in the tree.
	AnyOfBlocks int

	// AnyOfVariants is the cumulative variant count across all anyOf blocks.
	AnyOfVariants int

	// MaxDepth is the deepest nesting level reached.
	MaxDepth int

	// Properties is the total declared property count across all objects.
	Properties int

	// OptionalProperties counts properties absent from their object's
	// required list. Each one costs an implicit nullable variant on the
	// provider side.
	OptionalProperties int

	// EnumBlocks counts enum blocks seen anywhere in the tree.
	EnumBlocks int
}

// validationContext is the mutable accumulator threaded through the
// recursive walk. One is allocated per validation call and discarded when
// the Result is assembled; nothing outlives the call.
type validationContext struct {
	limits Limits

	errors   []string
	warnings []string
	info     []string
	stats    Stats

	depth    int
	seenRefs map[string]bool
	defs     map[string]*Node
}

func newValidationContext(limits Limits, root *Node) *validationContext {
	ctx := &validationContext{
		limits:   limits,
		seenRefs: make(map[string]bool),
		defs:     make(map[string]*Node),
	}
	if root != nil {
		// $defs wins over the legacy definitions key on a name collision.
		for name, def := range root.Definitions {
			ctx.defs[name] = def
		}
		for name, def := range root.Defs {
			ctx.defs[name] = def
		}
	}
	ctx.stats.Definitions = len(ctx.defs)
	return ctx
}

func (c *validationContext) errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *validationContext) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *validationContext) infof(format string, args ...any) {
	c.info = append(c.info, fmt.Sprintf(format, args...))
}
