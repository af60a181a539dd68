package registration

import (
	"fmt"
	"reflect"

	"github.com/chaossafti/skript-parser/lang"
	"github.com/chaossafti/skript-parser/pattern"
	"github.com/chaossafti/skript-parser/types"
)

// SkriptRegistration is the registration façade an addon uses at startup.
// It compiles patterns against the type registry and inserts the resulting
// infos into the syntax registry. All methods return registration-time
// errors; nothing here produces user diagnostics.
type SkriptRegistration struct {
	addon       Addon
	manager     *SyntaxManager
	types       *types.Manager
	converters  *types.Converters
	comparators *types.Comparators
}

// NewRegistration creates a registration façade for one addon.
func NewRegistration(addon Addon, manager *SyntaxManager, tm *types.Manager, conv *types.Converters, comp *types.Comparators) *SkriptRegistration {
	return &SkriptRegistration{
		addon:       addon,
		manager:     manager,
		types:       tm,
		converters:  conv,
		comparators: comp,
	}
}

// Addon returns the addon this façade registers for.
func (r *SkriptRegistration) Addon() Addon { return r.addon }

// TypeBuilder configures a type before registration.
type TypeBuilder struct {
	r *SkriptRegistration
	t *types.Type

	literalParser types.LiteralParser
	toString      types.ToStringFunc
	arithmetic    *types.Arithmetic
}

// NewType starts registering a type under its singular and plural names.
func (r *SkriptRegistration) NewType(rt reflect.Type, name, plural string) *TypeBuilder {
	return &TypeBuilder{r: r, t: types.NewType(rt, name, plural)}
}

// LiteralParser attaches a literal parser to the type.
func (b *TypeBuilder) LiteralParser(p types.LiteralParser) *TypeBuilder {
	b.literalParser = p
	return b
}

// ToStringFunc attaches a renderer to the type.
func (b *TypeBuilder) ToStringFunc(f types.ToStringFunc) *TypeBuilder {
	b.toString = f
	return b
}

// Arithmetic attaches an arithmetic table to the type.
func (b *TypeBuilder) Arithmetic(a *types.Arithmetic) *TypeBuilder {
	b.arithmetic = a
	return b
}

// Register finishes the type registration.
func (b *TypeBuilder) Register() error {
	t := b.t
	t.Configure(b.literalParser, b.toString, b.arithmetic)
	return b.r.types.Register(t)
}

// AddType registers a bare type with no literal parser.
func (r *SkriptRegistration) AddType(rt reflect.Type, name, plural string) error {
	return r.NewType(rt, name, plural).Register()
}

// AddExpression registers an expression syntax. returnType must name an
// already-registered type.
func (r *SkriptRegistration) AddExpression(factory Factory, returnType reflect.Type, isSingle bool, priority int, patterns ...string) error {
	rt, ok := r.types.ByType(returnType)
	if !ok {
		return fmt.Errorf("expression return type %v is not a registered type", returnType)
	}
	compiled, elemType, err := r.compile(factory, patterns)
	if err != nil {
		return err
	}
	r.manager.AddExpression(NewExpressionInfo(r.addon, elemType, rt, isSingle, priority, compiled, factory))
	return nil
}

// AddEffect registers an effect syntax.
func (r *SkriptRegistration) AddEffect(factory Factory, priority int, patterns ...string) error {
	compiled, elemType, err := r.compile(factory, patterns)
	if err != nil {
		return err
	}
	r.manager.AddEffect(NewSyntaxInfo(r.addon, elemType, priority, compiled, factory))
	return nil
}

// AddSection registers a code section syntax.
func (r *SkriptRegistration) AddSection(factory Factory, priority int, patterns ...string) error {
	compiled, elemType, err := r.compile(factory, patterns)
	if err != nil {
		return err
	}
	r.manager.AddSection(NewSyntaxInfo(r.addon, elemType, priority, compiled, factory))
	return nil
}

// AddEvent registers an event syntax together with the trigger context
// types it handles.
func (r *SkriptRegistration) AddEvent(factory Factory, contexts []reflect.Type, priority int, patterns ...string) error {
	compiled, elemType, err := r.compile(factory, patterns)
	if err != nil {
		return err
	}
	r.manager.AddEvent(NewEventInfo(r.addon, elemType, contexts, priority, compiled, factory))
	return nil
}

// AddConverter registers a coercion between two types.
func (r *SkriptRegistration) AddConverter(from, to reflect.Type, fn types.ConverterFunc) {
	r.converters.Add(from, to, fn)
}

// AddComparator registers a comparison between two types.
func (r *SkriptRegistration) AddComparator(first, second reflect.Type, fn types.ComparatorFunc) {
	r.comparators.Add(first, second, fn)
}

func (r *SkriptRegistration) compile(factory Factory, patterns []string) ([]*pattern.Pattern, reflect.Type, error) {
	if factory == nil {
		return nil, nil, fmt.Errorf("syntax registration requires a factory")
	}
	if len(patterns) == 0 {
		return nil, nil, fmt.Errorf("syntax registration requires at least one pattern")
	}
	var elem lang.SyntaxElement = factory()
	elemType := reflect.TypeOf(elem)
	compiled := make([]*pattern.Pattern, 0, len(patterns))
	for _, p := range patterns {
		c, err := pattern.Compile(p, r.types)
		if err != nil {
			return nil, nil, fmt.Errorf("registering %v: %w", elemType, err)
		}
		compiled = append(compiled, c)
	}
	return compiled, elemType, nil
}
