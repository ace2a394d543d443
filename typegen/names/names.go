// Package names computes the emission name table for a program: a total,
// collision-free mapping from each declaration's qualified name to the
// identifier an emitter writes for it.
//
// The table is built once per target language, before emission, and is
// immutable afterwards. Emitters only read from it.
package names

import (
	"sort"
	"strings"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/typegen/util"
)

// DefaultUnmangled lists framework marker names that always pass through verbatim.
var DefaultUnmangled = []string{
	"IRemoteQuery",
	"IRemoteCommand",
	"IRemoteOperation",
	"ICommand",
	"IQuery",
	"IOperation",
}

// Policy holds the per-language naming choices.
type Policy struct {
	// NestedSeparator joins an enclosing name and a nested short name
	NestedSeparator string
	// Unmangled names are never mangled, even when they collide
	Unmangled []string
	// Reserved words of the target language
	Reserved []string
	// EscapeSuffix is appended to identifiers that hit a reserved word
	EscapeSuffix string
}

// Entry is the resolved name of one declaration.
type Entry struct {
	// Name is the emitted identifier
	Name string
	// Qualified is Namespace.Path, the declaration's identity
	Qualified string
	Namespace string
	// Path is the dotted nesting path ("Parent.Child")
	Path string
	Decl contract.Declaration
	// Parent is the enclosing declaration's entry, nil at top level
	Parent *Entry
}

// WireKey is the route identifier the server uses for this declaration. It is
// derived from the namespace path and the short names, never from Name.
func (e *Entry) WireKey() string {
	return e.Qualified
}

// Table is the immutable result of Resolve.
type Table struct {
	policy    Policy
	byKey     map[string]*Entry
	sorted    []*Entry
	unmangled map[string]bool
	reserved  map[string]bool
}

// Resolve builds the name table for every non-excluded declaration in p.
func Resolve(p *contract.Program, policy Policy) (*Table, error) {
	if policy.NestedSeparator == "" {
		policy.NestedSeparator = "_"
	}
	if policy.EscapeSuffix == "" {
		policy.EscapeSuffix = "_"
	}

	t := &Table{
		policy:    policy,
		byKey:     make(map[string]*Entry),
		unmangled: toSet(policy.Unmangled),
		reserved:  toSet(policy.Reserved),
	}

	var top, nested []contract.Visit
	err := contract.Walk(p, func(v contract.Visit) error {
		if excluded(v) {
			return nil
		}
		if v.Parent() == nil {
			top = append(top, v)
		} else {
			nested = append(nested, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	assigned, err := t.resolveTopLevel(top)
	if err != nil {
		return nil, err
	}
	for _, v := range top {
		q := v.Qualified()
		t.add(&Entry{
			Name:      assigned[q],
			Qualified: q,
			Namespace: v.Namespace(),
			Path:      v.Path(),
			Decl:      v.Decl,
		})
	}

	// Walk order puts parents first, so the enclosing entry always exists.
	for _, v := range nested {
		parentKey := contract.Qualify(v.Namespace(), parentPath(v))
		parent, ok := t.byKey[parentKey]
		if !ok {
			return nil, errors.AssertionFailedf("nested declaration %s resolved before its parent", v.Qualified())
		}
		t.add(&Entry{
			Name:      parent.Name + policy.NestedSeparator + v.Decl.DeclName(),
			Qualified: v.Qualified(),
			Namespace: v.Namespace(),
			Path:      v.Path(),
			Decl:      v.Decl,
			Parent:    parent,
		})
	}

	if err := t.checkUnique(); err != nil {
		return nil, err
	}

	sort.Slice(t.sorted, func(i, j int) bool {
		return t.sorted[i].Name < t.sorted[j].Name
	})
	return t, nil
}

func (t *Table) add(e *Entry) {
	t.byKey[e.Qualified] = e
	t.sorted = append(t.sorted, e)
}

// resolveTopLevel returns qualified name -> emitted name for top-level declarations.
func (t *Table) resolveTopLevel(top []contract.Visit) (map[string]string, error) {
	groups := make(map[string][]contract.Visit)
	for _, v := range top {
		groups[v.Decl.DeclName()] = append(groups[v.Decl.DeclName()], v)
	}

	assigned := make(map[string]string, len(top))
	taken := make(map[string]string)
	var collisions []string

	for _, short := range util.SortedKeys(groups) {
		group := groups[short]
		switch {
		case t.unmangled[short]:
			if len(group) > 1 {
				err := errors.Mark(errors.Newf("unmangled name %s is declared in %d namespaces: %s",
					short, len(group), qualifiedList(group)), errors.ErrNameCollision)
				return nil, errors.WithHint(err, "declare framework marker names only once, or drop them from the unmangled list")
			}
			assigned[group[0].Qualified()] = short
			taken[short] = group[0].Qualified()
		case len(group) == 1:
			name := t.Identifier(short)
			assigned[group[0].Qualified()] = name
			taken[name] = group[0].Qualified()
		default:
			collisions = append(collisions, short)
		}
	}

	log := logger.ComponentLogger("typegen.names")
	for _, short := range collisions {
		mangled, err := t.mangle(short, groups[short], taken)
		if err != nil {
			return nil, err
		}
		for _, q := range util.SortedKeys(mangled) {
			name := mangled[q]
			assigned[q] = name
			taken[name] = q
			log.Debugw("mangled colliding declaration",
				logger.FieldDeclaration, q,
				logger.FieldEmittedName, name)
		}
	}
	return assigned, nil
}

// mangle finds the smallest disambiguation depth at which every member of a
// collision group gets a distinct name that is not already taken.
func (t *Table) mangle(short string, group []contract.Visit, taken map[string]string) (map[string]string, error) {
	maxDepth := 0
	segments := make([][]string, len(group))
	for i, v := range group {
		if ns := v.Namespace(); ns != "" {
			segments[i] = strings.Split(ns, ".")
		}
		if len(segments[i]) > maxDepth {
			maxDepth = len(segments[i])
		}
	}

	// clash remembers the last depth at which the group was distinct but one
	// of its names was already taken by another declaration
	var clash struct{ name, member, owner string }
	for depth := 1; depth <= maxDepth; depth++ {
		candidate := make(map[string]string, len(group))
		seen := make(map[string]bool, len(group))
		distinct := true
		for i, v := range group {
			name := t.Identifier(mangledName(segments[i], short, depth))
			if seen[name] {
				distinct = false
				break
			}
			seen[name] = true
			candidate[v.Qualified()] = name
		}
		if !distinct {
			continue
		}
		ok := true
		for _, q := range util.SortedKeys(candidate) {
			if owner, found := taken[candidate[q]]; found {
				clash.name, clash.member, clash.owner = candidate[q], q, owner
				ok = false
				break
			}
		}
		if ok {
			return candidate, nil
		}
	}

	if clash.name != "" {
		err := errors.Mark(errors.Newf("%s mangles to %s which is already the name of %s",
			clash.member, clash.name, clash.owner), errors.ErrNameCollision)
		return nil, errors.WithHintf(err, "rename %s or %s, or exclude one of them", clash.owner, clash.member)
	}
	err := errors.Mark(errors.Newf("cannot disambiguate %d declarations named %s: %s",
		len(group), short, qualifiedList(group)), errors.ErrManglingExhausted)
	return nil, errors.WithHint(err, "two declarations share the same fully-qualified name; rename or exclude one of them")
}

// mangledName prefixes short with the last depth namespace segments, most
// specific first: (Aa.Bb.Cc, Class, 2) -> CcBbClass.
func mangledName(segments []string, short string, depth int) string {
	var sb strings.Builder
	for i := len(segments) - 1; i >= 0 && i >= len(segments)-depth; i-- {
		sb.WriteString(segments[i])
	}
	sb.WriteString(short)
	return sb.String()
}

func (t *Table) checkUnique() error {
	owners := make(map[string]string, len(t.sorted))
	for _, e := range t.sorted {
		if other, dup := owners[e.Name]; dup {
			err := errors.Mark(errors.Newf("%s and %s both emit as %s", other, e.Qualified, e.Name), errors.ErrNameCollision)
			return errors.WithHintf(err, "a nested declaration flattens to %s; rename one of them", e.Name)
		}
		owners[e.Name] = e.Qualified
	}
	return nil
}

// Lookup returns the entry for a qualified name.
func (t *Table) Lookup(qualified string) (*Entry, bool) {
	e, ok := t.byKey[qualified]
	return e, ok
}

// Entries returns every entry ordered by emitted name.
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, len(t.sorted))
	copy(out, t.sorted)
	return out
}

// Len is the number of resolved declarations.
func (t *Table) Len() int {
	return len(t.sorted)
}

// IsUnmangled reports whether name is on the policy's allow-list.
func (t *Table) IsUnmangled(name string) bool {
	return t.unmangled[name]
}

// Identifier escapes name if it is a reserved word.
func (t *Table) Identifier(name string) string {
	if t.reserved[name] {
		return name + t.policy.EscapeSuffix
	}
	return name
}

// Member converts a wire name (field, enum member, constant) to the emitted
// lower-camel member identifier. The wire name itself stays the JSON key.
func (t *Table) Member(wire string) string {
	id := util.ToIdentifier(wire)
	if id == "" {
		return ""
	}
	return t.Identifier(id)
}

// Members converts the wire names of one owner's members and fails if two of
// them end up as the same identifier.
func (t *Table) Members(owner string, wire []string) ([]string, error) {
	out := make([]string, len(wire))
	seen := make(map[string]string, len(wire))
	for i, w := range wire {
		id := t.Member(w)
		if id == "" {
			return nil, errors.MarkMalformed("%s: member %q has no identifier characters", owner, w)
		}
		if prev, dup := seen[id]; dup {
			return nil, errors.Mark(errors.Newf("%s: members %s and %s both emit as %s", owner, prev, w, id), errors.ErrNameCollision)
		}
		seen[id] = w
		out[i] = id
	}
	return out, nil
}

func excluded(v contract.Visit) bool {
	if v.Decl.IsExcluded() {
		return true
	}
	for _, p := range v.Parents {
		if p.Excluded {
			return true
		}
	}
	return false
}

func parentPath(v contract.Visit) string {
	parts := make([]string, len(v.Parents))
	for i, p := range v.Parents {
		parts[i] = p.Name
	}
	return strings.Join(parts, ".")
}

func qualifiedList(group []contract.Visit) string {
	qs := make([]string, len(group))
	for i, v := range group {
		qs[i] = v.Qualified()
	}
	sort.Strings(qs)
	return strings.Join(qs, ", ")
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}
