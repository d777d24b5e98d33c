// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package oi

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/inkdex/inkdex/internal/display"
)

// # Field Classification
//
// Every revision kind declares a static transfer table: one entry per
// display field, naming how (or whether) the field moves between revision
// and display row. The tables replace runtime schema introspection, so a
// field that is neither transferable nor explicitly acknowledged is a
// startup error, never a silent no-op.

// FieldKind is the transfer strategy of one classified field.
type FieldKind int

const (
	// SingleValue fields copy by plain assignment.
	SingleValue FieldKind = iota

	// MultiValue fields copy by wholesale replacement of an id collection.
	MultiValue

	// KeywordsValue fields copy through the keyword join/split routine:
	// one delimited string on the revision, a tag list on display.
	KeywordsValue
)

// assignFunc moves one field between a revision and its display row. The
// direction is fixed per use site (assign: revision to display, resync:
// display to revision).
type assignFunc func(rev EntityRevision, obj display.Entity)

// guardFunc resolves whether a conditional field is active for the row the
// revision targets, e.g. by reading a flag on the pending series.
type guardFunc func(ctx context.Context, engine *Engine, rev EntityRevision) (bool, error)

// fieldSpec is one row of a revision kind's transfer table.
type fieldSpec struct {
	name string
	kind FieldKind

	assign assignFunc
	resync assignFunc

	// flag and enabled gate the transfer; empty flag means unconditional.
	// When disabled the field is resynced display-to-revision instead, so
	// an inactive field can never drift through an edit.
	flag    string
	enabled guardFunc
}

// single builds a plain-assignment table row.
func single[R EntityRevision, D display.Entity](name string, assign, resync func(R, D)) fieldSpec {
	return fieldSpec{
		name:   name,
		kind:   SingleValue,
		assign: wrapAssign(assign),
		resync: wrapAssign(resync),
	}
}

// multi builds a collection-replacement table row.
func multi[R EntityRevision, D display.Entity](name string, assign, resync func(R, D)) fieldSpec {
	return fieldSpec{
		name:   name,
		kind:   MultiValue,
		assign: wrapAssign(assign),
		resync: wrapAssign(resync),
	}
}

// keywords builds the keyword join/split table row.
func keywords[R EntityRevision, D display.Entity](joined func(R) *string, tags func(D) *[]string) fieldSpec {
	return fieldSpec{
		name: "keywords",
		kind: KeywordsValue,
		assign: func(rev EntityRevision, obj display.Entity) {
			j, t := joined(rev.(R)), tags(obj.(D))
			*t = SplitKeywords(*j)
			*j = JoinKeywords(*t)
		},
		resync: func(rev EntityRevision, obj display.Entity) {
			*joined(rev.(R)) = JoinKeywords(*tags(obj.(D)))
		},
	}
}

// when gates a table row on a named flag.
func when(f fieldSpec, flag string, enabled guardFunc) fieldSpec {
	f.flag = flag
	f.enabled = enabled
	return f
}

func wrapAssign[R EntityRevision, D display.Entity](fn func(R, D)) assignFunc {
	return func(rev EntityRevision, obj display.Entity) { fn(rev.(R), obj.(D)) }
}

// # Kind Registry

// revisionKind is the static description of one revision/display pairing.
type revisionKind struct {
	kind display.Kind

	// fields are the regular (transferable) fields.
	fields []fieldSpec

	// irregular names the display fields handled by bespoke hook code.
	irregular []string

	// excluded names the display fields intentionally never transferred,
	// beyond the base exclusion set.
	excluded []string

	// displayFields is the complete list of persisted display fields,
	// used to audit the classification at startup.
	displayFields []string
}

// baseExcluded applies to every kind: identity and edit-lock bookkeeping.
var baseExcluded = []string{"id", "reserved"}

var registry = map[display.Kind]*revisionKind{}

func register(rk *revisionKind) *revisionKind {
	registry[rk.kind] = rk
	return rk
}

func kindTable(kind display.Kind) *revisionKind {
	rk, ok := registry[kind]
	if !ok {
		panic(fmt.Sprintf("oi: unregistered revision kind %q", kind))
	}
	return rk
}

// # Public Classification View

// Classification is the audited field partition of one revision kind.
type Classification struct {
	Kind display.Kind

	// Regular maps transferable field names to their strategy.
	Regular map[string]FieldKind

	Irregular []string
	Excluded  []string
}

// SingleValueFields returns the sorted names of plain-assignment fields,
// including the keywords join.
func (c Classification) SingleValueFields() []string {
	return c.fieldsOf(SingleValue, KeywordsValue)
}

// MultiValueFields returns the sorted names of collection fields.
func (c Classification) MultiValueFields() []string {
	return c.fieldsOf(MultiValue)
}

func (c Classification) fieldsOf(kinds ...FieldKind) []string {
	var names []string
	for name, k := range c.Regular {
		for _, want := range kinds {
			if k == want {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// ClassificationFor returns the field partition of a revision kind.
func ClassificationFor(kind display.Kind) (Classification, bool) {
	rk, ok := registry[kind]
	if !ok {
		return Classification{}, false
	}
	c := Classification{
		Kind:      kind,
		Regular:   make(map[string]FieldKind, len(rk.fields)),
		Irregular: append([]string(nil), rk.irregular...),
		Excluded:  append(append([]string(nil), baseExcluded...), rk.excluded...),
	}
	for _, f := range rk.fields {
		c.Regular[f.name] = f.kind
	}
	sort.Strings(c.Irregular)
	sort.Strings(c.Excluded)
	return c, true
}

/*
VerifyClassifications audits every registered revision kind against its
declared display field list.

Each display field must be classified exactly once: as a regular transfer,
an acknowledged irregular field, or an exclusion. Fields left out and
fields classified twice are both reported. Intended to run at startup so a
newly added display field cannot silently stop transferring.

Returns:
  - error: A single error naming every violation, or nil.
*/
func VerifyClassifications() error {
	var problems []string

	kinds := make([]display.Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		rk := registry[kind]
		seen := map[string]string{}
		note := func(name, bucket string) {
			if prev, dup := seen[name]; dup {
				problems = append(problems, fmt.Sprintf(
					"%s: field %q classified as both %s and %s", kind, name, prev, bucket))
				return
			}
			seen[name] = bucket
		}
		for _, f := range rk.fields {
			note(f.name, "regular")
		}
		for _, name := range rk.irregular {
			note(name, "irregular")
		}
		for _, name := range append(append([]string(nil), baseExcluded...), rk.excluded...) {
			note(name, "excluded")
		}
		declared := map[string]bool{}
		for _, name := range rk.displayFields {
			declared[name] = true
			if _, ok := seen[name]; !ok {
				problems = append(problems, fmt.Sprintf(
					"%s: field %q is unclassified", kind, name))
			}
		}
		for name, bucket := range seen {
			if !declared[name] && bucket != "excluded" {
				problems = append(problems, fmt.Sprintf(
					"%s: classified field %q does not exist on the display entity", kind, name))
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return Faultf("field classification audit failed:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}
