// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"sort"
)

// TermDefinition describes a single term of an active context.
//
// ID holds the IRI mapping: an absolute IRI, a blank node identifier,
// or a keyword. A nil *TermDefinition stored in a context means the
// term is explicitly decoupled (defined as null).
type TermDefinition struct {
	// ID is the IRI mapping of the term.
	ID string
	// Prefix is true if the term may be used as a compact IRI prefix.
	Prefix bool
	// Reverse is true if the term represents a reverse property.
	Reverse bool
	// Type is the type mapping: @id, @vocab, @json, @none or an IRI.
	// Empty if unset.
	Type string
	// Language is the language mapping. Only meaningful if HasLanguage
	// is set; an empty Language with HasLanguage means "null", i.e. the
	// default language is explicitly cleared for this term.
	Language    string
	HasLanguage bool
	// Direction is the base direction mapping ("ltr" or "rtl"). Only
	// meaningful if HasDirection is set; empty means explicitly cleared.
	Direction    string
	HasDirection bool
	// Container is the container mapping, a set of container keywords.
	Container []string
	// Index is the index mapping, stored as the original string.
	Index string
	// Nest is the nest value: "@nest" or a non-keyword term.
	Nest string
	// Context is a scoped context captured verbatim, with HasContext
	// distinguishing a captured null context from no context.
	Context    interface{}
	HasContext bool
	// BaseURL is the URL against which Context resolves.
	BaseURL string
	// Protected marks the definition as non-redefinable.
	Protected bool

	// simpleTerm records that the definition came from a plain string
	// value; it feeds the prefix flag rule and is ignored by Equal.
	simpleTerm bool
}

// HasContainer reports whether the container mapping includes the
// given keyword.
func (td *TermDefinition) HasContainer(value string) bool {
	if td == nil {
		return false
	}
	for _, c := range td.Container {
		if c == value {
			return true
		}
	}
	return false
}

// Equal compares two term definitions, ignoring the protected flag and
// internal bookkeeping, as required by the protected redefinition check.
func (td *TermDefinition) Equal(other *TermDefinition) bool {
	if td == nil || other == nil {
		return td == other
	}
	if td.ID != other.ID ||
		td.Prefix != other.Prefix ||
		td.Reverse != other.Reverse ||
		td.Type != other.Type ||
		td.HasLanguage != other.HasLanguage ||
		td.Language != other.Language ||
		td.HasDirection != other.HasDirection ||
		td.Direction != other.Direction ||
		td.Index != other.Index ||
		td.Nest != other.Nest ||
		td.HasContext != other.HasContext ||
		td.BaseURL != other.BaseURL {
		return false
	}
	if !sameContainer(td.Container, other.Container) {
		return false
	}
	return DeepCompare(td.Context, other.Context, false)
}

func sameContainer(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func (td *TermDefinition) clone() *TermDefinition {
	if td == nil {
		return nil
	}
	dup := *td
	dup.Container = append([]string(nil), td.Container...)
	return &dup
}
