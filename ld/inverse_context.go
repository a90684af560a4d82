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
	"strings"
)

// TypeLanguageMap holds the three selector dimensions of one inverse
// context slot: terms keyed by type, by language(+direction), and the
// catch-all @any entry.
type TypeLanguageMap struct {
	Language map[string]string
	Type     map[string]string
	Any      map[string]string
}

// InverseContext is a derived index over an active context: IRI →
// joined container keywords → selector dimension → selector value →
// term. It is a pure function of the forward term definitions and is
// regenerated whenever the context has been mutated.
type InverseContext map[string]map[string]*TypeLanguageMap

func setIfAbsent(m map[string]string, key, term string) {
	if _, has := m[key]; !has {
		m[key] = term
	}
}

// GetInverse generates an inverse context for use in the compaction
// algorithm, if not already generated for the given active context.
// See https://www.w3.org/TR/json-ld11-api/#inverse-context-creation
// for further details.
func (c *Context) GetInverse() InverseContext {

	// lazily create inverse
	if c.inverse != nil {
		return c.inverse
	}

	c.inverse = make(InverseContext)

	defaultLanguage := "@none"
	if c.hasLanguage {
		defaultLanguage = c.language
	}

	// create term selections for each mapping in the context, ordered
	// by shortest and then lexicographically least
	terms := make([]string, 0, len(c.termDefinitions))
	for term := range c.termDefinitions {
		terms = append(terms, term)
	}
	sort.Sort(ShortestLeast(terms))

	for _, term := range terms {
		definition := c.termDefinitions[term]
		if definition == nil {
			continue
		}

		containerJoin := "@none"
		if len(definition.Container) > 0 {
			sorted := append([]string(nil), definition.Container...)
			sort.Strings(sorted)
			containerJoin = strings.Join(sorted, "")
		}

		iri := definition.ID

		containerMap, present := c.inverse[iri]
		if !present {
			containerMap = make(map[string]*TypeLanguageMap)
			c.inverse[iri] = containerMap
		}

		tlm, present := containerMap[containerJoin]
		if !present {
			tlm = &TypeLanguageMap{
				Language: make(map[string]string),
				Type:     make(map[string]string),
				Any:      map[string]string{"@none": term},
			}
			containerMap[containerJoin] = tlm
		}

		switch {
		case definition.Reverse:
			setIfAbsent(tlm.Type, "@reverse", term)
		case definition.Type == "@none":
			setIfAbsent(tlm.Type, "@any", term)
			setIfAbsent(tlm.Language, "@any", term)
			setIfAbsent(tlm.Any, "@any", term)
		case definition.Type != "":
			setIfAbsent(tlm.Type, definition.Type, term)
		case definition.HasLanguage && definition.HasDirection:
			langDir := "@null"
			if definition.Language != "" && definition.Direction != "" {
				langDir = definition.Language + "_" + definition.Direction
			} else if definition.Language != "" {
				langDir = definition.Language
			} else if definition.Direction != "" {
				langDir = "_" + definition.Direction
			}
			setIfAbsent(tlm.Language, langDir, term)
		case definition.HasLanguage:
			language := "@null"
			if definition.Language != "" {
				language = definition.Language
			}
			setIfAbsent(tlm.Language, language, term)
		case definition.HasDirection:
			dir := "@none"
			if definition.Direction != "" {
				dir = "_" + definition.Direction
			}
			setIfAbsent(tlm.Language, dir, term)
		case c.direction != "":
			langDir := "_" + c.direction
			if c.hasLanguage {
				langDir = c.language + "_" + c.direction
			}
			setIfAbsent(tlm.Language, langDir, term)
			setIfAbsent(tlm.Language, "@none", term)
			setIfAbsent(tlm.Type, "@none", term)
		default:
			setIfAbsent(tlm.Language, defaultLanguage, term)
			setIfAbsent(tlm.Language, "@none", term)
			setIfAbsent(tlm.Type, "@none", term)
		}
	}

	return c.inverse
}

// SelectTerm picks the preferred compaction term from the inverse
// context entry.
// See https://www.w3.org/TR/json-ld11-api/#term-selection
//
// This algorithm, invoked via the IRI Compaction algorithm, makes use
// of an active context's inverse context to find the term that is best
// used to compact an IRI. Other information about a value associated
// with the IRI is given, including which container mappings and which
// type mapping or language mapping would be best used to express the
// value.
func (c *Context) SelectTerm(iri string, containers []string, typeLanguage string, preferredValues []string) string {
	containerMap, hasIRI := c.GetInverse()[iri]
	if !hasIRI {
		return ""
	}

	for _, container := range containers {
		tlm, hasContainer := containerMap[container]
		if !hasContainer {
			continue
		}

		var valueMap map[string]string
		switch typeLanguage {
		case "@language":
			valueMap = tlm.Language
		case "@type":
			valueMap = tlm.Type
		default:
			valueMap = tlm.Any
		}

		for _, item := range preferredValues {
			if term, containsItem := valueMap[item]; containsItem {
				return term
			}
		}
	}
	return ""
}
