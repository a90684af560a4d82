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
	"fmt"
	"strings"
)

// CompactIri compacts an IRI or keyword into a term or compact IRI if
// it can be. If the IRI has an associated value it may be passed.
//
// iri: the IRI to compact.
// value: the value to check or nil.
// relativeToVocab: true to compact using @vocab if available, false not to.
// reverse: true if a reverse property is being compacted, false if not.
//
// Returns the compacted term, prefix, keyword alias, or original IRI.
func (c *Context) CompactIri(iri string, value interface{}, relativeToVocab bool, reverse bool) (string, error) {
	if iri == "" {
		return "", nil
	}

	inverseCtx := c.GetInverse()

	// term is a keyword, force relativeToVocab to true
	if IsKeyword(iri) {
		// look for an alias
		if containerMap, found := inverseCtx[iri]; found {
			if tlm, found := containerMap["@none"]; found {
				if alias, found := tlm.Type["@none"]; found {
					return alias, nil
				}
			}
		}
		relativeToVocab = true
	}

	if relativeToVocab {
		if _, containsIRI := inverseCtx[iri]; containsIRI {
			term := c.selectCompactionTerm(iri, value, reverse)
			if term != "" {
				return term, nil
			}
		}

		// use the vocabulary suffix as a relative IRI if it is not a
		// term in the active context
		if c.hasVocab && strings.HasPrefix(iri, c.vocab) && iri != c.vocab {
			suffix := iri[len(c.vocab):]
			if _, hasSuffix := c.termDefinitions[suffix]; !hasSuffix {
				return suffix, nil
			}
		}
	}

	// build the shortest compact IRI from prefix-capable terms
	compactIRI := ""
	for _, term := range c.termOrder {
		termDefinition, present := c.termDefinitions[term]
		if !present || termDefinition == nil || !termDefinition.Prefix {
			continue
		}
		if strings.Contains(term, ":") {
			continue
		}

		idStr := termDefinition.ID
		if idStr == "" || iri == idStr || !strings.HasPrefix(iri, idStr) {
			continue
		}

		candidate := term + ":" + iri[len(idStr):]
		// the candidate may only be used if it is not itself a defined
		// term, or if its definition matches the IRI and no value is
		// being compacted
		candidateDef, containsCandidate := c.termDefinitions[candidate]
		usable := !containsCandidate || (candidateDef != nil && candidateDef.ID == iri && value == nil)
		if usable && (compactIRI == "" || CompareShortestLeast(candidate, compactIRI)) {
			compactIRI = candidate
		}
	}

	if compactIRI != "" {
		return compactIRI, nil
	}

	// an IRI whose scheme matches a prefix-capable term would expand
	// into a different IRI, so it cannot be emitted as is
	for _, term := range c.termOrder {
		td, present := c.termDefinitions[term]
		if present && td != nil && td.Prefix && strings.HasPrefix(iri, term+":") {
			return "", NewJsonLdError(IRIConfusedWithPrefix,
				fmt.Sprintf("absolute IRI %s confused with prefix %s", iri, term))
		}
	}

	if !relativeToVocab && c.base != "" {
		return RemoveBase(c.base, iri), nil
	}

	return iri, nil
}

// selectCompactionTerm builds the container preferences and the
// type/language selection for the given value and queries the inverse
// context. An empty result means no term matched.
func (c *Context) selectCompactionTerm(iri string, value interface{}, reverse bool) string {
	defaultLanguage := "@none"
	if c.direction != "" {
		if c.hasLanguage {
			defaultLanguage = c.language + "_" + c.direction
		} else {
			defaultLanguage = "_" + c.direction
		}
	} else if c.hasLanguage {
		defaultLanguage = c.language
	}

	// prefer @index if available in value
	containers := make([]string, 0)

	valueMap, isObject := value.(map[string]interface{})
	if isObject {
		_, hasIndex := valueMap["@index"]
		_, hasGraph := valueMap["@graph"]
		if hasIndex && !hasGraph {
			containers = append(containers, "@index", "@index@set")
		}
	}

	// prefer most specific container including @graph
	if IsGraph(value) {
		_, hasIndex := valueMap["@index"]
		hasID := !IsSimpleGraph(value)

		if hasIndex {
			containers = append(containers, "@graph@index", "@graph@index@set", "@index", "@index@set")
		}
		if hasID {
			containers = append(containers, "@graph@id", "@graph@id@set")
		}
		containers = append(containers, "@graph", "@graph@set", "@set")
		if !hasIndex {
			containers = append(containers, "@graph@index", "@graph@index@set", "@index", "@index@set")
		}
		if !hasID {
			containers = append(containers, "@graph@id", "@graph@id@set")
		}
	} else if isObject && !IsValue(value) {
		containers = append(containers, "@id", "@id@set", "@type", "@set@type")
	}

	// defaults for term selection based on type/language
	typeLanguage := "@language"
	typeLanguageValue := "@null"

	if reverse {
		typeLanguage = "@type"
		typeLanguageValue = "@reverse"
		containers = append(containers, "@set")
	} else if IsList(value) {
		if _, containsIndex := valueMap["@index"]; !containsIndex {
			containers = append(containers, "@list")
		}

		list, _ := valueMap["@list"].([]interface{})

		// fold the list to its common type and common language/direction
		var commonType string
		var commonLanguage string
		if len(list) == 0 {
			commonLanguage = defaultLanguage
			commonType = "@id"
		}

		for _, item := range list {
			itemLanguage := "@none"
			itemType := "@none"
			if IsValue(item) {
				itemMap := item.(map[string]interface{})
				dirVal, hasDir := itemMap["@direction"]
				langVal, hasLang := itemMap["@language"]
				if hasDir {
					if hasLang {
						itemLanguage = fmt.Sprintf("%s_%s", langVal, dirVal)
					} else {
						itemLanguage = fmt.Sprintf("_%s", dirVal)
					}
				} else if hasLang {
					itemLanguage = langVal.(string)
				} else if typeVal, hasType := itemMap["@type"]; hasType {
					itemType = typeVal.(string)
				} else {
					itemLanguage = "@null"
				}
			} else {
				itemType = "@id"
			}

			if commonLanguage == "" {
				commonLanguage = itemLanguage
			} else if commonLanguage != itemLanguage && IsValue(item) {
				commonLanguage = "@none"
			}

			if commonType == "" {
				commonType = itemType
			} else if commonType != itemType {
				commonType = "@none"
			}

			if commonLanguage == "@none" && commonType == "@none" {
				break
			}
		}

		if commonLanguage == "" {
			commonLanguage = "@none"
		}
		if commonType == "" {
			commonType = "@none"
		}

		// a common type wins over a common language
		if commonType != "@none" {
			typeLanguage = "@type"
			typeLanguageValue = commonType
		} else {
			typeLanguageValue = commonLanguage
		}
	} else {
		if IsValue(value) {
			langVal, hasLang := valueMap["@language"]
			_, hasIndex := valueMap["@index"]
			if hasLang && !hasIndex {
				containers = append(containers, "@language", "@language@set")
				if dir, hasDir := valueMap["@direction"]; hasDir {
					typeLanguageValue = fmt.Sprintf("%s_%s", langVal, dir)
				} else {
					typeLanguageValue = langVal.(string)
				}
			} else if dir, hasDir := valueMap["@direction"]; hasDir && !hasIndex {
				typeLanguageValue = fmt.Sprintf("_%s", dir)
			} else if typeVal, hasType := valueMap["@type"]; hasType {
				typeLanguage = "@type"
				typeLanguageValue = typeVal.(string)
			}
		} else {
			typeLanguage = "@type"
			typeLanguageValue = "@id"
		}
		containers = append(containers, "@set")
	}

	containers = append(containers, "@none")

	if c.processingMode(1.1) {
		// an index map can be used to index values using @none, so add
		// as a low priority
		if _, hasIndex := valueMap["@index"]; !hasIndex {
			containers = append(containers, "@index", "@index@set")
		}

		// values without type or language can use a @language map
		if IsValue(value) && len(valueMap) == 1 {
			containers = append(containers, "@language", "@language@set")
		}
	}

	if typeLanguageValue == "" {
		typeLanguageValue = "@null"
	}

	preferredValues := make([]string, 0)

	idVal, hasID := valueMap["@id"]
	if (typeLanguageValue == "@reverse" || typeLanguageValue == "@id") && isObject && hasID {
		if typeLanguageValue == "@reverse" {
			preferredValues = append(preferredValues, "@reverse")
		}

		// probe whether the @id compacts to a term that round-trips to
		// the same IRI; if so @vocab is preferred over @id
		idStr, _ := idVal.(string)
		result, err := c.CompactIri(idStr, nil, true, false)
		roundtrips := false
		if err == nil {
			if td := c.termDefinitions[result]; td != nil && td.ID == idStr {
				roundtrips = true
			}
		}
		if roundtrips {
			preferredValues = append(preferredValues, "@vocab", "@id", "@none")
		} else {
			preferredValues = append(preferredValues, "@id", "@vocab", "@none")
		}
	} else {
		// an empty list matches any term, regardless of type or
		// language selection
		if valueList, containsList := valueMap["@list"]; containsList {
			if lst, isList := valueList.([]interface{}); valueList == nil || (isList && len(lst) == 0) {
				typeLanguage = "@any"
			}
		}
		preferredValues = append(preferredValues, typeLanguageValue, "@none")
	}

	preferredValues = append(preferredValues, "@any")

	// if preferred values include something of the form
	// language-tag_direction, add just the _direction part, to select
	// terms that have that direction
	for _, pv := range preferredValues {
		if idx := strings.LastIndex(pv, "_"); idx > 0 {
			preferredValues = append(preferredValues, pv[idx:])
		}
	}

	return c.SelectTerm(iri, containers, typeLanguage, preferredValues)
}

// CompactValue performs value compaction on an object with @value or
// @id as the only property.
// See https://www.w3.org/TR/json-ld11-api/#value-compaction
func (c *Context) CompactValue(activeProperty string, value map[string]interface{}) (interface{}, error) {

	var result interface{} = value

	language := c.GetLanguageMapping(activeProperty)
	direction := c.GetDirectionMapping(activeProperty)

	isIndexContainer := c.HasContainerMapping(activeProperty, "@index")
	// whether or not the value has an @index that must be preserved
	_, hasIndex := value["@index"]
	idVal, hasID := value["@id"]
	typeVal, hasType := value["@type"]

	idOrIndex := true
	for k := range value {
		if k != "@id" && k != "@index" {
			idOrIndex = false
			break
		}
	}

	var propType interface{}
	if td := c.GetTermDefinition(activeProperty); td != nil && td.Type != "" {
		propType = td.Type
	}

	languageVal := value["@language"]
	directionVal := value["@direction"]
	var err error

	if hasID && idOrIndex {
		if propType == "@id" {
			result, err = c.CompactIri(idVal.(string), nil, false, false)
			if err != nil {
				return nil, err
			}
		} else if propType == "@vocab" {
			result, err = c.CompactIri(idVal.(string), nil, true, false)
			if err != nil {
				return nil, err
			}
		} else {
			compactedID, err := c.CompactIri("@id", nil, true, false)
			if err != nil {
				return nil, err
			}
			compactedValue, err := c.CompactIri(idVal.(string), nil, false, false)
			if err != nil {
				return nil, err
			}
			result = map[string]interface{}{
				compactedID: compactedValue,
			}
		}
	} else if hasType && typeVal == propType {
		// compact common datatype
		result = value["@value"]
	} else if propType == "@none" || (hasType && typeVal != propType) {
		// use original expanded value
		result = value
	} else if _, isString := value["@value"].(string); !isString && ((hasIndex && isIndexContainer) || !hasIndex) {
		result = value["@value"]
	} else if languageVal == language && directionVal == direction {
		// compact language and direction
		if (hasIndex && isIndexContainer) || !hasIndex {
			return value["@value"], nil
		}
	}

	resultMap, isMap := result.(map[string]interface{})
	if isMap && resultMap["@type"] != nil && value["@type"] != "@json" {

		// create a copy of result (because it can be the same map as
		// 'value') with the values of @type compacted
		newMap := make(map[string]interface{}, len(resultMap))
		for k, v := range resultMap {
			newMap[k] = v
		}

		if tt, isArray := newMap["@type"].([]interface{}); isArray {
			newTT := make([]interface{}, len(tt))
			for i, t := range tt {
				newTT[i], err = c.CompactIri(t.(string), nil, true, false)
				if err != nil {
					return nil, err
				}
			}
			newMap["@type"] = newTT
		} else {
			newMap["@type"], err = c.CompactIri(newMap["@type"].(string), nil, true, false)
			if err != nil {
				return nil, err
			}
		}

		result = newMap
	}

	resultMap, isMap = result.(map[string]interface{})
	if isMap {
		newMap := make(map[string]interface{}, len(resultMap))
		for k, v := range resultMap {
			if k == "@index" && !(hasIndex && !isIndexContainer) {
				// don't preserve @index
				continue
			}
			keyAlias, err := c.CompactIri(k, nil, true, false)
			if err != nil {
				return nil, err
			}
			newMap[keyAlias] = v
		}

		result = newMap
	}

	return result, nil
}
