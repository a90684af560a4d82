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
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	invalidPrefixPattern = regexp.MustCompile("[:/]")
	iriLikeTermPattern   = regexp.MustCompile(`(?::[^:])|/`)

	nonTermDefKeys = map[string]bool{
		"@base":      true,
		"@direction": true,
		"@import":    true,
		"@language":  true,
		"@propagate": true,
		"@protected": true,
		"@version":   true,
		"@vocab":     true,
	}
)

// termState tracks the lifecycle of a term inside one Create Term
// Definition invocation chain. Absence from the map means the term has
// not been seen; observing termDefining on re-entry is the cycle signal.
type termState int

const (
	termDefining termState = iota + 1
	termDefined
)

// Context represents a JSON-LD active context and provides the context
// processing, term definition, IRI expansion and IRI compaction
// algorithms over it.
//
// A Context is mutated in place only while a local context is being
// folded into it; Parse operates on a clone, so the receiver is never
// changed. Contexts must not be shared between concurrently running
// processing calls.
type Context struct {
	options *JsonLdOptions

	base            string
	originalBaseURL string
	vocab           string
	hasVocab        bool
	language        string
	hasLanguage     bool
	direction       string
	mode            string
	version         float64

	termDefinitions map[string]*TermDefinition
	termOrder       []string
	previousContext *Context

	inverse InverseContext
}

// NewContext creates and returns a new Context object, seeded with the
// base IRI from the given options.
func NewContext(options *JsonLdOptions) *Context {
	if options == nil {
		options = NewJsonLdOptions("")
	}

	return &Context{
		options:         options,
		base:            options.Base,
		originalBaseURL: options.Base,
		mode:            options.ProcessingMode,
		termDefinitions: make(map[string]*TermDefinition),
	}
}

// newContextWithBase creates a fresh context sharing options but seeded
// from the given original base URL. Used by context nullification.
func newContextWithBase(originalBaseURL string, options *JsonLdOptions) *Context {
	ctx := NewContext(options)
	ctx.base = originalBaseURL
	ctx.originalBaseURL = originalBaseURL
	return ctx
}

// CopyContext creates a full copy of the given context. The derived
// inverse context is not copied: it is regenerated on demand.
func CopyContext(ctx *Context) *Context {
	context := NewContext(ctx.options)

	context.base = ctx.base
	context.originalBaseURL = ctx.originalBaseURL
	context.vocab = ctx.vocab
	context.hasVocab = ctx.hasVocab
	context.language = ctx.language
	context.hasLanguage = ctx.hasLanguage
	context.direction = ctx.direction
	context.mode = ctx.mode
	context.version = ctx.version

	for term, definition := range ctx.termDefinitions {
		context.termDefinitions[term] = definition.clone()
	}
	context.termOrder = append([]string(nil), ctx.termOrder...)

	if ctx.previousContext != nil {
		context.previousContext = CopyContext(ctx.previousContext)
	}

	return context
}

// processingMode returns true if the given version is compatible with
// the current processing mode.
func (c *Context) processingMode(version float64) bool {
	if version >= 1.1 {
		return c.mode >= fmt.Sprintf("json-ld-%v", version)
	}
	return c.mode == "" || c.mode == JsonLd_1_0
}

func (c *Context) warn(format string, args ...interface{}) {
	if c.options != nil && c.options.WarningLogger != nil {
		c.options.WarningLogger.Printf(format, args...)
	}
}

// hasProtectedTerms returns true if the context holds at least one
// protected term definition.
func (c *Context) hasProtectedTerms() bool {
	for _, definition := range c.termDefinitions {
		if definition != nil && definition.Protected {
			return true
		}
	}
	return false
}

func (c *Context) setTermDefinition(term string, definition *TermDefinition) {
	tracked := false
	for _, t := range c.termOrder {
		if t == term {
			tracked = true
			break
		}
	}
	if !tracked {
		c.termOrder = append(c.termOrder, term)
	}
	c.termDefinitions[term] = definition
	c.inverse = nil
}

// Parse processes a local context, retrieving any URLs as necessary,
// and returns a new active context. The receiver is left unchanged.
// Refer to https://www.w3.org/TR/json-ld11-api/#context-processing-algorithm
// for details.
func (c *Context) Parse(localContext interface{}) (*Context, error) {
	return c.parse(localContext, NewProcessingStack(), c.options.Base,
		c.options.Propagate, false, c.options.OverrideProtected)
}

// parse is the full Context Processing algorithm. localContext may be
// null, a string URL, a map, or an array of those; remoteContexts is
// the stack of URLs being dereferenced; baseURL is the URL the local
// context was retrieved from, against which remote references resolve.
func (c *Context) parse(localContext interface{}, remoteContexts ProcessingStack, baseURL string,
	propagate, protectedDefault, overrideProtected bool) (*Context, error) {

	// normalize local context to an array of @context objects
	contexts := Arrayify(localContext)

	// no contexts in array, return current active context w/o changes
	if len(contexts) == 0 {
		return c, nil
	}

	// override propagate if the first context has `@propagate`
	// (error checking is done when the map itself is processed)
	if firstCtxMap, isMap := contexts[0].(map[string]interface{}); isMap {
		if propagateVal, found := firstCtxMap["@propagate"]; found {
			if propagateBool, isBool := propagateVal.(bool); isBool {
				propagate = propagateBool
			}
		}
	}

	// 1. Initialize result to the result of cloning active context.
	result := CopyContext(c)

	// if not propagating, make sure result has a previous context
	if !propagate && result.previousContext == nil {
		result.previousContext = CopyContext(c)
	}

	for _, context := range contexts {
		if context == nil {
			// We can't nullify if there are protected terms and we're
			// not allowing overrides (e.g. processing a property term
			// scoped context)
			if !overrideProtected && result.hasProtectedTerms() {
				return nil, NewJsonLdError(InvalidContextNullification,
					"tried to nullify a context with protected terms outside of a term definition")
			}
			nullCtx := newContextWithBase(c.originalBaseURL, c.options)
			nullCtx.mode = result.mode
			if !propagate {
				nullCtx.previousContext = result
			}
			result = nullCtx
			continue
		}

		var contextMap map[string]interface{}

		switch ctx := context.(type) {
		case string:
			uri := Resolve(baseURL, ctx)
			if !IsAbsoluteIri(uri) {
				return nil, NewJsonLdError(LoadingDocumentFailed,
					fmt.Sprintf("context URL %q is not an absolute IRI and no base URL is available", ctx))
			}

			nextStack, pushed := remoteContexts.Push(uri)
			if !pushed {
				return nil, NewJsonLdError(RecursiveContextInclusion, uri)
			}

			rd, err := c.options.DocumentLoader.LoadDocument(uri)
			if err != nil {
				return nil, NewJsonLdError(LoadingRemoteContextFailed,
					fmt.Errorf("dereferencing a URL did not result in a valid JSON-LD context (%s): %w", uri, err))
			}
			remoteContextMap, isMap := rd.Document.(map[string]interface{})
			loadedContext, hasContextKey := remoteContextMap["@context"]
			if !isMap || !hasContextKey {
				// the dereferenced document has no top-level JSON object
				// with an @context member
				return nil, NewJsonLdError(InvalidRemoteContext, uri)
			}

			nextBase := rd.DocumentURL
			if nextBase == "" {
				nextBase = uri
			}
			result, err = result.parse(loadedContext, nextStack, nextBase, true, false, false)
			if err != nil {
				return nil, err
			}
			continue
		case map[string]interface{}:
			contextMap = ctx
		default:
			return nil, NewJsonLdError(InvalidLocalContext, context)
		}

		// dereference @context key if present
		if nestedContext := contextMap["@context"]; nestedContext != nil {
			nestedMap, isMap := nestedContext.(map[string]interface{})
			if !isMap {
				return nil, NewJsonLdError(InvalidLocalContext, nestedContext)
			}
			contextMap = nestedMap
		}

		// handle @version
		if versionValue, versionPresent := contextMap["@version"]; versionPresent {
			if versionValue != 1.1 {
				return nil, NewJsonLdError(InvalidVersionValue,
					fmt.Sprintf("unsupported JSON-LD version: %v", versionValue))
			}
			if c.options.ProcessingMode == JsonLd_1_0 {
				return nil, NewJsonLdError(ProcessingModeConflict,
					fmt.Sprintf("@version: %v not compatible with %s", versionValue, c.options.ProcessingMode))
			}
			result.mode = JsonLd_1_1
			result.version = 1.1
		}

		// handle @import
		if importValue, importFound := contextMap["@import"]; importFound {
			if result.processingMode(1.0) {
				return nil, NewJsonLdError(InvalidContextEntry, "@import may only be used in 1.1 mode")
			}
			importStr, isString := importValue.(string)
			if !isString {
				return nil, NewJsonLdError(InvalidImportValue, "@import must be a string")
			}
			uri := Resolve(baseURL, importStr)

			rd, err := c.options.DocumentLoader.LoadDocument(uri)
			if err != nil {
				return nil, NewJsonLdError(LoadingRemoteContextFailed,
					fmt.Errorf("dereferencing a URL did not result in a valid JSON-LD context (%s): %w", uri, err))
			}
			importCtxDocMap, isMap := rd.Document.(map[string]interface{})
			importedContext, hasContextKey := importCtxDocMap["@context"]
			if !isMap || !hasContextKey {
				return nil, NewJsonLdError(InvalidRemoteContext, uri)
			}

			importCtxMap, isMap := importedContext.(map[string]interface{})
			if !isMap {
				return nil, NewJsonLdError(InvalidRemoteContext,
					fmt.Sprintf("%s must be a context definition", importStr))
			}
			if _, found := importCtxMap["@import"]; found {
				return nil, NewJsonLdError(InvalidContextEntry,
					fmt.Sprintf("%s must not include @import entry", importStr))
			}

			// merge the outer context over the imported one
			for k, v := range contextMap {
				importCtxMap[k] = v
			}
			contextMap = importCtxMap
		}

		// handle @base; only the outermost context may change the base
		if baseValue, basePresent := contextMap["@base"]; basePresent && remoteContexts.IsEmpty() {
			if baseValue == nil {
				result.base = ""
			} else if baseString, isString := baseValue.(string); isString {
				switch {
				case IsAbsoluteIri(baseString):
					result.base = baseString
				case result.base != "":
					result.base = Resolve(result.base, baseString)
				default:
					return nil, NewJsonLdError(InvalidBaseIRI,
						"a relative @base requires an established base IRI")
				}
			} else {
				return nil, NewJsonLdError(InvalidBaseIRI,
					"the value of @base in a @context must be a string or null")
			}
		}

		// handle @vocab
		if vocabValue, vocabPresent := contextMap["@vocab"]; vocabPresent {
			if vocabValue == nil {
				result.vocab = ""
				result.hasVocab = false
			} else if vocabString, isString := vocabValue.(string); isString {
				if !IsAbsoluteIri(vocabString) && result.processingMode(1.0) {
					return nil, NewJsonLdError(InvalidVocabMapping, "@vocab must be an absolute IRI in 1.0 mode")
				}
				expandedVocab, err := result.expandIri(vocabString, true, true, nil, nil, remoteContexts, baseURL)
				if err != nil {
					return nil, err
				}
				if !IsAbsoluteIri(expandedVocab) {
					return nil, NewJsonLdError(InvalidVocabMapping,
						"@vocab must expand to an absolute IRI or blank node identifier")
				}
				result.vocab = expandedVocab
				result.hasVocab = true
			} else {
				return nil, NewJsonLdError(InvalidVocabMapping, "@vocab must be a string or null")
			}
			result.inverse = nil
		}

		// handle @language
		if languageValue, languagePresent := contextMap["@language"]; languagePresent {
			if languageValue == nil {
				result.language = ""
				result.hasLanguage = false
			} else if languageString, isString := languageValue.(string); isString {
				if !IsValidLanguageTag(languageString) {
					c.warn("@language must be a valid BCP47 language tag: %s", languageString)
				}
				result.language = strings.ToLower(languageString)
				result.hasLanguage = true
			} else {
				return nil, NewJsonLdError(InvalidDefaultLanguage, languageValue)
			}
			result.inverse = nil
		}

		// handle @direction
		if directionValue, directionPresent := contextMap["@direction"]; directionPresent {
			if result.processingMode(1.0) {
				return nil, NewJsonLdError(InvalidContextEntry,
					fmt.Sprintf("@direction not compatible with %s", result.mode))
			}
			if directionValue == nil {
				result.direction = ""
			} else if directionString, isString := directionValue.(string); isString {
				directionString = strings.ToLower(directionString)
				if directionString != "rtl" && directionString != "ltr" {
					return nil, NewJsonLdError(InvalidBaseDirection, directionValue)
				}
				result.direction = directionString
			} else {
				return nil, NewJsonLdError(InvalidBaseDirection, directionValue)
			}
			result.inverse = nil
		}

		// handle @propagate; the value was already extracted, here we
		// just do error checking
		if propagateValue, propagatePresent := contextMap["@propagate"]; propagatePresent {
			if result.processingMode(1.0) {
				return nil, NewJsonLdError(InvalidContextEntry,
					fmt.Sprintf("@propagate not compatible with %s", result.mode))
			}
			if _, isBool := propagateValue.(bool); !isBool {
				return nil, NewJsonLdError(InvalidPropagateValue, "@propagate value must be a boolean")
			}
		}

		// handle @protected; determine whether this sub-context is
		// declaring all its terms to be "protected" (exceptions can be
		// made on a per-definition basis)
		mapProtected := protectedDefault
		if protectedVal, protectedPresent := contextMap["@protected"]; protectedPresent {
			if result.processingMode(1.0) {
				return nil, NewJsonLdError(InvalidContextEntry,
					fmt.Sprintf("@protected not compatible with %s", result.mode))
			}
			protectedBool, isBool := protectedVal.(bool)
			if !isBool {
				return nil, NewJsonLdError(InvalidProtectedValue, "@protected value must be a boolean")
			}
			mapProtected = protectedBool
		}

		defined := make(map[string]termState)

		for _, key := range GetOrderedKeys(contextMap) {
			if nonTermDefKeys[key] {
				continue
			}
			if err := result.createTermDefinition(contextMap, key, defined, remoteContexts,
				baseURL, mapProtected, overrideProtected); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// createTermDefinition creates a term definition in the active context
// for a term being processed in a local context as described in
// https://www.w3.org/TR/json-ld11-api/#create-term-definition
func (c *Context) createTermDefinition(context map[string]interface{}, term string,
	defined map[string]termState, remoteContexts ProcessingStack, baseURL string,
	protectedDefault, overrideProtected bool) error {

	switch defined[term] {
	case termDefined:
		return nil
	case termDefining:
		return NewJsonLdError(CyclicIRIMapping, term)
	}

	if term == "" {
		return NewJsonLdError(InvalidTermDefinition, "the empty string is not a valid term")
	}

	defined[term] = termDefining

	value := context[term]

	if IsKeyword(term) {
		if term != "@type" || !c.processingMode(1.1) {
			return NewJsonLdError(KeywordRedefinition, term)
		}
		vmap, isMap := value.(map[string]interface{})
		if !isMap {
			return NewJsonLdError(KeywordRedefinition, term)
		}
		// @type may only be redefined to gain @container: @set and/or
		// @protected
		for k, v := range vmap {
			switch k {
			case "@container":
				if v != "@set" {
					return NewJsonLdError(KeywordRedefinition, term)
				}
			case "@protected":
			default:
				return NewJsonLdError(KeywordRedefinition, term)
			}
		}
	} else if IsKeywordLike(term) {
		c.warn("terms beginning with '@' are reserved for future use and ignored: %s", term)
		defined[term] = termDefined
		return nil
	}

	// keep reference to previous mapping for potential `@protected` check
	prevDefinition, hadDefinition := c.termDefinitions[term]
	if hadDefinition {
		delete(c.termDefinitions, term)
	}

	simpleTerm := false
	var val map[string]interface{}
	switch v := value.(type) {
	case nil:
		val = map[string]interface{}{"@id": nil}
	case string:
		val = map[string]interface{}{"@id": v}
		simpleTerm = true
	case map[string]interface{}:
		val = v
	default:
		return NewJsonLdError(InvalidTermDefinition, value)
	}

	// a null value, or a map with a null @id, decouples the term
	if idValue, hasID := val["@id"]; value == nil || (hasID && idValue == nil) {
		if prevDefinition != nil && prevDefinition.Protected && !overrideProtected {
			return NewJsonLdError(ProtectedTermRedefinition,
				"invalid JSON-LD syntax; tried to redefine a protected term")
		}
		c.setTermDefinition(term, nil)
		defined[term] = termDefined
		return nil
	}

	// make sure term definition only has expected keywords
	validKeys := map[string]bool{
		"@container": true,
		"@id":        true,
		"@language":  true,
		"@reverse":   true,
		"@type":      true,
	}
	if c.processingMode(1.1) {
		validKeys["@context"] = true
		validKeys["@direction"] = true
		validKeys["@index"] = true
		validKeys["@nest"] = true
		validKeys["@prefix"] = true
		validKeys["@protected"] = true
	}
	for k := range val {
		if !validKeys[k] {
			return NewJsonLdError(InvalidTermDefinition,
				fmt.Sprintf("a term definition must not contain %s", k))
		}
	}

	// handle term protection
	definition := &TermDefinition{simpleTerm: simpleTerm}
	if protectedVal, protectedFound := val["@protected"]; protectedFound {
		protectedBool, isBool := protectedVal.(bool)
		if !isBool {
			return NewJsonLdError(InvalidProtectedValue, "@protected value must be a boolean")
		}
		definition.Protected = protectedBool
	} else {
		definition.Protected = protectedDefault
	}

	// always compute whether term has a colon as an optimization for
	// compact IRI handling
	colIndex := strings.Index(term, ":")
	termHasColon := colIndex > 0

	if typeValue, present := val["@type"]; present {
		typeStr, isString := typeValue.(string)
		if !isString {
			return NewJsonLdError(InvalidTypeMapping, typeValue)
		}
		if (typeStr == "@json" || typeStr == "@none") && c.processingMode(1.0) {
			return NewJsonLdError(InvalidTypeMapping,
				fmt.Sprintf("unknown mapping for @type: %s on term %s", typeStr, term))
		}
		if typeStr != "@id" && typeStr != "@vocab" && typeStr != "@json" && typeStr != "@none" {
			// expand @type to full IRI
			expanded, err := c.expandIri(typeStr, false, true, context, defined, remoteContexts, baseURL)
			if err != nil {
				var ldErr *JsonLdError
				if ok := errors.As(err, &ldErr); !ok || ldErr.Code != InvalidIRIMapping {
					return err
				}
				return NewJsonLdError(InvalidTypeMapping, typeStr)
			}
			typeStr = expanded
			if IsBlankNodeIdentifier(typeStr) {
				return NewJsonLdError(InvalidTypeMapping,
					"an @context @type value must be an IRI, not a blank node identifier")
			}
			if !IsAbsoluteIri(typeStr) {
				return NewJsonLdError(InvalidTypeMapping, "an @context @type value must be an absolute IRI")
			}
		}
		definition.Type = typeStr
	}

	if reverseValue, present := val["@reverse"]; present {
		if _, idPresent := val["@id"]; idPresent {
			return NewJsonLdError(InvalidReverseProperty, "an @reverse term definition must not contain @id")
		}
		if _, nestPresent := val["@nest"]; nestPresent {
			return NewJsonLdError(InvalidReverseProperty, "an @reverse term definition must not contain @nest")
		}
		reverseStr, isString := reverseValue.(string)
		if !isString {
			return NewJsonLdError(InvalidIRIMapping,
				fmt.Sprintf("expected string for @reverse value. got %v", reverseValue))
		}
		if IsKeywordLike(reverseStr) {
			c.warn("values beginning with '@' are reserved for future use and ignored: %s", reverseStr)
			defined[term] = termDefined
			return nil
		}
		id, err := c.expandIri(reverseStr, false, true, context, defined, remoteContexts, baseURL)
		if err != nil {
			return err
		}
		if !IsAbsoluteIri(id) {
			return NewJsonLdError(InvalidIRIMapping, fmt.Sprintf(
				"@context @reverse value must be an absolute IRI or a blank node identifier, got %s", id))
		}

		definition.ID = id
		definition.Reverse = true

		if containerVal, hasContainer := val["@container"]; hasContainer && containerVal != nil {
			containerStr, isString := containerVal.(string)
			if !isString || (containerStr != "@set" && containerStr != "@index") {
				return NewJsonLdError(InvalidReverseProperty,
					"@context @container value for an @reverse type definition must be @index or @set")
			}
			definition.Container = []string{containerStr}
		}

		return c.installTermDefinition(term, definition, prevDefinition, overrideProtected, defined)
	}

	if idValue, hasID := val["@id"]; hasID {
		idStr, isString := idValue.(string)
		if !isString {
			return NewJsonLdError(InvalidIRIMapping, "expected value of @id to be a string")
		}

		if idStr != term {
			if !IsKeyword(idStr) && IsKeywordLike(idStr) {
				c.warn("values beginning with '@' are reserved for future use and ignored: %s", idStr)
				defined[term] = termDefined
				return nil
			}

			res, err := c.expandIri(idStr, false, true, context, defined, remoteContexts, baseURL)
			if err != nil {
				return err
			}
			if !IsKeyword(res) && !IsAbsoluteIri(res) {
				return NewJsonLdError(InvalidIRIMapping,
					"resulting IRI mapping should be a keyword, absolute IRI or blank node")
			}
			if res == "@context" {
				return NewJsonLdError(InvalidKeywordAlias, "cannot alias @context")
			}
			definition.ID = res

			if iriLikeTermPattern.MatchString(term) {
				// terms that themselves look like compact or relative
				// IRIs must expand to the same IRI mapping
				defined[term] = termDefined
				termIRI, err := c.expandIri(term, false, true, context, defined, remoteContexts, baseURL)
				if err != nil {
					return err
				}
				if termIRI != res {
					return NewJsonLdError(InvalidIRIMapping,
						fmt.Sprintf("term %s expands to %s, not %s", term, termIRI, res))
				}
				defined[term] = termDefining
			}

			if !termHasColon && !strings.Contains(term, "/") &&
				(simpleTerm || c.processingMode(1.0)) &&
				(EndsWithGenDelim(res) || IsBlankNodeIdentifier(res)) {
				definition.Prefix = true
			}
		}
	}

	if definition.ID == "" && term != "@type" {
		if termHasColon {
			prefix := term[0:colIndex]
			if _, containsPrefix := context[prefix]; containsPrefix {
				if err := c.createTermDefinition(context, prefix, defined, remoteContexts,
					baseURL, protectedDefault, overrideProtected); err != nil {
					return err
				}
			}
			if prefixDef, hasPrefixDef := c.termDefinitions[prefix]; hasPrefixDef && prefixDef != nil {
				definition.ID = prefixDef.ID + term[colIndex+1:]
			} else {
				// the term is itself an absolute IRI or blank node identifier
				definition.ID = term
			}
		} else if strings.Contains(term, "/") {
			// the term is a relative IRI reference
			res, err := c.expandIri(term, true, true, context, defined, remoteContexts, baseURL)
			if err != nil {
				return err
			}
			if !IsAbsoluteIri(res) {
				return NewJsonLdError(InvalidIRIMapping,
					fmt.Sprintf("relative term %s did not expand to an absolute IRI", term))
			}
			definition.ID = res
		} else if c.hasVocab {
			definition.ID = c.vocab + term
		} else {
			return NewJsonLdError(InvalidIRIMapping, "relative term definition without vocab mapping")
		}
	}
	if definition.ID == "" && term == "@type" {
		definition.ID = "@type"
	}

	if containerVal, hasContainer := val["@container"]; hasContainer {
		container, err := c.parseContainerMapping(containerVal, definition)
		if err != nil {
			return err
		}
		definition.Container = container
	}

	// property indexing
	if indexVal, hasIndex := val["@index"]; hasIndex {
		if c.processingMode(1.0) || !definition.HasContainer("@index") {
			return NewJsonLdError(InvalidTermDefinition,
				fmt.Sprintf("@index without @index in @container: %v on term %s", indexVal, term))
		}
		indexStr, isString := indexVal.(string)
		if !isString {
			return NewJsonLdError(InvalidTermDefinition,
				fmt.Sprintf("@index must be a string expanding to an IRI: %v on term %s", indexVal, term))
		}
		expanded, err := c.expandIri(indexStr, false, true, context, defined, remoteContexts, baseURL)
		if err != nil {
			return err
		}
		if !IsAbsoluteIri(expanded) {
			return NewJsonLdError(InvalidTermDefinition,
				fmt.Sprintf("@index must expand to an IRI: %s on term %s", indexStr, term))
		}
		definition.Index = indexStr
	}

	// scoped contexts are captured verbatim, but must themselves be
	// processable against the current active context
	if ctxVal, hasCtx := val["@context"]; hasCtx {
		if _, err := c.parse(ctxVal, remoteContexts, baseURL, true, false, true); err != nil {
			return NewJsonLdError(InvalidScopedContext, err)
		}
		definition.Context = ctxVal
		definition.HasContext = true
		definition.BaseURL = baseURL
	}

	_, hasType := val["@type"]

	if languageVal, hasLanguage := val["@language"]; hasLanguage && !hasType {
		switch language := languageVal.(type) {
		case nil:
			definition.HasLanguage = true
		case string:
			if !IsValidLanguageTag(language) {
				c.warn("@language must be a valid BCP47 language tag: %s", language)
			}
			definition.Language = strings.ToLower(language)
			definition.HasLanguage = true
		default:
			return NewJsonLdError(InvalidLanguageMapping, "@language must be a string or null")
		}
	}

	if directionVal, hasDirection := val["@direction"]; hasDirection && !hasType {
		switch direction := directionVal.(type) {
		case nil:
			definition.HasDirection = true
		case string:
			dir := strings.ToLower(direction)
			if dir != "ltr" && dir != "rtl" {
				return NewJsonLdError(InvalidBaseDirection,
					fmt.Sprintf("direction must be null, 'ltr', or 'rtl', was %s on term %s", direction, term))
			}
			definition.Direction = dir
			definition.HasDirection = true
		default:
			return NewJsonLdError(InvalidBaseDirection,
				fmt.Sprintf("direction must be null, 'ltr', or 'rtl' on term %s", term))
		}
	}

	// nesting
	if nestVal, hasNest := val["@nest"]; hasNest {
		nest, isString := nestVal.(string)
		if !isString || (nest != "@nest" && strings.HasPrefix(nest, "@")) {
			return NewJsonLdError(InvalidNestValue,
				"@context @nest value must be a string which is not a keyword other than @nest")
		}
		definition.Nest = nest
	}

	// term may be used as prefix
	if prefixVal, hasPrefix := val["@prefix"]; hasPrefix {
		if invalidPrefixPattern.MatchString(term) {
			return NewJsonLdError(InvalidTermDefinition, "@prefix used on compact or relative IRI term")
		}
		prefix, isBool := prefixVal.(bool)
		if !isBool {
			return NewJsonLdError(InvalidPrefixValue, "@context value for @prefix must be boolean")
		}
		if prefix && IsKeyword(definition.ID) {
			return NewJsonLdError(InvalidTermDefinition, "keywords may not be used as prefixes")
		}
		definition.Prefix = prefix
	}

	// disallow aliasing @context and @preserve
	if definition.ID == "@context" || definition.ID == "@preserve" {
		return NewJsonLdError(InvalidKeywordAlias, "@context and @preserve cannot be aliased")
	}

	return c.installTermDefinition(term, definition, prevDefinition, overrideProtected, defined)
}

// parseContainerMapping validates an @container value and returns the
// container set. definition is consulted and updated for the
// @type-container type mapping rule.
func (c *Context) parseContainerMapping(containerVal interface{}, definition *TermDefinition) ([]string, error) {
	var container []string
	containerValueMap := make(map[string]bool)

	if containerArray, isArray := containerVal.([]interface{}); isArray {
		if c.processingMode(1.0) {
			return nil, NewJsonLdError(InvalidContainerMapping, "@container must be a string in 1.0 mode")
		}
		for _, cv := range containerArray {
			cvStr, isString := cv.(string)
			if !isString {
				return nil, NewJsonLdError(InvalidContainerMapping, "@container values must be strings")
			}
			container = append(container, cvStr)
			containerValueMap[cvStr] = true
		}
	} else if containerStr, isString := containerVal.(string); isString {
		container = []string{containerStr}
		containerValueMap[containerStr] = true
	} else {
		return nil, NewJsonLdError(InvalidContainerMapping, "@container must be a string or an array of strings")
	}

	validContainers := map[string]bool{
		"@list":     true,
		"@set":      true,
		"@index":    true,
		"@language": true,
	}
	if c.processingMode(1.1) {
		validContainers["@graph"] = true
		validContainers["@id"] = true
		validContainers["@type"] = true

		if containerValueMap["@list"] && len(container) != 1 {
			return nil, NewJsonLdError(InvalidContainerMapping,
				"@context @container with @list must have no other values")
		}

		if containerValueMap["@graph"] {
			for key := range containerValueMap {
				switch key {
				case "@graph", "@id", "@index", "@set":
				default:
					return nil, NewJsonLdError(InvalidContainerMapping,
						"@context @container with @graph may only include @id, @index, and @set")
				}
			}
			if containerValueMap["@id"] && containerValueMap["@index"] {
				return nil, NewJsonLdError(InvalidContainerMapping,
					"@context @container with @graph may include @id or @index, not both")
			}
		} else {
			maxLen := 1
			if containerValueMap["@set"] {
				maxLen = 2
			}
			if len(container) > maxLen {
				return nil, NewJsonLdError(InvalidContainerMapping,
					"@set can only be combined with one more type")
			}
		}

		if containerValueMap["@type"] {
			// if the definition does not have a type mapping, set it to @id
			if definition.Type == "" {
				definition.Type = "@id"
			}
			if definition.Type != "@id" && definition.Type != "@vocab" {
				return nil, NewJsonLdError(InvalidTypeMapping,
					"container: @type requires @type to be @id or @vocab")
			}
		}
	}

	for _, v := range container {
		if !validContainers[v] {
			allowedValues := make([]string, 0, len(validContainers))
			for k := range validContainers {
				allowedValues = append(allowedValues, k)
			}
			sort.Strings(allowedValues)
			return nil, NewJsonLdError(InvalidContainerMapping, fmt.Sprintf(
				"@context @container value must be one of the following: %q", allowedValues))
		}
	}

	if containerValueMap["@set"] && containerValueMap["@list"] {
		return nil, NewJsonLdError(InvalidContainerMapping, "@set not allowed with @list")
	}

	return container, nil
}

// installTermDefinition applies the protected-redefinition check and
// stores the definition.
func (c *Context) installTermDefinition(term string, definition, prevDefinition *TermDefinition,
	overrideProtected bool, defined map[string]termState) error {

	if prevDefinition != nil && prevDefinition.Protected && !overrideProtected {
		// force the new term to continue to be protected, then check
		// whether the mappings would be equal
		definition.Protected = true
		if !definition.Equal(prevDefinition) {
			return NewJsonLdError(ProtectedTermRedefinition,
				"invalid JSON-LD syntax; tried to redefine a protected term")
		}
	}

	c.setTermDefinition(term, definition)
	defined[term] = termDefined
	return nil
}

// ExpandIri expands a string value to a full IRI.
//
// The string may be a term, a compact IRI, a relative IRI, or an
// absolute IRI. The associated absolute IRI will be returned; a string
// that cannot be resolved is returned unchanged so that downstream
// layers may still interpret it.
//
// relative: true to resolve IRIs against the base IRI, false not to.
// vocab: true to concatenate after @vocab, false not to.
func (c *Context) ExpandIri(value string, relative bool, vocab bool) (string, error) {
	return c.expandIri(value, relative, vocab, nil, nil, NewProcessingStack(), "")
}

// expandIri is the IRI Expansion algorithm. localContext and defined
// are only given during context processing, enabling lazy term
// definition of terms referenced before they are created.
func (c *Context) expandIri(value string, relative bool, vocab bool, localContext map[string]interface{},
	defined map[string]termState, remoteContexts ProcessingStack, baseURL string) (string, error) {

	if IsKeyword(value) {
		return value, nil
	}

	if IsKeywordLike(value) {
		c.warn("values beginning with '@' are reserved for future use and ignored: %s", value)
		return "", nil
	}

	// lazily create a definition referenced before its own entry was
	// reached
	if localContext != nil {
		if _, containsKey := localContext[value]; containsKey && defined[value] != termDefined {
			if err := c.createTermDefinition(localContext, value, defined, remoteContexts,
				baseURL, false, false); err != nil {
				return "", err
			}
		}
	}

	// a term whose IRI mapping is a keyword resolves to that keyword
	if termDef, hasTermDef := c.termDefinitions[value]; hasTermDef && termDef != nil && IsKeyword(termDef.ID) {
		return termDef.ID, nil
	}

	if termDef, hasTermDef := c.termDefinitions[value]; vocab && hasTermDef {
		if termDef == nil {
			// the term is decoupled: the value is dropped
			return "", nil
		}
		return termDef.ID, nil
	}

	// check if value contains a colon (`:`) anywhere but as the first
	// character
	if colIndex := strings.Index(value, ":"); colIndex > 0 {
		prefix := value[0:colIndex]
		suffix := value[colIndex+1:]

		if prefix == "_" || strings.HasPrefix(suffix, "//") {
			return value, nil
		}

		if localContext != nil {
			if _, containsPrefix := localContext[prefix]; containsPrefix && defined[prefix] != termDefined {
				if err := c.createTermDefinition(localContext, prefix, defined, remoteContexts,
					baseURL, false, false); err != nil {
					return "", err
				}
			}
		}

		// if the active context contains a term definition for prefix,
		// return the result of concatenating the IRI mapping associated
		// with prefix and suffix
		if termDef, hasPrefix := c.termDefinitions[prefix]; hasPrefix && termDef != nil &&
			termDef.ID != "" && termDef.Prefix {
			return termDef.ID + suffix, nil
		} else if IsAbsoluteIri(value) {
			// otherwise, if the value has the form of an absolute IRI,
			// return it
			return value, nil
		}
		// otherwise, it is a relative IRI
	}

	if vocab && c.hasVocab {
		return c.vocab + value, nil
	} else if relative {
		return Resolve(c.base, value), nil
	} else if localContext != nil && IsRelativeIri(value) {
		return "", NewJsonLdError(InvalidIRIMapping, "not an absolute IRI: "+value)
	}

	return value, nil
}

// RevertToPreviousContext reverts any type-scoped context in this
// active context to the previous context.
func (c *Context) RevertToPreviousContext() *Context {
	if c.previousContext == nil {
		return c
	}
	return CopyContext(c.previousContext)
}

// GetTermDefinition returns the term definition for the given term, or
// nil if the term is not defined (or defined as null).
func (c *Context) GetTermDefinition(term string) *TermDefinition {
	return c.termDefinitions[term]
}

// GetContainer retrieves the container mapping for the given property.
func (c *Context) GetContainer(property string) []string {
	if td := c.termDefinitions[property]; td != nil {
		return td.Container
	}
	return nil
}

// HasContainerMapping returns true if the given property's container
// mapping includes the given value.
func (c *Context) HasContainerMapping(property string, val string) bool {
	return c.termDefinitions[property].HasContainer(val)
}

// IsReverseProperty returns true if the given property is a reverse property.
func (c *Context) IsReverseProperty(property string) bool {
	td := c.termDefinitions[property]
	return td != nil && td.Reverse
}

// GetTypeMapping returns the type mapping for the given property.
func (c *Context) GetTypeMapping(property string) string {
	if td := c.termDefinitions[property]; td != nil {
		return td.Type
	}
	return ""
}

// GetLanguageMapping returns the language mapping for the given
// property, falling back to the default language. A nil result means
// no language applies.
func (c *Context) GetLanguageMapping(property string) interface{} {
	if td := c.termDefinitions[property]; td != nil && td.HasLanguage {
		if td.Language == "" {
			return nil
		}
		return td.Language
	}
	if c.hasLanguage {
		return c.language
	}
	return nil
}

// GetDirectionMapping returns the direction mapping for the given
// property, falling back to the default base direction. A nil result
// means no direction applies.
func (c *Context) GetDirectionMapping(property string) interface{} {
	if td := c.termDefinitions[property]; td != nil && td.HasDirection {
		if td.Direction == "" {
			return nil
		}
		return td.Direction
	}
	if c.direction != "" {
		return c.direction
	}
	return nil
}

// GetPrefixes returns a map of potential RDF prefixes based on the
// term definitions in this context. No guarantees of the prefixes are
// given, beyond that it will not contain ":".
//
// onlyCommonPrefixes: If true, the result will not include "not so
// useful" prefixes, such as "term1": "http://example.com/term1", e.g.
// all IRIs will end with "/" or "#". If false, all potential prefixes
// are returned.
func (c *Context) GetPrefixes(onlyCommonPrefixes bool) map[string]string {
	prefixes := make(map[string]string)

	for _, term := range c.termOrder {
		if strings.Contains(term, ":") {
			continue
		}
		td, present := c.termDefinitions[term]
		if !present || td == nil || td.ID == "" {
			continue
		}
		if strings.HasPrefix(term, "@") || strings.HasPrefix(td.ID, "@") {
			continue
		}
		if !onlyCommonPrefixes || strings.HasSuffix(td.ID, "/") || strings.HasSuffix(td.ID, "#") {
			prefixes[term] = td.ID
		}
	}

	return prefixes
}

// ExpandValue expands the given value by using the coercion and keyword
// rules in the context.
func (c *Context) ExpandValue(activeProperty string, value interface{}) (interface{}, error) {
	rval := make(map[string]interface{})
	td := c.GetTermDefinition(activeProperty)

	// the type mapping @id turns string values into documents-relative
	// references; @vocab additionally resolves them against the
	// vocabulary mapping
	if td != nil && td.Type == "@id" {
		if strVal, isString := value.(string); isString {
			var err error
			rval["@id"], err = c.ExpandIri(strVal, true, false)
			if err != nil {
				return nil, err
			}
		} else {
			rval["@value"] = value
		}
		return rval, nil
	}
	if td != nil && td.Type == "@vocab" {
		if strVal, isString := value.(string); isString {
			var err error
			rval["@id"], err = c.ExpandIri(strVal, true, true)
			if err != nil {
				return nil, err
			}
		} else {
			rval["@value"] = value
		}
		return rval, nil
	}

	rval["@value"] = value
	if td != nil && td.Type != "" && td.Type != "@id" && td.Type != "@vocab" && td.Type != "@none" {
		rval["@type"] = td.Type
	} else if _, isString := value.(string); isString {
		if language := c.GetLanguageMapping(activeProperty); language != nil {
			rval["@language"] = language
		}
		if direction := c.GetDirectionMapping(activeProperty); direction != nil {
			rval["@direction"] = direction
		}
	}
	return rval, nil
}

// Serialize transforms the context back into JSON form.
func (c *Context) Serialize() (map[string]interface{}, error) {
	ctx := make(map[string]interface{})

	if c.base != "" && c.base != c.options.Base {
		ctx["@base"] = c.base
	}
	if c.version != 0 {
		ctx["@version"] = c.version
	}
	if c.hasLanguage {
		ctx["@language"] = c.language
	}
	if c.direction != "" {
		ctx["@direction"] = c.direction
	}
	if c.hasVocab {
		ctx["@vocab"] = c.vocab
	}

	for _, term := range c.termOrder {
		definition, present := c.termDefinitions[term]
		if !present {
			continue
		}
		// terms explicitly set to null are serialized back as null
		if definition == nil {
			ctx[term] = nil
			continue
		}

		if !definition.HasLanguage && !definition.HasDirection && len(definition.Container) == 0 &&
			definition.Type == "" && !definition.Reverse {
			if IsKeyword(definition.ID) {
				ctx[term] = definition.ID
				continue
			}
			cid, err := c.CompactIri(definition.ID, nil, false, false)
			if err != nil {
				return nil, err
			}
			if term == cid {
				ctx[term] = definition.ID
			} else {
				ctx[term] = cid
			}
			continue
		}

		defn := make(map[string]interface{})
		cid, err := c.CompactIri(definition.ID, nil, false, false)
		if err != nil {
			return nil, err
		}
		if !(term == cid && !definition.Reverse) {
			if definition.Reverse {
				defn["@reverse"] = cid
			} else {
				defn["@id"] = cid
			}
		}
		if definition.Type != "" {
			if IsKeyword(definition.Type) {
				defn["@type"] = definition.Type
			} else {
				defn["@type"], err = c.CompactIri(definition.Type, nil, true, false)
				if err != nil {
					return nil, err
				}
			}
		}
		if len(definition.Container) == 1 {
			defn["@container"] = definition.Container[0]
		} else if len(definition.Container) > 1 {
			containers := make([]interface{}, 0, len(definition.Container))
			for _, cv := range definition.Container {
				containers = append(containers, cv)
			}
			defn["@container"] = containers
		}
		if definition.HasLanguage {
			if definition.Language == "" {
				defn["@language"] = nil
			} else {
				defn["@language"] = definition.Language
			}
		}
		if definition.HasDirection {
			if definition.Direction == "" {
				defn["@direction"] = nil
			} else {
				defn["@direction"] = definition.Direction
			}
		}
		ctx[term] = defn
	}

	rval := make(map[string]interface{})
	if len(ctx) != 0 {
		rval["@context"] = ctx
	}
	return rval, nil
}
