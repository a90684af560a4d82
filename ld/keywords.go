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
	"regexp"
	"strings"
)

var keywords = map[string]bool{
	"@base":      true,
	"@container": true,
	"@context":   true,
	"@direction": true,
	"@graph":     true,
	"@id":        true,
	"@import":    true,
	"@included":  true,
	"@index":     true,
	"@json":      true,
	"@language":  true,
	"@list":      true,
	"@nest":      true,
	"@none":      true,
	"@prefix":    true,
	"@propagate": true,
	"@protected": true,
	"@reverse":   true,
	"@set":       true,
	"@type":      true,
	"@value":     true,
	"@version":   true,
	"@vocab":     true,
}

// ignoredKeywordPattern matches strings that have the form of a keyword
// but are not in the keyword set. Such strings are reserved for future
// use and are dropped with a warning wherever a term or IRI is expected.
var ignoredKeywordPattern = regexp.MustCompile("^@[a-zA-Z]+$")

// IsKeyword returns whether or not the given value is a JSON-LD keyword.
func IsKeyword(key interface{}) bool {
	keyStr, isString := key.(string)
	if !isString {
		return false
	}
	return keywords[keyStr]
}

// IsKeywordLike returns true for strings of the form "@"+ASCII letters
// which are not keywords.
func IsKeywordLike(value string) bool {
	return !keywords[value] && ignoredKeywordPattern.MatchString(value)
}

// EndsWithGenDelim reports whether the string ends with an RFC 3986
// gen-delim character. Used to decide whether a simple term may act
// as a prefix.
func EndsWithGenDelim(value string) bool {
	if value == "" {
		return false
	}
	switch value[len(value)-1] {
	case ':', '/', '?', '#', '[', ']', '@':
		return true
	}
	return false
}

// IsBlankNodeIdentifier returns true if the given string is a blank node
// identifier of the form "_:suffix".
func IsBlankNodeIdentifier(value string) bool {
	return strings.HasPrefix(value, "_:")
}
