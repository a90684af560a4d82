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
	"net/url"
	"regexp"
	"strings"
)

// ParsedURL represents a URL split into individual components
// for easy manipulation.
type ParsedURL struct {
	Href     string
	Protocol string
	Host     string
	Auth     string
	Hostname string
	Port     string
	Path     string
	Query    string
	Hash     string

	Pathname       string
	NormalizedPath string
	Authority      string
}

var urlParser = regexp.MustCompile(`^(?:([^:/?#]+):)?(?://((?:(([^:@]*)(?::([^:@]*))?)?@)?([^:/?#]*)(?::(\d*))?))?((((?:[^?#/]*/)*)([^?#]*))(?:\?([^#]*))?(?:#(.*))?)`)

// ParseURL parses a string URL into a ParsedURL struct.
func ParseURL(urlStr string) *ParsedURL {
	rval := ParsedURL{Href: urlStr}

	if !urlParser.MatchString(urlStr) {
		return &rval
	}

	matches := urlParser.FindStringSubmatch(urlStr)
	rval.Protocol = matches[1]
	rval.Host = matches[2]
	rval.Auth = matches[3]
	rval.Hostname = matches[6]
	rval.Port = matches[7]
	rval.Path = matches[9]
	rval.Query = matches[12]
	rval.Hash = matches[13]

	if rval.Host != "" && rval.Path == "" {
		rval.Path = "/"
	}

	rval.Pathname = rval.Path
	parseAuthority(&rval)
	rval.NormalizedPath = removeDotSegments(rval.Pathname, rval.Authority != "")
	if rval.Query != "" {
		rval.Path += "?" + rval.Query
	}
	if rval.Protocol != "" {
		rval.Protocol += ":"
	}
	if rval.Hash != "" {
		rval.Hash = "#" + rval.Hash
	}

	return &rval
}

// parseAuthority parses the authority for the pre-parsed given ParsedURL.
func parseAuthority(parsed *ParsedURL) {
	if !strings.Contains(parsed.Href, ":") && strings.HasPrefix(parsed.Href, "//") && parsed.Host == "" {
		// must parse authority from pathname
		parsed.Pathname = parsed.Pathname[2:]
		idx := strings.Index(parsed.Pathname, "/")
		if idx == -1 {
			parsed.Authority = parsed.Pathname
			parsed.Pathname = ""
		} else {
			parsed.Authority = parsed.Pathname[0:idx]
			parsed.Pathname = parsed.Pathname[idx:]
		}
	} else {
		parsed.Authority = parsed.Host
		if parsed.Auth != "" {
			parsed.Authority = parsed.Auth + "@" + parsed.Authority
		}
	}
}

// removeDotSegments removes dot segments from a URL path as per
// RFC 3986 5.2.4.
func removeDotSegments(path string, hasAuthority bool) string {
	var rval strings.Builder
	if strings.HasPrefix(path, "/") {
		rval.WriteByte('/')
	}

	input := strings.Split(path, "/")
	output := make([]string, 0, len(input))
	for i := 0; i < len(input); i++ {
		if input[i] == "." || (input[i] == "" && len(input)-i > 1) {
			continue
		}
		if input[i] == ".." {
			if hasAuthority || (len(output) > 0 && output[len(output)-1] != "..") {
				if len(output) > 0 {
					output = output[:len(output)-1]
				}
			} else {
				output = append(output, "..")
			}
			continue
		}
		output = append(output, input[i])
	}

	rval.WriteString(strings.Join(output, "/"))
	return rval.String()
}

// Resolve resolves the given IRI reference against the given base IRI,
// returning a full IRI.
func Resolve(baseURI string, ref string) string {
	if baseURI == "" {
		return ref
	}
	if strings.TrimSpace(ref) == "" {
		return baseURI
	}

	uri, err := url.Parse(baseURI)
	if err != nil {
		return ref
	}
	// a query-only reference replaces the base query and drops the fragment
	if strings.HasPrefix(ref, "?") {
		uri.Fragment = ""
		uri.RawQuery = ref[1:]
		return uri.String()
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	uri = uri.ResolveReference(refURL)
	if uri.Path != "" {
		uri.Path = removeDotSegments(uri.Path, true)
	}
	return uri.String()
}

// RemoveBase relativizes the given IRI against the base URL,
// producing a relative IRI reference.
func RemoveBase(baseobj interface{}, iri string) string {
	if baseobj == nil {
		return iri
	}

	var base *ParsedURL
	if baseStr, isString := baseobj.(string); isString {
		base = ParseURL(baseStr)
	} else {
		base = baseobj.(*ParsedURL)
	}

	// establish base root
	root := ""
	if base.Href != "" {
		root += base.Protocol + "//" + base.Authority
	} else if !strings.HasPrefix(iri, "//") {
		// support network-path reference with empty base
		root += "//"
	}

	// IRI not relative to base
	if !strings.HasPrefix(iri, root) {
		return iri
	}

	// remove root from IRI and parse remainder
	rel := ParseURL(iri[len(root):])

	// remove path segments that match
	baseSegments := strings.Split(base.NormalizedPath, "/")
	iriSegments := strings.Split(rel.NormalizedPath, "/")

	last := 1
	if len(rel.Hash) > 0 || len(rel.Query) > 0 {
		last = 0
	}

	for len(baseSegments) > 0 && len(iriSegments) > last && baseSegments[0] == iriSegments[0] {
		baseSegments = baseSegments[1:]
		iriSegments = iriSegments[1:]
	}

	// use '../' for each non-matching base segment
	rval := ""

	if len(baseSegments) > 0 {
		// don't count the last segment if it isn't a path (doesn't end in '/'),
		// don't count empty first segment, it means base began with '/'
		if !strings.HasSuffix(base.NormalizedPath, "/") || baseSegments[0] == "" {
			baseSegments = baseSegments[0 : len(baseSegments)-1]
		}
		rval += strings.Repeat("../", len(baseSegments))
	}

	rval += strings.Join(iriSegments, "/")

	if rel.Query != "" {
		rval += "?" + rel.Query
	}
	rval += rel.Hash

	if rval == "" {
		rval = "./"
	}

	return rval
}

// IsAbsoluteIri returns true if the given value is an absolute IRI
// or a blank node identifier, false if not.
func IsAbsoluteIri(value string) bool {
	if IsBlankNodeIdentifier(value) {
		return true
	}

	u, err := url.Parse(value)
	return err == nil && u.IsAbs()
}

// IsRelativeIri returns true if the given value is a relative IRI, false if not.
func IsRelativeIri(value string) bool {
	return !(IsKeyword(value) || IsAbsoluteIri(value))
}
