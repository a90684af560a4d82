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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pquerna/cachecontrol"
)

const (
	// An HTTP Accept header that prefers JSONLD.
	acceptHeader = "application/ld+json, application/json;q=0.9, */*;q=0.1"

	ApplicationJSONLDType = "application/ld+json"

	// JSON-LD link header rel
	linkHeaderRel = "http://www.w3.org/ns/json-ld#context"

	// DefaultDocumentCacheSize bounds the CachingDocumentLoader.
	DefaultDocumentCacheSize = 128
)

// RemoteDocument is a document retrieved from a remote source.
type RemoteDocument struct {
	DocumentURL string
	Document    interface{}
	ContextURL  string
}

// DocumentLoader knows how to load remote documents.
//
// A loader must be safe for concurrent LoadDocument calls: it is the
// only object shared between parallel top-level processing runs.
type DocumentLoader interface {
	LoadDocument(u string) (*RemoteDocument, error)
}

// DocumentFromReader returns a document containing the contents of the
// JSON resource, streamed from the given Reader.
func DocumentFromReader(r io.Reader) (interface{}, error) {
	var document interface{}
	if err := json.NewDecoder(r).Decode(&document); err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	return document, nil
}

// DefaultDocumentLoader is a standard implementation of DocumentLoader
// which can retrieve documents via HTTP, falling back to the local
// filesystem for non-HTTP schemes.
type DefaultDocumentLoader struct {
	httpClient *http.Client
}

// NewDefaultDocumentLoader creates a new instance of DefaultDocumentLoader.
func NewDefaultDocumentLoader(httpClient *http.Client) *DefaultDocumentLoader {
	rval := &DefaultDocumentLoader{httpClient: httpClient}

	if rval.httpClient == nil {
		rval.httpClient = http.DefaultClient
	}
	return rval
}

// LoadDocument returns a RemoteDocument containing the contents of the
// JSON resource from the given URL.
func (dl *DefaultDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("error parsing URL: %s", u))
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return documentFromFile(u)
	}

	res, err := dl.get(u)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	return documentFromResponse(res)
}

// get issues a GET request with the JSON-LD Accept header and fails on
// any non-200 response. The caller owns the response body.
func (dl *DefaultDocumentLoader) get(u string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	req.Header.Set("Accept", acceptHeader)

	res, err := dl.httpClient.Do(req)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, NewJsonLdError(LoadingDocumentFailed,
			fmt.Sprintf("bad response status code: %d", res.StatusCode))
	}
	return res, nil
}

// documentFromFile loads a document from the local filesystem.
func documentFromFile(path string) (*RemoteDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	defer file.Close()

	doc, err := DocumentFromReader(file)
	if err != nil {
		return nil, err
	}
	return &RemoteDocument{DocumentURL: path, Document: doc}, nil
}

// documentFromResponse decodes the response body and records the final
// URL after redirects. For plain JSON responses, a context link header
// is surfaced via ContextURL.
func documentFromResponse(res *http.Response) (*RemoteDocument, error) {
	rd := &RemoteDocument{DocumentURL: res.Request.URL.String()}

	if res.Header.Get("Content-Type") != ApplicationJSONLDType {
		ctxURL, err := contextLinkTarget(res.Header.Values("Link"))
		if err != nil {
			return nil, err
		}
		rd.ContextURL = ctxURL
	}

	var err error
	rd.Document, err = DocumentFromReader(res.Body)
	if err != nil {
		return nil, err
	}
	return rd, nil
}

// contextLinkTarget scans Link headers for an entry whose rel is the
// JSON-LD context relation and returns its target. More than one such
// entry is an error.
func contextLinkTarget(headers []string) (string, error) {
	target := ""
	for _, header := range headers {
		for _, entry := range strings.Split(header, ",") {
			parts := strings.Split(entry, ";")
			uriRef := strings.TrimSpace(parts[0])
			if !strings.HasPrefix(uriRef, "<") || !strings.HasSuffix(uriRef, ">") {
				continue
			}
			for _, param := range parts[1:] {
				name, value, found := strings.Cut(strings.TrimSpace(param), "=")
				if !found || strings.TrimSpace(name) != "rel" {
					continue
				}
				if strings.Trim(strings.TrimSpace(value), `"`) != linkHeaderRel {
					continue
				}
				if target != "" {
					return "", NewJsonLdError(MultipleContextLinkHeaders, nil)
				}
				target = strings.Trim(uriRef, "<>")
			}
		}
	}
	return target, nil
}

// CachingDocumentLoader is an overlay on top of a DocumentLoader
// instance which caches documents as soon as they get retrieved from
// the underlying loader, in a bounded LRU cache. You may also preload
// it with documents - this is useful for testing.
type CachingDocumentLoader struct {
	nextLoader DocumentLoader
	cache      *lru.Cache[string, *RemoteDocument]
}

// NewCachingDocumentLoader creates a new instance of CachingDocumentLoader.
func NewCachingDocumentLoader(nextLoader DocumentLoader) *CachingDocumentLoader {
	cache, _ := lru.New[string, *RemoteDocument](DefaultDocumentCacheSize)
	return &CachingDocumentLoader{
		nextLoader: nextLoader,
		cache:      cache,
	}
}

// LoadDocument returns a RemoteDocument containing the contents of the
// JSON resource from the given URL.
func (cdl *CachingDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	if doc, cached := cdl.cache.Get(u); cached {
		return doc, nil
	}

	doc, err := cdl.nextLoader.LoadDocument(u)
	if err != nil {
		return nil, err
	}
	cdl.cache.Add(u, doc)
	return doc, nil
}

// AddDocument populates the cache with the given document (doc) for the
// provided URL (u).
func (cdl *CachingDocumentLoader) AddDocument(u string, doc interface{}) {
	cdl.cache.Add(u, &RemoteDocument{DocumentURL: u, Document: doc, ContextURL: ""})
}

// PreloadWithMapping populates the cache with a number of documents
// which may be loaded from a location different from the original URL
// (most importantly, from local files).
//
// Example:
//
//	l.PreloadWithMapping(map[string]string{
//	    "http://www.example.com/context.json": "/home/me/cache/example_com_context.json",
//	})
func (cdl *CachingDocumentLoader) PreloadWithMapping(urlMap map[string]string) error {
	for srcURL, mappedURL := range urlMap {
		doc, err := cdl.nextLoader.LoadDocument(mappedURL)
		if err != nil {
			return err
		}
		cdl.cache.Add(srcURL, doc)
	}
	return nil
}

type cachedRemoteDocument struct {
	remoteDocument *RemoteDocument
	expireTime     time.Time
	neverExpires   bool
}

// RFC7324CachingDocumentLoader respects RFC 7234 HTTP caching headers
// in order to cache effectively.
type RFC7324CachingDocumentLoader struct {
	inner *DefaultDocumentLoader
	cache map[string]*cachedRemoteDocument
}

// NewRFC7324CachingDocumentLoader creates a new RFC7324CachingDocumentLoader.
func NewRFC7324CachingDocumentLoader(httpClient *http.Client) *RFC7324CachingDocumentLoader {
	return &RFC7324CachingDocumentLoader{
		inner: NewDefaultDocumentLoader(httpClient),
		cache: make(map[string]*cachedRemoteDocument),
	}
}

// LoadDocument returns a RemoteDocument containing the contents of the
// JSON resource from the given URL.
func (rcdl *RFC7324CachingDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	if entry, ok := rcdl.cache[u]; ok && (entry.neverExpires || entry.expireTime.After(time.Now())) {
		return entry.remoteDocument, nil
	}

	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("error parsing URL: %s", u))
	}

	// local files never change from the loader's point of view
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		rd, err := documentFromFile(u)
		if err != nil {
			return nil, err
		}
		rcdl.cache[u] = &cachedRemoteDocument{remoteDocument: rd, neverExpires: true}
		return rd, nil
	}

	res, err := rcdl.inner.get(u)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	rd, err := documentFromResponse(res)
	if err != nil {
		return nil, err
	}

	reasons, expireTime, err := cachecontrol.CachableResponse(res.Request, res, cachecontrol.Options{})
	if err == nil && len(reasons) == 0 {
		rcdl.cache[u] = &cachedRemoteDocument{remoteDocument: rd, expireTime: expireTime}
	}

	return rd, nil
}
