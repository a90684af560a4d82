package ld

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorDocumentLoader struct {
	err error
}

func (l errorDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	return nil, l.err
}

// fakeDocumentLoader serves canned documents from memory.
type fakeDocumentLoader struct {
	docs  map[string]interface{}
	loads []string
}

func (l *fakeDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	l.loads = append(l.loads, u)
	doc, found := l.docs[u]
	if !found {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("no document for %s", u))
	}
	return &RemoteDocument{DocumentURL: u, Document: doc}, nil
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Printf(format string, v ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(format, v...))
}

func assertErrorCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	ldError := new(JsonLdError)
	require.ErrorAs(t, err, &ldError)
	assert.Equal(t, code, ldError.Code)
}

func TestContext_Parse_LoaderFailures(t *testing.T) {
	expectedError := errors.New("failed")
	opts := NewJsonLdOptions("")
	opts.DocumentLoader = errorDocumentLoader{err: expectedError}

	t.Run("DocumentLoader can't resolve @context URL", func(t *testing.T) {
		ctx := NewContext(opts)
		_, err := ctx.Parse("http://example.org/foo.ldjson")
		assertErrorCode(t, err, LoadingRemoteContextFailed)
		assert.ErrorIs(t, err, expectedError, "DocumentLoader error is not wrapped")
	})
	t.Run("DocumentLoader can't resolve @import", func(t *testing.T) {
		ctx := NewContext(opts)
		_, err := ctx.Parse(map[string]interface{}{
			"@import": "http://example.org/foo.ldjson",
		})
		assertErrorCode(t, err, LoadingRemoteContextFailed)
		assert.ErrorIs(t, err, expectedError, "DocumentLoader error is not wrapped")
	})
}

func TestContext_Parse_TermDefinitions(t *testing.T) {
	opts := NewJsonLdOptions("")

	t.Run("term wins over vocab", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"@vocab": "http://ex.com/",
			"name":   map[string]interface{}{"@id": "http://other.com/name"},
		})
		require.NoError(t, err)

		res, err := ctx.ExpandIri("name", false, true)
		require.NoError(t, err)
		assert.Equal(t, "http://other.com/name", res)

		res, err = ctx.ExpandIri("other", false, true)
		require.NoError(t, err)
		assert.Equal(t, "http://ex.com/other", res)
	})

	t.Run("compact IRI with undefined prefix is kept verbatim", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"@vocab": "http://ex.com/",
			"name":   "ex:n",
		})
		require.NoError(t, err)

		// "ex:n" already has the form of an absolute IRI, so neither the
		// vocabulary mapping nor prefix resolution applies
		res, err := ctx.ExpandIri("name", false, true)
		require.NoError(t, err)
		assert.Equal(t, "ex:n", res)

		res, err = ctx.ExpandIri("ex:n", false, true)
		require.NoError(t, err)
		assert.Equal(t, "ex:n", res)
	})

	t.Run("term ending in gen-delim becomes a prefix", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"foaf": "http://xmlns.com/foaf/0.1/",
		})
		require.NoError(t, err)

		td := ctx.GetTermDefinition("foaf")
		require.NotNil(t, td)
		assert.True(t, td.Prefix)

		res, err := ctx.ExpandIri("foaf:name", false, true)
		require.NoError(t, err)
		assert.Equal(t, "http://xmlns.com/foaf/0.1/name", res)
	})

	t.Run("term mapped to a non-gen-delim IRI is not a prefix", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"name": "http://ex.com/name",
		})
		require.NoError(t, err)

		td := ctx.GetTermDefinition("name")
		require.NotNil(t, td)
		assert.False(t, td.Prefix)
	})

	t.Run("expanding a defined term yields its IRI mapping", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"@vocab": "http://vocab.example/",
			"simple": "http://ex.com/simple",
			"typed": map[string]interface{}{
				"@id":   "http://ex.com/typed",
				"@type": "@id",
			},
			"vocabbed": "relative",
		})
		require.NoError(t, err)

		for term, iri := range map[string]string{
			"simple":   "http://ex.com/simple",
			"typed":    "http://ex.com/typed",
			"vocabbed": "http://vocab.example/relative",
		} {
			res, err := ctx.ExpandIri(term, false, true)
			require.NoError(t, err)
			assert.Equal(t, iri, res, term)
		}
	})

	t.Run("null term definition decouples the term", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"@vocab": "http://ex.com/",
			"hidden": nil,
		})
		require.NoError(t, err)

		res, err := ctx.ExpandIri("hidden", false, true)
		require.NoError(t, err)
		assert.Equal(t, "", res)
	})

	t.Run("cyclic term definitions are detected", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"a": "b:x",
			"b": "a:y",
		})
		assertErrorCode(t, err, CyclicIRIMapping)
	})

	t.Run("relative term definition without vocab fails", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"name": map[string]interface{}{"@container": "@set"},
		})
		assertErrorCode(t, err, InvalidIRIMapping)
	})

	t.Run("keyword-like terms warn and are skipped", func(t *testing.T) {
		logger := &recordingLogger{}
		loggingOpts := NewJsonLdOptions("")
		loggingOpts.WarningLogger = logger

		ctx, err := NewContext(loggingOpts).Parse(map[string]interface{}{
			"@foo": "http://ex.com/foo",
			"name": "http://ex.com/name",
		})
		require.NoError(t, err)
		assert.Nil(t, ctx.GetTermDefinition("@foo"))
		assert.NotNil(t, ctx.GetTermDefinition("name"))
		assert.NotEmpty(t, logger.messages)
	})
}

func TestContext_Parse_KeywordRedefinition(t *testing.T) {
	opts := NewJsonLdOptions("")

	t.Run("@type with @container @set and @protected is allowed", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"@type": map[string]interface{}{
				"@container": "@set",
				"@protected": true,
			},
		})
		require.NoError(t, err)
		td := ctx.GetTermDefinition("@type")
		require.NotNil(t, td)
		assert.Equal(t, "@type", td.ID)
		assert.True(t, td.Protected)
		assert.Equal(t, []string{"@set"}, td.Container)
	})

	t.Run("any other @type shape is rejected", func(t *testing.T) {
		for _, value := range []interface{}{
			"http://ex.com/type",
			map[string]interface{}{"@container": "@id"},
			map[string]interface{}{"@id": "http://ex.com/type"},
		} {
			_, err := NewContext(opts).Parse(map[string]interface{}{"@type": value})
			assertErrorCode(t, err, KeywordRedefinition)
		}
	})

	t.Run("other keywords may never be redefined", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"@id": "http://ex.com/id",
		})
		assertErrorCode(t, err, KeywordRedefinition)
	})

	t.Run("@context cannot be aliased", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"ctx": "@context",
		})
		assertErrorCode(t, err, InvalidKeywordAlias)
	})
}

func TestContext_Parse_ProtectedTerms(t *testing.T) {
	base := map[string]interface{}{
		"name": map[string]interface{}{
			"@id":        "http://a",
			"@protected": true,
		},
	}

	t.Run("redefinition fails without override", func(t *testing.T) {
		ctx, err := NewContext(NewJsonLdOptions("")).Parse(base)
		require.NoError(t, err)

		_, err = ctx.Parse(map[string]interface{}{"name": "http://b"})
		assertErrorCode(t, err, ProtectedTermRedefinition)

		// the original definition is untouched
		assert.Equal(t, "http://a", ctx.GetTermDefinition("name").ID)
	})

	t.Run("identical redefinition is allowed", func(t *testing.T) {
		ctx, err := NewContext(NewJsonLdOptions("")).Parse(base)
		require.NoError(t, err)

		next, err := ctx.Parse(map[string]interface{}{"name": "http://a"})
		require.NoError(t, err)
		assert.True(t, next.GetTermDefinition("name").Protected)
	})

	t.Run("redefinition succeeds with override", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		opts.OverrideProtected = true
		ctx, err := NewContext(opts).Parse(base)
		require.NoError(t, err)

		next, err := ctx.Parse(map[string]interface{}{"name": "http://b"})
		require.NoError(t, err)
		assert.Equal(t, "http://b", next.GetTermDefinition("name").ID)
	})

	t.Run("nullification fails with protected terms", func(t *testing.T) {
		ctx, err := NewContext(NewJsonLdOptions("")).Parse(base)
		require.NoError(t, err)

		_, err = ctx.Parse(nil)
		assertErrorCode(t, err, InvalidContextNullification)
	})

	t.Run("nullification succeeds with override", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		opts.OverrideProtected = true
		ctx, err := NewContext(opts).Parse(base)
		require.NoError(t, err)

		next, err := ctx.Parse(nil)
		require.NoError(t, err)
		assert.Nil(t, next.GetTermDefinition("name"))
	})

	t.Run("@protected as context default", func(t *testing.T) {
		ctx, err := NewContext(NewJsonLdOptions("")).Parse(map[string]interface{}{
			"@protected": true,
			"a":          "http://ex.com/a",
			"b": map[string]interface{}{
				"@id":        "http://ex.com/b",
				"@protected": false,
			},
		})
		require.NoError(t, err)
		assert.True(t, ctx.GetTermDefinition("a").Protected)
		assert.False(t, ctx.GetTermDefinition("b").Protected)
	})
}

func TestContext_Parse_RemoteContexts(t *testing.T) {
	loader := &fakeDocumentLoader{docs: map[string]interface{}{
		"https://example.com/ctx": map[string]interface{}{
			"@context": map[string]interface{}{
				"name": "http://example.com/name",
			},
		},
		"https://example.com/self": map[string]interface{}{
			"@context": "https://example.com/self",
		},
		"https://example.com/x": map[string]interface{}{
			"@context": "https://example.com/y",
		},
		"https://example.com/y": map[string]interface{}{
			"@context": "https://example.com/x",
		},
		"https://example.com/no-context": map[string]interface{}{
			"name": "http://example.com/name",
		},
		"https://example.com/base": map[string]interface{}{
			"@context": map[string]interface{}{
				"@base": "http://remote-base.example/",
				"term":  "http://example.com/term",
			},
		},
	}}

	newOpts := func() *JsonLdOptions {
		opts := NewJsonLdOptions("")
		opts.DocumentLoader = loader
		return opts
	}

	t.Run("remote context is folded in", func(t *testing.T) {
		ctx, err := NewContext(newOpts()).Parse("https://example.com/ctx")
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/name", ctx.GetTermDefinition("name").ID)
	})

	t.Run("self-referential remote context is an inclusion cycle", func(t *testing.T) {
		_, err := NewContext(newOpts()).Parse("https://example.com/self")
		assertErrorCode(t, err, RecursiveContextInclusion)
	})

	t.Run("three-hop cycle is detected on the second push", func(t *testing.T) {
		_, err := NewContext(newOpts()).Parse("https://example.com/x")
		assertErrorCode(t, err, RecursiveContextInclusion)
	})

	t.Run("document without @context is invalid", func(t *testing.T) {
		_, err := NewContext(newOpts()).Parse("https://example.com/no-context")
		assertErrorCode(t, err, InvalidRemoteContext)
	})

	t.Run("@base in a remote context is ignored", func(t *testing.T) {
		opts := newOpts()
		opts.Base = "http://local.example/doc"
		ctx, err := NewContext(opts).Parse("https://example.com/base")
		require.NoError(t, err)
		assert.NotNil(t, ctx.GetTermDefinition("term"))

		res, err := ctx.ExpandIri("relative", true, false)
		require.NoError(t, err)
		assert.Equal(t, "http://local.example/relative", res)
	})

	t.Run("relative context URL without a base fails", func(t *testing.T) {
		_, err := NewContext(newOpts()).Parse("relative/context.jsonld")
		assertErrorCode(t, err, LoadingDocumentFailed)
	})
}

func TestContext_Parse_Import(t *testing.T) {
	loader := &fakeDocumentLoader{docs: map[string]interface{}{
		"https://example.com/imported": map[string]interface{}{
			"@context": map[string]interface{}{
				"a": "http://imported.example/a",
				"b": "http://imported.example/b",
			},
		},
		"https://example.com/nested-import": map[string]interface{}{
			"@context": map[string]interface{}{
				"@import": "https://example.com/imported",
			},
		},
		"https://example.com/array-context": map[string]interface{}{
			"@context": []interface{}{"https://example.com/imported"},
		},
	}}

	opts := NewJsonLdOptions("")
	opts.DocumentLoader = loader

	t.Run("outer entries win over imported ones", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"@import": "https://example.com/imported",
			"b":       "http://local.example/b",
		})
		require.NoError(t, err)
		assert.Equal(t, "http://imported.example/a", ctx.GetTermDefinition("a").ID)
		assert.Equal(t, "http://local.example/b", ctx.GetTermDefinition("b").ID)
	})

	t.Run("nested @import is rejected", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"@import": "https://example.com/nested-import",
		})
		assertErrorCode(t, err, InvalidContextEntry)
	})

	t.Run("imported context must be a context definition", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"@import": "https://example.com/array-context",
		})
		assertErrorCode(t, err, InvalidRemoteContext)
	})

	t.Run("@import requires 1.1 mode", func(t *testing.T) {
		opts10 := NewJsonLdOptions("")
		opts10.DocumentLoader = loader
		opts10.ProcessingMode = JsonLd_1_0
		_, err := NewContext(opts10).Parse(map[string]interface{}{
			"@import": "https://example.com/imported",
		})
		assertErrorCode(t, err, InvalidContextEntry)
	})

	t.Run("@import must be a string", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"@import": true,
		})
		assertErrorCode(t, err, InvalidImportValue)
	})
}

func TestContext_Parse_VersionAndMode(t *testing.T) {
	t.Run("@version 1.1 in 1.0 mode conflicts", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		opts.ProcessingMode = JsonLd_1_0
		_, err := NewContext(opts).Parse(map[string]interface{}{"@version": 1.1})
		assertErrorCode(t, err, ProcessingModeConflict)
	})

	t.Run("unsupported @version value", func(t *testing.T) {
		_, err := NewContext(NewJsonLdOptions("")).Parse(map[string]interface{}{"@version": 1.0})
		assertErrorCode(t, err, InvalidVersionValue)
	})

	t.Run("1.1 features are rejected in 1.0 mode", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		opts.ProcessingMode = JsonLd_1_0

		_, err := NewContext(opts).Parse(map[string]interface{}{"@propagate": true})
		assertErrorCode(t, err, InvalidContextEntry)

		_, err = NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":        "http://ex.com/term",
				"@protected": true,
			},
		})
		assertErrorCode(t, err, InvalidTermDefinition)

		_, err = NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":        "http://ex.com/term",
				"@container": "@graph",
			},
		})
		assertErrorCode(t, err, InvalidContainerMapping)
	})
}

func TestContext_Parse_BaseVocabLanguageDirection(t *testing.T) {
	opts := NewJsonLdOptions("http://example.com/doc")

	t.Run("@base null clears and relative @base resolves", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{"@base": "sub/"})
		require.NoError(t, err)
		res, err := ctx.ExpandIri("x", true, false)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/sub/x", res)

		ctx, err = NewContext(opts).Parse(map[string]interface{}{"@base": nil})
		require.NoError(t, err)
		res, err = ctx.ExpandIri("x", true, false)
		require.NoError(t, err)
		assert.Equal(t, "x", res)
	})

	t.Run("@vocab must be an IRI", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{"@vocab": 17.0})
		assertErrorCode(t, err, InvalidVocabMapping)
	})

	t.Run("@language is lowercased, non-strings rejected", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{"@language": "EN"})
		require.NoError(t, err)
		val, err := ctx.ExpandValue("prop", "hello")
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"@value": "hello", "@language": "en"}, val)

		_, err = NewContext(opts).Parse(map[string]interface{}{"@language": 42.0})
		assertErrorCode(t, err, InvalidDefaultLanguage)
	})

	t.Run("malformed @language warns but is kept", func(t *testing.T) {
		logger := &recordingLogger{}
		loggingOpts := NewJsonLdOptions("")
		loggingOpts.WarningLogger = logger

		_, err := NewContext(loggingOpts).Parse(map[string]interface{}{"@language": "not a language"})
		require.NoError(t, err)
		assert.NotEmpty(t, logger.messages)
	})

	t.Run("@direction accepts ltr, rtl and null only", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{"@direction": "rtl"})
		require.NoError(t, err)
		assert.Equal(t, "rtl", ctx.GetDirectionMapping("anything"))

		_, err = NewContext(opts).Parse(map[string]interface{}{"@direction": "up"})
		assertErrorCode(t, err, InvalidBaseDirection)
	})
}

func TestContext_Parse_Propagate(t *testing.T) {
	opts := NewJsonLdOptions("")

	ctx, err := NewContext(opts).Parse(map[string]interface{}{
		"name": "http://example.com/name",
	})
	require.NoError(t, err)

	t.Run("@propagate false retains the previous context", func(t *testing.T) {
		scoped, err := ctx.Parse(map[string]interface{}{
			"@propagate": false,
			"extra":      "http://example.com/extra",
		})
		require.NoError(t, err)
		assert.NotNil(t, scoped.GetTermDefinition("extra"))

		reverted := scoped.RevertToPreviousContext()
		assert.Nil(t, reverted.GetTermDefinition("extra"))
		assert.NotNil(t, reverted.GetTermDefinition("name"))
	})

	t.Run("without @propagate there is nothing to revert to", func(t *testing.T) {
		next, err := ctx.Parse(map[string]interface{}{
			"extra": "http://example.com/extra",
		})
		require.NoError(t, err)
		reverted := next.RevertToPreviousContext()
		assert.NotNil(t, reverted.GetTermDefinition("extra"))
	})

	t.Run("@propagate must be boolean", func(t *testing.T) {
		_, err := ctx.Parse(map[string]interface{}{"@propagate": "yes"})
		assertErrorCode(t, err, InvalidPropagateValue)
	})
}

func TestContext_Parse_ScopedContexts(t *testing.T) {
	opts := NewJsonLdOptions("")

	t.Run("valid scoped context is captured verbatim", func(t *testing.T) {
		scoped := map[string]interface{}{"inner": "http://example.com/inner"}
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":      "http://example.com/term",
				"@context": scoped,
			},
		})
		require.NoError(t, err)
		td := ctx.GetTermDefinition("term")
		require.NotNil(t, td)
		assert.True(t, td.HasContext)
		assert.Equal(t, scoped, td.Context)
		// the scoped context was only validated, not applied
		assert.Nil(t, ctx.GetTermDefinition("inner"))
	})

	t.Run("a broken scoped context fails eagerly", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":      "http://example.com/term",
				"@context": map[string]interface{}{"@version": 2.0},
			},
		})
		assertErrorCode(t, err, InvalidScopedContext)
	})

	t.Run("scoped contexts may override protected terms", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"@protected": true,
			"name":       "http://example.com/name",
		})
		require.NoError(t, err)

		// a null scoped context would nullify protected terms, which is
		// only legal with override_protected in force
		_, err = ctx.Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":      "http://example.com/term",
				"@context": nil,
			},
		})
		require.NoError(t, err)
	})
}

func TestContext_Parse_Idempotence(t *testing.T) {
	opts := NewJsonLdOptions("")
	localContext := map[string]interface{}{
		"@vocab": "http://vocab.example/",
		"name":   "http://example.com/name",
		"label": map[string]interface{}{
			"@id":        "http://example.com/label",
			"@container": "@language",
		},
	}

	once, err := NewContext(opts).Parse(localContext)
	require.NoError(t, err)
	twice, err := once.Parse(localContext)
	require.NoError(t, err)

	assert.Equal(t, once.termDefinitions, twice.termDefinitions)
	assert.Equal(t, once.termOrder, twice.termOrder)
	assert.Equal(t, once.GetInverse(), twice.GetInverse())
}

func TestContext_Parse_ReceiverUnchanged(t *testing.T) {
	opts := NewJsonLdOptions("")
	ctx, err := NewContext(opts).Parse(map[string]interface{}{
		"name": "http://example.com/name",
	})
	require.NoError(t, err)

	_, err = ctx.Parse(map[string]interface{}{
		"name":  "http://example.com/other",
		"extra": "http://example.com/extra",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/name", ctx.GetTermDefinition("name").ID)
	assert.Nil(t, ctx.GetTermDefinition("extra"))
}

func TestContext_Parse_ReverseProperties(t *testing.T) {
	opts := NewJsonLdOptions("")

	t.Run("@reverse defines a reverse property", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"children": map[string]interface{}{
				"@reverse":   "http://example.com/parent",
				"@container": "@set",
			},
		})
		require.NoError(t, err)
		td := ctx.GetTermDefinition("children")
		require.NotNil(t, td)
		assert.True(t, td.Reverse)
		assert.Equal(t, "http://example.com/parent", td.ID)
		assert.True(t, ctx.IsReverseProperty("children"))
	})

	t.Run("@reverse refuses @id and disallowed containers", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"children": map[string]interface{}{
				"@reverse": "http://example.com/parent",
				"@id":      "http://example.com/children",
			},
		})
		assertErrorCode(t, err, InvalidReverseProperty)

		_, err = NewContext(opts).Parse(map[string]interface{}{
			"children": map[string]interface{}{
				"@reverse":   "http://example.com/parent",
				"@container": "@list",
			},
		})
		assertErrorCode(t, err, InvalidReverseProperty)
	})
}

func TestContext_Parse_ContainerValidation(t *testing.T) {
	opts := NewJsonLdOptions("")

	valid := []interface{}{
		"@list",
		"@set",
		[]interface{}{"@index", "@set"},
		[]interface{}{"@graph", "@id"},
		[]interface{}{"@graph", "@index", "@set"},
		[]interface{}{"@type", "@set"},
	}
	for _, containerVal := range valid {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":        "http://example.com/term",
				"@container": containerVal,
			},
		})
		assert.NoError(t, err, fmt.Sprintf("%v", containerVal))
	}

	invalid := []interface{}{
		"@value",
		[]interface{}{"@list", "@set"},
		[]interface{}{"@id", "@index"},
		[]interface{}{"@graph", "@id", "@index"},
		[]interface{}{"@graph", "@language"},
	}
	for _, containerVal := range invalid {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":        "http://example.com/term",
				"@container": containerVal,
			},
		})
		assertErrorCode(t, err, InvalidContainerMapping)
	}

	t.Run("@type container forces an @id type mapping", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":        "http://example.com/term",
				"@container": "@type",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "@id", ctx.GetTypeMapping("term"))

		_, err = NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":        "http://example.com/term",
				"@container": "@type",
				"@type":      "http://www.w3.org/2001/XMLSchema#string",
			},
		})
		assertErrorCode(t, err, InvalidTypeMapping)
	})
}

func TestContext_Parse_IndexNestPrefix(t *testing.T) {
	opts := NewJsonLdOptions("")

	t.Run("@index requires an @index container and an IRI value", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"@vocab": "http://vocab.example/",
			"term": map[string]interface{}{
				"@id":        "http://example.com/term",
				"@container": "@index",
				"@index":     "prop",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "prop", ctx.GetTermDefinition("term").Index)

		_, err = NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":    "http://example.com/term",
				"@index": "prop",
			},
		})
		assertErrorCode(t, err, InvalidTermDefinition)
	})

	t.Run("@nest must be @nest or a non-keyword", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":   "http://example.com/term",
				"@nest": "metadata",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "metadata", ctx.GetTermDefinition("term").Nest)

		_, err = NewContext(opts).Parse(map[string]interface{}{
			"term": map[string]interface{}{
				"@id":   "http://example.com/term",
				"@nest": "@id",
			},
		})
		assertErrorCode(t, err, InvalidNestValue)
	})

	t.Run("@prefix controls compact IRI use", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"ex": map[string]interface{}{
				"@id":     "http://example.com/vocab#",
				"@prefix": true,
			},
		})
		require.NoError(t, err)
		res, err := ctx.ExpandIri("ex:name", false, true)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/vocab#name", res)

		_, err = NewContext(opts).Parse(map[string]interface{}{
			"ex": "http://example.com/",
			"ex:a": map[string]interface{}{
				"@id":     "http://example.com/a",
				"@prefix": true,
			},
		})
		assertErrorCode(t, err, InvalidTermDefinition)

		_, err = NewContext(opts).Parse(map[string]interface{}{
			"ex": map[string]interface{}{
				"@id":     "http://example.com/vocab#",
				"@prefix": "yes",
			},
		})
		assertErrorCode(t, err, InvalidPrefixValue)
	})

	t.Run("terms that look like IRIs must match their expansion", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"ex":   "http://example.com/",
			"ex:a": "http://other.com/a",
		})
		assertErrorCode(t, err, InvalidIRIMapping)

		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"ex":   "http://example.com/",
			"ex:a": "http://example.com/a",
		})
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/a", ctx.GetTermDefinition("ex:a").ID)
	})
}
