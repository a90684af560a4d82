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

const (
	JsonLd_1_0 = "json-ld-1.0" //nolint:stylecheck
	JsonLd_1_1 = "json-ld-1.1" //nolint:stylecheck
)

// WarningLogger receives non-fatal processing warnings, such as terms
// that look like keywords or malformed language tags. *log.Logger
// satisfies the interface. A nil logger silences warnings.
type WarningLogger interface {
	Printf(format string, v ...interface{})
}

// JsonLdOptions type as specified in the JSON-LD-API specification:
// http://www.w3.org/TR/json-ld-api/#the-jsonldoptions-type
type JsonLdOptions struct { //nolint:stylecheck

	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-base
	Base string
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-compactArrays
	CompactArrays bool
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-processingMode
	ProcessingMode string
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-documentLoader
	DocumentLoader DocumentLoader

	// OverrideProtected allows protected term definitions to be
	// replaced. Property-scoped contexts set it internally.
	OverrideProtected bool
	// Propagate controls whether the context flows into child node
	// objects. When false, a previous-context snapshot is retained.
	Propagate bool

	// WarningLogger receives non-fatal warnings. Nil means silent.
	WarningLogger WarningLogger
}

// NewJsonLdOptions creates and returns new instance of JsonLdOptions
// with the given base.
func NewJsonLdOptions(base string) *JsonLdOptions { //nolint:stylecheck
	return &JsonLdOptions{
		Base:              base,
		CompactArrays:     true,
		ProcessingMode:    JsonLd_1_1,
		DocumentLoader:    NewDefaultDocumentLoader(nil),
		OverrideProtected: false,
		Propagate:         true,
	}
}

// Copy creates a deep copy of JsonLdOptions object.
func (opt *JsonLdOptions) Copy() *JsonLdOptions {
	return &JsonLdOptions{
		Base:              opt.Base,
		CompactArrays:     opt.CompactArrays,
		ProcessingMode:    opt.ProcessingMode,
		DocumentLoader:    opt.DocumentLoader,
		OverrideProtected: opt.OverrideProtected,
		Propagate:         opt.Propagate,
		WarningLogger:     opt.WarningLogger,
	}
}
