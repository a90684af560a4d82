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
)

// ErrorCode is a JSON-LD error code as per spec.
type ErrorCode string

// JsonLdError is a JSON-LD error as defined in the spec.
// See the allowed values and error messages below.
type JsonLdError struct {
	Code    ErrorCode
	Details interface{}
}

const (
	CyclicIRIMapping            ErrorCode = "cyclic IRI mapping"
	InvalidTermDefinition       ErrorCode = "invalid term definition"
	KeywordRedefinition         ErrorCode = "keyword redefinition"
	InvalidIRIMapping           ErrorCode = "invalid IRI mapping"
	InvalidReverseProperty      ErrorCode = "invalid reverse property"
	InvalidContainerMapping     ErrorCode = "invalid container mapping"
	InvalidTypeMapping          ErrorCode = "invalid type mapping"
	InvalidLanguageMapping      ErrorCode = "invalid language mapping"
	InvalidBaseDirection        ErrorCode = "invalid base direction"
	InvalidVocabMapping         ErrorCode = "invalid vocab mapping"
	InvalidBaseIRI              ErrorCode = "invalid base IRI"
	InvalidDefaultLanguage      ErrorCode = "invalid default language"
	InvalidPropagateValue       ErrorCode = "invalid @propagate value"
	InvalidProtectedValue       ErrorCode = "invalid @protected value"
	InvalidScopedContext        ErrorCode = "invalid scoped context"
	InvalidNestValue            ErrorCode = "invalid @nest value"
	InvalidPrefixValue          ErrorCode = "invalid @prefix value"
	InvalidContextEntry         ErrorCode = "invalid context entry"
	InvalidContextNullification ErrorCode = "invalid context nullification"
	InvalidImportValue          ErrorCode = "invalid @import value"
	InvalidRemoteContext        ErrorCode = "invalid remote context"
	InvalidVersionValue         ErrorCode = "invalid @version value"
	ProcessingModeConflict      ErrorCode = "processing mode conflict"
	LoadingDocumentFailed       ErrorCode = "loading document failed"
	LoadingRemoteContextFailed  ErrorCode = "loading remote context failed"
	RecursiveContextInclusion   ErrorCode = "recursive context inclusion"
	IRIConfusedWithPrefix       ErrorCode = "IRI confused with prefix"
	ProtectedTermRedefinition   ErrorCode = "protected term redefinition"
	InvalidKeywordAlias         ErrorCode = "invalid keyword alias"
	InvalidLocalContext         ErrorCode = "invalid local context"

	// non spec related errors
	MultipleContextLinkHeaders ErrorCode = "multiple context link headers"
	IOError                    ErrorCode = "io error"
)

func (e JsonLdError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%v: %v", e.Code, e.Details)
	}
	return fmt.Sprintf("%v", e.Code)
}

// Unwrap exposes the underlying cause, if Details carries one, so that
// errors.Is and errors.As can traverse into loader failures.
func (e JsonLdError) Unwrap() error {
	if err, isError := e.Details.(error); isError {
		return err
	}
	return nil
}

// NewJsonLdError creates a new instance of JsonLdError.
func NewJsonLdError(code ErrorCode, details interface{}) *JsonLdError {
	return &JsonLdError{Code: code, Details: details}
}
