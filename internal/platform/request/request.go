// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkdex/inkdex/internal/platform/apperr"
	"github.com/inkdex/inkdex/internal/platform/ctxutil"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: apperr.ValidationError if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return apperr.ValidationError("Request body is not valid JSON")
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param retrieves a named URL parameter and parses it as an int64 id.

Returns:
  - int64: The parsed id
  - error: apperr.ValidationError for missing or non-numeric values
*/
func Int64Param(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationError("Parameter '" + name + "' must be a positive integer")
	}
	return id, nil
}

/*
RequiredIndexer returns the acting indexer's handle.

Returns:
  - string: The indexer handle from the X-Indexer header
  - error: apperr.ValidationError if the request does not carry one
*/
func RequiredIndexer(request *http.Request) (string, error) {
	indexer := ctxutil.GetIndexer(request.Context())
	if indexer == "" {
		return "", apperr.ValidationError("Request must identify the acting indexer via X-Indexer")
	}
	return indexer, nil
}
