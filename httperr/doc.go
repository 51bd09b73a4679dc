// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package httperr provides error types with HTTP status codes.

The repository package uses it to attach the status of failed registry
responses to the errors it returns, so callers can distinguish auth failures
from server faults with errors.As instead of substring checks:

	err := httperr.FromResponse(http.MethodGet, url, resp.StatusCode)
	if httperr.Code(err) == http.StatusUnauthorized {
		// credentials are wrong or missing, do not retry
	}
*/
package httperr
