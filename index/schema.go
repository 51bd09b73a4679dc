// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/version-entry.schema.json
var embeddedSchemaFS embed.FS

const entrySchemaFile = "data/version-entry.schema.json"

// Validate validates the VersionEntry against the version-entry schema.
// A schema violation is a Validation error: it is detected before any index
// file is touched.
func (e *VersionEntry) Validate() error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to serialize version entry: %w", err)
	}
	if err := validateAgainstSchema(data); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func validateAgainstSchema(data []byte) error {
	schemaBytes, err := embeddedSchemaFS.ReadFile(entrySchemaFile)
	if err != nil {
		return fmt.Errorf("failed to read embedded schema: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return errors.New("version entry schema validation failed: " + strings.Join(msgs, "; "))
	}

	return nil
}
