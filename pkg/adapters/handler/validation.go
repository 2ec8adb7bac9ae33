package handler

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// maxBodyBytes bounds request bodies; content alone may be 20000 runes.
const maxBodyBytes = 256 << 10

var (
	createPostSchema = mustSchema("post_create.json")
	updatePostSchema = mustSchema("post_update.json")
	sessionSchema    = mustSchema("session.json")
)

func mustSchema(name string) *jsonschema.Schema {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}
	return jsonschema.MustCompileString(name, string(raw))
}

// decodeBody validates the JSON body against schema and decodes it into dst.
// Every failure is a *domain.ValidationError.
func decodeBody(r *http.Request, schema *jsonschema.Schema, dst interface{}) error {
	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return domain.NewValidationError("body", "is too large or unreadable")
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.NewValidationError("body", "is not valid JSON")
	}
	if err := schema.Validate(doc); err != nil {
		return schemaError(err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.NewValidationError("body", "has the wrong shape")
	}
	return nil
}

// schemaError reports the deepest failing keyword.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return domain.NewValidationError("body", "is invalid")
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	if field == "" {
		field = "body"
	}
	return domain.NewValidationError(field, ve.Message)
}
