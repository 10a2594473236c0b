// Package apispec embeds the OpenAPI document of the HTTP API.
package apispec

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var rawSpec []byte

// YAML returns the document as shipped.
func YAML() []byte {
	return rawSpec
}

// Load parses and validates the document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

type swaggerDoc string

func (d swaggerDoc) ReadDoc() string {
	return string(d)
}

var registerOnce sync.Once

// RegisterSwagger publishes doc as the default swag instance served by
// the Swagger UI under doc.json. Only the first call has an effect.
func RegisterSwagger(doc *openapi3.T) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	registerOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc(data))
	})
	return nil
}
