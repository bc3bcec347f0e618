package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

var (
	specOnce sync.Once
	specDoc  *openapi3.T
	specErr  error
)

// GetSwagger returns the parsed and validated OpenAPI document served at /openapi.yaml.
func GetSwagger() (*openapi3.T, error) {
	specOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(rawSpec)
		if err != nil {
			specErr = fmt.Errorf("error loading openapi document: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			specErr = fmt.Errorf("invalid openapi document: %w", err)
			return
		}
		specDoc = doc
	})
	return specDoc, specErr
}

// decodeBody reads a JSON request body, checks it against the named component schema and
// then decodes it into dest. Numbers stay json.Number throughout so integers above 2^53
// reach dest unchanged or fail to decode instead of losing precision.
func decodeBody(r *http.Request, schemaName string, dest any) error {
	var raw any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: malformed body: %v", domain.ErrInvalidInput, err)
	}

	doc, err := GetSwagger()
	if err != nil {
		return err
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("schema %q not found", schemaName)
	}
	if err := ref.Value.VisitJSON(raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	// Round trip through the validated value so dest sees exactly what was checked.
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// bindPathInt binds a simple-style integer path parameter.
func bindPathInt(name, value string) (int, error) {
	var dest int
	if err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, value, &dest); err != nil {
		return 0, fmt.Errorf("%w: invalid format for parameter %s: %v", domain.ErrInvalidStepIndex, name, err)
	}
	return dest, nil
}

// bindPathAlgorithm binds the {algorithm} path parameter and resolves it.
func bindPathAlgorithm(value string) (domain.Algorithm, error) {
	var name string
	if err := runtime.BindStyledParameterWithLocation("simple", false, "algorithm", runtime.ParamLocationPath, value, &name); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnknownAlgorithm, err)
	}
	return domain.ParseAlgorithm(name)
}
