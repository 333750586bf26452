package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/turtacn/patentlens/pkg/errors"
)

var productSchema = map[string]interface{}{
	"type": "object",
	"required": []interface{}{
		"product_name", "infringement_likelihood", "relevant_claims",
		"explanation", "specific_features",
	},
	"properties": map[string]interface{}{
		"product_name":            map[string]interface{}{"type": "string"},
		"infringement_likelihood": map[string]interface{}{"type": "string"},
		"relevant_claims": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"explanation": map[string]interface{}{"type": "string"},
		"specific_features": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
	},
}

// ResultSchema is the JSON Schema (draft-04) a successful analysis response
// must satisfy. Additional properties are allowed.
var ResultSchema = map[string]interface{}{
	"$schema": "http://json-schema.org/draft-04/schema#",
	"type":    "object",
	"required": []interface{}{
		"analysis_id", "patent_id", "patent_title", "company_name",
		"analysis_date", "top_infringing_products", "overall_risk_assessment",
	},
	"properties": map[string]interface{}{
		"analysis_id":   map[string]interface{}{"type": "string"},
		"patent_id":     map[string]interface{}{"type": "string"},
		"patent_title":  map[string]interface{}{"type": "string"},
		"company_name":  map[string]interface{}{"type": "string"},
		"analysis_date": map[string]interface{}{"type": "string"},
		"top_infringing_products": map[string]interface{}{
			"type":  "array",
			"items": productSchema,
		},
		"overall_risk_assessment": map[string]interface{}{"type": "string"},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *gojsonschema.Schema
	compileErr     error
)

func schema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(ResultSchema))
	})
	return compiledSchema, compileErr
}

// Validate checks body against ResultSchema.
func Validate(body []byte) error {
	s, err := schema()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "compile result schema")
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "analysis response is not valid JSON").
			WithDetail(err.Error())
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.New(errors.ErrCodeResultInvalid, "analysis response failed validation").
			WithDetail(strings.Join(errs, "; "))
	}
	return nil
}

// ParseResult validates body against ResultSchema and decodes it. The
// returned Result keeps a copy of body in Raw.
func ParseResult(body []byte) (*Result, error) {
	if !json.Valid(body) {
		return nil, errors.New(errors.ErrCodeSerialization, "analysis response is not valid JSON").
			WithDetail(fmt.Sprintf("%d bytes", len(body)))
	}
	if err := Validate(body); err != nil {
		return nil, err
	}

	var r Result
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode analysis response").
			WithDetail(err.Error())
	}
	r.Raw = append(json.RawMessage(nil), body...)
	return &r, nil
}
