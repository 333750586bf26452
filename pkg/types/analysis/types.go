// Package analysis defines the wire types exchanged with the patent
// infringement analysis service.
package analysis

import (
	"bytes"
	"encoding/json"
)

// Likelihood is the infringement likelihood label assigned to a product.
type Likelihood string

const (
	LikelihoodHigh     Likelihood = "High"
	LikelihoodModerate Likelihood = "Moderate"
	LikelihoodLow      Likelihood = "Low"
)

// IsKnown reports whether l is one of the labels the analysis service emits.
// Unknown labels are still displayed as-is.
func (l Likelihood) IsKnown() bool {
	switch l {
	case LikelihoodHigh, LikelihoodModerate, LikelihoodLow:
		return true
	default:
		return false
	}
}

// Request is the analysis submission payload.
type Request struct {
	PatentID    string `json:"patent_id"`
	CompanyName string `json:"company_name"`
}

// InfringingProduct is one entry of Result.TopInfringingProducts.
type InfringingProduct struct {
	ProductName            string     `json:"product_name"`
	InfringementLikelihood Likelihood `json:"infringement_likelihood"`
	RelevantClaims         []string   `json:"relevant_claims"`
	Explanation            string     `json:"explanation"`
	SpecificFeatures       []string   `json:"specific_features"`
}

// Result is a completed infringement analysis.
//
// Raw holds the response body exactly as received so it can be displayed with
// the server's key order intact.
type Result struct {
	AnalysisID            string              `json:"analysis_id"`
	PatentID              string              `json:"patent_id"`
	PatentTitle           string              `json:"patent_title"`
	CompanyName           string              `json:"company_name"`
	AnalysisDate          string              `json:"analysis_date"`
	TopInfringingProducts []InfringingProduct `json:"top_infringing_products"`
	OverallRiskAssessment string              `json:"overall_risk_assessment"`

	Raw json.RawMessage `json:"-"`
}

// PrettyJSON renders the result as two-space indented JSON. When Raw is set
// it is indented in place; otherwise the typed fields are marshalled.
func (r *Result) PrettyJSON() string {
	if r == nil {
		return ""
	}
	if len(r.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, r.Raw, "", "  "); err == nil {
			return buf.String()
		}
	}
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}
