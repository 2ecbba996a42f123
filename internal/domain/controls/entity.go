package controls

import (
	"fmt"
	"time"
)

// Category enum
type Category string

const (
	CategoryExplainability Category = "Explainability"
	CategoryDataBias       Category = "Data&Bias"
	CategoryCompliance     Category = "Compliance"
	CategoryRisk           Category = "Risk"
	CategoryOperations     Category = "Operations"
)

// EvaluationStatus enum
type EvaluationStatus string

const (
	EvalPassed        EvaluationStatus = "passed"
	EvalFailed        EvaluationStatus = "failed"
	EvalNotApplicable EvaluationStatus = "not_applicable"
	EvalNeedsReview   EvaluationStatus = "needs_review"
)

// CatalogEntry is one governance control from the catalog collection.
type CatalogEntry struct {
	ControlID                  string   `json:"control_id"`
	FrameworkReference         string   `json:"framework_reference"`
	RegulatoryFocus            string   `json:"regulatory_focus"`
	Category                   Category `json:"category"`
	Accountability             string   `json:"accountability"`
	Description                string   `json:"description"`
	MandatoryForProd           bool     `json:"mandatory_for_prod"`
	AppliesToUseCaseCategories []string `json:"applies_to_use_case_categories"`
}

func (c *CatalogEntry) Validate() error {
	if c.ControlID == "" {
		return fmt.Errorf("control_id is required")
	}
	switch c.Category {
	case CategoryExplainability, CategoryDataBias, CategoryCompliance, CategoryRisk, CategoryOperations:
	default:
		return fmt.Errorf("invalid category: %q", c.Category)
	}
	return nil
}

// CatalogUpdate carries a partial update; nil fields are left untouched.
type CatalogUpdate struct {
	FrameworkReference         *string   `json:"framework_reference,omitempty"`
	RegulatoryFocus            *string   `json:"regulatory_focus,omitempty"`
	Category                   *Category `json:"category,omitempty"`
	Accountability             *string   `json:"accountability,omitempty"`
	Description                *string   `json:"description,omitempty"`
	MandatoryForProd           *bool     `json:"mandatory_for_prod,omitempty"`
	AppliesToUseCaseCategories []string  `json:"applies_to_use_case_categories,omitempty"`
}

// Attrs returns only the attributes actually set, keyed by storage field name.
func (u *CatalogUpdate) Attrs() (map[string]any, error) {
	attrs := map[string]any{}
	if u.FrameworkReference != nil {
		attrs["framework_reference"] = *u.FrameworkReference
	}
	if u.RegulatoryFocus != nil {
		attrs["regulatory_focus"] = *u.RegulatoryFocus
	}
	if u.Category != nil {
		switch *u.Category {
		case CategoryExplainability, CategoryDataBias, CategoryCompliance, CategoryRisk, CategoryOperations:
		default:
			return nil, fmt.Errorf("invalid category: %q", *u.Category)
		}
		attrs["category"] = string(*u.Category)
	}
	if u.Accountability != nil {
		attrs["accountability"] = *u.Accountability
	}
	if u.Description != nil {
		attrs["description"] = *u.Description
	}
	if u.MandatoryForProd != nil {
		attrs["mandatory_for_prod"] = *u.MandatoryForProd
	}
	if u.AppliesToUseCaseCategories != nil {
		cats := make([]any, len(u.AppliesToUseCaseCategories))
		for i, c := range u.AppliesToUseCaseCategories {
			cats[i] = c
		}
		attrs["applies_to_use_case_categories"] = cats
	}
	return attrs, nil
}

// Evaluation is one model-specific control evaluation event.
type Evaluation struct {
	ModelID       string           `json:"model_id"`
	ControlID     string           `json:"control_id"`
	Status        EvaluationStatus `json:"status"`
	Rationale     string           `json:"rationale"`
	EvidenceLinks []string         `json:"evidence_links"`
	LastUpdated   time.Time        `json:"last_updated"`
}

func (e *Evaluation) Validate() error {
	if e.ControlID == "" {
		return fmt.Errorf("control_id is required")
	}
	switch e.Status {
	case EvalPassed, EvalFailed, EvalNotApplicable, EvalNeedsReview:
	default:
		return fmt.Errorf("invalid status: %q", e.Status)
	}
	return nil
}
