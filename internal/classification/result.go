package classification

import "slices"

// DocumentType is the category assigned to a scanned insurance document.
type DocumentType string

// Document categories. LetterOfRepresentation is only valid when enabled
// in the classifier configuration.
const (
	Scope                  DocumentType = "Scope"
	Estimate               DocumentType = "Estimate"
	QuickMeasure           DocumentType = "Quick Measure"
	EagleView              DocumentType = "Eagle View"
	Check                  DocumentType = "Check"
	Correspondence         DocumentType = "Correspondence"
	Image                  DocumentType = "Image"
	Intake                 DocumentType = "Intake"
	Unidentifiable         DocumentType = "Unidentifiable"
	LetterOfRepresentation DocumentType = "Letter Of Representation"
)

var baseTypes = []DocumentType{
	Scope,
	Estimate,
	QuickMeasure,
	EagleView,
	Check,
	Correspondence,
	Image,
	Intake,
	Unidentifiable,
}

// DocumentTypes returns the allowed categories, optionally including
// LetterOfRepresentation.
func DocumentTypes(letterOfRepresentation bool) []DocumentType {
	types := slices.Clone(baseTypes)
	if letterOfRepresentation {
		types = append(types, LetterOfRepresentation)
	}
	return types
}

// Identifier field names as they appear in the response JSON.
const (
	FieldPolicyNumber        = "PolicyNumber"
	FieldClaimNumber         = "ClaimNumber"
	FieldInsuredName         = "InsuredName"
	FieldInsuredPhone        = "InsuredPhone"
	FieldInsuredEmail        = "InsuredEmail"
	FieldLossLocationAddress = "LossLocationAddress"
	FieldCarrier             = "Carrier"
)

// IdentifierFields lists every recognized identifier key in canonical order.
var IdentifierFields = []string{
	FieldPolicyNumber,
	FieldClaimNumber,
	FieldInsuredName,
	FieldInsuredPhone,
	FieldInsuredEmail,
	FieldLossLocationAddress,
	FieldCarrier,
}

// Identifier holds the fields extracted for a document. Nil fields were not
// found or do not apply to the document type.
type Identifier struct {
	PolicyNumber        *string `json:"PolicyNumber"`
	ClaimNumber         *string `json:"ClaimNumber"`
	InsuredName         *string `json:"InsuredName"`
	InsuredPhone        *string `json:"InsuredPhone"`
	InsuredEmail        *string `json:"InsuredEmail"`
	LossLocationAddress *string `json:"LossLocationAddress"`
	Carrier             *string `json:"Carrier"`
}

// Result is the validated classification returned to the caller.
type Result struct {
	DocumentType DocumentType `json:"DocumentType"`
	Identifier   *Identifier  `json:"Identifier"`
}
