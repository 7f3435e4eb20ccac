package classification

import (
	"fmt"
	"strings"
	"text/template"
)

const instructionsTemplate = `You are a document classifier and data extractor for insurance claim files. The images provided are the sequential pages of one document, in page order. Follow these instructions precisely.

1. Initial scan: begin with the first two pages and determine the document type from them.

2. Data extraction: based on the document type, extract only the identifier fields listed for it:
{{- range .Requirements}}
   - {{.Types}}: {{.Fields}}
{{- end}}

   Special rule: if an estimate was written by "{{.EstimateAuthor}}", set DocumentType to "Estimate". If the document is an estimate written by anyone else, set DocumentType to "Scope".

3. Stop condition: use as few pages as necessary. If every required field for the document type is found in the first two pages, ignore the remaining pages. Otherwise continue page by page only until all required fields are found or no pages remain.

4. Fallback: if the document cannot be clearly identified, set DocumentType to "Unidentifiable" and Identifier to null.`

const outputSpecTemplate = `Respond with a JSON object matching this exact structure:

{
  "DocumentType": "<one of: {{.TypeList}}>",
  "Identifier": {
    "PolicyNumber": "<policy number or null>",
    "ClaimNumber": "<claim number or null>",
    "InsuredName": "<insured name or null>",
    "InsuredPhone": "<insured phone or null>",
    "InsuredEmail": "<insured email or null>",
    "LossLocationAddress": "<loss location address or null>",
    "Carrier": "<carrier / insurance company name or null>"
  }
}

Field constraints:
- DocumentType must be exactly one of the listed values.
- Identifier fields that do not apply to the document type, or that were not found, must be null.
- If no identifier can be extracted, set Identifier to null.

Behavioral constraints:
- Respond with the JSON object only, no commentary and no markdown fencing.`

// requirement lists the identifier fields required for a group of types.
type requirement struct {
	Types  string
	Fields string
}

// InstructionOptions parameterizes the canonical instruction text.
type InstructionOptions struct {
	// EstimateAuthor is the company whose estimates classify as Estimate
	// rather than Scope.
	EstimateAuthor string
	// LetterOfRepresentation adds the optional Letter Of Representation category.
	LetterOfRepresentation bool
}

var (
	instructionsTmpl = template.Must(template.New("instructions").Parse(instructionsTemplate))
	outputSpecTmpl   = template.Must(template.New("output").Parse(outputSpecTemplate))
)

// requiredFields maps each document type to the identifier fields the model
// must extract for it. Types absent from the map carry a null Identifier.
func requiredFields(letterOfRepresentation bool) []requirement {
	reqs := []requirement{
		{
			Types:  joinTypes(Scope, Estimate, Intake),
			Fields: strings.Join(IdentifierFields, ", "),
		},
		{Types: joinTypes(QuickMeasure), Fields: FieldLossLocationAddress},
		{Types: joinTypes(EagleView), Fields: FieldLossLocationAddress},
		{Types: joinTypes(Check), Fields: FieldClaimNumber},
		{Types: joinTypes(Correspondence), Fields: FieldClaimNumber + ", " + FieldPolicyNumber},
	}
	if letterOfRepresentation {
		reqs = append(reqs, requirement{
			Types:  joinTypes(LetterOfRepresentation),
			Fields: strings.Join([]string{FieldClaimNumber, FieldPolicyNumber, FieldInsuredName}, ", "),
		})
	}
	return reqs
}

// Instructions renders the canonical classification prompt: the tunable
// instructions followed by the fixed output specification.
func Instructions(opts InstructionOptions) (string, error) {
	data := struct {
		Requirements   []requirement
		EstimateAuthor string
		TypeList       string
	}{
		Requirements:   requiredFields(opts.LetterOfRepresentation),
		EstimateAuthor: opts.EstimateAuthor,
		TypeList:       joinTypes(DocumentTypes(opts.LetterOfRepresentation)...),
	}

	var sb strings.Builder
	if err := instructionsTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render instructions: %w", err)
	}
	sb.WriteString("\n\n")
	if err := outputSpecTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render output spec: %w", err)
	}

	return sb.String(), nil
}

func joinTypes(types ...DocumentType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
