// Package schemas embeds the JSON Schemas of the records planmyjob emits.
package schemas

import _ "embed"

// ExtractedOffer is the schema of an offer analysis result.
//
//go:embed extracted_offer.schema.json
var ExtractedOffer string

// LetterResult is the schema of a generated letter.
//
//go:embed letter_result.schema.json
var LetterResult string

// ApplicationDraft is the schema of a pre-filled application form.
//
//go:embed application_draft.schema.json
var ApplicationDraft string
