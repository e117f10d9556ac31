package prompts

const analyzeSpec = `Respond with a JSON object matching this exact structure:

{
  "summary": "<explanation>",
  "extracted_parcels": [
    {
      "parcel_number": "<registry number>",
      "owner": "<registered owner>",
      "size": "<area, e.g. 2.5 Ha>",
      "estimated_value": 0,
      "coordinates": "<lat, long>",
      "unregistered": false,
      "status": "Pending"
    }
  ],
  "discrepancies": ["<finding1>", "<finding2>"],
  "verification_status": "<Verified|Issues Found>",
  "suggested_category": "<category>"
}

Field constraints:
- summary: Brief narrative of what the document contains and the outcome
  of the review.
- extracted_parcels: Every parcel referenced in the document. Use an empty
  array when the document references none. estimated_value is a number in
  Kenyan Shillings, never negative.
- discrepancies: Missing or inconsistent items found during review. Empty
  array when the document is clean.
- verification_status: Verified when content is consistent and complete,
  Issues Found otherwise.
- suggested_category: The most likely category from the approved list:
  Acquisition Plan, Parcel List, ESIA Report, Project Cert, RAP Report,
  Funds Avail.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never invent parcel numbers; omit a parcel rather than fabricate its
  registry number`

const gazetteSpec = `Respond with the full notice text only.

Format constraints:
- Open with the heading "THE LAND ACT, 2012" and a gazette notice title line
- Body in formal third-person official register
- Parcel schedule as a plain-text table: parcel number, approximate area,
  registered owner
- No markdown, no commentary outside the notice itself`

const insightsSpec = `Respond with the overview text only.

Format constraints:
- Plain prose in short paragraphs, no markdown headings
- Cover landmarks, infrastructure, transport, and land use
- Name any data or map sources referenced inline
- No commentary about these instructions`

var specs = map[Stage]string{
	StageAnalyze:  analyzeSpec,
	StageGazette:  gazetteSpec,
	StageInsights: insightsSpec,
}

// Spec returns the hardcoded specification for an AI stage. Specifications
// define the expected output format and behavioral constraints; they are not
// overridable.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
