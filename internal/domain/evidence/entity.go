package evidence

import "time"

// Pack is the metadata for one generated evidence pack. The markdown files
// and zip live under the artifacts directory; ZipURL is set only when the
// pack was uploaded to an artifact store.
type Pack struct {
	EvidencePackID      string    `json:"evidence_pack_id"`
	ModelID             string    `json:"model_id"`
	CreatedAt           time.Time `json:"created_at"`
	CreatedBy           string    `json:"created_by"`
	JurisdictionsCovered []string `json:"jurisdictions_covered"`
	IncludedSections    []string  `json:"included_sections"`
	ZipPath             string    `json:"zip_path"`
	ZipURL              string    `json:"zip_url,omitempty"`
}
