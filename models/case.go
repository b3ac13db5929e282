package models

import "encoding/json"

// CaseRecord is one row of the case-order listing, enriched with the parsed
// detail sections once the per-case fetch completes. JSON field names mirror
// the court site's own labels so snapshots stay compatible with downstream
// consumers.
type CaseRecord struct {
	CaseNumber     string                   `json:"Case Number"`
	CaseLink       string                   `json:"Case Link"`
	JudgeName      string                   `json:"Judge Name"`
	OrderDate      string                   `json:"Order Date"`
	CitationNumber string                   `json:"Citation Number"`
	PDFLink        string                   `json:"PDF Link"`
	Details        map[string]SectionResult `json:"Details,omitempty"`
}

// SectionResult holds the extraction output for one detail section. Exactly
// one of Record or Rows is populated, depending on the schema's shape; it
// marshals as a JSON object or array accordingly.
type SectionResult struct {
	Record map[string]string
	Rows   []map[string]string
}

func (s SectionResult) IsEmpty() bool {
	return len(s.Record) == 0 && len(s.Rows) == 0
}

func (s SectionResult) MarshalJSON() ([]byte, error) {
	if s.Rows != nil {
		return json.Marshal(s.Rows)
	}
	return json.Marshal(s.Record)
}

func (s *SectionResult) UnmarshalJSON(data []byte) error {
	var rows []map[string]string
	if err := json.Unmarshal(data, &rows); err == nil {
		s.Rows = rows
		s.Record = nil
		return nil
	}
	var record map[string]string
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}
	s.Record = record
	s.Rows = nil
	return nil
}
