package report

import (
	"encoding/json"
	"io"
)

// JSONWriter emits every report plus the merged summary.
type JSONWriter struct{}

func (JSONWriter) Name() string {
	return "json"
}

func (JSONWriter) ContentType() string {
	return "application/json"
}

func (JSONWriter) Write(w io.Writer, reports ...Report) error {
	if reports == nil {
		reports = []Report{}
	}
	payload := struct {
		Reports []Report `json:"reports"`
		Summary Summary  `json:"summary"`
	}{
		Reports: reports,
		Summary: Merge(reports),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
