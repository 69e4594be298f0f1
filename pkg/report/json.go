package report

import (
	"io"
	"time"
)

// JSONReporter generates JSON reports.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

func (r *JSONReporter) marshal(v any) ([]byte, error) {
	if r.pretty {
		return jsonMarshalIndent(v, "", "  ")
	}
	return jsonMarshal(v)
}

// GenerateReport creates a JSON report for a single game.
func (r *JSONReporter) GenerateReport(
	game *GameReport,
) ([]byte, error) {
	return r.marshal(game)
}

// jsonMasterSummary is the JSON structure for a master summary.
type jsonMasterSummary struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     *MasterSummary `json:"summary"`
	Games       []*GameReport  `json:"games"`
}

// GenerateMasterSummary creates a JSON summary of several games.
func (r *JSONReporter) GenerateMasterSummary(
	games []*GameReport,
) ([]byte, error) {
	return r.marshal(jsonMasterSummary{
		GeneratedAt: time.Now(),
		Summary:     BuildMasterSummary(games),
		Games:       games,
	})
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	game *GameReport,
) error {
	data, err := r.GenerateReport(game)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
