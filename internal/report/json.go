package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dusk-indust/crossreview/internal/orchestrator"
)

// RunExport is the top-level JSON export structure.
type RunExport struct {
	ExportedAt string               `json:"exportedAt"`
	Outcome    string               `json:"outcome"`
	Result     *orchestrator.Result `json:"result"`
}

// JSON renders res as indented JSON.
func JSON(res *orchestrator.Result) ([]byte, error) {
	export := RunExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Outcome:    res.Outcome(),
		Result:     res,
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: encode json: %w", err)
	}
	return data, nil
}
