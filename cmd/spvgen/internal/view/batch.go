package view

import (
	"time"

	"github.com/fatih/color"
)

type BatchView interface {
	Render(result BatchResult)
}

// BatchResult describes a batch run.
type BatchResult struct {
	Items       []BatchItem
	Succeeded   int
	Failed      int
	Skipped     int
	Diagnostics int
}

// BatchItem is one compiled file.
type BatchItem struct {
	File        string        `json:"file"`
	Output      string        `json:"output,omitempty"`
	Status      string        `json:"status"`
	Words       int           `json:"words,omitempty"`
	Diagnostics int           `json:"diagnostics,omitempty"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}

// Batch item states.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

func (r BatchResult) HasErrors() bool {
	return r.Failed > 0 || r.Skipped > 0
}

type batchHumanView struct {
	*HumanView
}

func (v *batchHumanView) Render(result BatchResult) {
	tbl := newTable(v.Writer, "File", "Status", "Words", "Diagnostics", "Duration")
	for _, it := range result.Items {
		status := it.Status
		switch it.Status {
		case StatusError:
			status = color.RedString(status)
		case StatusSkipped:
			status = color.YellowString(status)
		}
		tbl.AddRow(it.File, status, it.Words, it.Diagnostics, it.Duration.Round(time.Microsecond))
	}
	tbl.Print()

	for _, it := range result.Items {
		if it.Status == StatusError {
			v.Println(color.RGB(229, 50, 50).Sprintf("Error!"), it.File+":", it.Error)
		}
	}

	v.Println()
	heading := color.RGB(50, 108, 229).Sprintf("Done!")
	if result.HasErrors() {
		heading = color.RGB(229, 50, 50).Sprintf("Failed!")
	}
	v.Printf("%s %d compiled, %d failed, %d skipped, %d diagnostics\n",
		heading, result.Succeeded, result.Failed, result.Skipped, result.Diagnostics)
}

type batchOutput struct {
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	Succeeded   int         `json:"succeeded"`
	Failed      int         `json:"failed"`
	Skipped     int         `json:"skipped"`
	Diagnostics int         `json:"diagnostics"`
	Items       []BatchItem `json:"items"`
}

func newBatchOutput(result BatchResult) batchOutput {
	out := batchOutput{
		Type:        "batch",
		Status:      StatusSuccess,
		Timestamp:   time.Now(),
		Succeeded:   result.Succeeded,
		Failed:      result.Failed,
		Skipped:     result.Skipped,
		Diagnostics: result.Diagnostics,
		Items:       result.Items,
	}
	if result.HasErrors() {
		out.Status = StatusError
	}
	return out
}

type batchJSONView struct {
	*JSONView
}

func (v *batchJSONView) Render(result BatchResult) {
	v.emit(newBatchOutput(result))
}

type batchYAMLView struct {
	*YAMLView
}

func (v *batchYAMLView) Render(result BatchResult) {
	v.emit(newBatchOutput(result))
}

func NewBatchView(v Viewer) BatchView {
	switch vt := v.(type) {
	case *HumanView:
		return &batchHumanView{HumanView: vt}
	case *JSONView:
		return &batchJSONView{JSONView: vt}
	case *YAMLView:
		return &batchYAMLView{YAMLView: vt}
	default:
		panic("unknown view type")
	}
}
