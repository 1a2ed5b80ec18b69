package view

import (
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/gogpu/spvgen/spirv"
)

type CompileView interface {
	Render(result CompileResult)
}

// CompileResult describes one compiled module.
type CompileResult struct {
	File   string
	Output string
	Result *spirv.Result
}

type compileHumanView struct {
	*HumanView
}

func newCompileHumanView(hv *HumanView) *compileHumanView {
	return &compileHumanView{HumanView: hv}
}

var (
	headerFmt = color.New(color.FgGreen, color.Bold).SprintfFunc()
	columnFmt = color.New(color.FgYellow).SprintfFunc()
)

func newTable(w io.Writer, headers ...any) table.Table {
	return table.New(headers...).
		WithWriter(w).
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(columnFmt)
}

func (v *compileHumanView) Render(result CompileResult) {
	r := result.Result
	v.Println(color.RGB(50, 108, 229).Sprintf("Compiled!"), result.File, "->", result.Output,
		color.New(color.Faint).Sprintf("(%d words, bound %d)", len(r.Words), r.Bound))

	if len(r.Reflection) > 0 {
		v.Println()
		tbl := newTable(v.Writer, "Kind", "Name", "Class", "Offset")
		for _, e := range r.Reflection {
			tbl.AddRow(e.Kind, e.Name, e.Class, e.Offset)
		}
		tbl.Print()
	}

	if len(r.UniformLayout) > 0 {
		v.Println()
		tbl := newTable(v.Writer, "Member", "Uniform", "Offset", "Relaxed")
		for _, u := range r.UniformLayout {
			tbl.AddRow(u.Index, u.Name, u.Offset, u.Relaxed)
		}
		tbl.Print()
	}

	if len(r.Diagnostics) > 0 {
		v.Println()
		for _, d := range r.Diagnostics {
			v.Println(color.YellowString("Warning!"), d.Node+":", d.Message)
		}
	}
}

type reflectionOutput struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Class  string `json:"class"`
	Offset uint32 `json:"offset"`
}

type diagnosticOutput struct {
	Kind    string `json:"kind"`
	Node    string `json:"node"`
	Message string `json:"message"`
}

type compileOutput struct {
	Type          string                     `json:"type"`
	Status        string                     `json:"status"`
	Timestamp     time.Time                  `json:"timestamp"`
	File          string                     `json:"file"`
	Output        string                     `json:"output"`
	Words         int                        `json:"words"`
	Bound         uint32                     `json:"bound"`
	Reflection    []reflectionOutput         `json:"reflection,omitempty"`
	UniformLayout []spirv.UniformLayoutEntry `json:"uniformLayout,omitempty"`
	Diagnostics   []diagnosticOutput         `json:"diagnostics,omitempty"`
}

func newCompileOutput(result CompileResult) compileOutput {
	r := result.Result
	out := compileOutput{
		Type:          "compile",
		Status:        "success",
		Timestamp:     time.Now(),
		File:          result.File,
		Output:        result.Output,
		Words:         len(r.Words),
		Bound:         r.Bound,
		UniformLayout: r.UniformLayout,
	}
	for _, e := range r.Reflection {
		out.Reflection = append(out.Reflection, reflectionOutput{
			Kind:   e.Kind.String(),
			Name:   e.Name,
			Class:  e.Class.String(),
			Offset: e.Offset,
		})
	}
	for _, d := range r.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, diagnosticOutput{
			Kind:    d.Kind.String(),
			Node:    d.Node,
			Message: d.Message,
		})
	}
	if len(out.Diagnostics) > 0 {
		out.Status = "warning"
	}
	return out
}

type compileJSONView struct {
	*JSONView
}

func (v *compileJSONView) Render(result CompileResult) {
	v.emit(newCompileOutput(result))
}

type compileYAMLView struct {
	*YAMLView
}

func (v *compileYAMLView) Render(result CompileResult) {
	v.emit(newCompileOutput(result))
}

func NewCompileView(v Viewer) CompileView {
	switch vt := v.(type) {
	case *HumanView:
		return newCompileHumanView(vt)
	case *JSONView:
		return &compileJSONView{JSONView: vt}
	case *YAMLView:
		return &compileYAMLView{YAMLView: vt}
	default:
		panic("unknown view type")
	}
}
