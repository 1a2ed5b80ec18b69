package view

import (
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"
)

var _ Viewer = (*HumanView)(nil)
var _ Viewer = (*JSONView)(nil)
var _ Viewer = (*YAMLView)(nil)

type Viewer interface {
	Logger() Logger
}

func NewViewer(vt ViewType, s *Stream, level LogLevel) Viewer {
	switch vt {
	case ViewHuman:
		return NewHumanView(s, level)
	case ViewJSON:
		return NewJSONView(s, level)
	case ViewYAML:
		return NewYAMLView(s, level)
	default:
		panic("unknown view type")
	}
}

type HumanView struct {
	*Stream
	logger Logger
}

func NewHumanView(s *Stream, level LogLevel) *HumanView {
	var logger Logger
	if level == LogLevelSilent {
		logger = NewNopLogger()
	} else {
		logger = NewHumanLogger(s.LogWriter, level)
	}
	return &HumanView{
		Stream: s,
		logger: logger,
	}
}

func (h *HumanView) Logger() Logger {
	return h.logger
}

type JSONView struct {
	*Stream
	logger Logger
}

func NewJSONView(s *Stream, level LogLevel) *JSONView {
	var logger Logger
	if level == LogLevelSilent {
		logger = NewNopLogger()
	} else {
		logger = NewJSONLogger(s.LogWriter, level)
	}
	return &JSONView{
		Stream: s,
		logger: logger,
	}
}

func (j *JSONView) Logger() Logger {
	return j.logger
}

// emit writes v as a single JSON line.
func (j *JSONView) emit(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		j.logger.Error("failed to encode output", "error", err)
		return
	}
	j.Println(string(data))
}

// YAMLView renders the JSON documents as YAML. Logs use the human format.
type YAMLView struct {
	*Stream
	logger Logger
}

func NewYAMLView(s *Stream, level LogLevel) *YAMLView {
	var logger Logger
	if level == LogLevelSilent {
		logger = NewNopLogger()
	} else {
		logger = NewHumanLogger(s.LogWriter, level)
	}
	return &YAMLView{
		Stream: s,
		logger: logger,
	}
}

func (y *YAMLView) Logger() Logger {
	return y.logger
}

func (y *YAMLView) emit(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		y.logger.Error("failed to encode output", "error", err)
		return
	}
	fmt.Fprint(y.Writer, "---\n"+string(data))
}
