package view

import (
	"sigs.k8s.io/release-utils/version"
)

type VersionView interface {
	Render(info version.Info)
}

type versionHumanView struct {
	*HumanView
}

func (v *versionHumanView) Render(info version.Info) {
	v.Printf("spvgen version %s\n", info.GitVersion)
	v.Printf("%s\n", info.Platform)
}

type versionJSONView struct {
	*JSONView
}

func (v *versionJSONView) Render(info version.Info) {
	v.emit(info)
}

type versionYAMLView struct {
	*YAMLView
}

func (v *versionYAMLView) Render(info version.Info) {
	v.emit(info)
}

func NewVersionView(v Viewer) VersionView {
	switch vt := v.(type) {
	case *HumanView:
		return &versionHumanView{HumanView: vt}
	case *JSONView:
		return &versionJSONView{JSONView: vt}
	case *YAMLView:
		return &versionYAMLView{YAMLView: vt}
	default:
		panic("unknown view type")
	}
}
