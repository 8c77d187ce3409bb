package pbx

// BuildPhase is implemented by every build phase variant.
type BuildPhase interface {
	Node
	Files() ([]*BuildFile, error)
	phase() *BasePhase
}

// BasePhase holds the attributes shared by all build phases. It is also the
// generic view for phase records without a dedicated variant.
type BasePhase struct {
	Object

	files memo[[]*BuildFile]
}

func (*BasePhase) Kind() Kind { return KindBuildPhase }

func (p *BasePhase) phase() *BasePhase { return p }

// Files returns the phase's build files in document order.
func (p *BasePhase) Files() ([]*BuildFile, error) {
	return p.files.get(func() ([]*BuildFile, error) {
		return refList[BuildFile](&p.Object, "files")
	})
}

// RunOnlyForDeploymentPostprocessing reports the flag of the same name.
func (p *BasePhase) RunOnlyForDeploymentPostprocessing() bool {
	s, _ := p.StringAttr("runOnlyForDeploymentPostprocessing")
	return s == "1"
}

// CopyFilesBuildPhase is a PBXCopyFilesBuildPhase.
type CopyFilesBuildPhase struct {
	BasePhase
}

func (*CopyFilesBuildPhase) Kind() Kind { return KindCopyFilesBuildPhase }

func (p *CopyFilesBuildPhase) Name() (string, bool) {
	return p.StringAttr("name")
}

func (p *CopyFilesBuildPhase) DstPath() (string, bool) {
	return p.StringAttr("dstPath")
}

// DstSubfolderSpec returns the raw destination folder code, e.g. "10" for
// Frameworks.
func (p *CopyFilesBuildPhase) DstSubfolderSpec() (string, bool) {
	return p.StringAttr("dstSubfolderSpec")
}

// FrameworksBuildPhase is a PBXFrameworksBuildPhase.
type FrameworksBuildPhase struct {
	BasePhase
}

func (*FrameworksBuildPhase) Kind() Kind { return KindFrameworksBuildPhase }

// HeadersBuildPhase is a PBXHeadersBuildPhase.
type HeadersBuildPhase struct {
	BasePhase
}

func (*HeadersBuildPhase) Kind() Kind { return KindHeadersBuildPhase }

// ResourcesBuildPhase is a PBXResourcesBuildPhase.
type ResourcesBuildPhase struct {
	BasePhase
}

func (*ResourcesBuildPhase) Kind() Kind { return KindResourcesBuildPhase }

// SourcesBuildPhase is a PBXSourcesBuildPhase.
type SourcesBuildPhase struct {
	BasePhase
}

func (*SourcesBuildPhase) Kind() Kind { return KindSourcesBuildPhase }

// ShellScriptBuildPhase is a PBXShellScriptBuildPhase.
type ShellScriptBuildPhase struct {
	BasePhase
}

func (*ShellScriptBuildPhase) Kind() Kind { return KindShellScriptBuildPhase }

func (p *ShellScriptBuildPhase) Name() (string, bool) {
	return p.StringAttr("name")
}

// ShellScript returns the required script body.
func (p *ShellScriptBuildPhase) ShellScript() (string, error) {
	return p.requiredString("shellScript")
}

// ShellPath defaults to /bin/sh like Xcode does.
func (p *ShellScriptBuildPhase) ShellPath() string {
	if s, ok := p.StringAttr("shellPath"); ok && s != "" {
		return s
	}
	return "/bin/sh"
}

func (p *ShellScriptBuildPhase) InputPaths() ([]string, error) {
	return p.StringsAttr("inputPaths")
}

func (p *ShellScriptBuildPhase) OutputPaths() ([]string, error) {
	return p.StringsAttr("outputPaths")
}
