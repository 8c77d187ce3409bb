package pbx

// Kind is the closed set of node variants. Every registered isa tag maps to
// exactly one Kind; records with any other tag load as KindUnknown.
type Kind int

const (
	KindUnknown Kind = iota
	KindProject
	KindContainerItemProxy
	KindBuildFile
	KindBuildPhase
	KindCopyFilesBuildPhase
	KindFrameworksBuildPhase
	KindHeadersBuildPhase
	KindResourcesBuildPhase
	KindShellScriptBuildPhase
	KindSourcesBuildPhase
	KindBuildStyle
	KindBuildConfiguration
	KindBuildRule
	KindTarget
	KindAggregateTarget
	KindNativeTarget
	KindLegacyTarget
	KindTargetDependency
	KindConfigurationList
	KindReference
	KindReferenceProxy
	KindFileReference
	KindGroup
	KindVariantGroup
	KindVersionGroup
)

var kindIsa = map[Kind]string{
	KindProject:               "PBXProject",
	KindContainerItemProxy:    "PBXContainerItemProxy",
	KindBuildFile:             "PBXBuildFile",
	KindBuildPhase:            "PBXBuildPhase",
	KindCopyFilesBuildPhase:   "PBXCopyFilesBuildPhase",
	KindFrameworksBuildPhase:  "PBXFrameworksBuildPhase",
	KindHeadersBuildPhase:     "PBXHeadersBuildPhase",
	KindResourcesBuildPhase:   "PBXResourcesBuildPhase",
	KindShellScriptBuildPhase: "PBXShellScriptBuildPhase",
	KindSourcesBuildPhase:     "PBXSourcesBuildPhase",
	KindBuildStyle:            "PBXBuildStyle",
	KindBuildConfiguration:    "XCBuildConfiguration",
	KindBuildRule:             "PBXBuildRule",
	KindTarget:                "PBXTarget",
	KindAggregateTarget:       "PBXAggregateTarget",
	KindNativeTarget:          "PBXNativeTarget",
	KindLegacyTarget:          "PBXLegacyTarget",
	KindTargetDependency:      "PBXTargetDependency",
	KindConfigurationList:     "XCConfigurationList",
	KindReference:             "PBXReference",
	KindReferenceProxy:        "PBXReferenceProxy",
	KindFileReference:         "PBXFileReference",
	KindGroup:                 "PBXGroup",
	KindVariantGroup:          "PBXVariantGroup",
	KindVersionGroup:          "XCVersionGroup",
}

var isaKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindIsa))
	for k, isa := range kindIsa {
		m[isa] = k
	}
	return m
}()

// String returns the isa tag of the kind.
func (k Kind) String() string {
	if isa, ok := kindIsa[k]; ok {
		return isa
	}
	return "Unknown"
}

// Lookup maps an isa tag to its Kind.
func Lookup(isa string) (Kind, bool) {
	k, ok := isaKind[isa]
	return k, ok
}

type constructor func(o Object) Node

var constructors = map[Kind]constructor{
	KindProject:               func(o Object) Node { return &Project{Object: o} },
	KindContainerItemProxy:    func(o Object) Node { return &ContainerItemProxy{Object: o} },
	KindBuildFile:             func(o Object) Node { return &BuildFile{Object: o} },
	KindBuildPhase:            func(o Object) Node { return &BasePhase{Object: o} },
	KindCopyFilesBuildPhase:   func(o Object) Node { return &CopyFilesBuildPhase{BasePhase: BasePhase{Object: o}} },
	KindFrameworksBuildPhase:  func(o Object) Node { return &FrameworksBuildPhase{BasePhase: BasePhase{Object: o}} },
	KindHeadersBuildPhase:     func(o Object) Node { return &HeadersBuildPhase{BasePhase: BasePhase{Object: o}} },
	KindResourcesBuildPhase:   func(o Object) Node { return &ResourcesBuildPhase{BasePhase: BasePhase{Object: o}} },
	KindShellScriptBuildPhase: func(o Object) Node { return &ShellScriptBuildPhase{BasePhase: BasePhase{Object: o}} },
	KindSourcesBuildPhase:     func(o Object) Node { return &SourcesBuildPhase{BasePhase: BasePhase{Object: o}} },
	KindBuildStyle:            func(o Object) Node { return &BuildStyle{Object: o} },
	KindBuildConfiguration:    func(o Object) Node { return &BuildConfiguration{Object: o} },
	KindBuildRule:             func(o Object) Node { return &BuildRule{Object: o} },
	KindTarget:                func(o Object) Node { return &BaseTarget{Object: o} },
	KindAggregateTarget:       func(o Object) Node { return &AggregateTarget{BaseTarget: BaseTarget{Object: o}} },
	KindNativeTarget:          func(o Object) Node { return &NativeTarget{BaseTarget: BaseTarget{Object: o}} },
	KindLegacyTarget:          func(o Object) Node { return &LegacyTarget{BaseTarget: BaseTarget{Object: o}} },
	KindTargetDependency:      func(o Object) Node { return &TargetDependency{Object: o} },
	KindConfigurationList:     func(o Object) Node { return &ConfigurationList{Object: o} },
	KindReference:             func(o Object) Node { return &BaseReference{Object: o} },
	KindReferenceProxy:        func(o Object) Node { return &ReferenceProxy{BaseReference: BaseReference{Object: o}} },
	KindFileReference:         func(o Object) Node { return &FileReference{BaseReference: BaseReference{Object: o}} },
	KindGroup:                 func(o Object) Node { return &Group{BaseReference: BaseReference{Object: o}} },
	KindVariantGroup:          func(o Object) Node { return &VariantGroup{Group: Group{BaseReference: BaseReference{Object: o}}} },
	KindVersionGroup:          func(o Object) Node { return &VersionGroup{BaseReference: BaseReference{Object: o}} },
}

// construct dispatches on the record's isa. The second result is false when
// the tag is not registered and the generic Unknown node was returned.
func construct(o Object) (Node, bool) {
	if k, ok := Lookup(o.isa); ok {
		return constructors[k](o), true
	}
	return &Unknown{Object: o}, false
}
