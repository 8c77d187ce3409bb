package pbx

// BuildFile is a PBXBuildFile: one entry of a build phase.
type BuildFile struct {
	Object
}

func (*BuildFile) Kind() Kind { return KindBuildFile }

// FileRef returns the referenced file, group or proxy, if any. Swift
// package products use productRef instead and have no fileRef.
func (b *BuildFile) FileRef() (Reference, bool) {
	id, ok, err := b.refID("fileRef")
	if err != nil || !ok {
		return nil, false
	}
	r, err := resolveIface[Reference, BaseReference](b.objects, b.id, "fileRef", id)
	if err != nil {
		return nil, false
	}
	return r, true
}

// Settings returns the per-file settings dictionary, e.g. ATTRIBUTES.
func (b *BuildFile) Settings() (map[string]any, bool) {
	return b.DictAttr("settings")
}

// BuildStyle is a PBXBuildStyle, the pre-Xcode 2 form of a configuration.
type BuildStyle struct {
	Object
}

func (*BuildStyle) Kind() Kind { return KindBuildStyle }

func (s *BuildStyle) Name() (string, bool) {
	return s.StringAttr("name")
}

// BuildConfiguration is an XCBuildConfiguration.
type BuildConfiguration struct {
	Object
}

func (*BuildConfiguration) Kind() Kind { return KindBuildConfiguration }

// Name returns the required configuration name, e.g. "Debug".
func (c *BuildConfiguration) Name() (string, error) {
	return c.requiredString("name")
}

// BuildSettings returns the raw build settings. A configuration without
// settings yields an empty map.
func (c *BuildConfiguration) BuildSettings() map[string]any {
	if d, ok := c.DictAttr("buildSettings"); ok {
		return d
	}
	return map[string]any{}
}

// BaseConfigurationReference returns the .xcconfig file the configuration
// is based on.
func (c *BuildConfiguration) BaseConfigurationReference() (*FileReference, bool) {
	return optionalRef[FileReference](&c.Object, "baseConfigurationReference")
}

// ConfigurationList is an XCConfigurationList.
type ConfigurationList struct {
	Object

	configs memo[[]*BuildConfiguration]
}

func (*ConfigurationList) Kind() Kind { return KindConfigurationList }

func (l *ConfigurationList) BuildConfigurations() ([]*BuildConfiguration, error) {
	return l.configs.get(func() ([]*BuildConfiguration, error) {
		return refList[BuildConfiguration](&l.Object, "buildConfigurations")
	})
}

func (l *ConfigurationList) DefaultConfigurationName() (string, bool) {
	return l.StringAttr("defaultConfigurationName")
}

func (l *ConfigurationList) DefaultConfigurationIsVisible() bool {
	s, _ := l.StringAttr("defaultConfigurationIsVisible")
	return s == "1"
}

// Configuration returns the configuration called name.
func (l *ConfigurationList) Configuration(name string) (*BuildConfiguration, bool, error) {
	configs, err := l.BuildConfigurations()
	if err != nil {
		return nil, false, err
	}
	for _, c := range configs {
		if n, err := c.Name(); err == nil && n == name {
			return c, true, nil
		}
	}
	return nil, false, nil
}

// BuildRule is a PBXBuildRule.
type BuildRule struct {
	Object
}

func (*BuildRule) Kind() Kind { return KindBuildRule }

func (r *BuildRule) CompilerSpec() (string, bool) {
	return r.StringAttr("compilerSpec")
}

func (r *BuildRule) FileType() (string, bool) {
	return r.StringAttr("fileType")
}

func (r *BuildRule) FilePatterns() (string, bool) {
	return r.StringAttr("filePatterns")
}

func (r *BuildRule) Script() (string, bool) {
	return r.StringAttr("script")
}

// ContainerItemProxy is a PBXContainerItemProxy: an indirect pointer to an
// object that may live in another project.
type ContainerItemProxy struct {
	Object
}

func (*ContainerItemProxy) Kind() Kind { return KindContainerItemProxy }

// ContainerPortal returns the raw ID of the containing project or file
// reference. It is not resolved since it may name the root project.
func (p *ContainerItemProxy) ContainerPortal() (string, bool) {
	return p.StringAttr("containerPortal")
}

// ProxyType returns the raw proxy type: "1" for targets, "2" for products.
func (p *ContainerItemProxy) ProxyType() (string, bool) {
	return p.StringAttr("proxyType")
}

func (p *ContainerItemProxy) RemoteGlobalID() (string, bool) {
	return p.StringAttr("remoteGlobalIDString")
}

func (p *ContainerItemProxy) RemoteInfo() (string, bool) {
	return p.StringAttr("remoteInfo")
}
