package pbx

// Project is the root record of the document (isa PBXProject).
type Project struct {
	Object

	targets   memo[[]Target]
	mainGroup memo[*Group]
	configs   memo[*ConfigurationList]
}

func (*Project) Kind() Kind { return KindProject }

// Targets returns the project's targets in document order.
func (p *Project) Targets() ([]Target, error) {
	return p.targets.get(func() ([]Target, error) {
		return ifaceList[Target, BaseTarget](&p.Object, "targets")
	})
}

// MainGroup returns the root of the group tree.
func (p *Project) MainGroup() (*Group, error) {
	return p.mainGroup.get(func() (*Group, error) {
		return requiredRef[Group](&p.Object, "mainGroup")
	})
}

// ProductRefGroup returns the group holding build products, if declared.
func (p *Project) ProductRefGroup() (*Group, bool) {
	return optionalRef[Group](&p.Object, "productRefGroup")
}

// BuildConfigurationList returns the project-level configuration list.
func (p *Project) BuildConfigurationList() (*ConfigurationList, error) {
	return p.configs.get(func() (*ConfigurationList, error) {
		return requiredRef[ConfigurationList](&p.Object, "buildConfigurationList")
	})
}

// CompatibilityVersion returns the "compatibilityVersion" attribute, e.g.
// "Xcode 3.2".
func (p *Project) CompatibilityVersion() (string, bool) {
	return p.StringAttr("compatibilityVersion")
}

// DevelopmentRegion returns the "developmentRegion" attribute.
func (p *Project) DevelopmentRegion() (string, bool) {
	return p.StringAttr("developmentRegion")
}

// ProjectDirPath returns the "projectDirPath" attribute. An empty value means
// the directory containing the .xcodeproj package.
func (p *Project) ProjectDirPath() string {
	s, _ := p.StringAttr("projectDirPath")
	return s
}

// TargetByName returns the first target whose name is name.
func (p *Project) TargetByName(name string) (Target, bool, error) {
	targets, err := p.Targets()
	if err != nil {
		return nil, false, err
	}
	for _, t := range targets {
		if n, err := t.Name(); err == nil && n == name {
			return t, true, nil
		}
	}
	return nil, false, nil
}
