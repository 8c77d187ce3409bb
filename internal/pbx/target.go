package pbx

// ProductType is the raw "productType" of a target. Values outside the
// constants below are preserved verbatim.
type ProductType string

const (
	ProductApplication      ProductType = "com.apple.product-type.application"
	ProductCommandLineTool  ProductType = "com.apple.product-type.tool"
	ProductFramework        ProductType = "com.apple.product-type.framework"
	ProductStaticLibrary    ProductType = "com.apple.product-type.library.static"
	ProductDynamicLibrary   ProductType = "com.apple.product-type.library.dynamic"
	ProductBundle           ProductType = "com.apple.product-type.bundle"
	ProductAppExtension     ProductType = "com.apple.product-type.app-extension"
	ProductUITests          ProductType = "com.apple.product-type.bundle.ui-testing"
	ProductUnitTest         ProductType = "com.apple.product-type.bundle.unit-test"
)

// Known reports whether t is one of the declared constants.
func (t ProductType) Known() bool {
	switch t {
	case ProductApplication, ProductCommandLineTool, ProductFramework,
		ProductStaticLibrary, ProductDynamicLibrary, ProductBundle,
		ProductAppExtension, ProductUITests, ProductUnitTest:
		return true
	}
	return false
}

// Target is implemented by every target variant.
type Target interface {
	Node
	Name() (string, error)
	ProductName() (string, bool)
	ProductType() (ProductType, bool)
	BuildPhases() ([]BuildPhase, error)
	BuildConfigurationList() (*ConfigurationList, error)
	Dependencies() ([]*TargetDependency, error)
	target() *BaseTarget
}

// BaseTarget holds the attributes shared by all targets. It is also the
// generic view used for an abstract PBXTarget record.
type BaseTarget struct {
	Object

	phases  memo[[]BuildPhase]
	configs memo[*ConfigurationList]
	deps    memo[[]*TargetDependency]
}

func (*BaseTarget) Kind() Kind { return KindTarget }

func (t *BaseTarget) target() *BaseTarget { return t }

// Name returns the required "name" attribute.
func (t *BaseTarget) Name() (string, error) {
	return t.requiredString("name")
}

func (t *BaseTarget) ProductName() (string, bool) {
	return t.StringAttr("productName")
}

func (t *BaseTarget) ProductType() (ProductType, bool) {
	s, ok := t.StringAttr("productType")
	return ProductType(s), ok
}

// BuildPhases returns the phases in the order of the raw buildPhases list.
func (t *BaseTarget) BuildPhases() ([]BuildPhase, error) {
	return t.phases.get(func() ([]BuildPhase, error) {
		return ifaceList[BuildPhase, BasePhase](&t.Object, "buildPhases")
	})
}

func (t *BaseTarget) BuildConfigurationList() (*ConfigurationList, error) {
	return t.configs.get(func() (*ConfigurationList, error) {
		return requiredRef[ConfigurationList](&t.Object, "buildConfigurationList")
	})
}

func (t *BaseTarget) Dependencies() ([]*TargetDependency, error) {
	return t.deps.get(func() ([]*TargetDependency, error) {
		return refList[TargetDependency](&t.Object, "dependencies")
	})
}

// NativeTarget is a PBXNativeTarget.
type NativeTarget struct {
	BaseTarget

	rules memo[[]*BuildRule]
}

func (*NativeTarget) Kind() Kind { return KindNativeTarget }

// BuildRules returns the target's custom build rules.
func (t *NativeTarget) BuildRules() ([]*BuildRule, error) {
	return t.rules.get(func() ([]*BuildRule, error) {
		return refList[BuildRule](&t.Object, "buildRules")
	})
}

// ProductReference returns the file reference of the built product.
func (t *NativeTarget) ProductReference() (*FileReference, bool) {
	return optionalRef[FileReference](&t.Object, "productReference")
}

// AggregateTarget is a PBXAggregateTarget.
type AggregateTarget struct {
	BaseTarget
}

func (*AggregateTarget) Kind() Kind { return KindAggregateTarget }

// LegacyTarget is a PBXLegacyTarget, driven by an external build tool.
type LegacyTarget struct {
	BaseTarget
}

func (*LegacyTarget) Kind() Kind { return KindLegacyTarget }

func (t *LegacyTarget) BuildToolPath() (string, bool) {
	return t.StringAttr("buildToolPath")
}

func (t *LegacyTarget) BuildArgumentsString() (string, bool) {
	return t.StringAttr("buildArgumentsString")
}

func (t *LegacyTarget) BuildWorkingDirectory() (string, bool) {
	return t.StringAttr("buildWorkingDirectory")
}

// TargetDependency is a PBXTargetDependency.
type TargetDependency struct {
	Object
}

func (*TargetDependency) Kind() Kind { return KindTargetDependency }

// Target returns the depended-on target when it lives in the same project.
func (d *TargetDependency) Target() (Target, bool) {
	id, ok, err := d.refID("target")
	if err != nil || !ok {
		return nil, false
	}
	t, err := resolveIface[Target, BaseTarget](d.objects, d.id, "target", id)
	if err != nil {
		return nil, false
	}
	return t, true
}

// TargetProxy returns the proxy describing the dependency.
func (d *TargetDependency) TargetProxy() (*ContainerItemProxy, bool) {
	return optionalRef[ContainerItemProxy](&d.Object, "targetProxy")
}

func (d *TargetDependency) Name() (string, bool) {
	return d.StringAttr("name")
}
