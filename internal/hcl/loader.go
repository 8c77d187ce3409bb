package hcl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/pbxgraph/internal/config"
	"github.com/specialistvlad/pbxgraph/internal/ctxlog"
	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

var _ config.Loader = (*Loader)(nil)

// Load parses each existing path in order and applies its values over the
// defaults.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := config.Default()
	parser := hclparse.NewParser()
	evalCtx := l.evalContext()

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("Configuration file not found, skipping.", "path", path)
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
		}
		if diags := l.apply(model, &root, evalCtx); diags.HasErrors() {
			return nil, fmt.Errorf("invalid configuration in %s: %w", path, diags)
		}
		if attrs, _ := root.Remain.JustAttributes(); len(attrs) > 0 {
			for name := range attrs {
				logger.Warn("Ignoring unknown configuration attribute.", "path", path, "name", name)
			}
		}
		logger.Debug("Configuration file applied.", "path", path)
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// evalContext exposes the process environment as the env object.
func (l *Loader) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{"env": env}}
}

func (l *Loader) apply(m *config.Model, root *fileRoot, evalCtx *hcl.EvalContext) hcl.Diagnostics {
	var diags hcl.Diagnostics

	if root.Log != nil {
		if root.Log.Level != nil {
			m.Log.Level = *root.Log.Level
		}
		if root.Log.Format != nil {
			m.Log.Format = *root.Log.Format
		}
	}
	if root.Cache != nil && root.Cache.Size != nil {
		m.CacheSize = *root.Cache.Size
	}
	if root.Output != nil {
		m.Output = *root.Output
	}
	if root.Configuration != nil {
		m.Configuration = *root.Configuration
	}

	roots, d := stringMap(root.Roots, evalCtx)
	diags = append(diags, d...)
	for name, dir := range roots {
		folder, ok := pbx.ParseFolder(name)
		if !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown source tree root",
				Detail:   fmt.Sprintf("%q is not one of %v.", name, pbx.Folders),
				Subject:  root.Roots.Range().Ptr(),
			})
			continue
		}
		m.Roots[folder] = dir
	}

	env, d := stringMap(root.Env, evalCtx)
	diags = append(diags, d...)
	for k, v := range env {
		m.Env[k] = v
	}
	return diags
}

// stringMap evaluates an optional object or map attribute whose values are
// all strings.
func stringMap(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]string, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   fmt.Sprintf("Expected an object of strings, got %s.", ty.FriendlyName()),
			Subject:  expr.Range().Ptr(),
		})
	}

	out := make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.IsNull() || !v.IsKnown() || v.Type() != cty.String {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid value",
				Detail:   fmt.Sprintf("Value of %q must be a string.", k.AsString()),
				Subject:  expr.Range().Ptr(),
			})
			continue
		}
		out[k.AsString()] = v.AsString()
	}
	return out, diags
}
