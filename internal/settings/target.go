package settings

import (
	"fmt"
	"maps"

	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/zclconf/go-cty/cty"
)

// DefaultConfiguration returns the configuration name to use when none is
// requested: the list's default, else its first configuration.
func DefaultConfiguration(list *pbx.ConfigurationList) (string, error) {
	if name, ok := list.DefaultConfigurationName(); ok && name != "" {
		return name, nil
	}
	configs, err := list.BuildConfigurations()
	if err != nil {
		return "", err
	}
	if len(configs) == 0 {
		return "", fmt.Errorf("%w: configuration list %s is empty", ErrUnknownConfiguration, list.ID())
	}
	return configs[0].Name()
}

// ForTarget resolves the settings of target for configuration config,
// layered over the project-level configuration of the same name. An empty
// config selects the target's default. TARGET_NAME and CONFIGURATION are
// added to env unless it already sets them.
func ForTarget(project *pbx.Project, target pbx.Target, config string, env Env) (cty.Value, error) {
	targetName, err := target.Name()
	if err != nil {
		return cty.NilVal, err
	}
	targetList, err := target.BuildConfigurationList()
	if err != nil {
		return cty.NilVal, fmt.Errorf("target %s: %w", targetName, err)
	}
	if config == "" {
		if config, err = DefaultConfiguration(targetList); err != nil {
			return cty.NilVal, fmt.Errorf("target %s: %w", targetName, err)
		}
	}

	targetConfig, ok, err := targetList.Configuration(config)
	if err != nil {
		return cty.NilVal, fmt.Errorf("target %s: %w", targetName, err)
	}
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: target %s has no configuration %q", ErrUnknownConfiguration, targetName, config)
	}

	var layers []cty.Value
	projectList, err := project.BuildConfigurationList()
	if err != nil {
		return cty.NilVal, err
	}
	if pc, ok, err := projectList.Configuration(config); err != nil {
		return cty.NilVal, err
	} else if ok {
		v, err := FromConfiguration(pc)
		if err != nil {
			return cty.NilVal, err
		}
		layers = append(layers, v)
	}
	tv, err := FromConfiguration(targetConfig)
	if err != nil {
		return cty.NilVal, err
	}
	layers = append(layers, tv)

	merged := Env{"TARGET_NAME": targetName, "CONFIGURATION": config}
	maps.Copy(merged, env)
	return Resolve(layers, merged)
}
