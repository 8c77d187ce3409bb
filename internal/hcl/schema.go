package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is the gohcl schema of one configuration file. Every field is
// optional so files can be layered.
type fileRoot struct {
	Log           *logBlock      `hcl:"log,block"`
	Cache         *cacheBlock    `hcl:"cache,block"`
	Output        *string        `hcl:"output,optional"`
	Configuration *string        `hcl:"configuration,optional"`
	Roots         hcl.Expression `hcl:"roots,optional"`
	Env           hcl.Expression `hcl:"env,optional"`
	Remain        hcl.Body       `hcl:",remain"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

type cacheBlock struct {
	Size *int `hcl:"size,optional"`
}
