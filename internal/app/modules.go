package app

import (
	"github.com/vk/objgraph/internal/markup"
	"github.com/vk/objgraph/internal/reflectschema"
	"github.com/vk/objgraph/modules/catalog"
	"github.com/vk/objgraph/modules/env_vars"
	"github.com/vk/objgraph/modules/geometry"
)

// coreModules is the definitive list of all type modules that are compiled
// into the objgraph binary.
var coreModules = []reflectschema.Module{
	&markup.Module{},
	&geometry.Module{},
	&catalog.Module{},
	&env_vars.Module{},
}
