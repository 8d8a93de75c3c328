// Package builtin registers the scenarios shipped inside the binary.
// Import it for side effects.
package builtin

import (
	"embed"

	"github.com/vovakirdan/trapcrawl/internal/level"
	"github.com/vovakirdan/trapcrawl/internal/registry"
)

//go:embed levels/*.yaml
var files embed.FS

func init() {
	register("ludum", "levels/ludum.yaml")
	register("gauntlet", "levels/gauntlet.yaml")
}

func register(id, name string) {
	registry.Register(id, level.FSProvider{FS: files, Name: name})
}
