package commands

import (
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/dart"
	"github.com/teranos/contractgen/typegen/typescript"
)

// Generators returns every available generator, in default output order.
func Generators() []typegen.Generator {
	return []typegen.Generator{
		dart.NewGenerator(),
		typescript.NewGenerator(),
	}
}
