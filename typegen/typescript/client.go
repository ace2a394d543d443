package typescript

import (
	"sort"
	"strings"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/typegen"
	"github.com/teranos/contractgen/typegen/util"
)

// cqrsInterface is the runtime the generated client dispatches through. The
// wire key is the first argument of every call.
const cqrsInterface = `export interface CQRS {
    executeCommand(type: string, command: Record<string, unknown>): Promise<unknown>;
    fetchQuery<TResult>(type: string, query: Record<string, unknown>, resultFactory: (decodedJson: unknown) => TResult): Promise<TResult>;
    invokeOperation<TResult>(type: string, operation: Record<string, unknown>, resultFactory: (decodedJson: unknown) => TResult): Promise<TResult>;
}`

// client renders <Program>Client.ts: one entry per route, keyed by the route's
// wire key, plus the route table.
func (e *emitter) client(program *contract.Program) (string, error) {
	routes := typegen.Routes(program)

	var entries, paths strings.Builder
	imported := make(map[string]bool)
	for _, r := range routes {
		entry, ok := e.binder.Table().Lookup(r.Target)
		if !ok {
			return "", errors.AssertionFailedf("route %s targets %s which has no name", r.Path, r.Target)
		}
		imported[entry.Name] = true
		if r.Kind != contract.KindCommand {
			imported[resultFactoryName(entry.Name)] = true
		}
		entries.WriteString(util.Quote(r.Key) + ": " + stub(r, entry.Name) + ",\n")
		paths.WriteString(util.Quote(r.Path) + ",\n")
	}

	var blocks []string
	if len(imported) > 0 {
		symbols := make([]string, 0, len(imported))
		for name := range imported {
			symbols = append(symbols, name)
		}
		sort.Strings(symbols)
		blocks = append(blocks, "import { "+strings.Join(symbols, ", ")+" } from "+util.Quote("./"+e.cfg.ProgramName)+";")
	}
	blocks = append(blocks,
		cqrsInterface,
		"export const routes: readonly string[] = [\n"+util.Indent(paths.String(), 1, indent)+"];",
		"export function createClient(cqrs: CQRS) {\n"+
			indent+"return {\n"+
			util.Indent(entries.String(), 2, indent)+
			indent+"};\n"+
			"}",
	)
	return util.JoinBlocks(blocks...), nil
}

func stub(r typegen.Route, class string) string {
	key := util.Quote(r.Key)
	switch r.Kind {
	case contract.KindCommand:
		return "(command: " + class + ") => cqrs.executeCommand(" + key + ", command.toJson())"
	case contract.KindQuery:
		return "(query: " + class + ") => cqrs.fetchQuery(" + key + ", query.toJson(), " + resultFactoryName(class) + ")"
	default:
		return "(operation: " + class + ") => cqrs.invokeOperation(" + key + ", operation.toJson(), " + resultFactoryName(class) + ")"
	}
}
