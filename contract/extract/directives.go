package extract

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
)

const directivePrefix = "contract:"

// directives are the contract: comments on one type declaration.
type directives struct {
	kind     contract.Kind
	result   string
	aliases  []string
	exclude  bool
	errorsOf string
}

// collectDirectives reads the doc comments of every type spec. A lone spec in
// a type declaration may carry its directives on the declaration itself.
func collectDirectives(files []*ast.File) (map[string]*directives, error) {
	out := make(map[string]*directives)
	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				if doc == nil {
					continue
				}
				d, err := parseDirectives(doc)
				if err != nil {
					return nil, errors.Wrapf(err, "type %s", ts.Name.Name)
				}
				if d != nil {
					out[ts.Name.Name] = d
				}
			}
		}
	}
	return out, nil
}

func parseDirectives(doc *ast.CommentGroup) (*directives, error) {
	var d *directives
	for _, c := range doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
		if !strings.HasPrefix(text, directivePrefix) {
			continue
		}
		if d == nil {
			d = &directives{}
		}
		verb, arg, _ := strings.Cut(strings.TrimPrefix(text, directivePrefix), " ")
		arg = strings.TrimSpace(arg)

		switch verb {
		case "command", "query", "operation":
			kind, _ := contract.ParseKind(verb)
			if d.kind != contract.KindPlain && d.kind != kind {
				return nil, errors.MarkMalformed("both contract:%s and contract:%s", d.kind, kind)
			}
			d.kind = kind
			if kind.HasResult() {
				d.result = arg
			} else if arg != "" {
				return nil, errors.WithHint(
					errors.MarkMalformed("contract:command takes no argument, got %q", arg),
					"commands have no result; use contract:operation for calls that return a value")
			}
		case "alias":
			if arg == "" {
				return nil, errors.MarkMalformed("contract:alias needs a path")
			}
			d.aliases = append(d.aliases, arg)
		case "exclude":
			d.exclude = true
		case "errors":
			if arg == "" {
				return nil, errors.MarkMalformed("contract:errors needs the name of the owning type")
			}
			d.errorsOf = arg
		default:
			return nil, errors.WithHint(
				errors.MarkMalformed("unknown directive contract:%s", verb),
				"known directives: command, query, operation, alias, exclude, errors")
		}
	}
	return d, nil
}
