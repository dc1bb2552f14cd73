// Package exitinmain defines an Analyzer that reports direct os.Exit calls
// inside the main function of a main package.
package exitinmain

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports os.Exit calls in func main of package main.
var Analyzer = &analysis.Analyzer{
	Name:     "exitinmain",
	Doc:      "reports os.Exit call inside main function of the main package",
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.FuncDecl)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		fn := n.(*ast.FuncDecl)
		if !isMainFunc(fn) {
			return
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			// closures are skipped
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			if isOsExit(pass.TypesInfo, call) {
				pass.Reportf(call.Pos(), "os.Exit call inside main function")
			}
			return true
		})
	})

	return nil, nil
}

func isMainFunc(fn *ast.FuncDecl) bool {
	return fn.Recv == nil && fn.Name.Name == "main" && fn.Body != nil
}

// isOsExit resolves the callee through type information,
// so renamed imports of os are caught too.
func isOsExit(info *types.Info, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}

	fn, ok := info.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}

	return fn.Pkg().Path() == "os" && fn.Name() == "Exit"
}
