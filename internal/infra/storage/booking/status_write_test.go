package booking

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GymLessonBookingService/internal/domain"
)

const statusLiteral = `"status"`

// Колонка status пишется только через substatusColumns и только значением DetermineStatus
func TestStatusColumnIsWrittenOnlyThroughResolver(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	fset := token.NewFileSet()
	resolverKeys := 0

	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}

		src, err := os.ReadFile(name)
		require.NoError(t, err)
		file, err := parser.ParseFile(fset, name, src, 0)
		require.NoError(t, err)

		for _, decl := range file.Decls {
			fn, isFunc := decl.(*ast.FuncDecl)
			inResolverHelper := isFunc && fn.Name.Name == "substatusColumns"

			ast.Inspect(decl, func(n ast.Node) bool {
				switch node := n.(type) {
				case *ast.CallExpr:
					sel, ok := node.Fun.(*ast.SelectorExpr)
					if !ok {
						return true
					}
					switch sel.Sel.Name {
					case "Set":
						if len(node.Args) > 0 && isStatusLiteral(node.Args[0]) {
							t.Errorf("%s: status written with Set", fset.Position(node.Pos()))
						}
					case "Columns":
						for _, arg := range node.Args {
							if isStatusLiteral(arg) {
								t.Errorf("%s: status listed in Columns", fset.Position(arg.Pos()))
							}
						}
					}

				case *ast.IndexExpr:
					if isStatusLiteral(node.Index) {
						t.Errorf("%s: status assigned by index", fset.Position(node.Pos()))
					}

				case *ast.KeyValueExpr:
					if !isStatusLiteral(node.Key) {
						return true
					}
					if !inResolverHelper {
						t.Errorf("%s: status key outside substatusColumns", fset.Position(node.Pos()))
						return true
					}
					if !callsDetermineStatus(node.Value) {
						t.Errorf("%s: status value is not computed by DetermineStatus", fset.Position(node.Pos()))
					}
					resolverKeys++
				}
				return true
			})
		}
	}

	assert.Equal(t, 1, resolverKeys, "substatusColumns must define the status key exactly once")
}

func TestSubstatusColumns(t *testing.T) {
	cols := substatusColumns(domain.PaymentSessionPaid, domain.AttendanceCompleted)

	assert.Equal(t, string(domain.PaymentSessionPaid), cols["payment_status"])
	assert.Equal(t, string(domain.AttendanceCompleted), cols["attendance_status"])
	assert.Equal(t, string(domain.BookingStatusCompleted), cols["status"])
	assert.Len(t, cols, 3)
}

func isStatusLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	return ok && lit.Kind == token.STRING && lit.Value == statusLiteral
}

func callsDetermineStatus(expr ast.Expr) bool {
	found := false
	ast.Inspect(expr, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		pkg, ok := sel.X.(*ast.Ident)
		if ok && pkg.Name == "domain" && sel.Sel.Name == "DetermineStatus" {
			found = true
			return false
		}
		return true
	})
	return found
}
