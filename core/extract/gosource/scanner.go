// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package gosource

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// key identifies a message by context, singular msgid and optional plural msgid.
// For non-plural entries, plural is empty.
type key struct {
	ctx    string
	id     string
	plural string
}

type ref struct {
	file string
	line int
}

// scanner holds the per-package state for AST analysis.
type scanner struct {
	refs        map[key][]ref
	projectRoot string
	fset        *token.FileSet
	info        *types.Info
	i18nPkgs    map[string]struct{}
}

// findI18nPkgPaths returns the set of package paths named pkgName that define
// a MsgKey type whose underlying type is string. Matching on the defining package
// rather than the import name keeps aliased imports working.
func findI18nPkgPaths(pkgs []*packages.Package, pkgName string) map[string]struct{} {
	out := make(map[string]struct{})

	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if p.Name != pkgName || p.Types == nil {
			return
		}

		tn, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			return
		}

		named, ok := tn.Type().(*types.Named)
		if !ok {
			return
		}

		if basic, ok := named.Underlying().(*types.Basic); ok && basic.Kind() == types.String {
			out[p.PkgPath] = struct{}{}
		}
	})

	return out
}

// constString evaluates expr to a constant string if possible.
// Handles string literals, const identifiers and constant expressions like "a" + "b".
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// isMsgKey reports whether t is the named type MsgKey of one of i18nPkgs.
// Type aliases resolve to the same named type and are accepted.
func isMsgKey(t types.Type, i18nPkgs map[string]struct{}) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil {
		return false
	}

	if _, ok := i18nPkgs[obj.Pkg().Path()]; !ok {
		return false
	}

	return obj.Name() == "MsgKey"
}

// handleCompositeLit finds implicit conversions to MsgKey inside composite literals.
func (s *scanner) handleCompositeLit(x *ast.CompositeLit) {
	tv, ok := s.info.Types[x]
	if !ok || tv.Type == nil {
		return
	}

	// &T{...} is treated as T{...}.
	t := tv.Type
	if p, ok := t.Underlying().(*types.Pointer); ok && p.Elem() != nil {
		t = p.Elem()
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		keyIsMK := isMsgKey(u.Key(), s.i18nPkgs)

		valIsMK := isMsgKey(u.Elem(), s.i18nPkgs)
		if !keyIsMK && !valIsMK {
			return
		}

		for _, elt := range x.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}

			if keyIsMK {
				s.addConst(kv.Key)
			}

			if valIsMK {
				s.addConst(kv.Value)
			}
		}

	case *types.Slice:
		s.handleElements(x, u.Elem())

	case *types.Array:
		s.handleElements(x, u.Elem())

	case *types.Struct:
		fieldTypes := make(map[string]types.Type, u.NumFields())
		for i := range u.NumFields() {
			f := u.Field(i)

			fieldTypes[f.Name()] = f.Type()
		}

		for i, elt := range x.Elts {
			// Keyed field: FieldName: "..."
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				if id, ok := kv.Key.(*ast.Ident); ok {
					if ft, ok := fieldTypes[id.Name]; ok && isMsgKey(ft, s.i18nPkgs) {
						s.addConst(kv.Value)
					}
				}

				continue
			}

			// Positional field: rely on declared field order.
			if i < u.NumFields() && isMsgKey(u.Field(i).Type(), s.i18nPkgs) {
				s.addConst(elt)
			}
		}
	}
}

func (s *scanner) handleElements(x *ast.CompositeLit, elem types.Type) {
	if !isMsgKey(elem, s.i18nPkgs) {
		return
	}

	for _, elt := range x.Elts {
		// Indexed array elements: [2]i18n.MsgKey{1: "b"}
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			elt = kv.Value
		}

		s.addConst(elt)
	}
}

// handleCallExpr finds messages in i18n function calls and type conversions.
func (s *scanner) handleCallExpr(x *ast.CallExpr) {
	// Type conversion, e.g. i18n.MsgKey("Hello").
	if tv, ok := s.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 && isMsgKey(tv.Type, s.i18nPkgs) {
			s.addConst(x.Args[0])
		}

		return
	}

	if s.handleTrCall(x) {
		return
	}

	// A generic function call with MsgKey parameters.
	// TypeOf works for both qualified (pkg.Func) and unqualified (Func) calls.
	sig, ok := s.info.TypeOf(x.Fun).(*types.Signature)
	if !ok {
		return
	}

	params := sig.Params()

	n := params.Len()
	if n == 0 {
		return
	}

	variadic := sig.Variadic()
	last := n - 1

	for i, arg := range x.Args {
		var pt types.Type

		if variadic && i >= last {
			// Called with ...slice: the composite literal handler sees the elements.
			if x.Ellipsis != token.NoPos {
				continue
			}

			slice, ok := params.At(last).Type().(*types.Slice)
			if !ok {
				continue
			}

			pt = slice.Elem()
		} else {
			if i >= n {
				break
			}

			pt = params.At(i).Type()
		}

		if isMsgKey(pt, s.i18nPkgs) {
			s.addConst(arg)
		}
	}
}

// handleTrCall records the Tr* family and NewUserError, which carry msgid,
// context and plural at fixed argument positions. It reports whether x was one of them.
func (s *scanner) handleTrCall(x *ast.CallExpr) bool {
	sel, ok := x.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}

	fn, ok := s.info.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}

	if _, ok := s.i18nPkgs[fn.Pkg().Path()]; !ok {
		return false
	}

	switch fn.Name() {
	case "Tr", "NewUserError": // Tr(ctx, "msg", ...)
		if len(x.Args) >= 2 {
			s.addConst(x.Args[1])
		}
	case "TrC": // TrC(ctx, "ctx", "msg", ...)
		if len(x.Args) >= 3 {
			ctx, ok1 := constString(s.info, x.Args[1])

			msg, ok2 := constString(s.info, x.Args[2])
			if ok1 && ok2 {
				s.addRef(x.Args[2].Pos(), key{ctx: ctx, id: msg})
			}
		}
	case "TrN": // TrN(ctx, "singular", "plural", n, ...)
		if len(x.Args) >= 4 {
			singular, ok1 := constString(s.info, x.Args[1])

			plural, ok2 := constString(s.info, x.Args[2])
			if ok1 && ok2 {
				s.addRef(x.Args[1].Pos(), key{id: singular, plural: plural})
			}
		}
	case "TrNC": // TrNC(ctx, "ctx", "singular", "plural", n, ...)
		if len(x.Args) >= 5 {
			ctx, ok1 := constString(s.info, x.Args[1])
			singular, ok2 := constString(s.info, x.Args[2])

			plural, ok3 := constString(s.info, x.Args[3])
			if ok1 && ok2 && ok3 {
				s.addRef(x.Args[2].Pos(), key{ctx: ctx, id: singular, plural: plural})
			}
		}
	default:
		return false
	}

	return true
}

// addConst records expr as a context-free msgid when it is a constant string.
func (s *scanner) addConst(expr ast.Expr) {
	if msg, ok := constString(s.info, expr); ok {
		s.addRef(expr.Pos(), key{id: msg})
	}
}

func (s *scanner) addRef(pos token.Pos, k key) {
	if k.id == "" {
		return
	}

	s.refs[k] = append(s.refs[k], position(s.fset, s.projectRoot, pos))
}
