package codegen

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strings"

	"github.com/signadot/tony-format/go-settings/codec"
	"github.com/signadot/tony-format/go-settings/format"
)

// Extract returns the types of files marked with the directive, resolved
// in pkg.
func Extract(files []*ast.File, pkg *types.Package) ([]*TypeInfo, error) {
	var res []*TypeInfo
	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				if !hasDirective(ts.Doc) && !(len(gd.Specs) == 1 && hasDirective(gd.Doc)) {
					continue
				}
				info, err := extractType(pkg, ts.Name.Name)
				if err != nil {
					return nil, err
				}
				res = append(res, info)
			}
		}
	}
	return res, nil
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == Directive {
			return true
		}
	}
	return false
}

func extractType(pkg *types.Package, name string) (*TypeInfo, error) {
	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		return nil, fmt.Errorf("type %q not found in package %q", name, pkg.Path())
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%q is not a named type", name)
	}
	if named.TypeParams().Len() != 0 {
		return nil, fmt.Errorf("%q: generic types are not supported", name)
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("%q is not a struct", name)
	}
	info := &TypeInfo{Name: name}
	seen := map[string]string{}
	if err := addFields(info, st, "", seen); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return info, nil
}

func addFields(info *TypeInfo, st *types.Struct, prefix string, seen map[string]string) error {
	for i := range st.NumFields() {
		f := st.Field(i)
		tag, hasTag := reflect.StructTag(st.Tag(i)).Lookup(codec.TagName)
		if tag == "-" {
			continue
		}
		if f.Embedded() && !hasTag {
			if _, isPtr := f.Type().(*types.Pointer); isPtr {
				if !f.Exported() {
					continue
				}
				return fmt.Errorf("embedded pointer %s is not supported", f.Name())
			}
			if sub, ok := f.Type().Underlying().(*types.Struct); ok {
				if err := addFields(info, sub, prefix+f.Name()+".", seen); err != nil {
					return err
				}
				continue
			}
		}
		if !f.Exported() {
			continue
		}
		name, omitEmpty := codec.ParseTag(tag)
		if name == "" {
			name = f.Name()
		}
		if !format.ValidName(name) {
			return fmt.Errorf("field %s: invalid element name %q", f.Name(), name)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("fields %s and %s both map to %q", prev, prefix+f.Name(), name)
		}
		seen[name] = prefix + f.Name()
		info.Fields = append(info.Fields, FieldInfo{
			Name:        name,
			Selector:    prefix + f.Name(),
			OmitEmpty:   omitEmpty,
			Polymorphic: types.IsInterface(f.Type()),
		})
	}
	return nil
}
