// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gen generates per-field guard accessors for struct types, so a
// strap over a struct can be used as field()-style calls instead of Data().
package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/imports"
)

// LockstrapImport is the import path generated code refers to.
const LockstrapImport = "github.com/ZaparooProject/go-lockstrap"

// generatedSuffix marks files written by this package
const generatedSuffix = "_lockstrap.go"

// Generation errors
var (
	ErrTypeNotFound    = errors.New("type not found")
	ErrNotStruct       = errors.New("type is not a struct")
	ErrNoFields        = errors.New("struct has no guardable fields")
	ErrGenericType     = errors.New("generic types are not supported")
	ErrAccessorClash   = errors.New("accessor name collision")
	ErrReservedName    = errors.New("accessor name is reserved")
	ErrNoPackage       = errors.New("no Go package found")
	ErrMultiplePackage = errors.New("multiple packages in directory")
	ErrImportConflict  = errors.New("conflicting imports")
)

// reserved names are methods every generated guard already has
var reserved = map[string]bool{
	"Release": true,
	"Active":  true,
	"Raw":     true,
	"Poison":  true,
}

// Field is one guarded field and the accessor generated for it.
type Field struct {
	Name     string // Selector used to reach the field
	Accessor string // Generated method name
	Type     string // Field type as written in source
}

// Struct is a struct type to generate a strap and guard for.
type Struct struct {
	Name   string
	Fields []Field
}

// Package is a parsed source package.
type Package struct {
	Fset    *token.FileSet
	Name    string
	Files   []*ast.File
	imports map[*ast.File][]importSpec
}

// importSpec is one import of a source file.
type importSpec struct {
	local string // name the file refers to the package by
	path  string // quoted import path
	line  string // import spec as written
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// localName guesses the package name of an unnamed import from its path.
func localName(importPath string) string {
	base := path.Base(importPath)
	if majorVersion.MatchString(base) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return strings.TrimPrefix(base, "go-")
}

// LoadDir parses the non-test, non-generated Go files in dir.
func LoadDir(dir string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	pkg := &Package{Fset: fset, imports: make(map[*ast.File][]importSpec)}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, generatedSuffix) {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if err := pkg.add(file); err != nil {
			return nil, err
		}
	}
	if pkg.Name == "" {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoPackage)
	}
	return pkg, nil
}

// ParseSource builds a Package from in-memory sources keyed by file name.
func ParseSource(sources map[string]string) (*Package, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	fset := token.NewFileSet()
	pkg := &Package{Fset: fset, imports: make(map[*ast.File][]importSpec)}
	for _, name := range names {
		file, err := parser.ParseFile(fset, name, sources[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if err := pkg.add(file); err != nil {
			return nil, err
		}
	}
	if pkg.Name == "" {
		return nil, ErrNoPackage
	}
	return pkg, nil
}

func (p *Package) add(file *ast.File) error {
	name := file.Name.Name
	switch {
	case p.Name == "":
		p.Name = name
	case p.Name != name:
		return fmt.Errorf("%w: %s and %s", ErrMultiplePackage, p.Name, name)
	}
	p.Files = append(p.Files, file)
	for _, spec := range file.Imports {
		if spec.Path.Value == `"`+LockstrapImport+`"` {
			continue
		}
		if spec.Name != nil && (spec.Name.Name == "_" || spec.Name.Name == ".") {
			continue
		}
		imp := importSpec{path: spec.Path.Value, line: spec.Path.Value}
		if spec.Name != nil {
			imp.local = spec.Name.Name
			imp.line = spec.Name.Name + " " + imp.line
		} else {
			imp.local = localName(strings.Trim(spec.Path.Value, `"`))
		}
		p.imports[file] = append(p.imports[file], imp)
	}
	return nil
}

// Lookup finds the struct named typeName and lists its guardable fields.
func (p *Package) Lookup(typeName string) (Struct, error) {
	st, _, err := p.lookup(typeName)
	return st, err
}

// lookup is Lookup that also returns the file declaring the type.
func (p *Package) lookup(typeName string) (Struct, *ast.File, error) {
	for _, file := range p.Files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Name.Name != typeName {
					continue
				}
				st, err := structOf(ts)
				return st, file, err
			}
		}
	}
	return Struct{}, nil, fmt.Errorf("%s: %w", typeName, ErrTypeNotFound)
}

func structOf(ts *ast.TypeSpec) (Struct, error) {
	name := ts.Name.Name
	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		return Struct{}, fmt.Errorf("%s: %w", name, ErrGenericType)
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return Struct{}, fmt.Errorf("%s: %w", name, ErrNotStruct)
	}

	out := Struct{Name: name}
	seen := make(map[string]string)
	for _, f := range st.Fields.List {
		typ := types.ExprString(f.Type)
		names := fieldNames(f)
		for _, fieldName := range names {
			if fieldName == "_" {
				continue
			}
			accessor := exportName(fieldName)
			if reserved[accessor] {
				return Struct{}, fmt.Errorf("%s.%s: %w: %s", name, fieldName, ErrReservedName, accessor)
			}
			if prev, dup := seen[accessor]; dup {
				return Struct{}, fmt.Errorf("%s: %w: %s and %s both map to %s",
					name, ErrAccessorClash, prev, fieldName, accessor)
			}
			seen[accessor] = fieldName
			out.Fields = append(out.Fields, Field{Name: fieldName, Accessor: accessor, Type: typ})
		}
	}
	if len(out.Fields) == 0 {
		return Struct{}, fmt.Errorf("%s: %w", name, ErrNoFields)
	}
	return out, nil
}

// fieldNames returns the selector names a field declaration introduces.
// An embedded field is named after its type.
func fieldNames(f *ast.Field) []string {
	if len(f.Names) > 0 {
		names := make([]string, len(f.Names))
		for i, n := range f.Names {
			names[i] = n.Name
		}
		return names
	}
	expr := f.Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.Ident:
		return []string{e.Name}
	case *ast.SelectorExpr:
		return []string{e.Sel.Name}
	case *ast.IndexExpr:
		return fieldNames(&ast.Field{Type: e.X})
	case *ast.IndexListExpr:
		return fieldNames(&ast.Field{Type: e.X})
	}
	return nil
}

func exportName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// FileName returns the conventional output file for the given types.
func FileName(typeNames []string) string {
	return strings.ToLower(typeNames[0]) + generatedSuffix
}

// Generate returns formatted Go source declaring a strap and guard for each
// named type in p.
func Generate(p *Package, typeNames []string) ([]byte, error) {
	if len(typeNames) == 0 {
		return nil, fmt.Errorf("%w: no types requested", ErrTypeNotFound)
	}

	structs := make([]Struct, 0, len(typeNames))
	var files []*ast.File
	for _, name := range typeNames {
		st, file, err := p.lookup(name)
		if err != nil {
			return nil, err
		}
		structs = append(structs, st)
		files = append(files, file)
	}

	importLines, err := p.importsOf(files)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = fileTemplate.Execute(&buf, struct {
		Package   string
		Lockstrap string
		Imports   []string
		Structs   []Struct
	}{
		Package:   p.Name,
		Lockstrap: LockstrapImport,
		Imports:   importLines,
		Structs:   structs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	out, err := imports.Process(FileName(typeNames), buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		return buf.Bytes(), fmt.Errorf("failed to format generated code: %w", err)
	}
	return out, nil
}

// importsOf merges the imports of the files declaring the generated types.
// Field types are written as in their own file, so only those imports apply.
func (p *Package) importsOf(files []*ast.File) ([]string, error) {
	byLocal := make(map[string]importSpec)
	lines := make(map[string]bool)
	for _, file := range files {
		for _, imp := range p.imports[file] {
			if prev, ok := byLocal[imp.local]; ok && prev.path != imp.path {
				return nil, fmt.Errorf("%w: %s refers to both %s and %s",
					ErrImportConflict, imp.local, prev.path, imp.path)
			}
			byLocal[imp.local] = imp
			lines[imp.line] = true
		}
	}

	out := make([]string, 0, len(lines))
	for line := range lines {
		out = append(out, line)
	}
	sort.Strings(out)
	return out, nil
}
