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

package gen

import "text/template"

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by lockstrapgen; DO NOT EDIT.

package {{.Package}}

import (
	lockstrap "{{.Lockstrap}}"
{{- range .Imports}}
	{{.}}
{{- end}}
)
{{range .Structs}}{{$s := .Name}}
// {{$s}}Strap guards a {{$s}}. Its fields are reachable only through a {{$s}}Guard.
type {{$s}}Strap struct {
	s *lockstrap.Strap[{{$s}}]
}

// New{{$s}}Strap returns a {{$s}}Strap protecting v.
func New{{$s}}Strap(v {{$s}}, opts ...lockstrap.Option) *{{$s}}Strap {
	return &{{$s}}Strap{s: lockstrap.New(v, opts...)}
}

// Raw returns the underlying strap.
func (s *{{$s}}Strap) Raw() *lockstrap.Strap[{{$s}}] {
	return s.s
}

// Access blocks until the lock is held. The guard must be released.
func (s *{{$s}}Strap) Access() ({{$s}}Guard, error) {
	g, err := s.s.Access()
	return {{$s}}Guard{g: g}, err
}

// TryAccess returns a guard only if the lock is free.
func (s *{{$s}}Strap) TryAccess() ({{$s}}Guard, error) {
	g, err := s.s.TryAccess()
	return {{$s}}Guard{g: g}, err
}

// With runs fn while holding the lock and releases it on every exit path.
func (s *{{$s}}Strap) With(fn func({{$s}}Guard) error) error {
	return s.s.With(func(g *lockstrap.Guard[{{$s}}]) error {
		return fn({{$s}}Guard{g: g})
	})
}

// {{$s}}Guard holds the lock of a {{$s}}Strap and exposes its fields.
type {{$s}}Guard struct {
	g *lockstrap.Guard[{{$s}}]
}

// Raw returns the underlying guard.
func (g {{$s}}Guard) Raw() *lockstrap.Guard[{{$s}}] {
	return g.g
}

// Active reports whether the guard still holds the lock.
func (g {{$s}}Guard) Active() bool {
	return g.g != nil && g.g.Active()
}

// Release unlocks the strap.
func (g {{$s}}Guard) Release() {
	g.g.Release()
}
{{range .Fields}}
// {{.Accessor}} returns the guarded {{.Name}} field.
func (g {{$s}}Guard) {{.Accessor}}() *{{.Type}} {
	return &g.g.Data().{{.Name}}
}
{{end}}{{end}}`))
