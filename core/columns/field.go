/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package columns

import (
	"reflect"
	"strings"
)

// FieldValue reads the field called key from a struct (by `table` tag, then
// `json` tag, then Go field name, case-insensitively) or from a map with
// string keys. Pointers are followed. Anything that cannot be resolved
// yields nil, never a panic.
func FieldValue(row any, key string) any {
	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		idx, ok := fieldIndex(v.Type(), key)
		if !ok {
			return nil
		}
		f := v.FieldByIndex(idx)
		if !f.CanInterface() {
			return nil
		}
		return normalizeNil(f)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil
		}
		return normalizeNil(mv)
	}
	return nil
}

// FieldIndex resolves key against the exported fields of struct type t the
// way FieldValue does.
func FieldIndex(t reflect.Type, key string) ([]int, bool) {
	return fieldIndex(t, key)
}

func fieldIndex(t reflect.Type, key string) ([]int, bool) {
	var byName []int
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tagName(f.Tag.Get("table")) == key || tagName(f.Tag.Get("json")) == key {
			return f.Index, true
		}
		if byName == nil && strings.EqualFold(f.Name, key) {
			byName = f.Index
		}
	}
	return byName, byName != nil
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// normalizeNil turns nil pointers, maps, slices and interfaces into an
// untyped nil so callers can test v == nil.
func normalizeNil(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}
