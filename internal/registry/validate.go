// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Validate checks that every registered kind has a builder and that its input
// struct only has fields HCL can decode into.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, kind := range r.Kinds() {
		w := r.work[kind]
		if w.Build == nil {
			errs = append(errs, fmt.Sprintf("work '%s': no Build function", kind))
		}
		if w.NewInput == nil {
			continue
		}

		input := w.NewInput()
		t := reflect.TypeOf(input)
		if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
			errs = append(errs, fmt.Sprintf("work '%s': NewInput must return a pointer to a struct, got %T", kind, input))
			continue
		}

		st := t.Elem()
		for i := 0; i < st.NumField(); i++ {
			field := st.Field(i)
			if !field.IsExported() {
				continue
			}
			tag := field.Tag.Get("hcl")
			name := strings.Split(tag, ",")[0]
			if tag == "" {
				errs = append(errs, fmt.Sprintf("work '%s': field '%s' has no hcl tag", kind, field.Name))
				continue
			}
			if strings.Contains(tag, ",block") || strings.Contains(tag, ",remain") {
				continue
			}
			if _, err := gocty.ImpliedType(reflect.Zero(field.Type).Interface()); err != nil {
				errs = append(errs, fmt.Sprintf("work '%s', input '%s': could not imply cty type from Go field type %s: %v", kind, name, field.Type, err))
			}
		}
		logger.Debug("Work kind validated.", "kind", kind, "inputs", st.NumField())
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
