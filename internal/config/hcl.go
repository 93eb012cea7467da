// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// HCLLoader is the HCL implementation of Loader.
type HCLLoader struct {
	parser *hclparse.Parser
}

// NewHCLLoader creates a new HCL configuration loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{parser: hclparse.NewParser()}
}

// EvalContext is the expression scope of configuration and pipeline files.
// It exposes num_cpu and the kib/mib size units.
func EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"num_cpu": cty.NumberIntVal(int64(runtime.NumCPU())),
			"kib":     cty.NumberIntVal(1 << 10),
			"mib":     cty.NumberIntVal(1 << 20),
		},
	}
}

// Load implements Loader.
func (l *HCLLoader) Load(ctx context.Context, path string) (*Model, error) {
	ctxlog.FromContext(ctx).Debug("Parsing HCL configuration.", "path", path)

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var m Model
	diags = gohcl.DecodeBody(file.Body, EvalContext(), &m)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return &m, nil
}
