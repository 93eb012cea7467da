// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/framecore/internal/config"
	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/fsutil"
	"github.com/specialistvlad/framecore/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

var (
	// ErrUnknownWork is returned when a pass names a work kind nobody registered.
	ErrUnknownWork = errors.New("unknown work kind")
	// ErrNoPasses is returned when the pipeline path holds no pass blocks.
	ErrNoPasses = errors.New("pipeline has no passes")
)

// fileRoot is the top-level structure of a pass file.
type fileRoot struct {
	Passes []*passBlock `hcl:"pass,block"`
}

type passBlock struct {
	Name     string         `hcl:"name,label"`
	Reads    []string       `hcl:"reads,optional"`
	Writes   []string       `hcl:"writes,optional"`
	Signal   []string       `hcl:"signal,optional"`
	WaitFor  []string       `hcl:"wait_for,optional"`
	Enabled  hcl.Expression `hcl:"enabled,optional"`
	Work     *workBlock     `hcl:"work,block"`
	DefRange hcl.Range      `hcl:",def_range"`
}

type workBlock struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

// Pass is one declared pass of a pipeline.
type Pass struct {
	Name    string
	Reads   []string
	Writes  []string
	Signals []string
	Waits   []string
	Kind    string // empty for a pass with no work body
	Range   hcl.Range

	enabled hcl.Expression
	body    hcl.Body
	work    *registry.RegisteredWork
}

// Pipeline is a loaded set of passes, registered into a frame graph once per
// frame. It is not safe for concurrent use.
type Pipeline struct {
	Passes []*Pass

	env    *registry.Env
	frames int64
}

// Load parses every .hcl file at path (a file or a directory), resolves work
// kinds against reg and decodes every work block once so that errors surface
// before the first frame. Pass ordinals follow file order, then block order.
func Load(ctx context.Context, path string, reg *registry.Registry, env *registry.Env) (*Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading pipeline.", "path", path)

	files, err := fsutil.FindFiles(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find pipeline files in %s: %w", path, err)
	}
	if env == nil {
		env = &registry.Env{}
	}

	p := &Pipeline{env: env}
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, b := range root.Passes {
			pass, err := newPass(b, reg)
			if err != nil {
				return nil, err
			}
			p.Passes = append(p.Passes, pass)
		}
	}
	if len(p.Passes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPasses, path)
	}

	// Dry run with frame 0 so decode errors are load errors.
	for _, pass := range p.Passes {
		evalCtx := evalContext(0, pass.Name)
		if _, err := pass.isEnabled(evalCtx); err != nil {
			return nil, err
		}
		if _, err := pass.decode(evalCtx); err != nil {
			return nil, err
		}
	}

	logger.Info("Pipeline loaded.", "files", len(files), "passes", len(p.Passes))
	return p, nil
}

func newPass(b *passBlock, reg *registry.Registry) (*Pass, error) {
	pass := &Pass{
		Name:    b.Name,
		Reads:   b.Reads,
		Writes:  b.Writes,
		Signals: b.Signal,
		Waits:   b.WaitFor,
		Range:   b.DefRange,
		enabled: b.Enabled,
	}
	if b.Work == nil {
		return pass, nil
	}
	w, ok := reg.Work(b.Work.Kind)
	if !ok {
		return nil, fmt.Errorf("%s: pass %q: %w %q", b.DefRange, b.Name, ErrUnknownWork, b.Work.Kind)
	}
	pass.Kind = b.Work.Kind
	pass.body = b.Work.Body
	pass.work = w
	return pass, nil
}

// Register adds the enabled passes to g. It matches frame.RegisterFunc.
func (p *Pipeline) Register(ctx context.Context, g *framegraph.Graph) error {
	frame := p.frames
	p.frames++

	for _, pass := range p.Passes {
		evalCtx := evalContext(frame, pass.Name)
		enabled, err := pass.isEnabled(evalCtx)
		if err != nil {
			return err
		}
		if !enabled {
			continue
		}

		var execute framegraph.ExecuteFunc
		if pass.work != nil {
			input, err := pass.decode(evalCtx)
			if err != nil {
				return err
			}
			execute, err = pass.work.Build(ctx, p.env, input)
			if err != nil {
				return fmt.Errorf("%s: pass %q: build %s: %w", pass.Range, pass.Name, pass.Kind, err)
			}
		}
		g.AddPass(pass.Name, pass.declare, execute)
	}
	return nil
}

// declare is the pass's SetupFunc.
func (pass *Pass) declare(b *framegraph.Builder) {
	for _, r := range pass.Reads {
		b.ReadResource(framegraph.Named(r))
	}
	for _, w := range pass.Writes {
		b.WriteResource(framegraph.Named(w))
	}
	for _, l := range pass.Signals {
		b.Signal(l)
	}
	for _, l := range pass.Waits {
		b.WaitFor(l)
	}
}

func (pass *Pass) isEnabled(evalCtx *hcl.EvalContext) (bool, error) {
	if pass.enabled == nil {
		return true, nil
	}
	v, diags := pass.enabled.Value(evalCtx)
	if diags.HasErrors() {
		return false, fmt.Errorf("pass %q: enabled: %w", pass.Name, diags)
	}
	if v.IsNull() {
		return true, nil
	}
	var enabled bool
	if err := gocty.FromCtyValue(v, &enabled); err != nil {
		return false, fmt.Errorf("%s: pass %q: enabled must be a bool: %w", pass.Range, pass.Name, err)
	}
	return enabled, nil
}

// decode builds a fresh input for the pass's work kind from its work block.
func (pass *Pass) decode(evalCtx *hcl.EvalContext) (any, error) {
	if pass.work == nil || pass.work.NewInput == nil {
		return nil, nil
	}
	input := pass.work.NewInput()
	if diags := gohcl.DecodeBody(pass.body, evalCtx, input); diags.HasErrors() {
		return nil, fmt.Errorf("pass %q: decode %s input: %w", pass.Name, pass.Kind, diags)
	}
	return input, nil
}

func evalContext(frame int64, pass string) *hcl.EvalContext {
	ctx := config.EvalContext()
	ctx.Variables["frame"] = cty.NumberIntVal(frame)
	ctx.Variables["pass"] = cty.StringVal(pass)
	return ctx
}
