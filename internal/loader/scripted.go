package loader

import (
	"context"
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"github.com/zclconf/go-cty/cty"

	"github.com/DDbuding/ComfyUI-Buding-tools/internal/capability"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/descriptor"
	"github.com/DDbuding/ComfyUI-Buding-tools/internal/manifest"
)

// scriptBody is the signature a scripted unit's build function must return:
// a plain transformation over native Go values. The loader bridges it to the
// typed ExecFunc contract.
type scriptBody = func(map[string]any) (map[string]any, error)

// scriptedBuilder returns a builder that evaluates the unit's unit.go with
// the yaegi interpreter and extracts the build function named by the
// manifest (qualified by the script's package, e.g. "reverse.Build").
// Interpretation errors are ordinary load failures: they are caught by the
// loader's failure boundary like any other unit error.
func scriptedBuilder(path string) Builder {
	return func(ctx context.Context, caps *capability.Set, m *manifest.Manifest) (descriptor.ExecFunc, error) {
		i := interp.New(interp.Options{})
		if err := i.Use(stdlib.Symbols); err != nil {
			return nil, fmt.Errorf("interpreter setup: %w", err)
		}

		if _, err := i.EvalPath(path); err != nil {
			return nil, fmt.Errorf("interpret %s: %w", path, err)
		}

		value, err := i.Eval(m.BuildHandler)
		if err != nil {
			return nil, fmt.Errorf("script %s must define %s() (func(map[string]any) (map[string]any, error), error): %w",
				path, m.BuildHandler, err)
		}

		body, err := invokeScriptBuild(value)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", path, err)
		}

		return wrapScriptBody(m, body), nil
	}
}

// invokeScriptBuild calls the interpreted build function reflectively and
// extracts the body it returns.
func invokeScriptBuild(value reflect.Value) (scriptBody, error) {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return nil, fmt.Errorf("build handler is not a function")
	}
	if value.Type().NumIn() != 0 {
		return nil, fmt.Errorf("build handler must take no arguments")
	}

	results := value.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("build handler must return (body[, error])")
	}
	if len(results) == 2 && !results[1].IsNil() {
		if e, ok := results[1].Interface().(error); ok {
			return nil, e
		}
		return nil, fmt.Errorf("build handler returned a non-error second value")
	}

	body, ok := results[0].Interface().(func(map[string]any) (map[string]any, error))
	if !ok {
		return nil, fmt.Errorf("build handler must return func(map[string]any) (map[string]any, error), got %T",
			results[0].Interface())
	}
	return body, nil
}

// wrapScriptBody adapts a native-value transformation into the typed
// ExecFunc contract, converting inputs and outputs through the manifest's
// declared schemas.
func wrapScriptBody(m *manifest.Manifest, body scriptBody) descriptor.ExecFunc {
	outputs := m.Outputs
	return func(ctx context.Context, inputs map[string]cty.Value) (map[string]cty.Value, error) {
		native := make(map[string]any, len(inputs))
		for name, v := range inputs {
			converted, err := nativeFromCty(v)
			if err != nil {
				return nil, fmt.Errorf("input %q: %w", name, err)
			}
			native[name] = converted
		}

		result, err := runScriptBody(body, native)
		if err != nil {
			return nil, err
		}

		typed := make(map[string]cty.Value, len(outputs))
		for _, spec := range outputs {
			raw, ok := result[spec.Name]
			if !ok {
				return nil, fmt.Errorf("scripted body returned no value for output %q", spec.Name)
			}
			v, err := ctyFromNative(raw, spec.Type)
			if err != nil {
				return nil, fmt.Errorf("output %q: %w", spec.Name, err)
			}
			typed[spec.Name] = v
		}
		return typed, nil
	}
}

// runScriptBody executes an interpreted body inside its own failure
// boundary. Stubs are synthesized at load time, but an interpreted body can
// still panic at invocation time; that must reach the host as an error.
func runScriptBody(body scriptBody, inputs map[string]any) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("scripted body panicked: %v", r)
		}
	}()
	return body(inputs)
}
