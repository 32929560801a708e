package prefabs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
)

// ScriptTimeout bounds a single path script run.
const ScriptTimeout = time.Second

var ErrBadPathScript = errors.New("prefabs: path script must set points to an array of [x, y, z]")

// PathPoints resolves spec into spline control points in the character's
// local frame. A nil spec has no points.
func PathPoints(ctx context.Context, spec *PathSpec) ([]mgl64.Vec3, error) {
	if spec == nil {
		return nil, nil
	}
	if spec.Script != "" {
		return RunPathScript(ctx, spec.Script, spec.Params)
	}
	points := make([]mgl64.Vec3, 0, len(spec.Points))
	for _, p := range spec.Points {
		points = append(points, mgl64.Vec3{p[0], p[1], p[2]})
	}
	return points, nil
}

// RunPathScript runs a tengo script with params bound as globals and reads
// back its points variable.
func RunPathScript(ctx context.Context, name string, params map[string]float64) ([]mgl64.Vec3, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}

	script := tengo.NewScript(src)
	for k, v := range params {
		if err := script.Add(k, v); err != nil {
			return nil, fmt.Errorf("prefabs: script %s: param %s: %w", name, k, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	ctx, cancel := context.WithTimeout(ctx, ScriptTimeout)
	defer cancel()
	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("prefabs: run script %s: %w", name, err)
	}
	if !compiled.IsDefined("points") {
		return nil, fmt.Errorf("%w: %s", ErrBadPathScript, name)
	}

	raw := compiled.Get("points").Array()
	points := make([]mgl64.Vec3, 0, len(raw))
	for i, item := range raw {
		p, ok := toVec3(item)
		if !ok {
			return nil, fmt.Errorf("%w: %s: point %d is %v", ErrBadPathScript, name, i, item)
		}
		points = append(points, p)
	}
	return points, nil
}

func toVec3(v any) (mgl64.Vec3, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) != 3 {
		return mgl64.Vec3{}, false
	}
	var out mgl64.Vec3
	for i, c := range arr {
		switch n := c.(type) {
		case float64:
			out[i] = n
		case int64:
			out[i] = float64(n)
		default:
			return mgl64.Vec3{}, false
		}
	}
	return out, true
}
