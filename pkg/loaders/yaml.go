package loaders

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vanryn/go-whitted-raytracer/pkg/core"
	"github.com/vanryn/go-whitted-raytracer/pkg/geometry"
	"github.com/vanryn/go-whitted-raytracer/pkg/lights"
	"github.com/vanryn/go-whitted-raytracer/pkg/material"
	"github.com/vanryn/go-whitted-raytracer/pkg/renderer"
	"github.com/vanryn/go-whitted-raytracer/pkg/scene"
)

// sceneResolver resolves an ordered sequence of scene directives into a
// Scene and a Camera. Names must be defined before first use; definitions
// are resolved strictly in declaration order.
type sceneResolver struct {
	defines map[string]interface{}
	scene   *scene.Scene
	camera  *renderer.Camera
}

// ParseYAMLScene reads a YAML scene description and resolves it into an
// immutable Scene plus its Camera. Multiple camera directives are allowed;
// the last one wins.
func ParseYAMLScene(reader io.Reader) (*scene.Scene, *renderer.Camera, error) {
	var directives []map[string]interface{}
	decoder := yaml.NewDecoder(reader)
	if err := decoder.Decode(&directives); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	resolver := &sceneResolver{
		defines: make(map[string]interface{}),
		scene:   scene.New(),
	}

	for i, directive := range directives {
		var err error
		switch {
		case directive["define"] != nil:
			err = resolver.handleDefine(directive)
		case directive["add"] != nil:
			err = resolver.handleAdd(directive)
		default:
			err = fmt.Errorf("%w: directive %d is neither add nor define", ErrParse, i)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	if resolver.camera == nil {
		return nil, nil, fmt.Errorf("%w: scene defines no camera", ErrParse)
	}
	return resolver.scene, resolver.camera, nil
}

// LoadYAMLScene loads and resolves a YAML scene file
func LoadYAMLScene(filename string) (*scene.Scene, *renderer.Camera, error) {
	if filename == "" {
		return nil, nil, fmt.Errorf("filename cannot be empty")
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open scene file: %v", err)
	}
	defer file.Close()

	return ParseYAMLScene(file)
}

// handleDefine stores a named definition, shallow-merging over an extended
// base when one is named. The base must already be defined.
func (r *sceneResolver) handleDefine(directive map[string]interface{}) error {
	name, ok := directive["define"].(string)
	if !ok {
		return fmt.Errorf("%w: define name must be a string", ErrParse)
	}

	value, ok := directive["value"]
	if !ok {
		return fmt.Errorf("%w: define %q has no value", ErrParse, name)
	}

	if extendField, extending := directive["extend"]; extending {
		baseName, ok := extendField.(string)
		if !ok {
			return fmt.Errorf("%w: extend target of %q must be a string", ErrParse, name)
		}
		base, defined := r.defines[baseName]
		if !defined {
			return fmt.Errorf("%w: %q extends undefined %q", ErrUnresolvedReference, name, baseName)
		}

		baseMap, baseOK := base.(map[string]interface{})
		valueMap, valueOK := value.(map[string]interface{})
		if !baseOK || !valueOK {
			return fmt.Errorf("%w: extend requires mapping values for %q", ErrParse, name)
		}

		merged := make(map[string]interface{}, len(baseMap)+len(valueMap))
		for k, v := range baseMap {
			merged[k] = v
		}
		for k, v := range valueMap {
			merged[k] = v
		}
		value = merged
	}

	r.defines[name] = value
	return nil
}

func (r *sceneResolver) handleAdd(directive map[string]interface{}) error {
	kind, ok := directive["add"].(string)
	if !ok {
		return fmt.Errorf("%w: add kind must be a string", ErrParse)
	}

	switch kind {
	case "camera":
		return r.addCamera(directive)
	case "light":
		return r.addLight(directive)
	case "sphere":
		return r.addShape(geometry.NewSphere(), directive)
	case "plane":
		return r.addShape(geometry.NewPlane(), directive)
	case "cube":
		return r.addShape(geometry.NewCube(), directive)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (r *sceneResolver) addCamera(directive map[string]interface{}) error {
	width, err := positiveIntField(directive, "width")
	if err != nil {
		return err
	}
	height, err := positiveIntField(directive, "height")
	if err != nil {
		return err
	}
	fov, err := floatField(directive, "field-of-view")
	if err != nil {
		return err
	}

	from, err := pointField(directive, "from")
	if err != nil {
		return err
	}
	to, err := pointField(directive, "to")
	if err != nil {
		return err
	}
	up, err := vectorField(directive, "up")
	if err != nil {
		return err
	}

	camera := renderer.NewCamera(width, height, fov)
	view, err := renderer.ViewTransform(from, to, up)
	if err != nil {
		return err
	}
	if err := camera.SetTransform(view); err != nil {
		return err
	}

	r.camera = camera
	return nil
}

func (r *sceneResolver) addLight(directive map[string]interface{}) error {
	intensity, err := colorField(directive, "intensity")
	if err != nil {
		return err
	}

	if _, pointStyle := directive["at"]; pointStyle {
		at, err := pointField(directive, "at")
		if err != nil {
			return err
		}
		r.scene.AddLight(lights.NewPointLight(at, intensity))
		return nil
	}

	if _, areaStyle := directive["corner"]; areaStyle {
		corner, err := pointField(directive, "corner")
		if err != nil {
			return err
		}
		uVec, err := vectorField(directive, "uvec")
		if err != nil {
			return err
		}
		vVec, err := vectorField(directive, "vvec")
		if err != nil {
			return err
		}
		uSteps, err := positiveIntField(directive, "usteps")
		if err != nil {
			return err
		}
		vSteps, err := positiveIntField(directive, "vsteps")
		if err != nil {
			return err
		}
		jitter, _ := directive["jitter"].(bool)

		r.scene.AddLight(lights.NewAreaLight(corner, uVec, uSteps, vVec, vSteps, jitter, intensity))
		return nil
	}

	return fmt.Errorf("%w: light needs either at or corner", ErrParse)
}

func (r *sceneResolver) addShape(shape *geometry.Shape, directive map[string]interface{}) error {
	if materialField, ok := directive["material"]; ok {
		m, err := r.resolveMaterial(materialField)
		if err != nil {
			return err
		}
		shape.Material = m
	}

	if transformField, ok := directive["transform"]; ok {
		list, ok := transformField.([]interface{})
		if !ok {
			return fmt.Errorf("%w: transform must be a list", ErrParse)
		}
		m, err := r.buildTransform(list)
		if err != nil {
			return err
		}
		if err := shape.SetTransform(m); err != nil {
			return err
		}
	}

	if shadowField, ok := directive["shadow"]; ok {
		shadow, ok := shadowField.(bool)
		if !ok {
			return fmt.Errorf("%w: shadow must be a boolean", ErrParse)
		}
		shape.Shadow = shadow
	}

	r.scene.AddShape(shape)
	return nil
}

// resolveMaterial accepts either an inline material mapping or a bare
// string naming a previously defined one
func (r *sceneResolver) resolveMaterial(field interface{}) (material.Material, error) {
	switch v := field.(type) {
	case string:
		def, ok := r.defines[v]
		if !ok {
			return material.Material{}, fmt.Errorf("%w: material %q", ErrUnresolvedReference, v)
		}
		defMap, ok := def.(map[string]interface{})
		if !ok {
			return material.Material{}, fmt.Errorf("%w: %q is not a material definition", ErrParse, v)
		}
		return r.parseMaterial(defMap)
	case map[string]interface{}:
		return r.parseMaterial(v)
	default:
		return material.Material{}, fmt.Errorf("%w: material must be a mapping or a name", ErrParse)
	}
}

func (r *sceneResolver) parseMaterial(fields map[string]interface{}) (material.Material, error) {
	m := material.NewMaterial()

	if _, ok := fields["color"]; ok {
		color, err := colorField(fields, "color")
		if err != nil {
			return m, err
		}
		m.Color = color
	}

	if patternField, ok := fields["pattern"]; ok {
		patternMap, ok := patternField.(map[string]interface{})
		if !ok {
			return m, fmt.Errorf("%w: pattern must be a mapping", ErrParse)
		}
		pattern, err := r.parsePattern(patternMap)
		if err != nil {
			return m, err
		}
		m.Pattern = pattern
	}

	scalars := []struct {
		key    string
		target *float64
	}{
		{"ambient", &m.Ambient},
		{"diffuse", &m.Diffuse},
		{"specular", &m.Specular},
		{"shininess", &m.Shininess},
		{"reflective", &m.Reflective},
		{"transparency", &m.Transparency},
		{"refractive-index", &m.RefractiveIndex},
	}
	for _, s := range scalars {
		if _, ok := fields[s.key]; !ok {
			continue
		}
		value, err := floatField(fields, s.key)
		if err != nil {
			return m, err
		}
		*s.target = value
	}

	return m, nil
}

func (r *sceneResolver) parsePattern(fields map[string]interface{}) (material.Pattern, error) {
	patternType, ok := fields["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: pattern type must be a string", ErrParse)
	}

	transform := core.Identity()
	if transformField, ok := fields["transform"]; ok {
		list, ok := transformField.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: pattern transform must be a list", ErrParse)
		}
		var err error
		transform, err = r.buildTransform(list)
		if err != nil {
			return nil, err
		}
	}

	colors, err := patternColors(fields)
	if err != nil {
		return nil, err
	}

	if patternType == "solid" {
		if len(colors) != 1 {
			return nil, fmt.Errorf("%w: solid pattern needs exactly one color", ErrParse)
		}
		return material.NewSolidPattern(colors[0]), nil
	}

	if len(colors) != 2 {
		return nil, fmt.Errorf("%w: %s pattern needs exactly two colors", ErrParse, patternType)
	}
	a, b := colors[0], colors[1]

	switch patternType {
	case "stripes":
		return material.NewStripePattern(a, b, transform)
	case "gradient":
		return material.NewGradientPattern(a, b, transform)
	case "ring":
		return material.NewRingPattern(a, b, transform)
	case "checkers":
		return material.NewCheckersPattern(a, b, transform)
	default:
		return nil, fmt.Errorf("%w: pattern type %q", ErrParse, patternType)
	}
}

func patternColors(fields map[string]interface{}) ([]core.Color, error) {
	colorsField, ok := fields["colors"]
	if !ok {
		return nil, fmt.Errorf("%w: pattern has no colors", ErrParse)
	}
	list, ok := colorsField.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: pattern colors must be a list", ErrParse)
	}

	colors := make([]core.Color, 0, len(list))
	for _, entry := range list {
		values, err := floatTriple(entry)
		if err != nil {
			return nil, err
		}
		colors = append(colors, core.NewColor(values[0], values[1], values[2]))
	}
	return colors, nil
}

// buildTransform expands a transform list, flattening named references,
// and composes the result so the first listed operation applies first
func (r *sceneResolver) buildTransform(list []interface{}) (core.Matrix, error) {
	ops, err := r.expandTransformList(list, make(map[string]bool))
	if err != nil {
		return core.Matrix{}, err
	}
	return core.Compose(ops...), nil
}

// expandTransformList resolves a mixed list of literal [op, args...]
// entries and named transform-list references. The guard set holds the
// names currently being expanded, which catches transitive self-reference.
func (r *sceneResolver) expandTransformList(list []interface{}, guard map[string]bool) ([]core.Matrix, error) {
	var ops []core.Matrix
	for _, entry := range list {
		switch e := entry.(type) {
		case string:
			if guard[e] {
				return nil, fmt.Errorf("%w: transform %q", ErrCyclicDefinition, e)
			}
			def, ok := r.defines[e]
			if !ok {
				return nil, fmt.Errorf("%w: transform %q", ErrUnresolvedReference, e)
			}
			nested, ok := def.([]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: %q is not a transform list", ErrParse, e)
			}
			guard[e] = true
			expanded, err := r.expandTransformList(nested, guard)
			delete(guard, e)
			if err != nil {
				return nil, err
			}
			ops = append(ops, expanded...)
		case []interface{}:
			m, err := parseTransformOp(e)
			if err != nil {
				return nil, err
			}
			ops = append(ops, m)
		default:
			return nil, fmt.Errorf("%w: transform entry must be an operation or a name", ErrParse)
		}
	}
	return ops, nil
}

func parseTransformOp(entry []interface{}) (core.Matrix, error) {
	if len(entry) == 0 {
		return core.Matrix{}, fmt.Errorf("%w: empty transform operation", ErrParse)
	}
	op, ok := entry[0].(string)
	if !ok {
		return core.Matrix{}, fmt.Errorf("%w: transform operation name must be a string", ErrParse)
	}

	args := make([]float64, 0, len(entry)-1)
	for _, raw := range entry[1:] {
		value, ok := toFloat(raw)
		if !ok {
			return core.Matrix{}, fmt.Errorf("%w: %s argument must be a number", ErrParse, op)
		}
		args = append(args, value)
	}

	argCount := map[string]int{
		"translate": 3, "scale": 3,
		"rotate-x": 1, "rotate-y": 1, "rotate-z": 1,
		"shear": 6,
	}
	want, known := argCount[op]
	if !known {
		return core.Matrix{}, fmt.Errorf("%w: transform operation %q", ErrParse, op)
	}
	if len(args) != want {
		return core.Matrix{}, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrParse, op, want, len(args))
	}

	switch op {
	case "translate":
		return core.Translation(args[0], args[1], args[2]), nil
	case "scale":
		return core.Scaling(args[0], args[1], args[2]), nil
	case "rotate-x":
		return core.RotationX(args[0]), nil
	case "rotate-y":
		return core.RotationY(args[0]), nil
	case "rotate-z":
		return core.RotationZ(args[0]), nil
	default:
		return core.Shearing(args[0], args[1], args[2], args[3], args[4], args[5]), nil
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func floatTriple(v interface{}) ([3]float64, error) {
	var values [3]float64
	list, ok := v.([]interface{})
	if !ok || len(list) != 3 {
		return values, fmt.Errorf("%w: expected a list of three numbers", ErrParse)
	}
	for i, raw := range list {
		value, ok := toFloat(raw)
		if !ok {
			return values, fmt.Errorf("%w: expected a number, got %v", ErrParse, raw)
		}
		values[i] = value
	}
	return values, nil
}

func floatField(fields map[string]interface{}, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing field %q", ErrParse, key)
	}
	value, ok := toFloat(raw)
	if !ok {
		return 0, fmt.Errorf("%w: field %q must be a number", ErrParse, key)
	}
	return value, nil
}

func intField(fields map[string]interface{}, key string) (int, error) {
	value, err := floatField(fields, key)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

func positiveIntField(fields map[string]interface{}, key string) (int, error) {
	value, err := intField(fields, key)
	if err != nil {
		return 0, err
	}
	if value < 1 {
		return 0, fmt.Errorf("%w: field %q must be positive, got %d", ErrParse, key, value)
	}
	return value, nil
}

func pointField(fields map[string]interface{}, key string) (core.Tuple, error) {
	raw, ok := fields[key]
	if !ok {
		return core.Tuple{}, fmt.Errorf("%w: missing field %q", ErrParse, key)
	}
	values, err := floatTriple(raw)
	if err != nil {
		return core.Tuple{}, fmt.Errorf("field %q: %w", key, err)
	}
	return core.NewPoint(values[0], values[1], values[2]), nil
}

func vectorField(fields map[string]interface{}, key string) (core.Tuple, error) {
	raw, ok := fields[key]
	if !ok {
		return core.Tuple{}, fmt.Errorf("%w: missing field %q", ErrParse, key)
	}
	values, err := floatTriple(raw)
	if err != nil {
		return core.Tuple{}, fmt.Errorf("field %q: %w", key, err)
	}
	return core.NewVector(values[0], values[1], values[2]), nil
}

func colorField(fields map[string]interface{}, key string) (core.Color, error) {
	raw, ok := fields[key]
	if !ok {
		return core.Color{}, fmt.Errorf("%w: missing field %q", ErrParse, key)
	}
	values, err := floatTriple(raw)
	if err != nil {
		return core.Color{}, fmt.Errorf("field %q: %w", key, err)
	}
	return core.NewColor(values[0], values[1], values[2]), nil
}
