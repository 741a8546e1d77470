// Package convert maps raw property text to typed values and back. Each
// schema.Kind has one conversion rule in each direction; containers and
// dynamic values recurse through their element rules. Conversion never
// panics: failures come back as errors for the caller to log and absorb.
package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/inigo/geom"
	"github.com/dshills/inigo/schema"
)

// ErrNoTextForm reports a kind with no single-line text form. Map fields
// are assembled from prefixed properties, not from one raw value.
var ErrNoTextForm = errors.New("kind has no single-value text form")

// Value converts raw text into a typed value for t. The second result
// reports whether a value was produced: lists with no surviving elements
// and empty dynamic text yield absent rather than a zero value. An
// optional's empty text is an explicit null, returned as (nil, true, nil).
// For lists, a non-nil error may accompany a usable value when only some
// elements converted.
func Value(t schema.Type, raw string) (any, bool, error) {
	switch t.Kind {
	case schema.KindBool:
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, false, fmt.Errorf("bool %q: %w", raw, err)
		}
		return v, true, nil

	case schema.KindInt:
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, false, fmt.Errorf("int %q: %w", raw, err)
		}
		return v, true, nil

	case schema.KindUint:
		v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, strconv.IntSize)
		if err != nil {
			return nil, false, fmt.Errorf("uint %q: %w", raw, err)
		}
		return uint(v), true, nil

	case schema.KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, false, fmt.Errorf("float %q: %w", raw, err)
		}
		return v, true, nil

	case schema.KindString:
		return raw, true, nil

	case schema.KindDuration:
		v, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return nil, false, fmt.Errorf("duration %q: %w", raw, err)
		}
		return v, true, nil

	case schema.KindPoint:
		ns, err := splitInts(raw, 2)
		if err != nil {
			return nil, false, err
		}
		return geom.Point{X: ns[0], Y: ns[1]}, true, nil

	case schema.KindSize:
		ns, err := splitInts(raw, 2)
		if err != nil {
			return nil, false, err
		}
		return geom.Size{Width: ns[0], Height: ns[1]}, true, nil

	case schema.KindRect:
		ns, err := splitInts(raw, 4)
		if err != nil {
			return nil, false, err
		}
		return geom.Rect{X: ns[0], Y: ns[1], Width: ns[2], Height: ns[3]}, true, nil

	case schema.KindColor:
		ns, err := splitInts(raw, 4)
		if err != nil {
			return nil, false, err
		}
		return geom.Color{A: ns[0], R: ns[1], G: ns[2], B: ns[3]}, true, nil

	case schema.KindEnum:
		if t.Enum == nil {
			return nil, false, errors.New("enum type without member set")
		}
		name := strings.TrimSpace(raw)
		v, ok := t.Enum.Value(name)
		if !ok {
			return nil, false, fmt.Errorf("enum member %q not found", name)
		}
		return v, true, nil

	case schema.KindOptional:
		if strings.TrimSpace(raw) == "" {
			return nil, true, nil
		}
		return Value(*t.Elem, raw)

	case schema.KindList:
		var out []any
		var errs []error
		for _, token := range strings.Split(raw, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			v, ok, err := Value(*t.Elem, token)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if ok {
				out = append(out, v)
			}
		}
		if len(out) == 0 {
			// Never an empty populated list: nothing converted means absent.
			return nil, false, errors.Join(errs...)
		}
		return out, true, errors.Join(errs...)

	case schema.KindMap:
		return nil, false, ErrNoTextForm

	case schema.KindDynamic:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, false, nil
		}
		tag, rest, found := strings.Cut(raw, ":")
		if !found {
			return nil, false, fmt.Errorf("dynamic value %q: missing type tag", raw)
		}
		et, ok := TagType(tag)
		if !ok {
			return nil, false, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
		}
		v, produced, err := Value(et, rest)
		if err != nil {
			return nil, false, fmt.Errorf("dynamic %s: %w", tag, err)
		}
		if !produced {
			return nil, false, nil
		}
		return schema.Dynamic{Tag: tag, Value: v}, true, nil

	default:
		return nil, false, fmt.Errorf("unsupported kind %s", t.Kind)
	}
}

// Text renders a typed value as raw text for t, the exact inverse of Value.
// A nil value renders as the empty string. Lists arrive as []any (the form
// bindings produce); dynamic values as schema.Dynamic, with loose values
// boxed on the fly.
func Text(t schema.Type, v any) (string, error) {
	if v == nil {
		return "", nil
	}
	switch t.Kind {
	case schema.KindBool:
		b, ok := v.(bool)
		if !ok {
			return "", renderErr(t, v)
		}
		return strconv.FormatBool(b), nil

	case schema.KindInt:
		n, ok := v.(int)
		if !ok {
			return "", renderErr(t, v)
		}
		return strconv.Itoa(n), nil

	case schema.KindUint:
		u, ok := v.(uint)
		if !ok {
			return "", renderErr(t, v)
		}
		return strconv.FormatUint(uint64(u), 10), nil

	case schema.KindFloat:
		f, ok := v.(float64)
		if !ok {
			return "", renderErr(t, v)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil

	case schema.KindString:
		s, ok := v.(string)
		if !ok {
			return "", renderErr(t, v)
		}
		return s, nil

	case schema.KindDuration:
		d, ok := v.(time.Duration)
		if !ok {
			return "", renderErr(t, v)
		}
		return d.String(), nil

	case schema.KindPoint:
		p, ok := v.(geom.Point)
		if !ok {
			return "", renderErr(t, v)
		}
		return p.String(), nil

	case schema.KindSize:
		s, ok := v.(geom.Size)
		if !ok {
			return "", renderErr(t, v)
		}
		return s.String(), nil

	case schema.KindRect:
		r, ok := v.(geom.Rect)
		if !ok {
			return "", renderErr(t, v)
		}
		return r.String(), nil

	case schema.KindColor:
		c, ok := v.(geom.Color)
		if !ok {
			return "", renderErr(t, v)
		}
		return c.String(), nil

	case schema.KindEnum:
		if t.Enum == nil {
			return "", errors.New("enum type without member set")
		}
		n, ok := v.(int)
		if !ok {
			return "", renderErr(t, v)
		}
		name, ok := t.Enum.Name(n)
		if !ok {
			return "", fmt.Errorf("enum value %d has no member name", n)
		}
		return name, nil

	case schema.KindOptional:
		return Text(*t.Elem, v)

	case schema.KindList:
		xs, ok := v.([]any)
		if !ok {
			return "", renderErr(t, v)
		}
		parts := make([]string, 0, len(xs))
		for _, x := range xs {
			s, err := Text(*t.Elem, x)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil

	case schema.KindMap:
		return "", ErrNoTextForm

	case schema.KindDynamic:
		d, ok := v.(schema.Dynamic)
		if !ok {
			d = schema.Dynamic{Value: v}
		}
		if d.Value == nil {
			return "", nil
		}
		tag := d.Tag
		if tag == "" {
			tag, ok = InferTag(d.Value)
			if !ok {
				return "", fmt.Errorf("cannot infer dynamic tag for %T", d.Value)
			}
		}
		et, found := TagType(tag)
		if !found {
			return "", fmt.Errorf("%w: %q", ErrUnknownTag, tag)
		}
		s, err := Text(et, d.Value)
		if err != nil {
			return "", err
		}
		return tag + ":" + s, nil

	default:
		return "", fmt.Errorf("unsupported kind %s", t.Kind)
	}
}

// splitInts parses exactly n comma-separated integers.
func splitInts(raw string, n int) ([]int, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%q: want %d comma-separated integers, got %d", raw, n, len(parts))
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw, err)
		}
		out[i] = v
	}
	return out, nil
}

func renderErr(t schema.Type, v any) error {
	return fmt.Errorf("cannot render %T as %s", v, t)
}
