package synth

import (
	"slices"
	"strconv"
)

// object emits required properties, optional ones with the configured
// probability, and additionalProperties entries when no static property is
// declared. Properties are visited in name order so seeded runs repeat.
func (r *run) object(m map[string]any, depth int) (map[string]any, error) {
	o := r.g.opts
	out := map[string]any{}
	props, _ := m["properties"].(map[string]any)
	required := map[string]bool{}
	if req, ok := m["required"].([]any); ok {
		for _, x := range req {
			if s, ok := x.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		ps := props[name]
		if !o.IncludeDeprecated && isDeprecated(ps) {
			continue
		}
		if !required[name] {
			if o.RequiredOnly || r.g.rnd.Float64() >= o.OptionalsProbability {
				continue
			}
		}
		v, ok, err := r.node(ps, nil, depth+1)
		if err != nil {
			return nil, err
		}
		if ok {
			out[name] = v
		}
	}
	if len(props) > 0 {
		return out, nil
	}

	if pp, ok := m["patternProperties"].(map[string]any); ok {
		pats := make([]string, 0, len(pp))
		for p := range pp {
			pats = append(pats, p)
		}
		slices.Sort(pats)
		for _, p := range pats {
			key, err := r.g.fromPattern(p)
			if err != nil {
				r.g.log.Debug("patternProperties key not synthesized", "pattern", p, "err", err)
				continue
			}
			v, ok, err := r.node(pp[p], nil, depth+1)
			if err != nil {
				return nil, err
			}
			if ok {
				out[key] = v
			}
		}
	}

	ap, ok := m["additionalProperties"].(map[string]any)
	if !ok {
		return out, nil
	}
	n := max(1, intKeyword(m, "minProperties", 0))
	if limit := intKeyword(m, "maxProperties", -1); limit >= 0 {
		n = min(n, limit-len(out))
	}
	for i := 1; i <= n; i++ {
		v, ok, err := r.node(ap, nil, depth+1)
		if err != nil {
			return nil, err
		}
		if ok {
			out["additionalProp"+strconv.Itoa(i)] = v
		}
	}
	return out, nil
}

// array returns an example array verbatim when it has more than two elements
// and AvoidExampleItemsLength is off. Otherwise it synthesizes items, each
// borrowing the example element at its position, cyclically, as a hint.
func (r *run) array(m map[string]any, depth int) ([]any, error) {
	o := r.g.opts
	var ex []any
	if v, ok := exampleOf(m); ok {
		ex, _ = v.([]any)
	}
	if len(ex) > 2 && !o.AvoidExampleItemsLength {
		return cloneValue(ex).([]any), nil
	}

	// Tuple forms: draft-04 items list and 2020-12 prefixItems.
	tuple, _ := m["prefixItems"].([]any)
	if list, ok := m["items"].([]any); ok {
		tuple = list
	}
	if tuple != nil {
		out := make([]any, 0, len(tuple))
		for i, s := range tuple {
			v, _, err := r.node(s, exampleHint(ex, i), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	items, ok := m["items"]
	if !ok {
		return []any{}, nil
	}
	n := r.itemCount(m)
	out := make([]any, 0, n)
	for i := range n {
		v, _, err := r.node(items, exampleHint(ex, i), depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// itemCount draws a length inside the option window narrowed by the schema's
// own minItems/maxItems. When the two disagree the schema wins.
func (r *run) itemCount(m map[string]any) int {
	o := r.g.opts
	lo, hi := o.MinItems, o.MaxItems
	smin := intKeyword(m, "minItems", -1)
	smax := intKeyword(m, "maxItems", -1)
	if smin > lo {
		lo = smin
	}
	if smax >= 0 && smax < hi {
		hi = smax
	}
	if lo > hi {
		if smax >= 0 && smax < o.MinItems {
			lo = hi
		} else {
			hi = lo
		}
	}
	return lo + r.g.rnd.Intn(hi-lo+1)
}

func exampleHint(ex []any, i int) *hint {
	if len(ex) == 0 {
		return nil
	}
	return &hint{value: ex[i%len(ex)]}
}

// intKeyword reads a numeric keyword as int, def when absent.
func intKeyword(m map[string]any, kw string, def int) int {
	if f, ok := numKeyword(m, kw); ok {
		return int(f)
	}
	return def
}
