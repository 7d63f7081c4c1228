// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                Expression Templates                                //
//                                                                                    //
// A template is an expression string with one or more {{slot}} placeholders, each    //
// bound to a list of substitution values. ExpandTemplate walks every combination of   //
// those lists (a cartesian product, as the teacher's permutation-driven structured    //
// rolls did) and rolls the resulting expression once per combination.                //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

import (
	"fmt"
	"strings"

	cartesian "github.com/schwarmco/go-cartesian-product"
)

// TemplateResult is one combination's substituted expression and its roll.
type TemplateResult struct {
	Bindings   map[string]string
	Expression string
	Value      int64
}

// ExpandTemplate substitutes every combination of slots into template (each
// "{{name}}" occurrence replaced by one value from slots[name]) and rolls the
// resulting expression, returning one TemplateResult per combination in the
// cartesian product's iteration order. The trace reflects only the final
// combination rolled; callers who need per-combination traces should call
// RollExpression directly in a loop instead.
func (c *Context) ExpandTemplate(template string, slots map[string][]string) ([]TemplateResult, error) {
	if len(slots) == 0 {
		v, err := c.RollExpression(template)
		if err != nil {
			return nil, err
		}
		return []TemplateResult{{Bindings: map[string]string{}, Expression: template, Value: v}}, nil
	}

	names := make([]string, 0, len(slots))
	params := make([][]interface{}, 0, len(slots))
	for name, values := range slots {
		names = append(names, name)
		vals := make([]interface{}, len(values))
		for i, v := range values {
			vals[i] = v
		}
		params = append(params, vals)
	}

	var results []TemplateResult
	for combo := range cartesian.Iter(params...) {
		bindings := make(map[string]string, len(names))
		expr := template
		for i, name := range names {
			val, _ := combo[i].(string)
			bindings[name] = val
			expr = strings.ReplaceAll(expr, fmt.Sprintf("{{%s}}", name), val)
		}
		v, err := c.RollExpression(expr)
		if err != nil {
			return nil, err
		}
		results = append(results, TemplateResult{Bindings: bindings, Expression: expr, Value: v})
	}
	return results, nil
}
