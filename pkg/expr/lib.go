package expr

import (
	"fmt"
	"math"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/ext"

	"github.com/macropower/compass/pkg/rule"
)

// Variable names available to score expressions.
const (
	VarNames        = "names"
	VarColumns      = "columns"
	VarTotalRows    = "total_rows"
	VarTotalColumns = "total_columns"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		cel.Variable(VarNames, cel.ListType(cel.StringType)),
		cel.Variable(VarColumns, cel.MapType(cel.StringType, cel.MapType(cel.StringType, cel.DynType))),
		cel.Variable(VarTotalRows, cel.IntType),
		cel.Variable(VarTotalColumns, cel.IntType),

		// `match` returns the names matching a case-insensitive regular
		// expression anywhere, in their original order.
		// Example: match(names, "_id$").size() > 0.
		cel.Function("match",
			cel.Overload("match_list_string", []*cel.Type{cel.ListType(cel.StringType), cel.StringType},
				cel.ListType(cel.StringType),
				cel.BinaryBinding(func(names, pattern ref.Val) ref.Val {
					patternStr, ok := pattern.Value().(string)
					if !ok {
						return types.NewErr("match: invalid pattern value")
					}

					p, err := rule.Compile(patternStr)
					if err != nil {
						return types.WrapErr(err)
					}

					list, ok := names.(traits.Lister)
					if !ok {
						return types.NewErr("match: invalid names list")
					}

					var matched []string

					it := list.Iterator()
					for it.HasNext() == types.True {
						name, ok := it.Next().Value().(string)
						if !ok {
							return types.NewErr("match: invalid name in list")
						}
						if p.MatchString(name) {
							matched = append(matched, name)
						}
					}

					return types.NewStringList(types.DefaultTypeAdapter, matched)
				}),
			),
		),

		// `mean` returns the arithmetic mean of a numeric list, or 0 for an
		// empty list.
		// Example: mean(match(names, "amount").map(n, 100.0 - columns[n].null_percentage)).
		cel.Function("mean",
			cel.Overload("mean_list", []*cel.Type{cel.ListType(cel.DynType)}, cel.DoubleType,
				cel.UnaryBinding(func(values ref.Val) ref.Val {
					list, ok := values.(traits.Lister)
					if !ok {
						return types.NewErr("mean: invalid list")
					}

					var (
						sum float64
						n   int
					)

					it := list.Iterator()
					for it.HasNext() == types.True {
						f, err := toFloat(it.Next())
						if err != nil {
							return types.NewErr("mean: %v", err)
						}

						sum += f
						n++
					}

					if n == 0 {
						return types.Double(0)
					}

					return types.Double(sum / float64(n))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

// ConvertToCELValue converts a Go value to a CEL value.
// Handles the types produced for column profiles and returns null for
// unsupported types.
//
//nolint:ireturn // Following CEL's function signature.
func ConvertToCELValue(value any) ref.Val {
	switch v := value.(type) {
	case nil:
		return types.NullValue

	case bool:
		return types.Bool(v)

	case int:
		return types.Int(v)

	case int64:
		return types.Int(v)

	case float64:
		return types.Double(v)

	case string:
		return types.String(v)

	case []string:
		return types.NewStringList(types.DefaultTypeAdapter, v)

	case []any:
		celValues := make([]ref.Val, len(v))
		for i, item := range v {
			celValues[i] = ConvertToCELValue(item)
		}

		return types.NewDynamicList(types.DefaultTypeAdapter, celValues)

	case map[string]any:
		celMap := make(map[ref.Val]ref.Val, len(v))
		for key, val := range v {
			celMap[types.String(key)] = ConvertToCELValue(val)
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	default:
		return types.NullValue
	}
}

func toFloat(val ref.Val) (float64, error) {
	var f float64

	switch v := val.(type) {
	case types.Double:
		f = float64(v)
	case types.Int:
		f = float64(v)
	case types.Uint:
		f = float64(v)
	case *types.Err:
		return 0, v
	default:
		return 0, fmt.Errorf("%w, got %s", ErrNotNumeric, val.Type().TypeName())
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w, got %v", ErrNotNumeric, f)
	}

	return f, nil
}
