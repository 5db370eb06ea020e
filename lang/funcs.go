package lang

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// Func is a callable available to expressions, in the variadic shape the
// host VM invokes.
type Func func(args ...any) (any, error)

// funcs are the math functions the engine can supply to expressions. Which
// of them an expression may actually call is decided by its owner's
// whitelist.
var funcs = map[string]Func{
	"ceil":  unary("ceil", math.Ceil),
	"floor": unary("floor", math.Floor),
	"exp":   unary("exp", math.Exp),
	"log":   unary("log", math.Log),
	"log10": unary("log10", math.Log10),
	"pow":   binary("pow", math.Pow),
	"min":   variadic("min", math.Min),
	"max":   variadic("max", math.Max),
}

// FuncNames returns the name of every function the engine supplies, sorted.
// Owners typically build their whitelists from this set or a subset of it.
func FuncNames() []string {
	return slices.Sorted(maps.Keys(funcs))
}

func unary(name string, f func(float64) float64) Func {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, not %d", name, len(args))
		}

		x, err := toFloat(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		return f(x), nil
	}
}

func binary(name string, f func(float64, float64) float64) Func {
	return func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, not %d", name, len(args))
		}

		x, err := toFloat(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		y, err := toFloat(args[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		return f(x, y), nil
	}
}

func variadic(name string, f func(float64, float64) float64) Func {
	return func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%s expects at least 1 argument", name)
		}

		acc, err := toFloat(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		for _, arg := range args[1:] {
			x, err := toFloat(arg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}

			acc = f(acc, x)
		}

		return acc, nil
	}
}

// toFloat coerces the numeric types the host VM produces. Booleans are not
// numbers.
func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}

	return 0, fmt.Errorf("cannot use %T as a number", v)
}
