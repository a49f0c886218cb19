package xlgrid

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

type formulaFunc = func(args ...any) (any, error)

var formulaFunctions = map[string]formulaFunc{
	"SUM":         fnSum,
	"AVERAGE":     fnAverage,
	"MIN":         fnMin,
	"MAX":         fnMax,
	"COUNT":       fnCount,
	"IF":          fnIf,
	"AND":         fnAnd,
	"OR":          fnOr,
	"NOT":         fnNot,
	"ABS":         fnAbs,
	"ROUND":       fnRound,
	"MOD":         fnMod,
	"CONCATENATE": fnConcatenate,
	"LEN":         fnLen,
	"UPPER":       fnUpper,
	"LOWER":       fnLower,
	"HYPERLINK":   fnHyperlink,
}

// FormulaFunctions returns the names of the functions formulas may call,
// sorted.
func FormulaFunctions() []string {
	return slices.Sorted(maps.Keys(formulaFunctions))
}

// flatten expands range arguments into their values.
func flatten(args []any) []any {
	var out []any
	for _, arg := range args {
		if values, ok := arg.([]any); ok {
			out = append(out, values...)
			continue
		}
		out = append(out, arg)
	}
	return out
}

// numbers returns the numeric values of args. Text and empty cells inside
// ranges are skipped; a direct argument that is not a number is #VALUE!.
func numbers(args []any) ([]float64, error) {
	var out []float64
	for _, arg := range args {
		if values, ok := arg.([]any); ok {
			for _, v := range values {
				if n, ok := v.(float64); ok {
					out = append(out, n)
				}
			}
			continue
		}
		n, ok := toNumber(arg)
		if !ok {
			return nil, NewFormulaError(ErrorCodeValue, "expected a number, got "+toText(arg))
		}
		out = append(out, n)
	}
	return out, nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case nil:
		return 0, true
	}
	return 0, false
}

func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	}
	return fmt.Sprint(v)
}

func isTruthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case string:
		return x != ""
	case nil:
		return false
	}
	return true
}

func arity(name string, args []any, least, most int) error {
	if len(args) < least || len(args) > most {
		return NewFormulaError(ErrorCodeNA, name+": wrong number of arguments")
	}
	return nil
}

// addFunction backs the + operator. The name is not a valid formula
// function so formulas cannot call it directly.
const addFunction = "numericAdd"

func numericAdd(args ...any) (any, error) {
	if err := arity("+", args, 2, 2); err != nil {
		return nil, err
	}
	a, ok := toNumber(args[0])
	if !ok {
		return nil, NewFormulaError(ErrorCodeValue, "+ expects numbers, got "+toText(args[0]))
	}
	b, ok := toNumber(args[1])
	if !ok {
		return nil, NewFormulaError(ErrorCodeValue, "+ expects numbers, got "+toText(args[1]))
	}
	return a + b, nil
}

func fnSum(args ...any) (any, error) {
	nums, err := numbers(args)
	if err != nil {
		return nil, err
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum, nil
}

func fnAverage(args ...any) (any, error) {
	nums, err := numbers(args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, NewFormulaError(ErrorCodeDiv0, "AVERAGE has no values")
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums)), nil
}

func fnMin(args ...any) (any, error) {
	nums, err := numbers(args)
	if err != nil || len(nums) == 0 {
		return 0.0, err
	}
	return slices.Min(nums), nil
}

func fnMax(args ...any) (any, error) {
	nums, err := numbers(args)
	if err != nil || len(nums) == 0 {
		return 0.0, err
	}
	return slices.Max(nums), nil
}

func fnCount(args ...any) (any, error) {
	count := 0
	for _, v := range flatten(args) {
		switch v.(type) {
		case float64, int:
			count++
		}
	}
	return float64(count), nil
}

func fnIf(args ...any) (any, error) {
	if err := arity("IF", args, 2, 3); err != nil {
		return nil, err
	}
	if isTruthy(args[0]) {
		return args[1], nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return false, nil
}

func fnAnd(args ...any) (any, error) {
	values := flatten(args)
	if len(values) == 0 {
		return nil, NewFormulaError(ErrorCodeValue, "AND has no values")
	}
	for _, v := range values {
		if !isTruthy(v) {
			return false, nil
		}
	}
	return true, nil
}

func fnOr(args ...any) (any, error) {
	values := flatten(args)
	if len(values) == 0 {
		return nil, NewFormulaError(ErrorCodeValue, "OR has no values")
	}
	for _, v := range values {
		if isTruthy(v) {
			return true, nil
		}
	}
	return false, nil
}

func fnNot(args ...any) (any, error) {
	if err := arity("NOT", args, 1, 1); err != nil {
		return nil, err
	}
	return !isTruthy(args[0]), nil
}

func fnAbs(args ...any) (any, error) {
	if err := arity("ABS", args, 1, 1); err != nil {
		return nil, err
	}
	n, ok := toNumber(args[0])
	if !ok {
		return nil, NewFormulaError(ErrorCodeValue, "ABS expects a number")
	}
	return math.Abs(n), nil
}

func fnRound(args ...any) (any, error) {
	if err := arity("ROUND", args, 1, 2); err != nil {
		return nil, err
	}
	n, ok := toNumber(args[0])
	if !ok {
		return nil, NewFormulaError(ErrorCodeValue, "ROUND expects a number")
	}
	digits := 0.0
	if len(args) == 2 {
		if digits, ok = toNumber(args[1]); !ok {
			return nil, NewFormulaError(ErrorCodeValue, "ROUND expects a digit count")
		}
	}
	scale := math.Pow(10, math.Trunc(digits))
	return math.Round(n*scale) / scale, nil
}

func fnMod(args ...any) (any, error) {
	if err := arity("MOD", args, 2, 2); err != nil {
		return nil, err
	}
	n, ok1 := toNumber(args[0])
	d, ok2 := toNumber(args[1])
	if !ok1 || !ok2 {
		return nil, NewFormulaError(ErrorCodeValue, "MOD expects numbers")
	}
	if d == 0 {
		return nil, NewFormulaError(ErrorCodeDiv0, "")
	}
	// the result takes the sign of the divisor
	return n - d*math.Floor(n/d), nil
}

func fnConcatenate(args ...any) (any, error) {
	var b strings.Builder
	for _, v := range flatten(args) {
		b.WriteString(toText(v))
	}
	return b.String(), nil
}

func fnLen(args ...any) (any, error) {
	if err := arity("LEN", args, 1, 1); err != nil {
		return nil, err
	}
	return float64(len([]rune(toText(args[0])))), nil
}

func fnUpper(args ...any) (any, error) {
	if err := arity("UPPER", args, 1, 1); err != nil {
		return nil, err
	}
	return strings.ToUpper(toText(args[0])), nil
}

func fnLower(args ...any) (any, error) {
	if err := arity("LOWER", args, 1, 1); err != nil {
		return nil, err
	}
	return strings.ToLower(toText(args[0])), nil
}
