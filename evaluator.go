package xlgrid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/xuri/efp"
)

// Evaluator computes the value of a formula. Cell references are read
// through r.
type Evaluator interface {
	Evaluate(formula string, r Resolver) (any, error)
}

// exprEvaluator implements Evaluator by translating Excel formulas into
// expr-lang/expr programs.
type exprEvaluator struct {
	cache sync.Map // formula → compiled *vm.Program
}

// NewEvaluator creates an Evaluator backed by expr-lang/expr. It supports
// arithmetic, comparison, cell and range references and the functions
// listed in FormulaFunctions. It is safe for concurrent use.
func NewEvaluator() Evaluator {
	return &exprEvaluator{}
}

// formulaEnv is the expr environment of one evaluation. Translated
// references call its methods.
type formulaEnv struct {
	r Resolver
}

// Cell returns the value at (row, column) coerced for arithmetic.
func (env formulaEnv) Cell(row, column int) (any, error) {
	v := env.r.CellValue(Point{Row: row, Column: column})
	if fe, ok := v.(*FormulaError); ok {
		return nil, fe
	}
	return coerce(v), nil
}

// Range returns the values of a rectangle in row-major order. Empty cells
// are nil.
func (env formulaEnv) Range(startRow, startColumn, endRow, endColumn int) (any, error) {
	values := env.r.RangeValues(
		Point{Row: startRow, Column: startColumn},
		Point{Row: endRow, Column: endColumn},
	)
	for i, v := range values {
		if fe, ok := v.(*FormulaError); ok {
			return nil, fe
		}
		if v != nil {
			values[i] = coerce(v)
		}
	}
	return values, nil
}

func (e *exprEvaluator) Evaluate(formula string, r Resolver) (any, error) {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return nil, nil
	}
	program, err := e.compile(formula)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(program, formulaEnv{r: r})
	if err != nil {
		var fe *FormulaError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, NewFormulaError(ErrorCodeValue, fmt.Sprintf("evaluate formula %q: %v", formula, err))
	}
	return normalizeResult(out)
}

func (e *exprEvaluator) compile(formula string) (*vm.Program, error) {
	if cached, ok := e.cache.Load(formula); ok {
		return cached.(*vm.Program), nil
	}
	program, err := compileFormula(formula)
	if err != nil {
		return nil, err
	}
	e.cache.Store(formula, program)
	return program, nil
}

// compileFormula translates and compiles formula. Failures are returned as
// *FormulaError.
func compileFormula(formula string) (*vm.Program, error) {
	code, err := translateFormula(formula)
	if err != nil {
		return nil, err
	}
	program, err := expr.Compile(code, formulaOptions()...)
	if err != nil {
		return nil, NewFormulaError(ErrorCodeOther, fmt.Sprintf("compile formula %q: %v", formula, err))
	}
	return program, nil
}

func formulaOptions() []expr.Option {
	opts := []expr.Option{expr.Env(formulaEnv{})}
	for name, fn := range formulaFunctions {
		opts = append(opts, expr.Function(name, fn))
	}
	// + is arithmetic only; text operands yield #VALUE! instead of joining
	opts = append(opts,
		expr.Function(addFunction, numericAdd, new(func(any, any) any)),
		expr.Operator("+", addFunction),
	)
	return opts
}

// translateFormula rewrites an Excel formula (without the leading "=") as
// an expr expression.
func translateFormula(formula string) (string, error) {
	ps := efp.ExcelParser()
	tokens := ps.Parse(FormulaPrefix + formula)
	if len(tokens) == 0 {
		return "", NewFormulaError(ErrorCodeOther, fmt.Sprintf("empty formula %q", formula))
	}

	var parts []string
	var open []int // index in parts where each open group starts
	lastTerm := -1
	for _, t := range tokens {
		switch t.TType {
		case efp.TokenTypeWhitespace:
			continue

		case efp.TokenTypeOperand:
			code, err := translateOperand(t)
			if err != nil {
				return "", err
			}
			lastTerm = len(parts)
			parts = append(parts, code)

		case efp.TokenTypeFunction:
			if t.TSubType == efp.TokenSubTypeStart {
				name := strings.ToUpper(t.TValue)
				if _, ok := formulaFunctions[name]; !ok {
					return "", NewFormulaError(ErrorCodeName, fmt.Sprintf("unknown function %s", t.TValue))
				}
				open = append(open, len(parts))
				parts = append(parts, name+"(")
				continue
			}
			if len(open) == 0 {
				return "", NewFormulaError(ErrorCodeOther, "unbalanced parenthesis")
			}
			lastTerm, open = open[len(open)-1], open[:len(open)-1]
			parts = append(parts, ")")

		case efp.TokenTypeSubexpression:
			if t.TSubType == efp.TokenSubTypeStart {
				open = append(open, len(parts))
				parts = append(parts, "(")
				continue
			}
			if len(open) == 0 {
				return "", NewFormulaError(ErrorCodeOther, "unbalanced parenthesis")
			}
			lastTerm, open = open[len(open)-1], open[:len(open)-1]
			parts = append(parts, ")")

		case efp.TokenTypeArgument:
			parts = append(parts, ", ")

		case efp.TokenTypeOperatorPrefix:
			parts = append(parts, t.TValue)

		case efp.TokenTypeOperatorInfix:
			op, ok := infixOperators[t.TValue]
			if !ok {
				return "", NewFormulaError(ErrorCodeName, fmt.Sprintf("unsupported operator %q", t.TValue))
			}
			parts = append(parts, " "+op+" ")

		case efp.TokenTypeOperatorPostfix:
			if t.TValue != "%" || lastTerm < 0 {
				return "", NewFormulaError(ErrorCodeName, fmt.Sprintf("unsupported operator %q", t.TValue))
			}
			term := strings.Join(parts[lastTerm:], "")
			parts = append(parts[:lastTerm], "("+term+" / 100)")

		default:
			return "", NewFormulaError(ErrorCodeName, fmt.Sprintf("unsupported token %q", t.TValue))
		}
	}
	if len(open) > 0 {
		return "", NewFormulaError(ErrorCodeOther, "unbalanced parenthesis")
	}
	return strings.Join(parts, ""), nil
}

var infixOperators = map[string]string{
	"+":  "+",
	"-":  "-",
	"*":  "*",
	"/":  "/",
	"^":  "**",
	"=":  "==",
	"<>": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

func translateOperand(t efp.Token) (string, error) {
	switch t.TSubType {
	case efp.TokenSubTypeText:
		return strconv.Quote(t.TValue), nil
	case efp.TokenSubTypeNumber:
		return t.TValue, nil
	case efp.TokenSubTypeLogical:
		return strings.ToLower(t.TValue), nil
	case efp.TokenSubTypeError:
		return "", NewFormulaError(errorCodeOf(t.TValue), "")
	case efp.TokenSubTypeRange:
		return translateReference(t.TValue)
	}
	return "", NewFormulaError(ErrorCodeName, fmt.Sprintf("unsupported operand %q", t.TValue))
}

// translateReference turns "A1" into Cell(0, 0) and "A1:B2" into
// Range(0, 0, 1, 1).
func translateReference(ref string) (string, error) {
	first, last, isRange := strings.Cut(ref, ":")
	start, err := ParsePoint(first)
	if err != nil {
		return "", NewFormulaError(ErrorCodeName, fmt.Sprintf("unknown name %s", ref))
	}
	if !isRange {
		return fmt.Sprintf("Cell(%d, %d)", start.Row, start.Column), nil
	}
	end, err := ParsePoint(last)
	if err != nil {
		return "", NewFormulaError(ErrorCodeRef, fmt.Sprintf("invalid range %s", ref))
	}
	r := NewPointRange(start, end)
	return fmt.Sprintf("Range(%d, %d, %d, %d)", r.Start.Row, r.Start.Column, r.End.Row, r.End.Column), nil
}

func errorCodeOf(literal string) ErrorCode {
	for code, name := range errorCodeNames {
		if name == literal {
			return code
		}
	}
	return ErrorCodeOther
}

// normalizeResult converts integers to float64 and maps non-finite numbers
// to spreadsheet errors.
func normalizeResult(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		if math.IsInf(n, 0) {
			return nil, NewFormulaError(ErrorCodeDiv0, "")
		}
		if math.IsNaN(n) {
			return nil, NewFormulaError(ErrorCodeNum, "")
		}
	}
	return v, nil
}

// coerce turns numeric text into float64 and empty cells, blank text
// included, into 0.
func coerce(v any) any {
	switch x := v.(type) {
	case nil:
		return 0.0
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case string:
		trimmed := strings.TrimSpace(x)
		if trimmed == "" {
			return 0.0
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	}
	return v
}
