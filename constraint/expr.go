package constraint

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

const (
	exprVariable  = "value"
	exprCostLimit = 10000
)

var (
	exprEnvOnce sync.Once
	exprEnv     *cel.Env
	exprEnvErr  error
)

func celEnv() (*cel.Env, error) {
	exprEnvOnce.Do(func() {
		exprEnv, exprEnvErr = cel.NewEnv(
			cel.Variable(exprVariable, cel.DynType),
		)
		if exprEnvErr != nil {
			exprEnvErr = fmt.Errorf("create CEL environment: %w", exprEnvErr)
		}
	})

	return exprEnv, exprEnvErr
}

func compileExpr(src string) (cel.Program, error) {
	env, err := celEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile: %w", issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must be of bool type, got %s", out)
	}

	prg, err := env.Program(ast, cel.CostLimit(exprCostLimit))
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}

	return prg, nil
}

// evalExpr returns expression result or an error if the value cannot be
// represented for CEL or the expression does not yield a boolean on it.
func evalExpr(prg cel.Program, value any) (bool, error) {
	out, _, err := prg.Eval(map[string]any{exprVariable: value})
	if err != nil {
		return false, fmt.Errorf("evaluate: %w", err)
	}

	res, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression result is %s, not bool", out.Type().TypeName())
	}

	return res, nil
}
