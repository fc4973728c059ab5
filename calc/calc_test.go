package calc

import (
	"errors"
	"math"
	"testing"
)

func TestEval(t *testing.T) {
	tests := []struct {
		expr     string
		expected float64
	}{
		{"2+3", 5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"7 // 2", 3},
		{"-7 // 2", -4},
		{"7 % 3", 1},
		{"-7 % 3", 2},
		{"2 ** 10", 1024},
		{"2 ** 3 ** 2", 512},
		{"-2 ** 2", -4},
		{"2 ** -1", 0.5},
		{"1.5 * 2", 3},
		{"((1))", 1},
		{"100 - 30 - 20", 50},
		{"10 * 16000 + 5000", 165000},
		{"10 * 16000 - 5000", 155000},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval(tt.expr)
			if err != nil {
				t.Fatalf("Eval(%q) returned error: %v", tt.expr, err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.expected)
			}
		})
	}
}

func TestEvalInvalid(t *testing.T) {
	exprs := []string{
		"",
		"   ",
		"2 +",
		"+",
		"(2 + 3",
		"2 3",
		"2 ** ",
		"a + b",
		"1..2 + 3",
		"2 + {fee}",
		"__import__",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			if _, err := Eval(expr); !errors.Is(err, ErrInvalidExpression) {
				t.Errorf("Eval(%q) error = %v, want ErrInvalidExpression", expr, err)
			}
		})
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	for _, expr := range []string{"1 / 0", "1 // 0", "1 % 0", "1 / (2 - 2)"} {
		t.Run(expr, func(t *testing.T) {
			if _, err := Eval(expr); !errors.Is(err, ErrDivisionByZero) {
				t.Errorf("Eval(%q) error = %v, want ErrDivisionByZero", expr, err)
			}
		})
	}
}
