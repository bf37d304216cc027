package cleanup

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"renoquote/internal/estimate"
)

var (
	formulaOperators = "*+-/("
	formulaAllowed   = regexp.MustCompile(`^[0-9.eE+\-*/()\s]+$`)
	formulaNumber    = regexp.MustCompile(`(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)
	formulaResidue   = regexp.MustCompile(`^(?:n\d+|[+\-*/()\s])+$`)
	firstInteger     = regexp.MustCompile(`\d+`)
	quantityUnits    = []string{"SF", "LF", "UNIT"}
	formulaCleaner   = strings.NewReplacer("$", "", ",", "")
)

// EvaluateFormula evaluates an arithmetic total such as "321 * 6 * 1.75",
// ignoring currency symbols and thousands separators. Only numbers
// (including exponents), parentheses and the four basic operators are
// accepted. Every literal is read as a float, so long integers do not
// overflow.
func EvaluateFormula(formula string) (float64, error) {
	cleaned := strings.TrimSpace(formulaCleaner.Replace(formula))
	if cleaned == "" {
		return 0, errors.New("empty formula")
	}
	if !formulaAllowed.MatchString(cleaned) {
		return 0, fmt.Errorf("formula %q contains unsupported characters", formula)
	}

	env := make(map[string]any)
	var parseErr error
	code := formulaNumber.ReplaceAllStringFunc(cleaned, func(literal string) string {
		v, err := strconv.ParseFloat(literal, 64)
		if err != nil && parseErr == nil {
			parseErr = err
		}
		name := fmt.Sprintf("n%d", len(env))
		env[name] = v
		return " " + name + " "
	})
	if parseErr != nil {
		return 0, fmt.Errorf("formula %q: %w", formula, parseErr)
	}
	if !formulaResidue.MatchString(code) {
		return 0, fmt.Errorf("formula %q is malformed", formula)
	}

	program, err := expr.Compile(code, expr.Env(env), expr.AsFloat64())
	if err != nil {
		return 0, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return 0, err
	}
	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("formula %q produced %T", formula, out)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("formula %q is not finite", formula)
	}
	return round2(v), nil
}

// ParseMarkup reads a markup as a fraction. A value written with "%" is
// always a percentage, so "35%" is 0.35 and "0.5%" is 0.005. Unsuffixed
// values above 1 are read as percentages ("35" is 0.35) and the rest as
// fractions ("0.75" stays 0.75). A blank value uses fallback.
func ParseMarkup(raw string, fallback float64) (float64, error) {
	percent := strings.Contains(raw, "%")
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, "%", ""))
	if trimmed == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse markup %q: %w", raw, err)
	}
	if percent || v > 1 {
		v /= 100
	}
	return v, nil
}

func parseQuantity(raw string) (float64, error) {
	for _, unit := range quantityUnits {
		if strings.Contains(raw, unit) {
			return strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(raw, unit, "")), 64)
		}
	}
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

// computeTotal derives quantity x unit cost x (1 + markup) using the first
// integer found in the unit cost text.
func computeTotal(it estimate.Item, defaultMarkup float64) (float64, error) {
	markup, err := ParseMarkup(it.Markup, defaultMarkup)
	if err != nil {
		return 0, err
	}
	qty, err := parseQuantity(it.Quantity)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", it.Quantity, err)
	}
	unit := 0.0
	if m := firstInteger.FindString(it.UnitCost); m != "" {
		unit, _ = strconv.ParseFloat(m, 64)
	}
	return round2(qty * unit * (1 + markup)), nil
}

// FixTotals resolves formula totals and fills blank totals. Any value that
// cannot be computed becomes "0". The returned count covers changed items.
func FixTotals(items []estimate.Item, defaultMarkup float64) ([]estimate.Item, int) {
	out := make([]estimate.Item, 0, len(items))
	changed := 0
	for _, it := range items {
		switch {
		case strings.ContainsAny(it.Total, formulaOperators):
			v, err := EvaluateFormula(it.Total)
			if err != nil {
				it.Total = "0"
			} else {
				it.Total = formatAmount(v)
			}
			changed++
		case strings.TrimSpace(it.Total) == "":
			v, err := computeTotal(it, defaultMarkup)
			if err != nil {
				it.Total = "0"
			} else {
				it.Total = formatAmount(v)
			}
			changed++
		}
		out = append(out, it)
	}
	return out, changed
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
