package filters

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayMillis is one UTC day in milliseconds.
const DayMillis int64 = 86400 * 1000

// Op is a comparison operator from a user-entered filter expression.
type Op string

const (
	OpGT Op = ">"
	OpGE Op = ">="
	OpLT Op = "<"
	OpLE Op = "<="
	OpEQ Op = "=="
	OpNE Op = "!="
)

// Compare applies the operator as "x op y".
func (o Op) Compare(x, y float64) bool {
	switch o {
	case OpGT:
		return x > y
	case OpGE:
		return x >= y
	case OpLT:
		return x < y
	case OpLE:
		return x <= y
	case OpEQ:
		return x == y
	case OpNE:
		return x != y
	}
	return false
}

func normalizeOp(s string) Op {
	if s == "=" {
		return OpEQ
	}
	return Op(s)
}

var (
	numericExprRegex = regexp.MustCompile(`^(>=?|<=?|==?|!=)\s*(\d+(?:\.\d+)?)$`)
	dateOpExprRegex  = regexp.MustCompile(`^(>=?|<=?|==?|!=)\s*(\d{4}-\d{2}-\d{2})$`)
	dateRangeRegex   = regexp.MustCompile(`(?i)^(\d{4}-\d{2}-\d{2})\s*(?:\.\.|to)\s*(\d{4}-\d{2}-\d{2})$`)
	isoDateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NumericExpr is a parsed "<op><number>" expression such as ">=50" or "<9.99".
type NumericExpr struct {
	Op    Op
	Value float64
}

// Match reports whether x satisfies the expression.
func (e NumericExpr) Match(x float64) bool {
	return e.Op.Compare(x, e.Value)
}

// ParseNumericOperatorExpression parses "<op><number>". ok is false for blank or malformed input.
func ParseNumericOperatorExpression(text string) (NumericExpr, bool) {
	m := numericExprRegex.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return NumericExpr{}, false
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return NumericExpr{}, false
	}
	return NumericExpr{Op: normalizeOp(m[1]), Value: v}, true
}

// DateMode tells how a parsed date expression is applied.
type DateMode int

const (
	DateModeNone DateMode = iota
	DateModeOp
	DateModeRange
)

// DateExpr is a parsed date filter expression.
//
// In DateModeOp, A is the end of the named day (ms) and Op the operator.
// In DateModeRange, A is the start of the first day and B the end of the second day.
type DateExpr struct {
	Mode DateMode
	Op   Op
	A    int64
	B    int64
}

// ParseDateFilterExpression parses "<op>YYYY-MM-DD", "YYYY-MM-DD..YYYY-MM-DD" or
// "YYYY-MM-DD to YYYY-MM-DD". Anything else, including impossible calendar dates
// and inverted ranges, yields DateModeNone.
func ParseDateFilterExpression(text string) DateExpr {
	s := strings.TrimSpace(text)
	if s == "" {
		return DateExpr{}
	}
	if m := dateRangeRegex.FindStringSubmatch(s); m != nil {
		lo, okLo := StartOfDayMillis(m[1])
		hi, okHi := EndOfDayMillis(m[2])
		if okLo && okHi && lo <= hi {
			return DateExpr{Mode: DateModeRange, A: lo, B: hi}
		}
		return DateExpr{}
	}
	if m := dateOpExprRegex.FindStringSubmatch(s); m != nil {
		if end, ok := EndOfDayMillis(m[2]); ok {
			return DateExpr{Mode: DateModeOp, Op: normalizeOp(m[1]), A: end}
		}
	}
	return DateExpr{}
}

// Match reports whether the timestamp satisfies the expression. Operators compare
// against whole days: "<" is before the day starts, ">" is from the next day on.
func (e DateExpr) Match(ms int64) bool {
	switch e.Mode {
	case DateModeRange:
		return e.A <= ms && ms <= e.B
	case DateModeOp:
		end := e.A
		start := end - DayMillis + 1
		switch e.Op {
		case OpLT:
			return ms < start
		case OpLE:
			return ms <= end
		case OpGT:
			return ms >= end+1
		case OpGE:
			return ms >= start
		case OpEQ:
			return start <= ms && ms <= end
		case OpNE:
			return ms < start || ms > end
		}
	}
	return false
}

// StartOfDayMillis parses YYYY-MM-DD to midnight UTC in Unix milliseconds.
func StartOfDayMillis(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !isoDateRegex.MatchString(s) {
		return 0, false
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return 0, false
	}
	return t.UTC().UnixMilli(), true
}

// EndOfDayMillis parses YYYY-MM-DD to the last millisecond of that UTC day.
func EndOfDayMillis(s string) (int64, bool) {
	start, ok := StartOfDayMillis(s)
	if !ok {
		return 0, false
	}
	return start + DayMillis - 1, true
}

// releaseDateLayouts are the formats Steam uses for release dates, tried in order.
var releaseDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	time.DateOnly,
	"2 Jan 2006",
	"2 January 2006",
}

// ParseReleaseDate parses a Steam release date string to midnight UTC in Unix milliseconds.
func ParseReleaseDate(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "—" {
		return 0, false
	}
	for _, layout := range releaseDateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return day.UnixMilli(), true
	}
	return 0, false
}
