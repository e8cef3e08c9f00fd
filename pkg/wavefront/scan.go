package wavefront

import (
	"errors"
	"strconv"
	"strings"
)

// parser consumes a prefix of in and returns the unconsumed rest.
// On errNoMatch the returned rest must be in unchanged.
type parser[T any] func(in string) (rest string, val T, err error)

const (
	lineSeparator      = "\u2028"
	paragraphSeparator = "\u2029"
)

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// skipSpaces drops leading spaces and tabs. It always succeeds.
func skipSpaces(in string) string {
	i := 0
	for i < len(in) && isSpace(in[i]) {
		i++
	}
	return in[i:]
}

// space1 requires at least one space or tab.
func space1(in string) (string, struct{}, error) {
	rest := skipSpaces(in)
	if len(rest) == len(in) {
		return in, struct{}{}, errNoMatch
	}
	return rest, struct{}{}, nil
}

func tag(t string) parser[string] {
	return func(in string) (string, string, error) {
		if !strings.HasPrefix(in, t) {
			return in, "", errNoMatch
		}
		return in[len(t):], t, nil
	}
}

func eof(in string) (string, struct{}, error) {
	if in != "" {
		return in, struct{}{}, errNoMatch
	}
	return in, struct{}{}, nil
}

func eol(in string) (string, struct{}, error) {
	for _, sep := range [...]string{"\n", "\r\n", lineSeparator, paragraphSeparator} {
		if rest, ok := strings.CutPrefix(in, sep); ok {
			return rest, struct{}{}, nil
		}
	}
	return in, struct{}{}, errNoMatch
}

func lineEnd(in string) (string, struct{}, error) {
	return alt[struct{}](eof, eol)(in)
}

func blankLine(in string) (string, struct{}, error) {
	rest, _, err := lineEnd(skipSpaces(in))
	if err != nil {
		return in, struct{}{}, err
	}
	return rest, struct{}{}, nil
}

func comment(in string) (string, struct{}, error) {
	rest, ok := strings.CutPrefix(skipSpaces(in), "#")
	if !ok {
		return in, struct{}{}, errNoMatch
	}
	rest = rest[untilLineEnd(rest):]
	rest, _, err := lineEnd(rest)
	if err != nil {
		return in, struct{}{}, err
	}
	return rest, struct{}{}, nil
}

// untilLineEnd returns the offset of the first line terminator in s, or len(s).
func untilLineEnd(s string) int {
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\n' || s[i] == '\r':
			return i
		case strings.HasPrefix(s[i:], lineSeparator), strings.HasPrefix(s[i:], paragraphSeparator):
			return i
		}
	}
	return len(s)
}

// ignoredLine matches a blank line or a comment line, terminator included.
func ignoredLine(in string) (string, struct{}, error) {
	return alt[struct{}](blankLine, comment)(in)
}

// notSpace matches a run of bytes up to the next space, tab or line
// terminator.
func notSpace(in string) (string, string, error) {
	i := 0
	for i < len(in) && !isSpace(in[i]) {
		if in[i] == '\r' || in[i] == '\n' ||
			strings.HasPrefix(in[i:], lineSeparator) || strings.HasPrefix(in[i:], paragraphSeparator) {
			break
		}
		i++
	}
	if i == 0 {
		return in, "", errNoMatch
	}
	return in[i:], in[:i], nil
}

func digits(in string) int {
	i := 0
	for i < len(in) && isDigit(in[i]) {
		i++
	}
	return i
}

// float64Literal matches -?[0-9]+(\.[0-9]*)? with no exponent.
func float64Literal(in string) (string, float64, error) {
	i := 0
	if strings.HasPrefix(in, "-") {
		i++
	}
	n := digits(in[i:])
	if n == 0 {
		return in, 0, errNoMatch
	}
	i += n
	if i < len(in) && in[i] == '.' {
		i++
		i += digits(in[i:])
	}
	f, err := strconv.ParseFloat(in[:i], 64)
	if err != nil {
		return in, 0, errNoMatch
	}
	return in[i:], f, nil
}

// intLiteral matches -?[0-9]+. Values that overflow int saturate at the
// int bounds, which no index resolves to.
func intLiteral(in string) (string, int, error) {
	i := 0
	if strings.HasPrefix(in, "-") {
		i++
	}
	n := digits(in[i:])
	if n == 0 {
		return in, 0, errNoMatch
	}
	i += n
	v, err := strconv.Atoi(in[:i])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return in, 0, errNoMatch
	}
	return in[i:], v, nil
}

func alt[T any](ps ...parser[T]) parser[T] {
	return func(in string) (string, T, error) {
		for _, p := range ps {
			rest, v, err := p(in)
			if errors.Is(err, errNoMatch) {
				continue
			}
			return rest, v, err
		}
		var zero T
		return in, zero, errNoMatch
	}
}

// opt never fails softly; a missing match yields nil.
func opt[T any](p parser[T]) parser[*T] {
	return func(in string) (string, *T, error) {
		rest, v, err := p(in)
		switch {
		case errors.Is(err, errNoMatch):
			return in, nil, nil
		case err != nil:
			return in, nil, err
		}
		return rest, &v, nil
	}
}

// many0 applies p until it stops matching or stops consuming input.
func many0[T any](p parser[T]) parser[[]T] {
	return func(in string) (string, []T, error) {
		var out []T
		for {
			rest, v, err := p(in)
			if errors.Is(err, errNoMatch) {
				return in, out, nil
			}
			if err != nil {
				return in, nil, err
			}
			if len(rest) == len(in) {
				return in, out, nil
			}
			out = append(out, v)
			in = rest
		}
	}
}

func preceded[S, T any](first parser[S], second parser[T]) parser[T] {
	return func(in string) (string, T, error) {
		var zero T
		rest, _, err := first(in)
		if err != nil {
			return in, zero, err
		}
		rest, v, err := second(rest)
		if err != nil {
			return in, zero, err
		}
		return rest, v, nil
	}
}

func mapTo[T, U any](p parser[T], f func(T) U) parser[U] {
	return func(in string) (string, U, error) {
		rest, v, err := p(in)
		if err != nil {
			var zero U
			return in, zero, err
		}
		return rest, f(v), nil
	}
}

// separated matches between lo and hi occurrences of p split by runs of
// spaces. A negative hi means unbounded.
func separated[T any](p parser[T], lo, hi int) parser[[]T] {
	return func(in string) (string, []T, error) {
		rest, first, err := p(in)
		if err != nil {
			return in, nil, err
		}
		out := []T{first}
		for hi < 0 || len(out) < hi {
			next, v, err := preceded[struct{}](space1, p)(rest)
			if errors.Is(err, errNoMatch) {
				break
			}
			if err != nil {
				return in, nil, err
			}
			out = append(out, v)
			rest = next
		}
		if len(out) < lo {
			return in, nil, errNoMatch
		}
		return rest, out, nil
	}
}

// record matches one directive line: optional indent, the keyword, at least
// one space, the payload, optional trailing spaces and a single ignorable
// line as terminator.
func record[T any](keyword string, payload parser[T]) parser[T] {
	return func(in string) (string, T, error) {
		var zero T
		rest, _, err := tag(keyword)(skipSpaces(in))
		if err != nil {
			return in, zero, err
		}
		rest, v, err := preceded[struct{}](space1, payload)(rest)
		if err != nil {
			return in, zero, err
		}
		rest, _, err = ignoredLine(skipSpaces(rest))
		if err != nil {
			return in, zero, err
		}
		return rest, v, nil
	}
}

// records is the top level loop shared by both grammars. It returns the
// values matched before the first line that no rule accepts.
func records[T any](rule parser[T]) parser[[]T] {
	ignored := many0[struct{}](ignoredLine)
	line := func(in string) (string, T, error) {
		var zero T
		rest, _, err := ignored(in)
		if err != nil {
			return in, zero, err
		}
		rest, v, err := rule(rest)
		if err != nil {
			return in, zero, err
		}
		rest, _, err = ignored(rest)
		if err != nil {
			return in, zero, err
		}
		return rest, v, nil
	}
	return func(in string) (string, []T, error) {
		rest, vals, err := many0[T](line)(in)
		if err != nil {
			return in, nil, err
		}
		rest, _, err = ignored(rest)
		if err != nil {
			return in, nil, err
		}
		return rest, vals, nil
	}
}

// parseAll runs records over the whole text and rejects leftovers.
func parseAll[T any](rule parser[T], text string) ([]T, error) {
	rest, vals, err := records(rule)(text)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, &LeftoverError{Remaining: rest}
	}
	return vals, nil
}
