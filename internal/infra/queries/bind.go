package queries

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderRe = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// BindNamed rewrites each :name placeholder in query to the driver's
// positional $n form, numbering placeholders in first-appearance order and
// reusing the same ordinal for repeats. "::" type casts are left alone.
// A placeholder with no entry in params is an error.
func BindNamed(query string, params map[string]any) (string, []any, error) {
	matches := placeholderRe.FindAllStringSubmatchIndex(query, -1)
	if len(matches) == 0 {
		return query, nil, nil
	}

	var (
		b        strings.Builder
		args     []any
		ordinals = make(map[string]int)
		last     int
	)
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && query[start-1] == ':' {
			continue // "::type" cast, not a placeholder
		}
		name := query[m[2]:m[3]]
		n, seen := ordinals[name]
		if !seen {
			val, ok := params[name]
			if !ok {
				return "", nil, fmt.Errorf("no value bound for placeholder :%s", name)
			}
			args = append(args, val)
			n = len(args)
			ordinals[name] = n
		}
		b.WriteString(query[last:start])
		b.WriteString("$" + strconv.Itoa(n))
		last = end
	}
	b.WriteString(query[last:])
	return b.String(), args, nil
}
