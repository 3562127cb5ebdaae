// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"strconv"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns user input into an ILIKE pattern matching it as a literal substring.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Args accumulates positional parameters for dynamically built queries.
type Args struct {
	values []any
}

// Add appends value and returns its placeholder ("$1", "$2", ...).
func (args *Args) Add(value any) string {
	args.values = append(args.values, value)
	return "$" + strconv.Itoa(len(args.values))
}

// Values returns the accumulated parameters in placeholder order.
func (args *Args) Values() []any {
	return args.values
}
