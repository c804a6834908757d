// Package dialect enumerates the SQL dialects this engine knows how to
// translate into, plus the canonical source dialect (spec.md §3).
//
// Grounded on the teacher's tsqlruntime.Dialect (an iota int enum with a
// handful of targets) and on pkg/log's Level/ParseLevel idiom for the
// String()/Parse() pair.
package dialect

import (
	"fmt"
	"strings"
)

// Dialect identifies a SQL dialect, source or target.
type Dialect int

const (
	SQLServer Dialect = iota // canonical source dialect, also a no-op target
	Oracle
	PostgreSQL
	Redshift
	BigQuery
	Snowflake
	Impala
	Netezza
	PDW
	Synapse
	Spark
	SQLite
	SQLiteExtended
	IRIS
)

// all lists every known dialect in declaration order.
var all = []Dialect{
	SQLServer, Oracle, PostgreSQL, Redshift, BigQuery, Snowflake, Impala,
	Netezza, PDW, Synapse, Spark, SQLite, SQLiteExtended, IRIS,
}

// names is the canonical lower-case external name for each dialect, as used
// in the pattern table file's source_dialect/target_dialect columns and in
// the public API (spec.md §3, §6).
var names = map[Dialect]string{
	SQLServer:      "sql server",
	Oracle:         "oracle",
	PostgreSQL:     "postgresql",
	Redshift:       "redshift",
	BigQuery:       "bigquery",
	Snowflake:      "snowflake",
	Impala:         "impala",
	Netezza:        "netezza",
	PDW:            "pdw",
	Synapse:        "synapse",
	Spark:          "spark",
	SQLite:         "sqlite",
	SQLiteExtended: "sqlite extended",
	IRIS:           "iris",
}

// String returns the canonical external name of the dialect.
func (d Dialect) String() string {
	if s, ok := names[d]; ok {
		return s
	}
	return "unknown"
}

// Parse resolves a dialect identifier string (case-insensitive, surrounding
// whitespace trimmed) to a Dialect. For an unknown name it returns
// SQLServer and ok=false; reporting the failure is left to the caller.
func Parse(s string) (Dialect, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, name := range names {
		if name == s {
			return d, true
		}
	}
	return SQLServer, false
}

// All returns every known dialect in declaration order.
func All() []Dialect {
	out := make([]Dialect, len(all))
	copy(out, all)
	return out
}

// RequiresTempEmulation reports whether the target dialect lacks true
// session-local temp tables and therefore needs #name rewriting
// (spec.md §4.5).
func (d Dialect) RequiresTempEmulation() bool {
	switch d {
	case Oracle, BigQuery, Impala, Spark, Snowflake, Redshift:
		return true
	default:
		return false
	}
}

// MaxIdentifierLength returns the maximum length (in ASCII bytes) of an
// emitted identifier for this dialect. Temp-table emulation does not
// truncate names; it uses this limit only through MaxEmulatedNameInput,
// which bounds the input #name (spec.md §4.5, §9 Open Question — resolved
// as ASCII byte length, unquoted-identifier view; see DESIGN.md).
func (d Dialect) MaxIdentifierLength() int {
	if d == Oracle {
		return 30
	}
	return 63
}

// MaxEmulatedNameInput returns the maximum length of the *input* #name for
// temp-table emulation before the schema/salt suffix is appended
// (spec.md §4.5: "22 characters for Oracle").
func (d Dialect) MaxEmulatedNameInput() int {
	if d == Oracle {
		return 22
	}
	return d.MaxIdentifierLength() - 10
}

// SupportsDistributionHint reports whether the dialect accepts the MPP
// DISTRIBUTE_ON_KEY/SORT_ON_KEY hint expansion (spec.md §4.6).
func (d Dialect) SupportsDistributionHint() bool {
	switch d {
	case PDW, Redshift, Synapse:
		return true
	default:
		return false
	}
}

// ErrUnknownDialect is a plain error form of an unknown dialect name.
type ErrUnknownDialect struct{ Name string }

func (e *ErrUnknownDialect) Error() string {
	return fmt.Sprintf("unknown dialect: %q", e.Name)
}
