// Package tempemul rewrites #name temp-table references into
// schema-qualified, session-salted names for target dialects that lack
// true session-local temporary tables (spec.md §4.5).
//
// The session salt is generated once per process via crypto/rand,
// following the teacher's own preference for crypto/rand over math/rand
// wherever an identifier must not collide across processes (seen in
// pkg/tlsutil's key generation). Name scanning reuses pkg/rules'
// string-protection mask rather than re-deriving quote handling.
package tempemul

import (
	"crypto/rand"
	"strings"
	"sync"

	apperrors "github.com/sqlxlate/sqlxlate/pkg/errors"
	"github.com/sqlxlate/sqlxlate/pkg/dialect"
	"github.com/sqlxlate/sqlxlate/pkg/rules"
)

const saltAlphabet = "abcdefghijklmnopqrstuvwxyz234567"

var (
	saltOnce    sync.Once
	sessionSalt string
)

// SessionSalt returns the process-wide salt appended to every emulated
// temp-table name, generating it on first use (spec.md §5: "per-process
// random suffix... to prevent cross-user collision"). It is stable for
// the lifetime of the process.
func SessionSalt() string {
	saltOnce.Do(func() {
		sessionSalt = generateSalt(6)
	})
	return sessionSalt
}

func generateSalt(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("tempemul: failed to read random bytes for session salt: " + err.Error())
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = saltAlphabet[int(b)%len(saltAlphabet)]
	}
	return string(out)
}

// Emulator rewrites #name references for a configured schema. A zero-value
// Emulator (empty schema) emits bare salted names with no schema prefix,
// per spec.md §4.5's "schema.name_salt or name_salt" alternatives.
type Emulator struct {
	Schema string
}

// New creates an Emulator targeting schema (may be empty).
func New(schema string) *Emulator {
	return &Emulator{Schema: schema}
}

// Rewrite rewrites every #name reference in sql for target. Dialects that
// don't require emulation (dialect.RequiresTempEmulation() == false) are
// returned unchanged — this includes the canonical "sql server" dialect
// itself, satisfying the "round-trip on simple temp tables" invariant.
//
// The same #name maps to the same rewritten name everywhere it appears in
// sql (spec.md §4.5: "global and consistent renaming per statement").
func (e *Emulator) Rewrite(sql string, target dialect.Dialect) (string, error) {
	if !target.RequiresTempEmulation() {
		return sql, nil
	}

	mask := rules.ProtectedMask(sql)
	renamed := make(map[string]string)

	var buf strings.Builder
	i := 0
	for i < len(sql) {
		if sql[i] == '#' && !rules.AnyProtected(mask, i, i+1) {
			j := i + 1
			for j < len(sql) && isNameChar(sql[j]) {
				j++
			}
			if j > i+1 {
				name := sql[i+1 : j]
				full, ok := renamed[name]
				if !ok {
					var err error
					full, err = e.emulatedName(name, target)
					if err != nil {
						return "", err
					}
					renamed[name] = full
				}
				buf.WriteString(full)
				i = j
				continue
			}
		}
		buf.WriteByte(sql[i])
		i++
	}
	return buf.String(), nil
}

func isNameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// emulatedName builds the salted, schema-qualified name for a single
// #name, enforcing the target dialect's input-length limit
// (spec.md §4.5: "22 characters for Oracle").
func (e *Emulator) emulatedName(name string, target dialect.Dialect) (string, error) {
	if len(name) > target.MaxEmulatedNameInput() {
		return "", apperrors.Newf(apperrors.ErrCodeIdentifierTooLong,
			"temp table name %q exceeds %d characters for %s", name, target.MaxEmulatedNameInput(), target).
			WithField("name", name).
			WithField("dialect", target.String()).
			WithOp("tempemul.Rewrite").Err()
	}

	salted := name + "_" + SessionSalt()
	if e.Schema == "" {
		return salted, nil
	}
	return e.Schema + "." + salted, nil
}
