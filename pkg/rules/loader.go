package rules

import (
	"os"

	apperrors "github.com/sqlxlate/sqlxlate/pkg/errors"
	"github.com/sqlxlate/sqlxlate/pkg/dialect"
)

// Load reads and compiles a pattern table CSV file from disk.
func Load(path string, source dialect.Dialect) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeRuleLoadIO,
			"opening pattern table %q", path).WithOp("rules.Load").Err()
	}
	defer f.Close()

	rs, err := LoadReader(f, source)
	if err != nil {
		return nil, err
	}
	return rs, nil
}
