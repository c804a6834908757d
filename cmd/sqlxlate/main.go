// Command sqlxlate renders a SQL template and/or translates it into a
// target dialect from the command line (spec.md §6's CLI surface).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sqlxlate/sqlxlate/pkg/dialect"
	"github.com/sqlxlate/sqlxlate/pkg/render"
	"github.com/sqlxlate/sqlxlate/pkg/rules"
	"github.com/sqlxlate/sqlxlate/pkg/translate"
	"github.com/sqlxlate/sqlxlate/pkg/value"
	"github.com/sqlxlate/sqlxlate/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type bindFlags map[string]value.Value

func (b bindFlags) String() string { return "" }

func (b bindFlags) Set(s string) error {
	key, val, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("-bind must be key=value, got %q", s)
	}
	b[key] = value.FromLiteral(val)
	return nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sqlxlate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		dialectName  = fs.String("dialect", "sql server", "Target SQL dialect")
		schema       = fs.String("schema", "", "Schema used to qualify emulated temp tables")
		rulesPath    = fs.String("rules", "", "Path to a pattern table CSV (default: bundled table)")
		showHelp     = fs.Bool("h", false, "Show help")
		showHelpL    = fs.Bool("help", false, "Show help")
		showVersion  = fs.Bool("v", false, "Show version")
		showVersionL = fs.Bool("version", false, "Show version")
	)

	binds := make(bindFlags)
	fs.Var(binds, "bind", "Parameter binding key=value (repeatable)")

	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showHelpL {
		*showHelp = true
	}
	if *showVersionL {
		*showVersion = true
	}
	if *showHelp {
		printUsage(stdout)
		return 0
	}
	if *showVersion {
		fmt.Fprintln(stdout, version.Full())
		return 0
	}

	target, ok := dialect.Parse(*dialectName)
	if !ok {
		fmt.Fprintf(stderr, "error: unknown dialect %q\n", *dialectName)
		return 1
	}

	var tpl string
	if fs.NArg() > 0 {
		data, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		tpl = string(data)
	} else {
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "error: reading stdin: %v\n", err)
			return 1
		}
		tpl = string(data)
	}

	ruleSet := rules.DefaultRuleSet()
	if *rulesPath != "" {
		loaded, err := rules.Load(*rulesPath, dialect.SQLServer)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		ruleSet = loaded
	}

	rendered, err := render.Render(tpl, binds)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	var opts []translate.Option
	if *schema != "" {
		opts = append(opts, translate.WithTempEmulationSchema(*schema))
	}

	out, err := translate.Translate(rendered, target, ruleSet, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, out)
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "sqlxlate - render and translate SQL templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: sqlxlate [flags] [template-file]")
	fmt.Fprintln(w, "       cat template.sql | sqlxlate [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -dialect string    Target SQL dialect (default \"sql server\")")
	fmt.Fprintln(w, "  -schema string     Schema used to qualify emulated temp tables")
	fmt.Fprintln(w, "  -rules string      Path to a pattern table CSV (default: bundled table)")
	fmt.Fprintln(w, "  -bind key=value    Parameter binding (repeatable)")
	fmt.Fprintln(w, "  -h, -help          Show this help")
	fmt.Fprintln(w, "  -v, -version       Show version")
}
