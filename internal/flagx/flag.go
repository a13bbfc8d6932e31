// Package flagx extracts individual flags from the process arguments so
// that several loaders can each parse only the flags they own.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of allowedFlags and their
// values. Both "-c conf.json" and "-config=conf.json" forms are kept; a
// following token that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// lookupPath parses a string flag known by a short and a long name out of
// os.Args. The last occurrence wins; absence yields "".
func lookupPath(set, short, long, usage string) string {
	var v string

	args := FilterArgs(os.Args[1:], []string{"-" + short, "-" + long})

	fs := flag.NewFlagSet(set, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&v, long, "", usage)
	fs.StringVar(&v, short, "", usage+" (short)")
	_ = fs.Parse(args)

	return v
}

// JsonConfigFlags returns the config file path given with -c or -config.
func JsonConfigFlags() string {
	return lookupPath("json", "c", "config", "Path to config file")
}

// EnvFileFlags returns the dotenv file path given with -e or -env-file.
func EnvFileFlags() string {
	return lookupPath("env", "e", "env-file", "Path to .env file")
}
