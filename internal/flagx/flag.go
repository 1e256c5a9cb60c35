// Package flagx contains helpers for parsing a subset of command-line flags
// without interfering with flags owned by other components.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns only the allowed flags (and their values) from args.
//
// Both "-f value" and "--flag=value" forms are recognized. args is usually
// os.Args[1:]; allowedFlags lists flag names including the dash prefix,
// e.g. []string{"-a", "-t"}.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--flag=value" form: keep the whole argument.
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// "-f value" form: keep the flag and, if present, its value.
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

// JsonConfigFlags extracts the config file path given via -c or -config.
// Other arguments are ignored. Returns "" when neither flag is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
