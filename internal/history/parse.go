package history

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseArgs interprets a git-style argument vector into Options. Flags come
// from the catalogue; the first bare argument is taken as the revision
// range and everything after a "--" separator as path restrictions.
func ParseArgs(argv []string) (*Options, error) {
	opts := New()
	sawRange := false
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--":
			for _, p := range argv[i+1:] {
				if err := opts.AddMulti("path-args", p); err != nil {
					return nil, err
				}
			}
			return opts, validate(opts)
		case strings.HasPrefix(arg, "--"):
			key, value, hasValue := strings.Cut(arg[2:], "=")
			spec, ok := specByKey[key]
			if !ok || key == "path-args" {
				return nil, fmt.Errorf("unknown option --%s", key)
			}
			switch spec.kind {
			case flagSwitch:
				if hasValue {
					return nil, fmt.Errorf("--%s takes no value", key)
				}
				if err := opts.SetSwitch(key, true); err != nil {
					return nil, err
				}
			case flagValue:
				if !hasValue {
					if i+1 >= len(argv) {
						return nil, fmt.Errorf("--%s requires a value", key)
					}
					i++
					value = argv[i]
				}
				if key == "max-count" {
					if _, err := strconv.Atoi(value); err != nil {
						return nil, fmt.Errorf("--max-count=%s: not a number", value)
					}
				}
				if err := opts.SetValue(key, value); err != nil {
					return nil, err
				}
			case flagMulti:
				if !hasValue {
					if i+1 >= len(argv) {
						return nil, fmt.Errorf("--%s requires a value", key)
					}
					i++
					value = argv[i]
				}
				if err := opts.AddMulti(key, value); err != nil {
					return nil, err
				}
			}
		case strings.HasPrefix(arg, "-L"):
			value := arg[2:]
			if value == "" {
				if i+1 >= len(argv) {
					return nil, fmt.Errorf("-L requires a range")
				}
				i++
				value = argv[i]
			}
			if err := opts.AddMulti("L", value); err != nil {
				return nil, err
			}
		case strings.HasPrefix(arg, "-") && arg != "-":
			return nil, fmt.Errorf("unknown option %s", arg)
		default:
			// first bare argument is the revision range, the rest are
			// path restrictions
			if !sawRange {
				sawRange = true
				if err := opts.SetValue("rev-range", arg); err != nil {
					return nil, err
				}
				continue
			}
			if err := opts.AddMulti("path-args", arg); err != nil {
				return nil, err
			}
		}
	}
	return opts, validate(opts)
}

func validate(opts *Options) error {
	if opts.Switch("follow") && len(opts.Paths()) != 1 {
		return fmt.Errorf("--follow requires exactly one path, got %d", len(opts.Paths()))
	}
	if opts.Switch("merges") && opts.Switch("no-merges") {
		return fmt.Errorf("--merges and --no-merges are mutually exclusive")
	}
	return nil
}
