package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"rds-provider/pkg/config"
)

// Options holds the parsed command line of a CLI command.
type Options struct {
	Command    string
	Files      []string
	IDs        []string
	ConfigPath string
	Region     string
	Endpoint   string
	MinCount   int
	Output     string
	Verbose    bool
}

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// ParseArgs parses args as passed to the binary, command first at args[1].
func ParseArgs(args []string) (*Options, error) {
	opts := &Options{Output: OutputTable, MinCount: -1}
	if len(args) < 2 {
		opts.Command = "help"
		return opts, nil
	}
	opts.Command = args[1]

	value := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("flag %s requires a value", flag)
		}
		return args[i+1], nil
	}

	for i := 2; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-f", "--file":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			opts.Files = append(opts.Files, v)
			i++
		case "--id", "--ids":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			opts.IDs = append(opts.IDs, config.SplitList(v)...)
			i++
		case "-c", "--config":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			opts.ConfigPath = v
			i++
		case "--region":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			opts.Region = v
			i++
		case "--endpoint":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			opts.Endpoint = v
			i++
		case "--min-count":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid --min-count %q", v)
			}
			opts.MinCount = n
			i++
		case "-o", "--output":
			v, err := value(i, arg)
			if err != nil {
				return nil, err
			}
			switch v {
			case OutputTable, OutputJSON, OutputYAML:
				opts.Output = v
			default:
				return nil, fmt.Errorf("unsupported output format %q", v)
			}
			i++
		case "-v", "--verbose":
			opts.Verbose = true
		case "-h", "--help":
			opts.Command = "help"
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag %s", arg)
			}
			// Positional arguments are virtual instance IDs
			opts.IDs = append(opts.IDs, arg)
		}
	}

	if opts.MinCount < 0 {
		opts.MinCount = len(opts.IDs)
	}
	return opts, nil
}

// ParseFile reads every template document in filename.
func ParseFile(filename string) ([]*config.TemplateFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", filename, err)
	}
	templates, err := config.ParseTemplates(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template file %s: %w", filename, err)
	}
	return templates, nil
}
