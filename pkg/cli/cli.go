package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"rds-provider/internal/domain/rds"
	"rds-provider/internal/ports"
	"rds-provider/pkg/config"
)

// ProviderFunc builds the provider use case for a validated configuration.
type ProviderFunc func(ctx context.Context, providerConfig *config.ProviderConfig) (ports.RDSProviderUseCase, error)

// CLI representa a interface de linha de comando
type CLI struct {
	provider ports.RDSProviderUseCase
	out      io.Writer
	output   string
}

// NewCLI cria uma nova instância do CLI
func NewCLI(provider ports.RDSProviderUseCase, out io.Writer, output string) *CLI {
	return &CLI{
		provider: provider,
		out:      out,
		output:   output,
	}
}

// Execute runs a lifecycle command against every template in the given files.
func (c *CLI) Execute(ctx context.Context, opts *Options) error {
	if len(opts.Files) == 0 {
		return fmt.Errorf("no template file given, use -f <template.yaml>")
	}

	var files []*config.TemplateFile
	for _, f := range opts.Files {
		parsed, err := ParseFile(f)
		if err != nil {
			return err
		}
		files = append(files, parsed...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no template found in %s", strings.Join(opts.Files, ", "))
	}

	for _, f := range files {
		template, err := c.provider.CreateTemplate(f.Name, f.Configuration, f.Tags)
		if err != nil {
			return err
		}

		switch opts.Command {
		case "validate":
			err = c.print(template.Name, map[string]string{"template": template.String()})
		case "allocate":
			err = c.RunAllocate(ctx, template, opts.IDs, opts.MinCount)
		case "find":
			err = c.RunFind(ctx, template, opts.IDs)
		case "delete":
			err = c.RunDelete(ctx, template, opts.IDs)
		case "state":
			err = c.RunState(ctx, template, opts.IDs)
		default:
			return fmt.Errorf("unknown command: %s", opts.Command)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RunAllocate executa o comando allocate
func (c *CLI) RunAllocate(ctx context.Context, template *rds.InstanceTemplate, ids []string, minCount int) error {
	if len(ids) == 0 {
		return fmt.Errorf("no instance ID given, use --id <id>")
	}
	if err := c.provider.Allocate(ctx, template, ids, minCount); err != nil {
		return fmt.Errorf("allocate failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("allocate interrupted, some IDs may not have been submitted: %w", err)
	}

	result := make(map[string]string, len(ids))
	for _, id := range ids {
		result[id] = "submitted"
	}
	return c.print(template.Name, result)
}

// RunFind executa o comando find
func (c *CLI) RunFind(ctx context.Context, template *rds.InstanceTemplate, ids []string) error {
	instances, err := c.provider.Find(ctx, template, ids)
	if err != nil {
		return fmt.Errorf("find failed: %w", err)
	}

	if c.output != OutputTable {
		found := make(map[string]map[string]string, len(instances))
		for _, instance := range instances {
			found[instance.VirtualInstanceID] = instance.DisplayProperties()
		}
		return c.encode(map[string]interface{}{template.Name: found})
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTAGE\tSTATUS\tENDPOINT")
	for _, instance := range instances {
		props := instance.DisplayProperties()
		endpoint := props[rds.DisplayEndpointAddress]
		if port := props[rds.DisplayEndpointPort]; endpoint != "" && port != "" {
			endpoint += ":" + port
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", instance.VirtualInstanceID, instance.State().Stage,
			props[rds.DisplayInstanceStatus], endpoint)
	}
	return w.Flush()
}

// RunDelete executa o comando delete
func (c *CLI) RunDelete(ctx context.Context, template *rds.InstanceTemplate, ids []string) error {
	if err := c.provider.Delete(ctx, template, ids); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete interrupted, some IDs may not have been submitted: %w", err)
	}

	result := make(map[string]string, len(ids))
	for _, id := range ids {
		result[id] = "submitted"
	}
	return c.print(template.Name, result)
}

// RunState executa o comando state
func (c *CLI) RunState(ctx context.Context, template *rds.InstanceTemplate, ids []string) error {
	states, err := c.provider.GetInstanceState(ctx, template, ids)
	if err != nil {
		return fmt.Errorf("state failed: %w", err)
	}

	if c.output != OutputTable {
		return c.encode(map[string]interface{}{template.Name: states})
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTAGE\tDESCRIPTION")
	for _, id := range sortedKeys(states) {
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, states[id].Stage, states[id].Description)
	}
	return w.Flush()
}

func (c *CLI) print(templateName string, result map[string]string) error {
	if c.output != OutputTable {
		return c.encode(map[string]interface{}{templateName: result})
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TEMPLATE\t%s\n", templateName)
	for _, k := range sortedKeys(result) {
		fmt.Fprintf(w, "%s\t%s\n", k, result[k])
	}
	return w.Flush()
}

func (c *CLI) encode(v interface{}) error {
	if c.output == OutputYAML {
		enc := yaml.NewEncoder(c.out)
		defer enc.Close()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PrintUsage imprime o uso do CLI
func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, `
RDS Provider - CLI mode

Usage:
  rds-provider validate -f <template.yaml>                     Validate instance templates
  rds-provider allocate -f <template.yaml> --id <id> [flags]   Create DB instances
  rds-provider find     -f <template.yaml> --id <id> [flags]   Find existing DB instances
  rds-provider delete   -f <template.yaml> --id <id> [flags]   Delete DB instances
  rds-provider state    -f <template.yaml> --id <id> [flags]   Show DB instance lifecycle states
  rds-provider serve    [flags]                                Start the HTTP API

Flags:
  -f, --file string        Template file (may be repeated, may hold several documents)
  --id string              Virtual instance ID (may be repeated or comma-separated)
  -c, --config string      Provider configuration file
  --region string          AWS region (default: rdsRegion, AWS_REGION or us-east-1)
  --endpoint string        RDS endpoint URL (for LocalStack)
  --min-count int          Minimum instance count passed to allocate (default: number of IDs)
  -o, --output string      Output format: table, json or yaml (default: table)
  -v, --verbose            Verbose logging

Environment:
  AWS_REGION              AWS region
  AWS_ACCESS_KEY_ID       AWS access key
  AWS_SECRET_ACCESS_KEY   AWS secret key
  AWS_ENDPOINT_URL        AWS endpoint (for LocalStack)
  AWS_PROFILE             AWS profile name`)
}

// IsCliCommand verifica se os argumentos indicam modo CLI
func IsCliCommand(args []string) bool {
	if len(args) < 2 {
		return false
	}
	switch args[1] {
	case "validate", "allocate", "find", "delete", "state", "help", "--help", "-h":
		return true
	}
	return false
}

// Run executa o CLI baseado nos argumentos da linha de comando
func Run(ctx context.Context, args []string, out io.Writer, newProvider ProviderFunc) error {
	opts, err := ParseArgs(args)
	if err != nil {
		return err
	}
	if opts.Command == "help" || opts.Command == "--help" || opts.Command == "-h" {
		PrintUsage(out)
		return nil
	}

	_, providerConfig, err := LoadProviderConfig(opts.ConfigPath, opts.Region, opts.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid provider configuration: %w", err)
	}

	provider, err := newProvider(ctx, providerConfig)
	if err != nil {
		return err
	}

	return NewCLI(provider, out, opts.Output).Execute(ctx, opts)
}
