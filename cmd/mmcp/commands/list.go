package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mmcp/cmd/mmcp/commands/flags"
	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/jsontree"
	"github.com/thoreinstein/mmcp/internal/logging"
	"github.com/thoreinstein/mmcp/internal/mcp"
	"github.com/thoreinstein/mmcp/internal/mcp/parser"
)

var (
	listOutput      string
	listShowSecrets bool
)

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table",
		"output format: table, json, yaml")
	listCmd.Flags().BoolVar(&listShowSecrets, "show-secrets", false,
		"reveal masked secrets in env, headers and URLs")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the servers in the canonical config",
	Long: `List the mode, agents and servers of the canonical config.

Values of environment variables and headers whose names look secret (TOKEN,
KEY, SECRET, PASSWORD, AUTH, CREDENTIAL, PRIVATE), values with well-known
token prefixes, and URL passwords are masked. Use --show-secrets to reveal
them.`,
	Example: `  mmcp list
  mmcp list --output yaml
  mmcp list -o json --show-secrets`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := flags.LoadConfig()
	if err != nil {
		return err
	}
	if !listShowSecrets {
		cfg = maskConfig(cfg)
	}
	return writeList(cmd.OutOrStdout(), cfg, listOutput)
}

func writeList(w io.Writer, cfg *mcp.Config, format string) error {
	switch format {
	case "table", "":
		return outputTable(w, cfg)
	case "json":
		data, err := parser.Write(cfg)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "yaml":
		return outputYAML(w, cfg)
	default:
		return errors.NewUserError(errors.Newf("unknown output format %q", format), "use table, json or yaml")
	}
}

func outputTable(w io.Writer, cfg *mcp.Config) error {
	bold := color.New(color.Bold).SprintFunc()
	name := color.New(color.FgGreen).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	agents := strings.Join(cfg.Agents, ", ")
	if agents == "" {
		agents = gray("(none)")
	}
	fmt.Fprintf(w, "%s %s\n", bold("Mode:  "), cfg.Mode)
	fmt.Fprintf(w, "%s %s\n\n", bold("Agents:"), agents)

	if cfg.MCPServers.Len() == 0 {
		fmt.Fprintln(w, "No MCP servers configured")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tCOMMAND/URL\tENV")
	for n, spec := range cfg.MCPServers.All() {
		kind, endpoint := "local", strings.TrimSpace(strings.Join(append([]string{spec.Command()}, spec.Args()...), " "))
		if spec.URL() != "" {
			kind, endpoint = "remote", spec.URL()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name(n), kind, truncate(endpoint, 60), envSummary(spec))
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}

func envSummary(spec *mcp.ServerSpec) string {
	v, _ := spec.Get(mcp.FieldEnv)
	env, ok := v.(*jsontree.Object)
	if !ok || env.Len() == 0 {
		return "-"
	}
	parts := make([]string, 0, env.Len())
	for k, val := range env.All() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, val))
	}
	return strings.Join(parts, " ")
}

func outputYAML(w io.Writer, cfg *mcp.Config) error {
	data, err := parser.Write(cfg)
	if err != nil {
		return err
	}
	doc, err := jsontree.Parse(data)
	if err != nil {
		return errors.Wrap(err, "re-reading config")
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(doc)); err != nil {
		return errors.Wrap(err, "encoding YAML")
	}
	return errors.Wrap(enc.Close(), "encoding YAML")
}

// yamlNode converts a JSON tree into a YAML node, keeping key order.
func yamlNode(v any) *yaml.Node {
	switch val := v.(type) {
	case *jsontree.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, child := range val.All() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				yamlNode(child))
		}
		return n
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, child := range val {
			n.Content = append(n.Content, yamlNode(child))
		}
		return n
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(val)}
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	default:
		// json.Number
		return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(val)}
	}
}

// maskConfig returns a copy of cfg with secrets in env, headers and URLs masked.
func maskConfig(cfg *mcp.Config) *mcp.Config {
	out := &mcp.Config{Mode: cfg.Mode, Agents: cfg.Agents}
	for name, spec := range cfg.MCPServers.All() {
		if spec == nil {
			continue
		}
		masked := spec.Clone()
		maskObject(masked, mcp.FieldEnv)
		maskObject(masked, mcp.FieldHeaders)
		if u := masked.URL(); u != "" {
			masked.Set(mcp.FieldURL, logging.MaskURL(u))
		}
		out.SetServer(name, masked)
	}
	if out.MCPServers == nil {
		out.MCPServers = jsontree.NewMap[*mcp.ServerSpec]()
	}
	return out
}

func maskObject(spec *mcp.ServerSpec, field string) {
	v, _ := spec.Get(field)
	obj, ok := v.(*jsontree.Object)
	if !ok {
		return
	}
	for k, val := range obj.All() {
		if s, ok := val.(string); ok {
			obj.Set(k, logging.Redact(k, s))
		}
	}
}

// truncate truncates a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
