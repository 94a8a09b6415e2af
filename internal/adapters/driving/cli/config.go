package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write configuration values",
	Long: `Reads and writes keys in config.toml using dotted names, for example
store.backend or llm.ollama.model.`,
}

var configPathCmd = requireConfig(&cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(configStore.Path())
	},
})

var configGetCmd = requireConfig(&cobra.Command{
	Use:   "get [key]",
	Short: "Print a value, or every value when no key is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
})

var configSetCmd = requireConfig(&cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a value",
	Long: `Sets a value. Integers and booleans are stored as such; comma separated
values are stored as lists for llm.chain and server.cors_origins.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
})

// listKeys hold string slices.
var listKeys = map[string]bool{
	"llm.chain":           true,
	"server.cors_origins": true,
}

func init() {
	configCmd.AddCommand(configPathCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

type keyLister interface {
	Keys() []string
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		v, ok := configStore.Get(args[0])
		if !ok {
			return fmt.Errorf("%s is not set", args[0])
		}
		cmd.Println(formatValue(v))
		return nil
	}

	lister, ok := configStore.(keyLister)
	if !ok {
		return errors.New("config store cannot list keys")
	}
	keys := lister.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		v, _ := configStore.Get(k)
		cmd.Printf("%s = %s\n", k, formatValue(v))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseValue(key, raw)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	cmd.Printf("%s updated\n", key)
	return nil
}

func parseValue(key, raw string) any {
	if listKeys[key] {
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []any:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprint(val)
	}
}
