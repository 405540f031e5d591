package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-note/internal/logging"
	"github.com/i474232898/weather-note/internal/tmpl"
)

var (
	renderTemplateFile string
	renderBuiltin      string
	renderDataFile     string
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderTemplateFile, "template", "t", "", "template file")
	renderCmd.Flags().StringVarP(&renderBuiltin, "builtin", "b", "", "built-in template name")
	renderCmd.Flags().StringVarP(&renderDataFile, "data", "d", "", "context data file (.json, .yaml or .yml)")
	renderCmd.MarkFlagsMutuallyExclusive("template", "builtin")
	_ = renderCmd.MarkFlagRequired("data")
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a template against a data file",
	Long:  "Render a template file or a built-in template against JSON or YAML context data and print the result. Nothing is fetched.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		template, err := loadTemplate(renderTemplateFile, renderBuiltin)
		if err != nil {
			return err
		}
		data, err := loadData(renderDataFile)
		if err != nil {
			return err
		}

		logger := logging.Component("render")
		engine := tmpl.NewEngine(tmpl.WithMissHandler(func(directive, path string) {
			logger.Warn().Str("path", path).Msg("unresolved template variable")
		}))

		_, err = fmt.Fprint(cmd.OutOrStdout(), engine.Render(template, data))
		return err
	},
}

func loadTemplate(file, builtin string) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read template: %w", err)
		}
		return string(b), nil
	}
	if builtin == "" {
		builtin = "default"
	}
	t, ok := tmpl.Builtin(builtin)
	if !ok {
		return "", fmt.Errorf("unknown built-in template %q (have %s)", builtin, strings.Join(tmpl.BuiltinNames(), ", "))
	}
	return t, nil
}

func loadData(file string) (tmpl.Value, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return tmpl.Null(), fmt.Errorf("read data: %w", err)
	}

	var raw any
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		err = json.Unmarshal(b, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &raw)
	default:
		return tmpl.Null(), errors.New("data file must be .json, .yaml or .yml")
	}
	if err != nil {
		return tmpl.Null(), fmt.Errorf("parse data %s: %w", file, err)
	}
	return tmpl.FromAny(raw), nil
}
