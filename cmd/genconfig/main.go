// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/i18nmerge/config"
	"codeberg.org/pixivfe/i18nmerge/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/i18nmerge.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# i18nmerge configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# i18nmerge configuration (via configuration file)
#
# Copy this file to i18nmerge.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	targetFilesYAMLComment = `# -- Locale to catalog file, relative to outputPath`
)

func main() {
	audit.SetDefaultLogger()

	if err := os.MkdirAll(filepath.Dir(envOutputFile), 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	generateEnvFile()
	generateYAMLFile()
}

// generateEnvFile generates the deploy/.env.example file.
func generateEnvFile() {
	cfg := &config.Config{}
	cfg.SetDefaults()

	var sb strings.Builder
	sb.WriteString(envFileHeader)
	fmt.Fprintf(&sb, "# %s=i18nmerge.yaml\n\n", config.ConfigFileEnv)

	writeEnvFields(&sb, reflect.ValueOf(*cfg), "General")

	if err := os.WriteFile(envOutputFile, []byte(sb.String()), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", envOutputFile).Msg("Failed to write .env.example file")
	}

	log.Info().Str("path", envOutputFile).Msg("Successfully generated .env.example")
}

// writeEnvFields writes the env tagged fields of val under a section header,
// then recurses into nested structs as their own sections.
func writeEnvFields(sb *strings.Builder, val reflect.Value, section string) {
	typ := val.Type()

	var nested []int

	fmt.Fprintf(sb, "## %s\n", section)

	for i := range typ.NumField() {
		field := typ.Field(i)
		value := val.Field(i)

		if value.Kind() == reflect.Struct {
			nested = append(nested, i)
			continue
		}

		tag, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}

		envVarName := strings.Split(tag, ",")[0]

		switch {
		case envVarName == "I18NMERGE_TARGET_FILES":
			fmt.Fprintf(sb, "# %s=fr:messages.fr.json,de:messages.de.json\n", envVarName)
		case value.Kind() == reflect.Slice:
			sep := field.Tag.Get("envSeparator")
			if sep == "" {
				sep = ","
			}

			items := make([]string, value.Len())
			for j := range value.Len() {
				items[j] = fmt.Sprint(value.Index(j).Interface())
			}

			fmt.Fprintf(sb, "# %s=%s\n", envVarName, strings.Join(items, sep))
		case value.Kind() == reflect.String && value.Len() == 0:
			fmt.Fprintf(sb, "# %s=\n", envVarName)
		default:
			fmt.Fprintf(sb, "# %s=%v\n", envVarName, value.Interface())
		}
	}

	sb.WriteString("\n")

	for _, i := range nested {
		name := typ.Field(i).Name
		if section != "General" {
			name = section + " / " + name
		}

		writeEnvFields(sb, val.Field(i), name)
	}
}

// generateYAMLFile generates the deploy/i18nmerge.yaml.example file.
func generateYAMLFile() {
	cfg := &config.Config{}
	cfg.SetDefaults()

	cfg.TargetFiles = map[string]string{"fr": "messages.fr.json"}

	var yamlContent strings.Builder
	if err := yaml.NewEncoder(&yamlContent, yaml.Indent(2)).Encode(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	// Process the marshaled YAML line-by-line to create a clean template.
	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))

		// Sections and the locale map stay uncommented.
		switch {
		case indentSize == 0 && strings.HasSuffix(trimmed, ":"):
			if trimmed == "targetFiles:" {
				fmt.Fprintf(&sb, "\n%s\n", targetFilesYAMLComment)
			} else {
				sb.WriteString("\n")
			}

			sb.WriteString(line + "\n")
		case strings.HasSuffix(trimmed, ":"):
			sb.WriteString(line + "\n")
		case strings.HasPrefix(trimmed, "fr: "):
			sb.WriteString(line + "\n")
		default:
			fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
		}
	}

	if err := os.WriteFile(yamlOutputFile, []byte(sb.String()), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", yamlOutputFile).Msg("Failed to write config file")
	}

	log.Info().Str("path", yamlOutputFile).Msg("Successfully generated i18nmerge.yaml.example")
}
