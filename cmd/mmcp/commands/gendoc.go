package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/mmcp/internal/errors"
)

var (
	genDocDir    string
	genDocFormat string
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := generateDocs(genDocDir, genDocFormat); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", genDocDir)
		return nil
	},
}

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory for documentation")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "output format: markdown, man")
	rootCmd.AddCommand(genDocCmd)
}

func generateDocs(dir, format string) error {
	if dir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "pass --dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	rootCmd.DisableAutoGenTag = true
	switch format {
	case "markdown", "md":
		if err := doc.GenMarkdownTreeCustom(rootCmd, dir, filePrepender, linkHandler); err != nil {
			return errors.Wrap(err, "generating markdown")
		}
	case "man":
		header := &doc.GenManHeader{Title: "MMCP", Section: "1", Source: "mmcp"}
		if err := doc.GenManTree(rootCmd, header, dir); err != nil {
			return errors.Wrap(err, "generating man pages")
		}
	default:
		return errors.NewUserError(
			errors.Newf("unknown doc format %q", format),
			"use one of: markdown, man",
		)
	}
	return nil
}

// filePrepender turns mmcp_agents_add.md into the page title "mmcp agents add".
func filePrepender(filename string) string {
	name := filepath.Base(filename)
	title := strings.ReplaceAll(strings.TrimSuffix(name, filepath.Ext(name)), "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for the %s command"
draft: false
toc: true
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/docs/reference/" + strings.ToLower(base) + "/"
}
