package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waabox/scmfinder/internal/provider"
	"github.com/waabox/scmfinder/internal/tui"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type findOutput struct {
	Job        string   `json:"job"`
	Applicable bool     `json:"applicable"`
	Remotes    []string `json:"remotes"`
	Branches   []string `json:"branches,omitempty"`
}

type resolveOutput struct {
	Job        string `json:"job"`
	Repository string `json:"repository,omitempty"`
	Host       string `json:"host,omitempty"`
	RemoteURL  string `json:"remote_url,omitempty"`
	Verified   string `json:"verified,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (c *cli) findCommand() *cobra.Command {
	var filter, output string
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Print the Git SCM remotes of each job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			s, err := c.scanner(filter)
			if err != nil {
				return err
			}
			results, err := s.Scan(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([]findOutput, 0, len(results))
			for _, r := range results {
				row := findOutput{Job: r.Name(), Applicable: r.Findable, Remotes: []string{}}
				if r.SCM != nil {
					for _, rc := range r.SCM.UserRemoteConfigs {
						row.Remotes = append(row.Remotes, rc.URL)
					}
					row.Branches = r.SCM.Branches
				}
				rows = append(rows, row)
			}

			out := cmd.OutOrStdout()
			if output == outputJSON {
				return writeJSON(out, rows)
			}
			for _, row := range rows {
				remotes := strings.Join(row.Remotes, ",")
				if remotes == "" {
					remotes = "-"
				}
				fmt.Fprintf(out, "%s\t%t\t%s\n", row.Job, row.Applicable, remotes)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only jobs whose full name matches this glob, e.g. 'team/**'")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text or json")
	return cmd
}

func (c *cli) resolveCommand() *cobra.Command {
	var filter, output string
	var verify, all bool
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the owner/name of the repository each job builds from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			s, err := c.scanner(filter)
			if err != nil {
				return err
			}
			results, err := s.Scan(cmd.Context())
			if err != nil {
				return err
			}

			var verifiers *provider.Registry
			if verify {
				if verifiers, err = c.verifiers(cmd.Context()); err != nil {
					return err
				}
			}

			rows := []resolveOutput{}
			for _, r := range results {
				if !r.Resolved && !all {
					continue
				}
				row := resolveOutput{
					Job:        r.Name(),
					Repository: r.Identity(),
					Host:       r.Repository.Host,
					RemoteURL:  r.Repository.RemoteURL,
				}
				if verifiers != nil && r.Resolved {
					name, err := verifiers.Verify(cmd.Context(), r.Repository)
					if err != nil {
						c.logger.V(1).Info("verification failed", "job", r.Name(), "error", err.Error())
						row.Error = err.Error()
					}
					row.Verified = name
				}
				rows = append(rows, row)
			}

			out := cmd.OutOrStdout()
			if output == outputJSON {
				return writeJSON(out, rows)
			}
			for _, row := range rows {
				fmt.Fprintln(out, row.text())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only jobs whose full name matches this glob, e.g. 'team/**'")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text or json")
	cmd.Flags().BoolVar(&verify, "verify", false, "Check each repository exists on its host")
	cmd.Flags().BoolVar(&all, "all", false, "Include jobs whose repository could not be resolved")
	return cmd
}

func (c *cli) browseCommand() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse jobs and their repositories interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.scanner(filter)
			if err != nil {
				return err
			}
			verifiers, err := c.verifiers(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(s, verifiers)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only jobs whose full name matches this glob, e.g. 'team/**'")
	return cmd
}

func (r resolveOutput) text() string {
	repo := r.Repository
	if repo == "" {
		repo = "-"
	}
	line := r.Job + "\t" + repo
	switch {
	case r.Error != "":
		line += "\terror: " + r.Error
	case r.Verified != "":
		line += "\t" + r.Verified
	}
	return line
}

func checkOutput(output string) error {
	switch output {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q: must be text or json", output)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
