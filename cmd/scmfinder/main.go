package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/waabox/scmfinder/internal/config"
	"github.com/waabox/scmfinder/internal/domain"
	"github.com/waabox/scmfinder/internal/finder"
	"github.com/waabox/scmfinder/internal/inventory"
	"github.com/waabox/scmfinder/internal/logr"
	"github.com/waabox/scmfinder/internal/provider"
	githubprovider "github.com/waabox/scmfinder/internal/provider/github"
	gitlabprovider "github.com/waabox/scmfinder/internal/provider/gitlab"
	jenkinsprovider "github.com/waabox/scmfinder/internal/provider/jenkins"
	"github.com/waabox/scmfinder/internal/resolver"
	"github.com/waabox/scmfinder/internal/scan"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

var errNoJobSource = errors.New("no job source: set --inventory or --jenkins-url")

func main() {
	// Configure ^C to terminate program
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		PrintError(err)
		stop()
		os.Exit(1)
	}
}

// PrintError writes err to stderr with a highlighted prefix.
func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.HiRedString("Error:"), err.Error())
}

// cli holds state shared by every subcommand. Flags populate it before the
// persistent pre-run loads config and builds the logger.
type cli struct {
	configPath   string
	inventory    string
	jenkinsURL   string
	jenkinsUser  string
	jenkinsToken string
	loggerCfg    logr.Config

	cfg    config.Config
	logger logr.Logger
}

func run(ctx context.Context, args []string, out io.Writer) error {
	c := &cli{}

	cmd := &cobra.Command{
		Use:           "scmfinder",
		Short:         "Find the Git SCM and repository behind each Jenkins job",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load()
		},
	}
	cmd.SetOut(out)
	cmd.SetArgs(args)

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", config.DefaultConfigPath(), "Path to the config file")
	flags.StringVar(&c.inventory, "inventory", "", "Read jobs from a TOML or YAML inventory file")
	flags.StringVar(&c.jenkinsURL, "jenkins-url", "", "Read jobs from the Jenkins server at this URL")
	flags.StringVar(&c.jenkinsUser, "jenkins-user", "", "Jenkins user for basic auth")
	flags.StringVar(&c.jenkinsToken, "jenkins-token", "", "Jenkins API token for basic auth")
	logr.LoadConfigFromFlags(flags, &c.loggerCfg)

	cmd.AddCommand(
		c.findCommand(),
		c.resolveCommand(),
		c.browseCommand(),
		versionCommand(),
	)

	if err := SetFlagsFromEnvVariables(flags); err != nil {
		return err
	}
	for _, sub := range cmd.Commands() {
		if err := SetFlagsFromEnvVariables(sub.Flags()); err != nil {
			return err
		}
	}

	return cmd.ExecuteContext(ctx)
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		// Skip config loading.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "scmfinder", version)
		},
	}
}

// load reads the config file and applies flag overrides on top of it.
func (c *cli) load() error {
	cfg, err := config.LoadFrom(c.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if c.inventory != "" {
		cfg.Inventory = c.inventory
	}
	if c.jenkinsURL != "" {
		cfg.Jenkins.URL = c.jenkinsURL
	}
	if c.jenkinsUser != "" {
		cfg.Jenkins.User = c.jenkinsUser
	}
	if c.jenkinsToken != "" {
		cfg.Jenkins.Token = c.jenkinsToken
	}
	c.cfg = cfg

	logger, err := logr.New(&c.loggerCfg)
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

// source returns the job source named by config: an inventory file takes
// precedence over a Jenkins server.
func (c *cli) source() (domain.JobSource, error) {
	switch {
	case c.cfg.Inventory != "":
		c.logger.V(1).Info("reading inventory", "path", c.cfg.Inventory)
		return &inventory.File{Path: c.cfg.Inventory}, nil
	case c.cfg.Jenkins.URL != "":
		return jenkinsprovider.NewAdapter(jenkinsprovider.Options{
			URL:         c.cfg.Jenkins.URL,
			User:        c.cfg.Jenkins.User,
			Token:       c.cfg.Jenkins.Token,
			Concurrency: c.cfg.ConcurrencyOrDefault(),
			RetryMax:    3,
			Logger:      c.logger,
		})
	default:
		return nil, errNoJobSource
	}
}

func (c *cli) scanner(filter string) (*scan.Scanner, error) {
	src, err := c.source()
	if err != nil {
		return nil, err
	}
	finders, err := finder.NewRegistryFromNames(c.cfg.FindersOrDefault(), c.logger)
	if err != nil {
		return nil, err
	}
	resolvers, err := resolver.NewRegistryFromNames(c.cfg.ResolversOrDefault(), c.logger)
	if err != nil {
		return nil, err
	}
	g, err := scan.CompileFilter(filter)
	if err != nil {
		return nil, err
	}
	return &scan.Scanner{Source: src, Finders: finders, Resolvers: resolvers, Filter: g}, nil
}

// verifiers registers the public hosts plus any configured self-hosted ones.
func (c *cli) verifiers(ctx context.Context) (*provider.Registry, error) {
	registry := provider.NewRegistry()

	gh, err := githubprovider.NewVerifier(ctx, c.cfg.GitHub.Token, c.cfg.GitHub.URL)
	if err != nil {
		return nil, err
	}
	if host := hostOf(c.cfg.GitHub.URL); host != "" {
		registry.Register(host, gh)
	} else {
		registry.Register("github.com", gh)
	}

	gitLabURL := c.cfg.GitLab.URL
	registry.Register("gitlab.com", gitlabprovider.NewVerifier(c.cfg.GitLab.Token, ""))
	if host := hostOf(gitLabURL); host != "" {
		registry.Register(host, gitlabprovider.NewVerifier(c.cfg.GitLab.Token, gitLabURL))
	}
	return registry, nil
}

func hostOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
