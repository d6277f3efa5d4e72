package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/errgroup"

	"github.com/waabox/scmfinder/internal/domain"
	"github.com/waabox/scmfinder/internal/logr"
)

// Job classes as reported by the Jenkins JSON API.
const (
	freestyleClass   = "hudson.model.FreeStyleProject"
	mavenClass       = "hudson.maven.MavenModuleSet"
	matrixClass      = "hudson.matrix.MatrixProject"
	pipelineClass    = "org.jenkinsci.plugins.workflow.job.WorkflowJob"
	folderClass      = "com.cloudbees.hudson.plugins.folder.Folder"
	multiBranchClass = "org.jenkinsci.plugins.workflow.multibranch.WorkflowMultiBranchProject"
	orgFolderClass   = "jenkins.branch.OrganizationFolder"
)

// isContainer reports whether jobs of class hold child jobs that the walk
// must list.
func isContainer(class string) bool {
	switch class {
	case folderClass, multiBranchClass, orgFolderClass:
		return true
	}
	return false
}

const defaultConcurrency = 4

// Options configures an Adapter.
type Options struct {
	URL   string
	User  string
	Token string
	// Concurrency bounds the number of config.xml fetches in flight.
	Concurrency int
	// RetryMax is the number of retries for failed requests; zero disables retries.
	RetryMax int
	Logger   logr.Logger
}

// Adapter implements domain.JobSource for a Jenkins server.
type Adapter struct {
	baseURL     string
	user        string
	token       string
	concurrency int
	client      *retryablehttp.Client
	logger      logr.Logger
}

// Ensure Adapter fully implements domain.JobSource.
var _ domain.JobSource = (*Adapter)(nil)

// NewAdapter creates a Jenkins adapter.
func NewAdapter(opts Options) (*Adapter, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("jenkins url is required")
	}
	if _, err := url.Parse(opts.URL); err != nil {
		return nil, fmt.Errorf("invalid jenkins url: %w", err)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	logger := opts.Logger.WithValues("jenkins", opts.URL)

	client := &retryablehttp.Client{
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		RetryMax:     opts.RetryMax,
	}
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		retry, retryErr := retryablehttp.ErrorPropagatedRetryPolicy(ctx, resp, err)
		if retry {
			if retryErr != nil {
				err = retryErr
			}
			// The response is nil when the request never got one, e.g. a
			// socket timeout.
			if resp != nil && resp.Request != nil {
				logger.Error(err, "retrying request", "url", resp.Request.URL, "status", resp.StatusCode)
			} else {
				logger.Error(err, "retrying request")
			}
		}
		return retry, retryErr
	}

	return &Adapter{
		baseURL:     strings.TrimSuffix(opts.URL, "/") + "/",
		user:        opts.User,
		token:       opts.Token,
		concurrency: concurrency,
		client:      client,
		logger:      logger,
	}, nil
}

// apiJob is the raw Jenkins API response shape for a job listing entry.
type apiJob struct {
	Class string `json:"_class"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// listedJob is a job found while walking folders.
type listedJob struct {
	fullName string
	apiJob
}

// ListJobs walks the server's folders, multibranch projects and organization
// folders and returns every job, with the SCM of
// projects and pipelines read from their config.xml. Items come back in the
// order the server lists them, folders before their children.
func (a *Adapter) ListJobs(ctx context.Context) ([]domain.Item, error) {
	var listed []listedJob
	if err := a.walk(ctx, a.baseURL, "", &listed); err != nil {
		return nil, err
	}

	items := make([]domain.Item, len(listed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, j := range listed {
		g.Go(func() error {
			item, err := a.toItem(gctx, j)
			if err != nil {
				return fmt.Errorf("job %s: %w", j.fullName, err)
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	a.logger.V(1).Info("listed jobs", "count", len(items))
	return items, nil
}

func (a *Adapter) walk(ctx context.Context, containerURL, prefix string, out *[]listedJob) error {
	apiURL := containerURL + "api/json?" + url.Values{"tree": {"jobs[name,url,_class]"}}.Encode()
	var result struct {
		Jobs []apiJob `json:"jobs"`
	}
	if err := a.get(ctx, apiURL, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&result)
	}); err != nil {
		return err
	}
	for _, j := range result.Jobs {
		fullName := j.Name
		if prefix != "" {
			fullName = prefix + "/" + j.Name
		}
		*out = append(*out, listedJob{fullName: fullName, apiJob: j})
		if isContainer(j.Class) {
			if err := a.walk(ctx, ensureSlash(j.URL), fullName, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Adapter) toItem(ctx context.Context, j listedJob) (domain.Item, error) {
	switch j.Class {
	case folderClass:
		return &domain.Folder{Name: j.fullName}, nil
	case freestyleClass, mavenClass, matrixClass:
		cfg, err := a.jobConfig(ctx, j.URL)
		if err != nil {
			return nil, err
		}
		return &domain.Project{Name: j.fullName, Kind: projectKind(j.Class), SCM: cfg.projectSCM()}, nil
	case pipelineClass:
		cfg, err := a.jobConfig(ctx, j.URL)
		if err != nil {
			return nil, err
		}
		return &domain.PipelineJob{Name: j.fullName, Definition: cfg.pipelineSCM()}, nil
	default:
		return &domain.FreeJob{Name: j.fullName, Class: j.Class}, nil
	}
}

func (a *Adapter) jobConfig(ctx context.Context, jobURL string) (jobConfig, error) {
	var cfg jobConfig
	err := a.get(ctx, ensureSlash(jobURL)+"config.xml", func(r io.Reader) error {
		var err error
		cfg, err = parseJobConfig(r)
		return err
	})
	return cfg, err
}

func (a *Adapter) get(ctx context.Context, url string, decode func(io.Reader) error) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if a.user != "" {
		req.SetBasicAuth(a.user, a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("jenkins API error: %w", domain.ErrUnauthorized)
	case resp.StatusCode >= 400:
		return fmt.Errorf("jenkins API error: %s", resp.Status)
	}
	return decode(resp.Body)
}

func projectKind(class string) domain.ProjectKind {
	switch class {
	case mavenClass:
		return domain.KindMaven
	case matrixClass:
		return domain.KindMatrix
	default:
		return domain.KindFreestyle
	}
}

func ensureSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
