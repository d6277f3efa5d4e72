// Package inventory loads job definitions from a TOML or YAML file, for use
// without a live Jenkins server.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/waabox/scmfinder/internal/domain"
	"github.com/waabox/scmfinder/internal/git"
)

// ErrInvalidJob is returned when a job definition cannot be turned into an item.
var ErrInvalidJob = errors.New("invalid job definition")

// Format is the encoding of an inventory file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Remote is a remote repository entry in a job definition.
type Remote struct {
	Name          string `toml:"name" yaml:"name"`
	URL           string `toml:"url" yaml:"url"`
	Refspec       string `toml:"refspec" yaml:"refspec"`
	CredentialsID string `toml:"credentials_id" yaml:"credentials_id"`
}

// Job is a single job definition.
type Job struct {
	Name string `toml:"name" yaml:"name"`
	// Type is freestyle, maven, matrix, pipeline, folder, or any other job
	// class name.
	Type string `toml:"type" yaml:"type"`
	// SCM is "git", "none" (or empty), or the class name of another SCM.
	SCM      string   `toml:"scm" yaml:"scm"`
	Remotes  []Remote `toml:"remotes" yaml:"remotes"`
	Branches []string `toml:"branches" yaml:"branches"`
	// Checkout is a local working copy whose .git/config remotes are appended
	// to Remotes. Relative paths are resolved against the inventory file.
	Checkout string `toml:"checkout" yaml:"checkout"`
}

type document struct {
	Jobs []Job `toml:"jobs" yaml:"jobs"`
}

// File is a job source backed by an inventory file.
type File struct {
	Path string
}

var _ domain.JobSource = (*File)(nil)

// ListJobs loads and converts every job in the file.
func (f *File) ListJobs(_ context.Context) ([]domain.Item, error) {
	return Load(f.Path)
}

// Load reads the inventory file at path. The format follows the extension:
// .yaml and .yml are YAML, anything else is TOML.
func Load(path string) ([]domain.Item, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening inventory: %w", err)
	}
	defer fh.Close()

	jobs, err := Decode(fh, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return ToItems(jobs, filepath.Dir(path))
}

// FormatFromPath infers the inventory format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode reads job definitions in the given format.
func Decode(r io.Reader, format Format) ([]Job, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported inventory format: %s", format)
	}
	return doc.Jobs, nil
}

// ToItems converts job definitions into items. baseDir anchors relative
// checkout paths.
func ToItems(jobs []Job, baseDir string) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(jobs))
	for i, j := range jobs {
		item, err := j.toItem(baseDir)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (j Job) toItem(baseDir string) (domain.Item, error) {
	if j.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidJob)
	}
	switch j.Type {
	case "", string(domain.KindFreestyle), string(domain.KindMaven), string(domain.KindMatrix):
		kind := domain.ProjectKind(j.Type)
		if kind == "" {
			kind = domain.KindFreestyle
		}
		scm, err := j.toSCM(baseDir)
		if err != nil {
			return nil, err
		}
		if scm == nil {
			scm = domain.NullSCM{}
		}
		return &domain.Project{Name: j.Name, Kind: kind, SCM: scm}, nil
	case "pipeline":
		scm, err := j.toSCM(baseDir)
		if err != nil {
			return nil, err
		}
		return &domain.PipelineJob{Name: j.Name, Definition: scm}, nil
	case "folder":
		return &domain.Folder{Name: j.Name}, nil
	default:
		return &domain.FreeJob{Name: j.Name, Class: j.Type}, nil
	}
}

// toSCM returns nil when the job has no SCM.
func (j Job) toSCM(baseDir string) (domain.SCM, error) {
	switch j.SCM {
	case "", "none":
		if len(j.Remotes) > 0 || j.Checkout != "" {
			return nil, fmt.Errorf("%w: %s has remotes but no scm", ErrInvalidJob, j.Name)
		}
		return nil, nil
	case "git":
		scm := &domain.GitSCM{Branches: j.Branches}
		for _, r := range j.Remotes {
			scm.UserRemoteConfigs = append(scm.UserRemoteConfigs, domain.UserRemoteConfig{
				Name:          r.Name,
				URL:           r.URL,
				Refspec:       r.Refspec,
				CredentialsID: r.CredentialsID,
			})
		}
		if j.Checkout != "" {
			dir := j.Checkout
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(baseDir, dir)
			}
			remotes, err := git.ReadRemotes(dir)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", j.Name, err)
			}
			scm.UserRemoteConfigs = append(scm.UserRemoteConfigs, remotes...)
		}
		return scm, nil
	default:
		return &domain.OtherSCM{ClassName: j.SCM}, nil
	}
}
