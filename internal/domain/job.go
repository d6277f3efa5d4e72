package domain

// Item is a configured build job (or a container of jobs) owned by the
// automation server. Strategies only ever read it.
type Item interface {
	FullName() string
}

// ProjectKind distinguishes the classic project flavours. It does not affect
// how the SCM is located.
type ProjectKind string

const (
	KindFreestyle ProjectKind = "freestyle"
	KindMaven     ProjectKind = "maven"
	KindMatrix    ProjectKind = "matrix"
)

// Project is a classic project whose SCM is configured directly on the job.
type Project struct {
	Name string
	Kind ProjectKind
	SCM  SCM
}

func (p *Project) FullName() string { return p.Name }

// PipelineJob is a pipeline job. Its SCM, if any, comes from a
// pipeline-from-SCM definition.
type PipelineJob struct {
	Name string
	// Definition is the SCM the pipeline script is loaded from. Nil for
	// inline pipeline scripts.
	Definition SCM
}

func (p *PipelineJob) FullName() string { return p.Name }

// TypicalSCM returns the SCM most representative of the pipeline.
func (p *PipelineJob) TypicalSCM() SCM {
	return p.Definition
}

// Folder groups other items and never has an SCM of its own.
type Folder struct {
	Name string
}

func (f *Folder) FullName() string { return f.Name }

// FreeJob is a job of a class no strategy knows about.
type FreeJob struct {
	Name  string
	Class string
}

func (j *FreeJob) FullName() string { return j.Name }
