package ir

import "time"

const Version = "1.0"

type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	IRVersion string    `json:"ir_version,omitempty"`

	Context    Context     `json:"context"`
	Detections []Detection `json:"detections,omitempty"`
	Skips      []Skip      `json:"skips,omitempty"`
	Totals     Totals      `json:"totals"`
}

type Context struct {
	Sources         []string `json:"sources,omitempty"`
	PatternPacks    []string `json:"pattern_packs,omitempty"`
	DisabledModules []string `json:"disabled_modules,omitempty"`
	OnlyModules     []string `json:"only_modules,omitempty"`
	MaxFilesize     int64    `json:"max_filesize,omitempty"`
}

type Detection struct {
	ID         string `json:"id"`
	Module     string `json:"module"`
	Key        string `json:"key"`
	Path       string `json:"path"`
	File       string `json:"file"`
	SampleHint string `json:"sample_hint,omitempty"`
	Size       int64  `json:"size"`
	Evidence   string `json:"evidence,omitempty"`
}

type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"` // too_large|binary|unreadable
	Size   int64  `json:"size,omitempty"`
}

type Totals struct {
	FilesSeen    int   `json:"files_seen"`
	FilesProbed  int   `json:"files_probed"`
	FilesMatched int   `json:"files_matched"`
	FilesSkipped int   `json:"files_skipped"`
	BytesProbed  int64 `json:"bytes_probed"`
	ElapsedMS    int64 `json:"elapsed_ms"`
}
