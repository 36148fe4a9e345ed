package manifest

// Manifest is the report written after a conversion run.
type Manifest struct {
	Version     int        `json:"version"`
	GeneratedAt string     `json:"generated_at"`
	Profile     string     `json:"profile"`
	Sizes       []int      `json:"sizes"`
	BuildInfo   *BuildInfo `json:"build_info,omitempty"`
	Files       []File     `json:"files"`
	Stats       Stats      `json:"stats"`
}

// BuildInfo captures run-time parameters for diagnostics.
type BuildInfo struct {
	Workers int    `json:"workers"`
	Filter  string `json:"filter"`
}

// File describes one input and, when it converted, the ICO written for it.
type File struct {
	Input      string    `json:"input"`
	Output     string    `json:"output,omitempty"` // relative to the output dir
	InputSize  int64     `json:"input_size"`
	OutputSize int64     `json:"output_size,omitempty"`
	Hash       string    `json:"hash,omitempty"` // first 16 hex chars of xxhash64
	Source     *Source   `json:"source,omitempty"`
	Crop       *Rect     `json:"crop,omitempty"` // opaque region kept from the source
	Variants   []Variant `json:"variants,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Source identifies the image chosen from the container.
type Source struct {
	Tag    string `json:"tag"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Rect is a pixel rectangle in source coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Variant is one directory entry of the written ICO.
type Variant struct {
	Size   int   `json:"size"`
	Bytes  int64 `json:"bytes"`
	Offset int64 `json:"offset"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalFiles       int   `json:"total_files"`
	Converted        int   `json:"converted"`
	Failed           int   `json:"failed"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
