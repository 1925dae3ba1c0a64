package types

// AdapterRole defines whether the adapter feeds results in or mirrors
// produced files out.
type AdapterRole string

const (
	InputAdapterRole  AdapterRole = "input"
	OutputAdapterRole AdapterRole = "output"
)

type AdapterType string

const (
	FolderAdapterType AdapterType = "folder"
	S3AdapterType     AdapterType = "s3"
)

// SourceDownload selects how package sources are retrieved.
type SourceDownload string

const (
	SourceDownloadArtifact SourceDownload = "artifact"
	SourceDownloadGitHub   SourceDownload = "github"
	SourceDownloadNone     SourceDownload = "none"
)

type FlagPrefix string

const (
	InputAdapterFlagPrefix  FlagPrefix = "in"
	OutputAdapterFlagPrefix FlagPrefix = "out"
)
