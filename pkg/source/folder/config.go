package folder

// FolderConfig describes where analysis results are read from.
type FolderConfig struct {
	// FolderPath is a result file or a directory of result files.
	FolderPath string
	Recursive  bool
	Daemon     bool
}
