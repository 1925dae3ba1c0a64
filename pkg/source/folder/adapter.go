package folder

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viveksahu26/sw360sync/pkg/iterator"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/tcontext"
	"github.com/viveksahu26/sw360sync/pkg/types"
	"github.com/viveksahu26/sw360sync/pkg/utils"
)

// FolderAdapter reads analysis results from the local file system
type FolderAdapter struct {
	Config  *FolderConfig
	Role    types.AdapterRole
	Fetcher InputFetcher
}

// AddCommandParams adds Folder-specific CLI flags
func (f *FolderAdapter) AddCommandParams(cmd *cobra.Command) {
	cmd.Flags().String("in-folder-path", "", "Analysis result file, or a folder of result files")
	cmd.Flags().Bool("in-folder-recursive", false, "Read result files in sub-folders (default: false)")
}

// ParseAndValidateParams validates the Folder adapter params
func (f *FolderAdapter) ParseAndValidateParams(cmd *cobra.Command) error {
	var (
		pathFlag, recursiveFlag string
		missingFlags            []string
		invalidFlags            []string
	)

	switch f.Role {
	case types.InputAdapterRole:
		pathFlag = "in-folder-path"
		recursiveFlag = "in-folder-recursive"

	case types.OutputAdapterRole:
		return fmt.Errorf("the folder adapter can only be used as input adapter")

	default:
		return fmt.Errorf("the adapter is neither an input type nor an output type")
	}

	err := utils.FlagValidation(cmd, types.FolderAdapterType, types.InputAdapterFlagPrefix)
	if err != nil {
		return fmt.Errorf("folder flag validation failed: %w", err)
	}

	folderPath, _ := cmd.Flags().GetString(pathFlag)
	if folderPath == "" {
		missingFlags = append(missingFlags, "--"+pathFlag)
	} else if _, err := os.Stat(folderPath); err != nil {
		invalidFlags = append(invalidFlags, fmt.Sprintf("--%s=%s (%v)", pathFlag, folderPath, err))
	}

	folderRecurse, _ := cmd.Flags().GetBool(recursiveFlag)

	if len(missingFlags) > 0 {
		return fmt.Errorf("missing input adapter required flags: %v\n\nUse 'sw360sync sync --help' for usage details", missingFlags)
	}

	if len(invalidFlags) > 0 {
		return fmt.Errorf("invalid input adapter flag usage:\n %s\n\nUse 'sw360sync sync --help' for correct usage", strings.Join(invalidFlags, "\n "))
	}

	daemon := f.Config != nil && f.Config.Daemon

	var fetcher InputFetcher = &SequentialFetcher{}
	if daemon {
		fetcher = NewWatcherFetcher()
	}

	f.Config = &FolderConfig{
		FolderPath: folderPath,
		Recursive:  folderRecurse,
		Daemon:     daemon,
	}
	f.Fetcher = fetcher

	return nil
}

// FetchInputs reads the configured results once.
func (f *FolderAdapter) FetchInputs(ctx tcontext.SyncMetadata) (iterator.InputIterator, error) {
	logger.LogDebug(ctx.Context, "Reading analysis results", "path", f.Config.FolderPath, "recursive", f.Config.Recursive)
	return (&SequentialFetcher{}).Fetch(ctx, f.Config)
}

// Monitor yields a result each time it is written.
func (f *FolderAdapter) Monitor(ctx tcontext.SyncMetadata) (iterator.InputIterator, error) {
	if !f.Config.Daemon {
		return nil, fmt.Errorf("daemon mode not enabled for folder adapter")
	}

	logger.LogDebug(ctx.Context, "monitoring", "path", f.Config.FolderPath)
	return f.Fetcher.Fetch(ctx, f.Config)
}

// DryRun lists the results found by the adapter.
func (f *FolderAdapter) DryRun(ctx tcontext.SyncMetadata, iter iterator.InputIterator) error {
	reporter := NewFolderReporter(f.Config.FolderPath)
	return reporter.DryRun(ctx, iter)
}
