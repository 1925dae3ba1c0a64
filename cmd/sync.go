package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/template"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/viveksahu26/sw360sync/pkg/adapter"
	"github.com/viveksahu26/sw360sync/pkg/engine"
	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/target/sw360"
	"github.com/viveksahu26/sw360sync/pkg/types"
)

// FlagData holds information about a flag for template rendering
type FlagData struct {
	Name      string
	Shorthand string
	Usage     string
	ValueType string
}

// runOptionFlags maps run option flags to their option keys.
var runOptionFlags = map[string]string{
	"deduplicate-dependency-tree": types.OptionDeduplicateDependencyTree,
	"dependency-network":          types.OptionDependencyNetwork,
	"project-name":                types.OptionProjectName,
	"project-version":             types.OptionProjectVersion,
	"license-text-attachment":     types.OptionLicenseTextAttachment,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize an analysis result with SW360",
	Long:  `Reconcile the dependency trees of an analysis result with SW360 and attach the produced report files to the package releases.`,
	Args:  cobra.NoArgs,
	RunE:  syncResult,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	addSyncFlags(syncCmd)
	setSyncHelp(syncCmd)
}

func addSyncFlags(cmd *cobra.Command) {
	// General Flags
	cmd.Flags().BoolP("daemon", "d", false, "Watch the input and synchronize every new result")
	cmd.Flags().BoolP("debug", "D", false, "Enable debug logging")
	cmd.Flags().Bool("json-log", false, "Write logs as JSON")
	cmd.Flags().Bool("dry-run", false, "Preview the synchronization without calling SW360")
	cmd.Flags().String("output-dir", "sw360-reports", "Directory for the produced report files")
	cmd.Flags().String("source-download", string(types.SourceDownloadArtifact), "Source retrieval (artifact, github, none)")
	cmd.Flags().String("license-classifications", "", "Path of a license-classifications.yml file")
	cmd.Flags().Int("throttle-max-seconds", 3, "Upper bound of the random pause between packages, 0 disables it")

	// Run Options
	cmd.Flags().String("deduplicate-dependency-tree", types.DefaultRunOptions[types.OptionDeduplicateDependencyTree], "Drop the children of repeated packages")
	cmd.Flags().String("dependency-network", types.DefaultRunOptions[types.OptionDependencyNetwork], "Store the dependency network on the project")
	cmd.Flags().String("project-name", types.DefaultRunOptions[types.OptionProjectName], "Name of the root project")
	cmd.Flags().String("project-version", types.DefaultRunOptions[types.OptionProjectVersion], "Version of the root project")
	cmd.Flags().String("license-text-attachment", types.DefaultRunOptions[types.OptionLicenseTextAttachment], "Attach notice texts of include-in-notice packages")

	// Input and Mirror Adapter Flags
	cmd.Flags().String("input-adapter", "", "Input adapter type (folder, s3)")
	cmd.Flags().String("mirror-adapter", "", "Mirror adapter type for produced files (folder, s3)")

	// SW360 Flags
	cmd.Flags().String("sw360-url", "", "SW360 REST base url, SW360_URL takes precedence")
	cmd.Flags().String("sw360-auth-url", "", "SW360 token endpoint for the password grant")
	cmd.Flags().String("sw360-username", "", "SW360 username for the password grant")
	cmd.Flags().String("sw360-client-id", "", "SW360 OAuth client id")
	cmd.Flags().Int("sw360-rate-limit", 0, "Maximum SW360 requests per second, 0 means unlimited")
	cmd.Flags().Duration("sw360-timeout", 30*time.Second, "SW360 request timeout")
	cmd.Flags().Bool("sw360-skip-validation", false, "Skip the SW360 connection check")

	adapter.RegisterFlags(cmd)
}

func setSyncHelp(cmd *cobra.Command) {
	funcMap := template.FuncMap{
		"prefix": func(s, prefix string) bool {
			return strings.HasPrefix(s, prefix)
		},
		"runOption": func(s string) bool {
			_, ok := runOptionFlags[s]
			return ok
		},
	}

	const helpTemplate = `
{{.Command.Short}}

Usage:
  {{.Command.UseLine}}

Examples:
  # Folder to SW360
  sw360sync sync --input-adapter=folder --in-folder-path="analyzer-result.yml" \
                 --sw360-url="https://sw360.example.org/resource/api"

  # Folder to SW360 in daemon mode, mirroring the reports to S3
  sw360sync sync --input-adapter=folder --in-folder-path="results" --daemon \
                 --mirror-adapter=s3 --out-s3-bucket-name="reports" --out-s3-prefix="sw360" --out-s3-region="us-east-1"

  # S3 to SW360 without source download
  sw360sync sync --input-adapter=s3 --in-s3-bucket-name="results" --in-s3-key="nightly/" --source-download=none

General Flags:
{{- range .Flags}}
{{- if not (or (prefix .Name "in-") (prefix .Name "out-") (prefix .Name "sw360-") (prefix .Name "input-") (prefix .Name "mirror-") (runOption .Name))}}
  {{if .Shorthand}}-{{.Shorthand}}, {{end}}--{{.Name}} {{.ValueType}}  {{.Usage}}
{{- end}}
{{- end}}

Run Options:
{{- range .Flags}}
{{- if runOption .Name}}
  --{{.Name}} {{.ValueType}}  {{.Usage}}
{{- end}}
{{- end}}

Input Adapter Flags(required):
  --input-adapter string  Input adapter type (folder, s3)

  Folder Input Adapter:
{{- range .Flags}}
{{- if prefix .Name "in-folder-"}}
    --{{.Name}} {{.ValueType}}  {{.Usage}}
{{- end}}
{{- end}}

  S3 Input Adapter:
{{- range .Flags}}
{{- if prefix .Name "in-s3-"}}
    --{{.Name}} {{.ValueType}}  {{.Usage}}
{{- end}}
{{- end}}

Mirror Adapter Flags:
  --mirror-adapter string  Mirror adapter type (folder, s3)

  Folder Mirror Adapter:
{{- range .Flags}}
{{- if prefix .Name "out-folder-"}}
    --{{.Name}} {{.ValueType}}  {{.Usage}}
{{- end}}
{{- end}}

  S3 Mirror Adapter:
{{- range .Flags}}
{{- if prefix .Name "out-s3-"}}
    --{{.Name}} {{.ValueType}}  {{.Usage}}
{{- end}}
{{- end}}

SW360 Flags:
{{- range .Flags}}
{{- if prefix .Name "sw360-"}}
  --{{.Name}} {{.ValueType}}  {{.Usage}}
{{- end}}
{{- end}}

Secrets are read from the environment or a .env file:
  SW360_TOKEN, SW360_PASSWORD, SW360_CLIENT_SECRET, GITHUB_TOKEN, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
`

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		var flags []FlagData
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			flags = append(flags, FlagData{
				Name:      f.Name,
				Shorthand: f.Shorthand,
				Usage:     f.Usage,
				ValueType: f.Value.Type(),
			})
		})

		data := struct {
			Command *cobra.Command
			Flags   []FlagData
		}{
			Command: cmd,
			Flags:   flags,
		}

		tmpl, err := template.New("help").Funcs(funcMap).Parse(helpTemplate)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing help template: %v\n", err)
			return
		}
		if err := tmpl.Execute(cmd.OutOrStdout(), data); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error rendering help template: %v\n", err)
		}
	})
}

func syncResult(cmd *cobra.Command, args []string) error {
	// Suppress automatic usage message for non-flag errors
	cmd.SilenceUsage = true

	debug, _ := cmd.Flags().GetBool("debug")
	jsonLog, _ := cmd.Flags().GetBool("json-log")
	logger.InitLogger(debug, jsonLog)
	defer logger.DeinitLogger()
	defer logger.Sync()

	ctx := logger.WithLogger(context.Background())

	logger.LogDebug(ctx, "Starting syncResult")

	config, err := parseConfig(cmd)
	if err != nil {
		logger.LogError(ctx, err, "Invalid configuration")
		return err
	}

	logger.LogDebug(ctx, "configuration", "input", config.SourceAdapter, "mirror", config.MirrorAdapter,
		"dry_run", config.DryRun, "daemon", config.Daemon, "output_dir", config.OutputDir, "options", config.Options)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	if err := engine.SyncRun(ctx, cmd, config, interrupts); err != nil {
		logger.LogError(ctx, err, "Synchronization failed")
		return err
	}
	return nil
}

func parseConfig(cmd *cobra.Command) (types.Config, error) {
	initConfig()

	inputType, _ := cmd.Flags().GetString("input-adapter")
	mirrorType, _ := cmd.Flags().GetString("mirror-adapter")
	dr, _ := cmd.Flags().GetBool("dry-run")
	daemon, _ := cmd.Flags().GetBool("daemon")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	sourceDownload, _ := cmd.Flags().GetString("source-download")
	classifications, _ := cmd.Flags().GetString("license-classifications")
	throttle, _ := cmd.Flags().GetInt("throttle-max-seconds")

	if inputType == "" {
		return types.Config{}, fmt.Errorf("missing required flags: [--input-adapter]\n\nUse 'sw360sync sync --help' for usage details.")
	}

	validInputAdapter := map[string]bool{string(types.FolderAdapterType): true, string(types.S3AdapterType): true}
	if !validInputAdapter[inputType] {
		return types.Config{}, fmt.Errorf("input adapter must be one of type: folder, s3")
	}
	validMirrorAdapter := map[string]bool{"": true, string(types.FolderAdapterType): true, string(types.S3AdapterType): true}
	if !validMirrorAdapter[mirrorType] {
		return types.Config{}, fmt.Errorf("mirror adapter must be one of type: folder, s3")
	}

	download := types.SourceDownload(sourceDownload)
	switch download {
	case types.SourceDownloadArtifact, types.SourceDownloadGitHub, types.SourceDownloadNone:
	default:
		return types.Config{}, &sw360.ConfigurationError{Setting: "source-download", Reason: fmt.Sprintf("%q is not one of artifact, github, none", sourceDownload)}
	}

	values := map[string]string{}
	for flag, key := range runOptionFlags {
		values[key], _ = cmd.Flags().GetString(flag)
	}
	options, err := types.ParseRunOptions(values)
	if err != nil {
		return types.Config{}, err
	}

	sw360Config, err := parseSW360Config(cmd)
	if err != nil {
		return types.Config{}, err
	}
	skipValidation, _ := cmd.Flags().GetBool("sw360-skip-validation")

	return types.Config{
		SourceAdapter:          inputType,
		MirrorAdapter:          mirrorType,
		DryRun:                 dr,
		Daemon:                 daemon,
		OutputDir:              outputDir,
		SourceDownload:         download,
		GitHubToken:            viper.GetString("GITHUB_TOKEN"),
		LicenseClassifications: classifications,
		ThrottleSeconds:        throttle,
		Options:                options,
		SW360:                  sw360Config,
		SkipValidation:         skipValidation,
	}, nil
}

func parseSW360Config(cmd *cobra.Command) (sw360.Config, error) {
	restURL, _ := cmd.Flags().GetString("sw360-url")
	if envURL := viper.GetString("SW360_URL"); envURL != "" {
		restURL = envURL
	}
	authURL, _ := cmd.Flags().GetString("sw360-auth-url")
	username, _ := cmd.Flags().GetString("sw360-username")
	clientID, _ := cmd.Flags().GetString("sw360-client-id")
	rateLimit, _ := cmd.Flags().GetInt("sw360-rate-limit")
	timeout, _ := cmd.Flags().GetDuration("sw360-timeout")

	if rateLimit < 0 {
		return sw360.Config{}, &sw360.ConfigurationError{Setting: "sw360-rate-limit", Reason: "must not be negative"}
	}

	return sw360.Config{
		RestURL:           restURL,
		Token:             viper.GetString("SW360_TOKEN"),
		AuthURL:           authURL,
		Username:          username,
		Password:          viper.GetString("SW360_PASSWORD"),
		ClientID:          clientID,
		ClientSecret:      viper.GetString("SW360_CLIENT_SECRET"),
		Timeout:           timeout,
		RequestsPerSecond: rateLimit,
	}, nil
}

func initConfig() {
	// Set up Viper to automatically bind environment variables
	viper.AutomaticEnv()

	// Load .env file if it exists
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.LogDebug(context.Background(), "No .env file found, relying on environment variables")
		} else {
			logger.LogDebug(context.Background(), "Skipping .env file", "error", err)
		}
	} else {
		logger.LogDebug(context.Background(), "Loaded .env file for configuration")
	}
}
