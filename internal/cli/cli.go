// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"distzip/internal/adapters/osfs"
	"distzip/internal/adapters/ziparchiver"
	"distzip/internal/config"
	"distzip/internal/ports"
	"distzip/internal/progress"
	"distzip/internal/publish"
	"distzip/internal/scan"
)

// Job describes one validated archive run. Built once from flags and
// config-file defaults; immutable afterwards.
type Job struct {
	InputDir  string
	OutputDir string
	Name      string
	Level     int
	Exclude   []string
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// Injectable dependencies (nil means use defaults)
	FS         ports.FileSystem
	Archiver   ports.Archiver
	Renderer   *progress.Renderer
	LoadConfig func() (*config.Config, error)

	// TempDir overrides the temp archive location (defaults to os.TempDir).
	TempDir string

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Args:    os.Args,
		Exit:    os.Exit,
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &CLI{
		Out:        out,
		Err:        errOut,
		Version:    "test",
		Args:       args,
		Exit:       func(code int) {},
		LoadConfig: func() (*config.Config, error) { return config.DefaultConfig(), nil },
		green:      noColor,
		yellow:     noColor,
		red:        noColor,
	}
}

func (c *CLI) fs() ports.FileSystem {
	if c.FS != nil {
		return c.FS
	}
	return osfs.New()
}

func (c *CLI) archiver() ports.Archiver {
	if c.Archiver != nil {
		return c.Archiver
	}
	return ziparchiver.New(c.fs())
}

func (c *CLI) renderer() *progress.Renderer {
	if c.Renderer != nil {
		return c.Renderer
	}
	return progress.New(os.Stdout)
}

func (c *CLI) loadConfig() (*config.Config, error) {
	if c.LoadConfig != nil {
		return c.LoadConfig()
	}
	return config.Load()
}

func (c *CLI) tempDir() string {
	if c.TempDir != "" {
		return c.TempDir
	}
	return os.TempDir()
}

// options holds raw parsed command-line input, before validation.
type options struct {
	input    string
	output   string
	name     string
	levelStr string
	exclude  []string
	help     bool
	version  bool
}

// parseArgs parses everything after the program name.
func parseArgs(args []string) (*options, error) {
	opts := &options{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help":
			opts.help = true
		case "--version":
			opts.version = true
		case "-o", "--output":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return nil, err
			}
			opts.output = v
		case "-n", "--name":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return nil, err
			}
			opts.name = v
		case "-l", "--level":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return nil, err
			}
			opts.levelStr = v
		case "-x", "--exclude":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return nil, err
			}
			opts.exclude = append(opts.exclude, v)
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown option: %s", arg)
			}
			if opts.input != "" {
				return nil, fmt.Errorf("unexpected argument: %s", arg)
			}
			opts.input = arg
		}
	}
	return opts, nil
}

// flagValue consumes the value following a flag, advancing the index.
func flagValue(args []string, i *int, flag string) (string, error) {
	if *i+1 >= len(args) {
		return "", fmt.Errorf("missing value for %s", flag)
	}
	*i++
	return args[*i], nil
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run() {
	opts, err := parseArgs(c.Args[1:])
	if err != nil {
		c.fail(err)
		return
	}

	if opts.help {
		c.PrintUsage(c.Out)
		return
	}
	if opts.version {
		fmt.Fprintf(c.Out, "distzip v%s\n", c.Version)
		return
	}
	if opts.input == "" {
		fmt.Fprintf(c.Err, "%s missing input directory\n\n", c.red("Error:"))
		c.PrintUsage(c.Err)
		c.Exit(1)
		return
	}

	cfg, err := c.loadConfig()
	if err != nil {
		c.fail(err)
		return
	}

	job, err := c.buildJob(opts, cfg)
	if err != nil {
		c.fail(err)
		return
	}

	if err := c.runJob(job); err != nil {
		c.fail(err)
		return
	}
}

// PrintUsage prints the help message to w.
func (c *CLI) PrintUsage(w io.Writer) {
	fmt.Fprintln(w, `distzip - Directory Archiver

Usage:
  distzip <input-directory> [options]

Options:
  -o, --output <dir>       Destination directory for the archive (default: current directory)
  -n, --name <name>        Archive file name (default: dist.zip)
  -l, --level <1-9>        Compression level (default: 9)
  -x, --exclude <pattern>  Skip entries matching pattern (repeatable)
  -h, --help               Show this help
      --version            Show version

Config: ~/.distzip/config.yaml`)
}

// buildJob validates raw options against config defaults and produces an
// immutable Job. All validation happens here, before any archiving work.
func (c *CLI) buildJob(opts *options, cfg *config.Config) (*Job, error) {
	level := cfg.Level
	if opts.levelStr != "" {
		n, err := strconv.Atoi(opts.levelStr)
		if err != nil || n < 1 || n > 9 {
			return nil, fmt.Errorf("invalid compression level %q: must be an integer between 1 and 9", opts.levelStr)
		}
		level = n
	}

	inputDir, err := filepath.Abs(opts.input)
	if err != nil {
		return nil, fmt.Errorf("resolving input path: %w", err)
	}
	info, err := c.fs().Stat(inputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("input directory does not exist: %s", inputDir)
		}
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path is not a directory: %s", inputDir)
	}

	outputDir := opts.output
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if outputDir == "" {
		outputDir = "."
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output path: %w", err)
	}

	name := opts.name
	if name == "" {
		name = cfg.ArchiveName
	}

	exclude := append([]string{}, cfg.Exclude...)
	exclude = append(exclude, opts.exclude...)

	return &Job{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Name:      name,
		Level:     level,
		Exclude:   exclude,
	}, nil
}

// runJob executes a validated archive job: scan totals, stream the
// archive into a temp file while rendering progress, then publish the
// temp file to its final destination and print the summary.
func (c *CLI) runJob(job *Job) error {
	fsys := c.fs()

	stats := scan.Run(fsys, job.InputDir, job.Exclude)

	renderer := c.renderer()
	tracker := progress.NewTracker(stats.FilesTotal, stats.BytesTotal, renderer.Render, func(path string, err error) {
		renderer.ClearLine()
		fmt.Fprintf(c.Err, "%s skipping %s: %v\n", c.yellow("Warning:"), path, err)
	})

	// The temp archive lives outside the input tree so it can never be
	// picked up as an entry of itself.
	tempPath := filepath.Join(c.tempDir(), "distzip-"+uuid.New().String()+".zip")
	temp, err := fsys.Create(tempPath)
	if err != nil {
		renderer.Stop()
		return fmt.Errorf("creating temp archive: %w", err)
	}

	result, archiveErr := c.archiver().Archive(job.InputDir, job.Level, job.Exclude, temp, tracker)

	// A clean close of the temp file is the authoritative completion
	// signal; only after it succeeds is the archive safe to relocate.
	closeErr := temp.Close()
	if archiveErr == nil {
		archiveErr = closeErr
	}
	if archiveErr != nil {
		renderer.Stop()
		_ = fsys.Remove(tempPath) // best-effort, the archive error wins
		return archiveErr
	}

	renderer.Stop()

	finalPath, err := publish.Publish(fsys, tempPath, filepath.Join(job.OutputDir, job.Name))
	if err != nil {
		return err
	}

	mb := float64(result.CompressedBytes) / (1024 * 1024)
	fmt.Fprintf(c.Out, "%s %s (%d files, %.2f MB)\n", c.green("Created"), finalPath, result.Entries, mb)
	return nil
}

// fail reports an error to the error stream and exits non-zero.
func (c *CLI) fail(err error) {
	fmt.Fprintf(c.Err, "%s %v\n", c.red("Error:"), err)
	c.Exit(1)
}
