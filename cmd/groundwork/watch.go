package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// newWatchCmd creates the "watch" subcommand for re-synthesizing on config
// changes.
func newWatchCmd() *cobra.Command {
	var (
		configFile   string
		debounce     time.Duration
		outputFormat string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-synthesize templates when the config file changes",
		Long: `Watch monitors the stack configuration file and re-runs synth on every
change, debouncing rapid edits.

Examples:
    groundwork watch
    groundwork watch --output-dir ./out --format yaml
    groundwork watch --debounce 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(configFile, watchOptions{
				debounce:     debounce,
				outputFormat: outputFormat,
				outputDir:    outputDir,
			})
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", DefaultConfigFile, "Stack configuration file")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Write templates to this directory instead of stdout")

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputDir    string
}

func runWatch(configFile string, opts watchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory: editors replace files on save, which would
	// otherwise drop the watch on the file itself.
	dir := filepath.Dir(configFile)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	fmt.Printf("Watching: %s\n", configFile)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Running initial synth...")
	synthOnce(configFile, opts)

	var debounceTimer *time.Timer
	resynthChan := make(chan struct{}, 1)

	fmt.Println("\nWatching for changes... (Ctrl+C to stop)")

	target, _ := filepath.Abs(configFile)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(event.Name)
			if name != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case resynthChan <- struct{}{}:
				default:
				}
			})

		case <-resynthChan:
			fmt.Printf("\n[%s] Config changed, re-synthesizing...\n",
				time.Now().Format("15:04:05"))
			synthOnce(configFile, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

		case <-sigChan:
			fmt.Println("\nStopping watch.")
			return nil
		}
	}
}

// synthOnce runs one synth pass, reporting failures without stopping the
// watch loop.
func synthOnce(configFile string, opts watchOptions) {
	if err := runSynth(configFile, nil, opts.outputFormat, opts.outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "synth failed: %v\n", err)
		return
	}
	fmt.Println("synth ok")
}
