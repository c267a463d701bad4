package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"resmon/internal/config"
	"resmon/internal/fsutil"
	"resmon/internal/logging"
	"resmon/internal/metrics"
	"resmon/internal/monitor"
	"resmon/internal/report"
)

const (
	version           = "0.1.0-dev"
	defaultReportName = "system_monitor_report.pdf"
)

func main() {
	if len(os.Args) <= 1 {
		os.Exit(runRun(nil))
	}

	command := strings.ToLower(os.Args[1])
	if handler, ok := commandHandlers()[command]; ok {
		os.Exit(handler(os.Args[2:]))
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
	printUsage()
	os.Exit(1)
}

func commandHandlers() map[string]func([]string) int {
	return map[string]func([]string) int{
		"run":     runRun,
		"version": runVersion,
		"help":    runHelp,
		"--help":  runHelp,
		"-h":      runHelp,
	}
}

func runVersion(_ []string) int {
	fmt.Printf("resmon version %s\n", version)
	return 0
}

func runHelp(_ []string) int {
	printUsage()
	return 0
}

func printUsage() {
	fmt.Println("resmon - local system resource monitor")
	fmt.Println()
	fmt.Println("Usage: resmon [command] [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run        Sample system resources and write a report (default)")
	fmt.Println("  version    Print the version")
	fmt.Println("  help       Show this help")
	fmt.Println()
	fmt.Println("Run flags:")
	fmt.Println("  -duration int    Monitoring duration in seconds")
	fmt.Println("  -interval int    Sampling interval in seconds")
	fmt.Println("  -output string   Report file name (written under the output directory)")
	fmt.Println("  -config string   Path to an explicit config file")
	fmt.Println()
	fmt.Println("Configuration is read from " + config.SystemConfigPath() + " and ~/.resmon/config.yaml.")
	fmt.Println("Environment: RESMON_OUTPUT_DIR overrides the report output directory.")
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	durationFlag := fs.Int("duration", 0, "monitoring duration in seconds")
	intervalFlag := fs.Int("interval", 0, "sampling interval in seconds")
	outputFlag := fs.String("output", "", "report file name")
	configFlag := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *durationFlag != 0 {
		cfg.Run.DurationSeconds = *durationFlag
	}
	if *intervalFlag != 0 {
		cfg.Run.IntervalSeconds = *intervalFlag
	}
	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		for _, ve := range validationErrors {
			fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", ve)
		}
		return 1
	}

	reportName := defaultReportName
	if *outputFlag != "" {
		reportName = *outputFlag
	}

	logger := newLogger(cfg.Logging)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	duration := time.Duration(cfg.Run.DurationSeconds) * time.Second
	interval := time.Duration(cfg.Run.IntervalSeconds) * time.Second
	outputDir := fsutil.GetOutputDir(cfg.Report.OutputDir)

	var temp metrics.TempReader
	if cfg.Sensors.EnableTemperature {
		temp = metrics.NewTempSensor(logger)
	}
	var gpu metrics.GPUReader
	if cfg.Sensors.EnableGPU {
		sensor := metrics.NewGPUSensor(logger)
		defer sensor.Close()
		gpu = sensor
	}

	sampler := metrics.NewSampler(logger, temp, gpu, cfg.Run.MaxSamples)
	builder := report.NewBuilder(logger, outputDir, cfg.Report.MaxRawRows)

	orch := monitor.New(logger, sampler, builder, monitor.Options{
		Duration:   duration,
		Interval:   interval,
		ReportName: reportName,
	})
	orch.SetProgress(printProgress(duration))

	printBanner(duration, interval, outputDir)

	path, err := orch.Run(ctx)
	fmt.Println()
	if err != nil {
		if errors.Is(err, report.ErrNoData) {
			fmt.Fprintln(os.Stderr, "Error: no samples were collected, no report written")
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println("Monitoring complete.")
	fmt.Printf("Data points collected: %d\n", sampler.SampleCount())
	fmt.Printf("Report written to: %s\n", path)
	return 0
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func newLogger(lc config.LoggingConfig) *logging.Logger {
	return logging.NewLoggerWithFormat(logging.Level(lc.Level), logging.Format(lc.Format))
}

func printBanner(duration, interval time.Duration, outputDir string) {
	fmt.Println("============================================================")
	fmt.Println("  System Resource Monitor")
	fmt.Println("============================================================")
	fmt.Printf("Duration:  %.0f seconds (%.1f minutes)\n", duration.Seconds(), duration.Minutes())
	fmt.Printf("Interval:  %.0f seconds\n", interval.Seconds())
	fmt.Printf("Output:    %s\n", outputDir)
	fmt.Println("Press Ctrl+C to stop early and keep the collected data.")
	fmt.Println()
}

// printProgress returns a callback that rewrites a single status line
// after every sample.
func printProgress(duration time.Duration) func(monitor.Progress) {
	return func(p monitor.Progress) {
		fmt.Printf("\rProgress: %5.1f%% | Elapsed: %.0fs / %.0fs | Remaining: %.0fs | Data points: %d ",
			p.Percent, p.Elapsed.Seconds(), duration.Seconds(), p.Remaining.Seconds(), p.Samples)
	}
}
