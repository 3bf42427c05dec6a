package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/cardmotion/internal/config"
	"github.com/ivlev/cardmotion/internal/renderer"
	"github.com/ivlev/cardmotion/internal/system"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// BenchmarkLog is where export performance lines are appended.
var BenchmarkLog = "benchmark.log"

// ExportJob samples a timeline range offline and writes the table as YAML.
type ExportJob struct {
	Config   *config.Config
	Timeline *timeline.Timeline
	Params   config.ExportParams
	Source   string    // document name for the report
	Report   io.Writer // performance report destination, stdout when nil
}

// Run samples the range and writes Config.OutputPath. The live timeline is
// not modified.
func (j *ExportJob) Run(ctx context.Context) (*renderer.Sampling, error) {
	startTime := time.Now()

	sampling, err := renderer.SampleRange(ctx, j.Timeline, j.Params)
	if err != nil {
		return nil, err
	}
	sampleTime := time.Since(startTime)

	writeStart := time.Now()
	data, err := yaml.Marshal(sampling)
	if err != nil {
		return nil, fmt.Errorf("encode samples: %w", err)
	}
	if err := system.EnsureDir(j.Config.OutputPath); err != nil {
		return nil, err
	}
	if err := os.WriteFile(j.Config.OutputPath, data, 0644); err != nil {
		return nil, fmt.Errorf("write samples: %w", err)
	}
	writeTime := time.Since(writeStart)

	if j.Config.ShowStats {
		j.report(len(sampling.Times), len(sampling.Channels), time.Since(startTime), sampleTime, writeTime)
	}
	return sampling, nil
}

func (j *ExportJob) report(samples, channels int, total, sampling, writing time.Duration) {
	out := j.Report
	if out == nil {
		out = os.Stdout
	}
	rate := float64(samples*channels) / total.Seconds()

	stats, err := system.ProcessStats()
	if err != nil {
		system.Logger().Warn("process stats unavailable", "err", err)
	}

	fmt.Fprintf(out,
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.3fs\n"+
			"Sampling: %.3fs\n"+
			"Writing: %.3fs\n"+
			"Evaluations/s: %.0f\n"+
			"%s\n"+
			"----------------------------\n",
		j.Config.BuildVersion, total.Seconds(), sampling.Seconds(), writing.Seconds(), rate, stats,
	)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Samples: %d | Channels: %d | Total: %.3fs | Eval/s: %.0f | %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		j.Config.BuildVersion,
		filepath.Base(j.Source),
		samples,
		channels,
		total.Seconds(),
		rate,
		stats,
	)

	f, err := os.OpenFile(BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Fprintf(out, "[!] Failed to write %s: %v\n", BenchmarkLog, err)
	}
}
