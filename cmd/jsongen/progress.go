package main

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"pkg.jsn.cam/jsongen/internal/pipeline"
	"pkg.jsn.cam/jsongen/internal/store"
	"pkg.jsn.cam/jsongen/pkg/corpus"
)

const progressInterval = 2 * time.Second

// reporter follows a running pipeline: a bar on terminals, log lines
// elsewhere.
type reporter struct {
	w           io.Writer
	quiet       bool
	interactive bool
	interval    time.Duration
}

// track blocks until the run ends and returns its result.
func (r reporter) track(h *pipeline.Handle) (*corpus.Set, error) {
	if r.quiet {
		return h.Wait()
	}
	if r.interactive {
		return r.trackBar(h)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.Done():
			return h.Wait()
		case <-ticker.C:
			log.Print(progressLine(h.Progress()))
		}
	}
}

func (r reporter) trackBar(h *pipeline.Handle) (*corpus.Set, error) {
	// Log lines would tear the bar.
	prev := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(prev)

	bar := progressbar.NewOptions64(int64(h.Config().Target),
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("generating"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("cases"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-h.Done():
			bar.Set64(int64(h.Progress().Unique))
			bar.Finish()
			return h.Wait()
		case <-ticker.C:
			bar.Set64(int64(h.Progress().Unique))
		}
	}
}

func progressLine(p pipeline.Progress) string {
	return fmt.Sprintf("[PIPELINE] %s/%s unique (%.1f%%), %s generated, %s cases/s",
		humanize.Comma(int64(p.Unique)), humanize.Comma(int64(p.Target)), 100*p.Fraction(),
		humanize.Bytes(p.Bytes), humanize.CommafWithDigits(p.Rate(), 0))
}

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	labelColor = color.New(color.Faint)
)

// printSummary reports the finished run. uniqueBytes is the corpus size.
func printSummary(w io.Writer, p pipeline.Progress, uniqueBytes uint64, out outputConfig, meta store.Meta) {
	if int(p.Unique) >= p.Target {
		okColor.Fprint(w, "done")
	} else {
		warnColor.Fprint(w, "stopped early")
	}
	fmt.Fprintf(w, ": %s unique cases (%s generated, %s duplicates)\n",
		humanize.Comma(int64(meta.Count)), humanize.Comma(int64(p.Generated)), humanize.Comma(int64(p.Duplicates)))

	labelColor.Fprint(w, "  size     ")
	fmt.Fprintf(w, "%s unique, %s generated\n", humanize.Bytes(uniqueBytes), humanize.Bytes(p.Bytes))
	labelColor.Fprint(w, "  elapsed  ")
	fmt.Fprintf(w, "%v (%s cases/s)\n", p.Elapsed.Round(time.Millisecond), humanize.CommafWithDigits(p.Rate(), 0))
	labelColor.Fprint(w, "  output   ")
	fmt.Fprintf(w, "%s (%s", describePath(out.Path), out.Format)
	if out.Format != formatLines {
		fmt.Fprintf(w, ", run %s", meta.RunID)
	}
	fmt.Fprintln(w, ")")
}

func describePath(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}
