package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gosuri/uilive"

	"github.com/fjl/gio-calc/internal/engine"
	"github.com/fjl/gio-calc/internal/keycalc"
)

const debounceDelay = 200 * time.Millisecond

// watchFile re-evaluates the statements in file whenever it is written and
// redraws the results in place.
func watchFile(calc *keycalc.Synced, file string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("can't watch %s: %w", file, err)
	}

	writer := uilive.New()
	writer.RefreshInterval = 100 * time.Millisecond
	writer.Start()
	defer writer.Stop()

	fmt.Printf("Watching %s. Press Ctrl+C to exit.\n", file)
	render(writer, calc, abs)

	var debounce <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			debounce = time.After(debounceDelay)
		case <-debounce:
			debounce = nil
			render(writer, calc, abs)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(writer, "Watch error: %v\n", err)
			writer.Flush()
		}
	}
}

func render(writer *uilive.Writer, calc *keycalc.Synced, file string) {
	f, err := os.Open(file)
	if err != nil {
		fmt.Fprintf(writer, "%v\n", err)
		writer.Flush()
		return
	}
	defer f.Close()
	evalLines(writer, calc, f)
	writer.Flush()
}

// evalLines evaluates each line of r as an independent statement and writes
// one result line per statement. Blank lines and lines starting with '#'
// are skipped.
func evalLines(w io.Writer, calc *keycalc.Synced, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fmt.Fprintf(w, "%-32s %s\n", line, evalStatement(calc, line))
	}
}

// evalStatement evaluates stmt on empty stacks, completing any pending
// operators. Memory is kept.
func evalStatement(calc *keycalc.Synced, stmt string) (result string) {
	calc.Do(func(c *keycalc.Calculator) {
		c.ClearError()
		err := c.Parse(stmt)
		if err == nil && c.OperatorDepth() > 0 {
			err = c.Key(engine.OpEvaluate)
		}
		switch {
		case c.Failed():
			result = "= " + c.Err().Label()
		case err != nil:
			result = "! " + err.Error()
		default:
			result = "= " + c.Display()
		}
	})
	return result
}
