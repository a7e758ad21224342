package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danswartzendruber/liner"
	"golang.org/x/term"
)

const prompt = "calc> "

// runREPL reads lines until EOF or :quit.
func runREPL(s *session, historyFile string) {
	fmt.Fprintln(s.out, "calc (Ctrl+D to exit, :help for commands)")
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Not a TTY, fall back to basic mode.
		runBasicREPL(s, os.Stdin)
		return
	}
	runLinerREPL(s, historyFile)
}

// runBasicREPL handles non-TTY input.
func runBasicREPL(s *session, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !execLine(s, scanner.Text()) {
			return
		}
	}
}

// runLinerREPL handles TTY input with line editing and history.
func runLinerREPL(s *session, historyFile string) {
	l := liner.NewLiner()
	defer l.Close()
	l.SetCtrlCAborts(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			l.ReadHistory(f)
			f.Close()
		}
		defer writeHistory(l, historyFile)
	}

	for {
		line, err := l.Prompt(prompt)
		switch {
		case err == liner.ErrPromptAborted:
			continue
		case err == io.EOF:
			fmt.Fprintln(s.out)
			return
		case err != nil:
			fmt.Fprintln(os.Stderr, "read error:", err)
			return
		}
		if line != "" {
			l.AppendHistory(line)
		}
		if !execLine(s, line) {
			return
		}
	}
}

// execLine runs line and reports whether the REPL should continue.
func execLine(s *session, line string) bool {
	err := s.exec(line)
	switch {
	case errors.Is(err, errQuit):
		return false
	case err != nil:
		fmt.Fprintln(s.out, "error:", err)
	}
	return true
}

func writeHistory(l *liner.State, file string) {
	f, err := os.Create(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "can't write history:", err)
		return
	}
	defer f.Close()
	l.WriteHistory(f)
}
