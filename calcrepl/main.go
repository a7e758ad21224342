// Command calcrepl is a terminal front end for the calculator.
//
// Usage:
//
//	calcrepl                    interactive session
//	calcrepl -e '2 * (3 + 4) ='  evaluate a statement
//	calcrepl -keys '12+3*4='     press key codes
//	calcrepl -watch sums.txt    re-evaluate a file of statements on change
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fjl/gio-calc/internal/config"
	"github.com/fjl/gio-calc/internal/keycalc"
	"github.com/fjl/gio-calc/internal/memstore"
)

func main() {
	var (
		exprFlag      = flag.String("e", "", "evaluate `statement` and exit")
		keysFlag      = flag.String("keys", "", "press key `codes` and exit")
		configFlag    = flag.String("config", "calc.yaml", "config `file`")
		dbFlag        = flag.String("db", "", "memory store `path` (overrides config)")
		precisionFlag = flag.Int("precision", -1, "decimal places shown (overrides config)")
		watchFlag     = flag.String("watch", "", "re-evaluate statements in `file` when it changes")
		debugFlag     = flag.Bool("debug", false, "log engine activity to stderr")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal(err)
	}
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}
	if *precisionFlag >= 0 {
		cfg.Precision = *precisionFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	opts := []keycalc.Option{
		keycalc.WithPrecision(cfg.Precision),
		keycalc.WithMemorySlots(cfg.MemorySlots),
		keycalc.WithStatusSlots(cfg.StatusSlots),
	}
	if *debugFlag {
		opts = append(opts, keycalc.WithLogger(log.New(os.Stderr, "calc: ", log.LstdFlags)))
	}
	calc := keycalc.New(opts...)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
	snap, err := store.Load()
	if err != nil {
		log.Fatal("can't load memory: ", err)
	}
	calc.Restore(snap)

	synced := keycalc.NewSynced(calc)
	sess := newSession(synced, store, os.Stdout)
	switch {
	case *watchFlag != "":
		err = watchFile(synced, *watchFlag)
	case *exprFlag != "":
		err = sess.exec(*exprFlag)
	case *keysFlag != "":
		err = sess.keys(*keysFlag)
		sess.save()
	default:
		runREPL(sess, cfg.HistoryFile)
	}
	if err != nil && !errors.Is(err, errQuit) {
		fmt.Fprintln(os.Stderr, "error:", err)
		store.Close()
		os.Exit(1)
	}
}

// openStore opens the memory store selected by cfg.
func openStore(cfg config.Config) (memstore.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return memstore.NewSQLite(cfg.DBPath)
	case config.StoreJournal:
		return memstore.NewJournal(cfg.DBPath)
	default:
		return memstore.NewMemory(), nil
	}
}
