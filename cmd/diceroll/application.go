// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/zanethorn/go-diceroll/dice"
	"github.com/zanethorn/go-diceroll/internal/dicepreset"
)

// DebugFlags names the debugging trace topics this CLI can report, mirroring
// the bitset-of-topics pattern used throughout the rest of this codebase.
type DebugFlags uint64

const (
	DebugParse DebugFlags = 1 << iota
	DebugEval
	DebugPreset
	DebugAll DebugFlags = 0xffffffff
)

func DebugFlagNames(flags DebugFlags) string {
	if flags == 0 {
		return "<none>"
	}
	if flags == DebugAll {
		return "<all>"
	}
	var names []string
	for _, f := range []struct {
		bits DebugFlags
		name string
	}{
		{DebugParse, "parse"},
		{DebugEval, "eval"},
		{DebugPreset, "preset"},
	} {
		if flags&f.bits != 0 {
			names = append(names, f.name)
		}
	}
	return "<" + strings.Join(names, ",") + ">"
}

func namedDebugFlags(names string) (DebugFlags, error) {
	var d DebugFlags
	if names == "" {
		return d, nil
	}
	for _, name := range strings.Split(names, ",") {
		switch name {
		case "none":
			d = 0
		case "all":
			d = DebugAll
		case "parse":
			d |= DebugParse
		case "eval":
			d |= DebugEval
		case "preset":
			d |= DebugPreset
		default:
			return d, fmt.Errorf("no such -debug topic: %q", name)
		}
	}
	return d, nil
}

// Application holds the CLI's global settings, parsed once from its command
// line in GetAppOptions.
type Application struct {
	Logger     *log.Logger
	DebugLevel DebugFlags

	Count      int
	Individual bool
	Seed       uint64
	SeedLabel  string
	ConfigPath string
	CustomDice []string // "NAME=DEF" pairs, one per --die flag

	PresetDBPath string
	SavePreset   string
	LoadPreset   string
	PresetUser   string

	Instrument bool

	Expression string

	ctx   *dice.Context
	store *dicepreset.Store
}

func (a *Application) Debug(level DebugFlags, format string, args ...any) {
	if a.Logger != nil && a.DebugLevel&level != 0 {
		a.Logger.Printf(DebugFlagNames(level)+" "+format, args...)
	}
}

func (a *Application) Logf(format string, args ...any) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}

const versionString = "go-diceroll 1.0.0"

// GetAppOptions parses the command line into a, opening any log file or
// preset database the flags name.
func (a *Application) GetAppOptions() error {
	var (
		showVersion = flag.Bool("version", false, "Print the version and exit")
		showVersionShort = flag.Bool("v", false, "Print the version and exit (shorthand)")
		count       = flag.Int("count", 1, "Roll the expression this many times")
		countShort  = flag.Int("c", 0, "Roll the expression this many times (shorthand)")
		individual  = flag.Bool("individual", false, "Print each individual die result")
		individualShort = flag.Bool("i", false, "Print each individual die result (shorthand)")
		seed        = flag.String("seed", "", "Seed the RNG (a number, or any other text for a string-derived seed)")
		seedShort   = flag.String("s", "", "Seed the RNG (shorthand)")
		configPath  = flag.String("config", "", "Load a YAML policy file from this path")
		logFile     = flag.String("log-file", "-", "Write log output to this path (\"-\" for stderr); strftime %-tokens allowed")
		debugFlags  = flag.String("debug", "", "Comma-separated debug topics to enable (parse,eval,preset,all)")
		presetDB    = flag.String("preset-db", "", "SQLite database file holding saved dice presets")
		savePreset  = flag.String("save-preset", "", "Save the rolled expression as a preset under this name")
		loadPreset  = flag.String("load-preset", "", "Roll a previously saved preset by this name instead of the command line expression")
		presetUser  = flag.String("preset-user", "default", "User name under which presets are stored/loaded")
		instrument  = flag.Bool("instrument", false, "Enable New Relic application performance telemetry")
	)

	var customDice stringSliceFlag
	flag.Var(&customDice, "die", "Register a custom die as NAME=DEF, e.g. --die COIN={0:\"tails\",1:\"heads\"} (repeatable)")

	flag.Parse()

	if *showVersion || *showVersionShort {
		fmt.Println(versionString)
		os.Exit(0)
	}

	d, err := namedDebugFlags(*debugFlags)
	if err != nil {
		return err
	}
	a.DebugLevel = d

	if *logFile == "" || *logFile == "-" {
		a.Logger = log.New(os.Stderr, "diceroll: ", log.LstdFlags)
	} else {
		path, err := strftime.Format(*logFile, time.Now())
		if err != nil {
			return fmt.Errorf("unable to expand log file path %q: %v", *logFile, err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("unable to open log file: %v", err)
		}
		a.Logger = log.New(f, "diceroll: ", log.LstdFlags)
	}

	a.Count = *count
	if *countShort > 0 {
		a.Count = *countShort
	}
	if a.Count <= 0 {
		a.Count = 1
	}

	a.Individual = *individual || *individualShort

	seedText := *seed
	if seedText == "" {
		seedText = *seedShort
	}
	if seedText != "" {
		if n, err := strconv.ParseUint(seedText, 10, 64); err == nil {
			a.Seed = n
		} else {
			a.SeedLabel = seedText
		}
	}

	a.ConfigPath = *configPath
	a.CustomDice = []string(customDice)
	a.PresetDBPath = *presetDB
	a.SavePreset = *savePreset
	a.LoadPreset = *loadPreset
	a.PresetUser = *presetUser
	a.Instrument = *instrument

	if flag.NArg() > 0 && a.LoadPreset == "" {
		a.Expression = strings.Join(flag.Args(), " ")
	}

	return a.setup()
}

// setup builds the dice.Context described by the parsed options: policy,
// RNG, and any --die registrations, plus an optional preset store.
func (a *Application) setup() error {
	policy := dice.DefaultPolicy()
	if a.ConfigPath != "" {
		f, err := os.Open(a.ConfigPath)
		if err != nil {
			return fmt.Errorf("unable to open policy config %q: %v", a.ConfigPath, err)
		}
		defer f.Close()
		policy, err = dice.LoadPolicyYAML(f)
		if err != nil {
			return fmt.Errorf("unable to parse policy config %q: %v", a.ConfigPath, err)
		}
	}

	a.ctx = dice.NewContextWithOptions(65536, dice.FeatureFate)
	a.ctx.SetPolicy(policy)

	switch {
	case a.SeedLabel != "":
		a.ctx.SetRNG(dice.NewStringSeededRNG(a.SeedLabel))
	case a.Seed != 0:
		a.ctx.SetRNG(dice.NewDefaultRNG(a.Seed))
	}

	for _, spec := range a.CustomDice {
		name, def, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("invalid --die value %q, want NAME=DEF", spec)
		}
		if err := a.ctx.RegisterCustomDie(name, def); err != nil {
			return fmt.Errorf("invalid custom die %q: %v", name, err)
		}
		a.Debug(DebugParse, "registered custom die %s = %s", name, def)
	}

	if a.PresetDBPath != "" {
		db, err := sql.Open("sqlite3", a.PresetDBPath)
		if err != nil {
			return fmt.Errorf("unable to open preset database %q: %v", a.PresetDBPath, err)
		}
		if _, err := db.Exec(dicepreset.Schema); err != nil {
			return fmt.Errorf("unable to initialize preset database: %v", err)
		}
		a.store = dicepreset.Open(db)
	}

	return nil
}

// stringSliceFlag implements flag.Value to accept a repeatable flag.
type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}
