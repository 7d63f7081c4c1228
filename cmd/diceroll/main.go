// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                     diceroll                                       //
//                                                                                    //
// Command-line front end for the dice expression engine: parses and evaluates a     //
// single expression (or a saved preset) and prints its result, optionally with a     //
// full per-die trace.                                                               //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package main

import (
	"fmt"
	"os"

	"github.com/zanethorn/go-diceroll/internal/dicepreset"
)

func main() {
	app := Application{}
	if err := app.GetAppOptions(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	nrApp, err := startInstrumentation(&app)
	if err != nil {
		app.Logf("unable to start instrumentation: %v", err)
		os.Exit(1)
	}
	defer stopInstrumentation(&app, nrApp)

	expr, err := app.resolveExpression()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	exitCode := 0
	for i := 0; i < app.Count; i++ {
		traceRoll(nrApp, "roll", func() {
			if err := app.rollOnce(expr); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = 1
			}
		})
	}

	if app.SavePreset != "" {
		if err := app.persistPreset(app.SavePreset, expr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: saving preset %q: %v\n", app.SavePreset, err)
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}

// resolveExpression returns the expression text to roll: either the one
// given on the command line, or one looked up from the preset store via
// --load-preset.
func (a *Application) resolveExpression() (string, error) {
	if a.LoadPreset == "" {
		if a.Expression == "" {
			return "", fmt.Errorf("no dice expression given (pass one on the command line or use --load-preset)")
		}
		return a.Expression, nil
	}
	if a.store == nil {
		return "", fmt.Errorf("--load-preset requires --preset-db")
	}
	all, err := a.store.LoadAll()
	if err != nil {
		return "", fmt.Errorf("unable to load presets: %v", err)
	}
	for _, p := range all[a.PresetUser] {
		if p.Name == a.LoadPreset {
			a.Debug(DebugPreset, "loaded preset %q -> %q", p.Name, p.Expression)
			return p.Expression, nil
		}
	}
	return "", fmt.Errorf("no preset named %q for user %q", a.LoadPreset, a.PresetUser)
}

func (a *Application) persistPreset(name, expr string) error {
	if a.store == nil {
		return fmt.Errorf("--save-preset requires --preset-db")
	}
	all, err := a.store.LoadAll()
	if err != nil {
		return fmt.Errorf("unable to load existing presets: %v", err)
	}
	presets := all[a.PresetUser]
	replaced := false
	for i, p := range presets {
		if p.Name == name {
			presets[i] = dicepreset.NewPreset(name, p.Description, expr)
			replaced = true
			break
		}
	}
	if !replaced {
		presets = append(presets, dicepreset.NewPreset(name, "", expr))
	}
	if err := a.store.Update(a.PresetUser, presets); err != nil {
		return fmt.Errorf("unable to save preset: %v", err)
	}
	a.Debug(DebugPreset, "saved preset %q = %q", name, expr)
	return nil
}

// rollOnce evaluates expr once against the Application's Context and prints
// the result (and, if requested, the full per-die trace).
func (a *Application) rollOnce(expr string) error {
	v, err := a.ctx.RollExpression(expr)
	if err != nil {
		return err
	}
	fmt.Printf("%s = %d\n", expr, v)
	if a.Individual {
		if s := a.ctx.Trace().FormatString(); s != "" {
			fmt.Print(s)
		}
	}
	return nil
}
