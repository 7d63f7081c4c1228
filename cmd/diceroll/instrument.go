// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

package main

import (
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// startInstrumentation brings up New Relic APM reporting when --instrument
// is set. The app name defaults to "go-diceroll"; the license key, and any
// app name override, come from the environment, per the go-agent convention:
//
//	NEW_RELIC_APP_NAME
//	NEW_RELIC_LICENSE_KEY
func startInstrumentation(a *Application) (*newrelic.Application, error) {
	if !a.Instrument {
		return nil, nil
	}
	a.Logf("application performance metrics telemetry reporting enabled")
	nrApp, err := newrelic.NewApplication(
		newrelic.ConfigAppName("go-diceroll"),
		newrelic.ConfigFromEnvironment(),
		newrelic.ConfigDebugLogger(os.Stdout),
	)
	if err != nil {
		return nil, err
	}
	return nrApp, nil
}

func stopInstrumentation(a *Application, nrApp *newrelic.Application) {
	if nrApp == nil {
		return
	}
	a.Logf("waiting for instrumentation to finish (max 10 sec) ...")
	nrApp.Shutdown(10 * time.Second)
}

// traceRoll wraps a single roll in a New Relic transaction when
// instrumentation is enabled; otherwise it just calls fn.
func traceRoll(nrApp *newrelic.Application, name string, fn func()) {
	if nrApp == nil {
		fn()
		return
	}
	txn := nrApp.StartTransaction(name)
	defer txn.End()
	fn()
}
