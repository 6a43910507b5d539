// Package logger provides structured logging for instaviewer on top of
// zerolog.
//
// Commands initialise the global logger once from the logging section of
// the configuration and hand Logger values down to the packages that need
// them:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.GetLogger().WithField("component", "viewer")
//	log.InfoWithFields("Search started", map[string]interface{}{
//	    "username": "natgeo",
//	})
//
// Console output goes to stderr. When a log file is configured all output
// goes there instead. The interactive viewer uses NewWithWriter with
// io.Discard when no file is set so the terminal screen is left alone.
//
// Tests use NewTestLogger to capture and assert on messages, or
// NewNopLogger to silence output.
package logger
