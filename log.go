package sourcechain

import (
	"os"

	"github.com/rs/zerolog"
)

// log is the package-wide sink for the one thing a library, rather than
// a service, needs to log on its own initiative: a callback that panicked
// inside emit (§4.B, §7a/b). Everything else is surfaced through
// Completion/Failure, not logging. Defaults to stderr at warn level;
// SetLogger lets an embedding application route this into its own
// zerolog.Logger instead of standing up a second one.
var log = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)

// SetLogger replaces the package-wide logging sink.
func SetLogger(l zerolog.Logger) {
	log = l
}

func logCallbackPanic(label string, err error) {
	log.Warn().
		Str("label", label).
		Str("tag", calleeExceptionTag).
		Err(err).
		Msg("on_item callback raised, failing source")
}
