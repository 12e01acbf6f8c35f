package ometa

import (
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger is the package's structured logger. Grammar compilation and
// per-parse diagnostics flow through it in the call style used by
// itsManjeet-exp/event/bench/zerolog_test.go: a chained
// Info()/Debug()/Error() builder ending in Msg.
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

func compileLogger(grammarName string, id uuid.UUID) zerolog.Logger {
	return Logger.With().Str("grammar", grammarName).Str("compileId", id.String()).Logger()
}

func parseLogger(grammarName string, id uuid.UUID, rule string) zerolog.Logger {
	return Logger.With().Str("grammar", grammarName).Str("parseId", id.String()).Str("rule", rule).Logger()
}
