package sheets

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/rs/zerolog"
)

// ErrCredentialsNotFound means every credential source was absent or
// unparsable. This is a startup-time failure, not a per-request one.
var ErrCredentialsNotFound = errors.New("sheets: no usable service account credentials")

// DefaultCredentialPaths are the fallback file locations tried in order when
// no inline credential is configured: the deployment secret mount, the
// working directory, and the container image path.
var DefaultCredentialPaths = []string{
	"/etc/secrets/credentials.json",
	"credentials.json",
	"/app/credentials.json",
}

// ResolveCredentials produces the service account JSON payload from an
// ordered list of sources: the inline value first, then each candidate file
// path. Each source is attempted independently; a malformed source is logged
// and skipped rather than aborting resolution. The payload is never logged.
func ResolveCredentials(inline string, paths []string, log zerolog.Logger) ([]byte, error) {
	if inline != "" {
		if json.Valid([]byte(inline)) {
			log.Info().Msg("using inline service account credentials")
			return []byte(inline), nil
		}
		log.Warn().Msg("inline credentials are not valid JSON, trying file paths")
	}

	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			log.Debug().Str("path", p).Msg("credential file not readable")
			continue
		}
		if !json.Valid(b) {
			log.Warn().Str("path", p).Msg("credential file is not valid JSON")
			continue
		}
		log.Info().Str("path", p).Msg("using service account credentials file")
		return b, nil
	}

	return nil, ErrCredentialsNotFound
}
