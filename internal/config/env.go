package config

import (
	"os"
	"regexp"
)

// envRef matches ${NAME} and ${NAME:-fallback}.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// substituteEnvVars expands environment references in a config file before
// it is decoded. A set variable wins, then the fallback; a reference with
// neither is left as written so the decoder reports it in context.
func substituteEnvVars(content []byte) []byte {
	return envRef.ReplaceAllFunc(content, func(ref []byte) []byte {
		m := envRef.FindSubmatch(ref)
		if value, ok := os.LookupEnv(string(m[1])); ok {
			return []byte(value)
		}
		if len(m[2]) > 0 {
			return m[3]
		}
		return ref
	})
}
