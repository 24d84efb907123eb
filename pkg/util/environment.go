package util

import (
	"os"
	"strings"
)

const EnvironmentPrefix = "TRAVIGO_"

// GetEnvironmentVariables returns the TRAVIGO_ prefixed variables of the process environment
func GetEnvironmentVariables() map[string]string {
	return filterEnvironment(os.Environ())
}

func filterEnvironment(environ []string) map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range environ {
		name, value, found := strings.Cut(variable, "=")
		if !found || !strings.HasPrefix(name, EnvironmentPrefix) {
			continue
		}

		environmentVariables[name] = value
	}

	return environmentVariables
}
