package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	EnvironmentVariablePrefix = "SCMFINDER_"
	fileSuffix                = "_FILE"
)

// SetFlagsFromEnvVariables sets each flag from an env variable whose name is
// the flag name upper-cased, prefixed with SCMFINDER_ and with dashes turned
// into underscores. Appending _FILE to the variable name reads the value from
// the named file instead, e.g. SCMFINDER_JENKINS_TOKEN_FILE.
func SetFlagsFromEnvVariables(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		envVar := flagToEnvVarName(f)
		if val, present := os.LookupEnv(envVar); present {
			err = fs.Set(f.Name, val)
			return
		}
		if strings.HasSuffix(envVar, fileSuffix) {
			return
		}
		if path, present := os.LookupEnv(envVar + fileSuffix); present {
			contents, readErr := os.ReadFile(path)
			if readErr != nil {
				err = fmt.Errorf("reading %s: %w", envVar+fileSuffix, readErr)
				return
			}
			// Secret files usually end with a newline.
			err = fs.Set(f.Name, strings.TrimRight(string(contents), "\r\n"))
		}
	})
	return err
}

func flagToEnvVarName(f *pflag.Flag) string {
	return EnvironmentVariablePrefix + strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_")
}
