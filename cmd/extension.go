package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/etnz/oneshot/config"
)

// Environment variables passed to extensions, they carry the resolved settings.
const (
	EnvServer    = config.Prefix + "SERVER"
	EnvTimeout   = config.Prefix + "TIMEOUT"
	EnvLogLevel  = config.Prefix + "LOG_LEVEL"
	EnvOutputDir = config.Prefix + "OUTPUT_DIR"
	EnvSchedules = config.Prefix + "SCHEDULES"
)

// extensionEnv returns the environment of an extension process.
func extensionEnv() []string {
	return append(os.Environ(),
		EnvServer+"="+settings.Server,
		EnvTimeout+"="+settings.Timeout.String(),
		EnvLogLevel+"="+settings.LogLevel,
		EnvOutputDir+"="+settings.OutputDir,
		EnvSchedules+"="+settings.Schedules,
	)
}

// RunExtension attempts to find and execute an external oneshot-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "oneshot-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		log.WithError(err).WithField("extension", name).Debug("extension not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = extensionEnv()

	log.WithField("extension", lp).Debug("running extension")
	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
