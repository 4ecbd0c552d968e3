package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/sbudesk/config"
	"github.com/rs/zerolog/log"
)

// Environment passed to extensions, so that they talk to the same backend with
// the same session.
const (
	EnvAPIBase  = config.EnvPrefix + "_API_BASE"
	EnvTokenDir = config.EnvPrefix + "_TOKEN_DIR"
	EnvCurrency = config.EnvPrefix + "_CURRENCY"
	EnvVerbose  = config.EnvPrefix + "_VERBOSE"
)

// RunExtension attempts to find and execute an external sbu-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "sbu-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		log.Debug().Str("extension", name).Err(err).Msg("extension not found in PATH")
		return false, 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return true, 1
	}
	setupLogging(cfg.Verbose)

	cmd := exec.Command(lp, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Pass the resolved settings as environment variables.
	cmd.Env = append(os.Environ(),
		EnvAPIBase+"="+cfg.APIBase,
		EnvTokenDir+"="+cfg.TokenDir,
		EnvCurrency+"="+cfg.Currency,
		EnvVerbose+"="+strconv.FormatBool(cfg.Verbose),
	)
	log.Debug().Str("extension", lp).Strs("args", args).Msg("running extension")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
