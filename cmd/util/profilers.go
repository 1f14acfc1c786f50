package util

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cpuProfileFile *os.File

// StartProfiling starts a CPU profile if the --cpuprofile flag was set and
// bound to viper. The profile stays open until StopProfiling.
func StartProfiling() error {
	v := viper.GetViper()
	if v.GetString("cpuprofile") != "" {
		var err error
		cpuProfileFile, err = os.Create(v.GetString("cpuprofile"))
		if err != nil {
			return errors.Wrap(err, "could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuProfileFile); err != nil {
			cpuProfileFile.Close()
			cpuProfileFile = nil
			return errors.Wrap(err, "could not start CPU profile")
		}
	}
	return nil
}

// StopProfiling stops the CPU profile started by StartProfiling and writes a
// heap profile if the --memprofile flag was set.
func StopProfiling() error {
	v := viper.GetViper()

	if v.GetString("memprofile") != "" {
		f, err := os.Create(v.GetString("memprofile"))
		if err != nil {
			return errors.Wrap(err, "could not create memory profile")
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errors.Wrap(err, "could not write memory profile")
		}
	}

	if cpuProfileFile != nil {
		pprof.StopCPUProfile()
		return cpuProfileFile.Close()
	}
	return nil
}

// AddProfilingFlags adds the --cpuprofile and --memprofile flags to the given command.
func AddProfilingFlags(cmd *cobra.Command) {
	// Persistent flags to make available to subcommands
	cmd.PersistentFlags().String("cpuprofile", "", "File path to write cpu profiling data")
	cmd.PersistentFlags().String("memprofile", "", "File path to write memory profiling data")
}
