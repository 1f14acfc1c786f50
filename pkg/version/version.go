package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ldflags populated at build time, e.g.
// go build -ldflags "-X github.com/debugkb/debugkb/pkg/version.version=v0.1.0"
var (
	version   string
	gitSHA    string
	buildTime string

	// RunAt is the time the binary started
	RunAt = time.Now()

	build Build
)

// Build holds details about this build of the binary
type Build struct {
	Version      string     `json:"version,omitempty" yaml:"version,omitempty"`
	GitSHA       string     `json:"git,omitempty" yaml:"git,omitempty"`
	BuildTime    time.Time  `json:"buildTime,omitempty" yaml:"buildTime,omitempty"`
	TimeFallback string     `json:"buildTimeFallback,omitempty" yaml:"buildTimeFallback,omitempty"`
	GoInfo       GoInfo     `json:"go,omitempty" yaml:"go,omitempty"`
	RunAt        *time.Time `json:"runAt,omitempty" yaml:"runAt,omitempty"`
}

type GoInfo struct {
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
	Compiler string `json:"compiler,omitempty" yaml:"compiler,omitempty"`
	OS       string `json:"os,omitempty" yaml:"os,omitempty"`
	Arch     string `json:"arch,omitempty" yaml:"arch,omitempty"`
}

// FileVersion is the structure of the version file written next to walk
// session reports.
type FileVersion struct {
	Name          string `yaml:"name"`
	VersionNumber string `yaml:"versionNumber"`
	GitSHA        string `yaml:"gitSHA,omitempty"`
}

func init() {
	initBuild()
}

// initBuild sets up the version info from build args or imported modules in go.mod
func initBuild() {
	moduleName := "github.com/debugkb/debugkb"

	if version == "" {
		// Lets attempt to get the version from runtime build info
		// We will go through all the dependencies to find the
		// debugkb module version. Its OK if we cannot read
		// the buildinfo, we just won't have a version set
		bi, ok := debug.ReadBuildInfo()
		if ok {
			for _, dep := range bi.Deps {
				if dep.Path == moduleName {
					version = dep.Version
					break
				}
			}
		}
	}

	build.Version = version
	if len(gitSHA) >= 7 {
		build.GitSHA = gitSHA[:7]
	}

	var err error
	build.BuildTime, err = time.Parse(time.RFC3339, buildTime)
	if err != nil {
		build.TimeFallback = buildTime
	}

	build.GoInfo = getGoInfo()
	build.RunAt = &RunAt
}

// GetBuild gets the build
func GetBuild() Build {
	return build
}

// Version gets the version
func Version() string {
	return build.Version
}

// GitSHA gets the gitsha
func GitSHA() string {
	return build.GitSHA
}

// BuildTime gets the build time
func BuildTime() time.Time {
	return build.BuildTime
}

func getGoInfo() GoInfo {
	return GoInfo{
		Version:  runtime.Version(),
		Compiler: runtime.Compiler,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
	}
}

func GetUserAgent() string {
	return fmt.Sprintf("DebugKB/%s", Version())
}

func GetVersionFile() (string, error) {
	fileVersion := FileVersion{
		Name:          "debugkb",
		VersionNumber: Version(),
		GitSHA:        GitSHA(),
	}
	b, err := yaml.Marshal(fileVersion)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal version data")
	}

	return string(b), nil
}
