package specs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/debugkb/debugkb/internal/testutils"
	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/types"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDoc = `high_cpu_usage:
  - description: Check current CPU usage
    command: top -bn1
`

func TestLoadFromCLIArgs_File(t *testing.T) {
	path := testutils.TempFilename("kb.yaml")
	testutils.CreateTestFileWithData(t, path, minimalDoc)
	defer os.Remove(path)

	kb, err := LoadFromCLIArgs(context.Background(), []string{path}, viper.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"high_cpu_usage"}, kb.Categories())
}

func TestLoadFromCLIArgs_Stdin(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	_, err = w.WriteString(minimalDoc)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	kb, err := LoadFromCLIArgs(context.Background(), []string{"-"}, viper.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"high_cpu_usage"}, kb.Categories())
}

func TestLoadFromCLIArgs_URL(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Write([]byte(minimalDoc))
	}))
	defer srv.Close()

	kb, err := LoadFromCLIArgs(context.Background(), []string{srv.URL}, viper.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"high_cpu_usage"}, kb.Categories())
	assert.Contains(t, userAgent, "DebugKB/")
}

func TestLoadFromCLIArgs_URLNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	kb, err := LoadFromCLIArgs(context.Background(), []string{srv.URL}, viper.New())
	assert.Nil(t, kb)
	require.Error(t, err)

	var exitErr types.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, constants.EXIT_CODE_KB_ISSUES, exitErr.ExitStatus())
}

func TestLoadFromCLIArgs_MissingFile(t *testing.T) {
	kb, err := LoadFromCLIArgs(context.Background(), []string{"no-such-file.yaml"}, viper.New())
	assert.Nil(t, kb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a URL and was not found")
}

func TestLoadFromCLIArgs_MergesInArgOrder(t *testing.T) {
	first := testutils.TempFilename("kb_first.yaml")
	testutils.CreateTestFileWithData(t, first, "cpu:\n  - description: Check CPU\n    command: uptime\n")
	defer os.Remove(first)

	second := testutils.TempFilename("kb_second.yaml")
	testutils.CreateTestFileWithData(t, second, "mem:\n  - description: Check memory\n    command: free -m\n")
	defer os.Remove(second)

	kb, err := LoadFromCLIArgs(context.Background(), []string{first, second}, viper.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu", "mem"}, kb.Categories())

	kb, err = LoadFromCLIArgs(context.Background(), []string{second, first}, viper.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"mem", "cpu"}, kb.Categories())
}

func TestLoadFromCLIArgs_StrictFlag(t *testing.T) {
	path := testutils.TempFilename("kb_invalid.yaml")
	testutils.CreateTestFileWithData(t, path, "cpu:\n  - description: missing a command\n")
	defer os.Remove(path)

	vp := viper.New()
	kb, err := LoadFromCLIArgs(context.Background(), []string{path}, vp)
	require.NoError(t, err)
	assert.True(t, kb.IsEmpty())

	vp.Set("strict", true)
	kb, err = LoadFromCLIArgs(context.Background(), []string{path}, vp)
	assert.Nil(t, kb)
	require.Error(t, err)

	var exitErr types.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, constants.EXIT_CODE_KB_ISSUES, exitErr.ExitStatus())
}
