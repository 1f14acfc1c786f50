package specs

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/debugkb/debugkb/internal/util"
	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/httputil"
	"github.com/debugkb/debugkb/pkg/knowledgebase"
	"github.com/debugkb/debugkb/pkg/loader"
	"github.com/debugkb/debugkb/pkg/types"
	"github.com/debugkb/debugkb/pkg/version"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// LoadFromCLIArgs loads knowledge base documents from args passed to a CLI
// command. This loader function is meant for debugkb CLI commands only,
// hence not making it public. It contains opinionated logic for CLI commands
// such as interpreting viper flags, reading from stdin and downloading from
// URLs.
//
// Each arg is a file path, "-" for stdin, or an http(s) URL. Sources are
// fetched concurrently but merge in arg order, so the resulting category
// order is stable no matter which download finishes first.
func LoadFromCLIArgs(ctx context.Context, args []string, vp *viper.Viper) (*knowledgebase.KnowledgeBase, error) {
	// Let's always ensure we have a context
	if ctx == nil {
		ctx = context.Background()
	}

	rawDocs := make([]string, len(args))

	g, gctx := errgroup.WithContext(ctx)
	for i, arg := range args {
		i, arg := i, arg
		g.Go(func() error {
			raw, err := loadSource(gctx, arg)
			if err != nil {
				return err
			}
			rawDocs[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return loader.LoadKnowledgeBase(ctx, loader.LoadOptions{
		RawDocs: rawDocs,
		Strict:  vp.GetBool("strict"),
	})
}

func loadSource(ctx context.Context, arg string) (string, error) {
	switch {
	case arg == "-":
		return loadStdin(ctx)
	case fileExists(arg):
		return loadFile(ctx, arg)
	case util.IsURL(arg):
		return loadURL(ctx, arg)
	default:
		return "", types.NewExitCodeError(constants.EXIT_CODE_KB_ISSUES, errors.Errorf("%s is not a URL and was not found", arg))
	}
}

func loadStdin(ctx context.Context) (string, error) {
	_, span := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, "stdin")
	span.SetAttributes(attribute.String("type", "specs.LoadStdin"))
	defer span.End()

	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", types.NewExitCodeError(constants.EXIT_CODE_CATCH_ALL, err)
	}

	return string(b), nil
}

func loadFile(ctx context.Context, path string) (string, error) {
	_, span := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, path)
	span.SetAttributes(attribute.String("type", "specs.LoadFile"))
	defer span.End()

	b, err := os.ReadFile(path)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", types.NewExitCodeError(constants.EXIT_CODE_KB_ISSUES, err)
	}

	return string(b), nil
}

func loadURL(ctx context.Context, rawURL string) (string, error) {
	_, span := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, rawURL)
	span.SetAttributes(attribute.String("type", "specs.LoadURL"))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, constants.DEFAULT_FETCH_TIMEOUT)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", types.NewExitCodeError(constants.EXIT_CODE_CATCH_ALL, err)
	}
	req.Header.Set("User-Agent", version.GetUserAgent())

	resp, err := httputil.GetHttpClient().Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", types.NewExitCodeError(constants.EXIT_CODE_CATCH_ALL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := errors.Errorf("failed to fetch %s: %s", rawURL, resp.Status)
		span.SetStatus(codes.Error, err.Error())
		return "", types.NewExitCodeError(constants.EXIT_CODE_KB_ISSUES, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", types.NewExitCodeError(constants.EXIT_CODE_KB_ISSUES, err)
	}

	klog.V(1).Infof("Fetched %d bytes from %s", len(body), rawURL)

	return string(body), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
