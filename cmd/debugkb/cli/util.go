package cli

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/debugkb/debugkb/internal/specs"
	"github.com/debugkb/debugkb/internal/traces"
	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/httputil"
	"github.com/debugkb/debugkb/pkg/knowledgebase"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

// setupTracing configures the in-memory trace exporter and returns a closer.
// Tracing failures never fail the command.
func setupTracing() func() {
	closer, err := traces.ConfigureTracing(constants.DEBUGKB_ROOT_SPAN_NAME)
	if err != nil {
		klog.Errorf("Failed to initialize open tracing provider: %v", err)
		return func() {}
	}
	return closer
}

func printTraceSummary(v *viper.Viper) {
	if v.GetBool("debug") || v.IsSet("v") {
		fmt.Printf("\n%s", traces.GetExporterInstance().GetSummary())
	}
}

// configureHTTPClient applies the TLS flags to the shared http client used
// for remote knowledge bases.
func configureHTTPClient(v *viper.Viper) {
	if v.GetBool("insecure-skip-tls-verify") {
		httputil.AddTransport(&http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		})
	}
}

// loadKnowledgeBase loads and merges the knowledge bases named by the
// command arguments.
func loadKnowledgeBase(ctx context.Context, v *viper.Viper, args []string) (*knowledgebase.KnowledgeBase, error) {
	configureHTTPClient(v)
	return specs.LoadFromCLIArgs(ctx, args, v)
}
