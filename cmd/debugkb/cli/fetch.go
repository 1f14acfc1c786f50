package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	cursor "github.com/ahmetalpbalkan/go-cursor"
	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/loader"
	getter "github.com/hashicorp/go-getter"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	spin "github.com/tj/go-spin"
	"go.opentelemetry.io/otel"
)

func FetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [source]",
		Args:  cobra.ExactArgs(1),
		Short: "Fetch a knowledge base from a remote source and validate it",
		Long: `Fetch a knowledge base file from a remote source and validate that it
loads. The source can be anything go-getter understands: http(s) URLs,
git repositories, s3 or gcs buckets, or local paths.

Examples:
  # Fetch over https
  debugkb fetch https://example.com/kb.yaml --output kb.yaml

  # Fetch a file from a git repository
  debugkb fetch github.com/example/runbooks//kb/base.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			closer := setupTracing()
			defer closer()

			err := runFetch(cmd.Context(), v, args)

			printTraceSummary(v)
			return err
		},
	}

	cmd.Flags().StringP("output", "o", "knowledge-base.yaml", "File to write the fetched knowledge base to")

	return cmd
}

func runFetch(ctx context.Context, v *viper.Viper, args []string) error {
	ctx, root := otel.Tracer(constants.LIB_TRACER_NAME).Start(ctx, constants.DEBUGKB_ROOT_SPAN_NAME)
	defer root.End()

	src := args[0]
	dst := v.GetString("output")

	if err := fetchSource(ctx, src, dst); err != nil {
		return errors.Wrapf(err, "failed to fetch %s", src)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return errors.Wrap(err, "failed to read fetched file")
	}

	kb, err := loader.LoadKnowledgeBase(ctx, loader.LoadOptions{RawDoc: string(data), Strict: true})
	if err != nil {
		return errors.Wrap(err, "fetched file is not a valid knowledge base")
	}

	fmt.Printf("Fetched %s to %s (%d categories)\n", src, dst, kb.Len())

	return nil
}

func fetchSource(ctx context.Context, src string, dst string) error {
	pwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}

	finishedCh := make(chan bool, 1)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		s := spin.New()
		go func() {
			for {
				select {
				case <-finishedCh:
					fmt.Printf("\r%s", cursor.ClearEntireLine())
					return
				case <-time.After(time.Millisecond * 100):
					fmt.Printf("\r%s \033[36mFetching knowledge base\033[m %s", cursor.ClearEntireLine(), s.Next())
				}
			}
		}()
	}
	defer func() {
		finishedCh <- true
		close(finishedCh)
	}()

	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}

	return client.Get()
}
