package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/debugkb/debugkb/internal/util"
	"github.com/debugkb/debugkb/pkg/constants"
	"github.com/debugkb/debugkb/pkg/knowledgebase"
	"github.com/debugkb/debugkb/pkg/types"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"k8s.io/klog/v2"
)

type LoadOptions struct {
	RawDocs []string
	RawDoc  string

	// If true, the loader will return an error if any of the documents are
	// not valid, else the invalid documents will be ignored
	Strict bool
}

// LoadKnowledgeBase takes raw knowledge base documents and merges them into
// a single KnowledgeBase.
//
// The documents should be yaml (or json, which yaml subsumes). A document
// can be a multidoc yaml separated by "---" which gets split and parsed one
// at a time. Category order follows document order, and the order of the
// documents themselves.
//
// A category name defined by two documents is a conflict: in strict mode it
// fails the load, otherwise the first definition wins and the rest are
// skipped. If the Strict flag is set to true, any document that fails to
// parse fails the load, else the invalid documents will be ignored.
func LoadKnowledgeBase(ctx context.Context, opt LoadOptions) (*knowledgebase.KnowledgeBase, error) {
	opt.RawDocs = append(opt.RawDocs, opt.RawDoc)

	l := kbLoader{
		strict: opt.Strict,
		ctx:    ctx,
	}

	return l.loadFromStrings(opt.RawDocs...)
}

type kbLoader struct {
	strict bool
	ctx    context.Context
}

func (l *kbLoader) loadFromStrings(rawDocs ...string) (*knowledgebase.KnowledgeBase, error) {
	// 1. First split multidoc yaml documents.
	splitdocs := []string{}
	for _, rawDoc := range rawDocs {
		splitdocs = append(splitdocs, util.SplitYAML(rawDoc)...)
	}

	// 2. Parse each document and collect its categories in document order.
	categories := []knowledgebase.Category{}
	owner := map[string]int{}

	for i, doc := range splitdocs {
		if strings.TrimSpace(doc) == "" {
			continue
		}

		_, span := otel.Tracer(constants.LIB_TRACER_NAME).Start(l.ctx, fmt.Sprintf("Document %d", i))
		span.SetAttributes(attribute.String("type", "loader.ParseDocument"))

		kb, err := knowledgebase.Parse([]byte(doc))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.End()
			if !l.strict {
				klog.V(2).Infof("Skipping document %d that failed to parse: %v", i, err)
				continue
			}
			return nil, types.NewExitCodeError(constants.EXIT_CODE_KB_ISSUES,
				errors.Wrapf(err, "failed to parse document %d", i),
			)
		}
		span.End()

		for _, name := range kb.Categories() {
			if prev, dup := owner[name]; dup {
				if !l.strict {
					klog.V(2).Infof("Skipping category %q of document %d, already defined by document %d", name, i, prev)
					continue
				}
				return nil, types.NewExitCodeError(constants.EXIT_CODE_KB_ISSUES,
					errors.Errorf("category %q of document %d is already defined by document %d", name, i, prev),
				)
			}
			owner[name] = i

			category, err := kb.Category(name)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read back category %q", name)
			}
			categories = append(categories, category)
		}
	}

	// 3. Then merge the categories into a single knowledge base.
	merged, err := knowledgebase.New(categories)
	if err != nil {
		return nil, types.NewExitCodeError(constants.EXIT_CODE_KB_ISSUES, errors.Wrap(err, "failed to merge documents"))
	}

	klog.V(2).Infof("Loaded %d knowledge base categories successfully", merged.Len())

	return merged, nil
}
