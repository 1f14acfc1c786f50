// Package schemas embeds the json schema describing the knowledge base
// document format. Editors and CI pipelines can validate documents against
// it; debugkb itself validates structurally at load time.
package schemas

import (
	_ "embed"
)

//go:embed knowledge-base.schema.json
var KnowledgeBase []byte
