package convert

import (
	"framer2mdx/models"
	"framer2mdx/pkg/mirror"
	"framer2mdx/pkg/taxonomy"
)

// Job is one resolved document handed to a worker. Resolution, collision
// checks and ordinal-bearing parse order all happen before dispatch, so
// worker scheduling never affects output paths or asset names.
type Job struct {
	Doc *models.SourceDocument
	Loc taxonomy.Location
}

// Result holds the outcome of a processed document.
type Result struct {
	Filename   string
	OutputPath string
	Refs       []mirror.AssetRef
	Err        error
	ErrType    string // parse_error, save_error
}
