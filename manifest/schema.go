package manifest

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// schemaSource constrains the decoded TOML document before it is mapped
// onto Manifest.
const schemaSource = `
#Ident: =~"^[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*$"

#Scalar: number | string | bool

#Trait: {
	name:       #Ident
	extends?:   [...#Ident]
	accessors?: bool
	trace?:     bool
	fields?:    {[string]: #Scalar | [...#Scalar]}
}

#Class: {
	#Trait
	super?: #Ident
}

#Manifest: {
	project?: {
		name?:      string
		namespace?: #Ident
	}
	runtime?: {
		reload?:       bool
		"on-error"?:   "fatal" | "log" | "panic" | "hook"
		"error-hook"?: string
	}
	log?: {
		verbosity?: int & >=-1 & <=5
		file?:      string
	}
	includes?: [string]: {
		path:       string
		namespace?: #Ident
	}
	trait?: [...#Trait]
	class?: [...#Class]
}
`

var manifestSchema cue.Value

func init() {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaSource, cue.Filename("objmodel.cue"))
	if err := v.Err(); err != nil {
		panic(fmt.Sprintf("manifest: invalid schema: %v", err))
	}
	manifestSchema = v.LookupPath(cue.ParsePath("#Manifest"))
}

// validate checks a decoded TOML document against the manifest schema.
func validate(raw map[string]any) error {
	doc := manifestSchema.Context().Encode(raw)
	if err := doc.Err(); err != nil {
		return err
	}
	if err := manifestSchema.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s", cueerrors.Details(err, nil))
	}
	return nil
}
