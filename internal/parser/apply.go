package parser

import (
	stderrors "errors"
	"fmt"

	"github.com/toyz/restgen/internal/annotations"
	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
)

// comment is one annotation line and where it was written
type comment struct {
	Text     string
	Location errors.SourceLocation
}

// applier folds parsed annotations into declarations. Malformed or misplaced
// annotations are recorded on the client instead of aborting the load.
type applier struct {
	parser *annotations.Parser
}

func newApplier() *applier {
	return &applier{parser: annotations.NewParser(annotations.DefaultRegistry())}
}

// parse parses the annotation comments that apply to the target. It reports
// whether any annotation comment was present, valid or not.
func (a *applier) parse(client *models.ClientDeclaration, target annotations.Target, comments []comment) ([]*annotations.ParsedAnnotation, bool) {
	var parsed []*annotations.ParsedAnnotation
	found := false
	for _, c := range comments {
		if !annotations.IsAnnotation(c.Text) {
			continue
		}
		found = true

		ann, err := a.parser.ParseAnnotation(c.Text, c.Location)
		if err != nil {
			report(client, err)
			continue
		}
		if !a.parser.Allows(ann.Type, target) {
			report(client, misplaced(ann, target))
			continue
		}
		parsed = append(parsed, ann)
	}
	return parsed, found
}

// applyClient applies interface-level annotations
func (a *applier) applyClient(client *models.ClientDeclaration, comments []comment) bool {
	parsed, found := a.parse(client, annotations.TargetInterface, comments)
	for _, ann := range parsed {
		if ann.Type == annotations.ClientAnnotation {
			client.Annotated = true
			client.RootURL = ann.GetString("RootURL")
			if accept := ann.GetString("Accept"); accept != "" {
				client.Requirements.Accept = accept
			}
			continue
		}
		applyRequirement(&client.Requirements, ann)
	}
	return found
}

// applyMethod applies method-level annotations. Parameters must already be
// populated so role annotations can find their targets.
func (a *applier) applyMethod(client *models.ClientDeclaration, method *models.MethodDeclaration, comments []comment) bool {
	parsed, found := a.parse(client, annotations.TargetMethod, comments)
	for _, ann := range parsed {
		if verb, ok := ann.Type.Verb(); ok {
			method.Verbs = append(method.Verbs, models.VerbAnnotation{
				Verb:     verb,
				Path:     ann.Arg(0),
				Location: ann.Location,
			})
			continue
		}
		if role, ok := ann.Type.Role(); ok {
			ra := models.RoleAnnotation{
				Role:     role,
				Target:   ann.Arg(0),
				Name:     ann.GetString("Name"),
				Location: ann.Location,
			}
			if p := method.Param(ra.Target); p != nil {
				p.Roles = append(p.Roles, ra)
			} else {
				method.Unattached = append(method.Unattached, ra)
			}
			continue
		}
		applyRequirement(&method.Requirements, ann)
	}
	method.Accessor = models.DetectAccessor(method)
	return found
}

// applyRequirement records header, cookie and authentication annotations.
// Repeated annotations of one kind accumulate.
func applyRequirement(req *models.Requirements, ann *annotations.ParsedAnnotation) {
	switch ann.Type {
	case annotations.AcceptAnnotation:
		req.Accept = ann.Arg(0)
	case annotations.RequiresHeaderAnnotation:
		req.Headers = append(req.Headers, ann.Positional...)
	case annotations.RequiresCookieAnnotation:
		req.Cookies = append(req.Cookies, ann.Positional...)
	case annotations.RequiresCookieInURLAnnotation:
		req.URLCookies = append(req.URLCookies, ann.Positional...)
	case annotations.SetsCookieAnnotation:
		req.SetsCookies = append(req.SetsCookies, ann.Positional...)
	case annotations.RequiresAuthAnnotation:
		req.RequiresAuth = true
	}
}

func misplaced(ann *annotations.ParsedAnnotation, target annotations.Target) *errors.SchemaError {
	where, other := "interfaces", "methods"
	if target == annotations.TargetMethod {
		where, other = "methods", "interfaces"
	}
	err := errors.NewSchemaError(ann.Type.String(), "",
		fmt.Sprintf("//rest::%s is not allowed on %s", ann.Type, where)).WithLocation(ann.Location)
	err.WithSuggestion(fmt.Sprintf("Move the annotation to the doc comment of %s", other))
	return err
}

// report records an annotation error on the client
func report(client *models.ClientDeclaration, err error) {
	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		client.Diagnostics = append(client.Diagnostics, multi.Errors...)
		return
	}
	var diag errors.Diagnostic
	if stderrors.As(err, &diag) {
		client.Diagnostics = append(client.Diagnostics, diag)
		return
	}
	client.Diagnostics = append(client.Diagnostics, errors.WrapParseError("", err))
}
