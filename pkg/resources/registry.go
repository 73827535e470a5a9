// Package resources implements the "resources" capability: a registry of
// concrete, URI-addressed resources and RFC-6570-ish templated resources,
// grounded on the original's resources.py Resources plugin (list,
// templates/list, read, complete) and on pkg/resources/example.go,
// rewritten around URIs instead of flat names since that file's flat
// Resource{Name,Type,Metadata} shape has no read addressing scheme at
// all.
package resources

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/capability"
	"github.com/richard-senior/mcp/pkg/protocol"
)

var log = logger.Default().Child("resources")

// Reader produces the contents of one resource read, as a protocol.Content
// (TextResourceContent or BlobResourceContent). Large payloads are served
// by a StreamReader instead, which yields a protocol.StreamEntry consumed
// by the streaming encoder.
type Reader func(uri string, params map[string]string) (protocol.Content, error)

// StreamReader produces a streamed resource body: used for anything big
// enough that buffering it whole would be wasteful.
type StreamReader func(uri string, params map[string]string) (protocol.StreamEntry, error)

type concreteEntry struct {
	resource protocol.Resource
	read     Reader
	stream   StreamReader
}

// Completer answers completion/complete for one templated resource's
// argument: given the partial value typed so far, it returns candidate
// completions.
type Completer func(partial string) []string

type templateEntry struct {
	template   protocol.ResourceTemplate
	pattern    *regexp.Regexp
	names      []string
	read       Reader
	stream     StreamReader
	completers map[string]Completer
}

// Registry is the resources capability.
type Registry struct {
	concrete  *capability.Registry[concreteEntry]
	templates []templateEntry
}

// NewRegistry returns an empty resources registry.
func NewRegistry() *Registry {
	return &Registry{concrete: capability.NewRegistry[concreteEntry]()}
}

// RegisterConcrete adds a single fixed-URI resource.
func (r *Registry) RegisterConcrete(resource protocol.Resource, read Reader) {
	r.concrete.Put(resource.URI, concreteEntry{resource: resource, read: read})
}

// RegisterConcreteStream adds a fixed-URI resource whose contents are
// produced lazily via a stream rather than a single buffered Content.
func (r *Registry) RegisterConcreteStream(resource protocol.Resource, stream StreamReader) {
	r.concrete.Put(resource.URI, concreteEntry{resource: resource, stream: stream})
}

// uriTemplatePattern compiles an RFC-6570-ish "{name}" template into a
// matching regexp plus its ordered variable names, replacing each
// "{name}" with a named capture `(?P<name>.+?)`, per the original
// resources.py.
func uriTemplatePattern(template string) (*regexp.Regexp, []string) {
	var names []string
	var sb strings.Builder
	sb.WriteString("^")

	i := 0
	for i < len(template) {
		if template[i] == '{' {
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				sb.WriteString(regexp.QuoteMeta(template[i:]))
				break
			}
			name := template[i+1 : i+end]
			names = append(names, name)
			sb.WriteString(`(?P<` + name + `>.+?)`)
			i += end + 1
			continue
		}
		sb.WriteString(regexp.QuoteMeta(string(template[i])))
		i++
	}
	sb.WriteString("$")

	return regexp.MustCompile(sb.String()), names
}

// RegisterTemplate adds a templated resource, e.g.
// "mcp://wikipedia/image/{query}".
func (r *Registry) RegisterTemplate(template protocol.ResourceTemplate, read Reader) {
	pattern, names := uriTemplatePattern(template.URITemplate)
	r.templates = append(r.templates, templateEntry{template: template, pattern: pattern, names: names, read: read})
}

// RegisterCompleter attaches a completion closure for one argument of an
// already-registered template, resolved by completion/complete against
// argument.name — the original resources.py's per-template completion
// closure, looked up by uriTemplate rather than a module-level registry.
func (r *Registry) RegisterCompleter(uriTemplate, argName string, fn Completer) {
	for i := range r.templates {
		if r.templates[i].template.URITemplate != uriTemplate {
			continue
		}
		if r.templates[i].completers == nil {
			r.templates[i].completers = make(map[string]Completer)
		}
		r.templates[i].completers[argName] = fn
		return
	}
}

// RegisterTemplateStream adds a templated resource backed by a stream.
func (r *Registry) RegisterTemplateStream(template protocol.ResourceTemplate, stream StreamReader) {
	pattern, names := uriTemplatePattern(template.URITemplate)
	r.templates = append(r.templates, templateEntry{template: template, pattern: pattern, names: names, stream: stream})
}

func (r *Registry) Name() string { return "resources" }

func (r *Registry) Infos() any {
	return map[string]any{"subscribe": false, "listChanged": false}
}

func (r *Registry) RPCExports() map[string]capability.Handler {
	return map[string]capability.Handler{
		"list":           r.list,
		"templates/list": r.listTemplates,
		"read":           r.read,
		"complete":       r.complete,
	}
}

func (r *Registry) list(_ any, _ map[string]any) (any, error) {
	items := r.concrete.List()
	out := make([]protocol.Resource, 0, len(items))
	for _, e := range items {
		out = append(out, e.resource)
	}
	return map[string]any{"resources": out}, nil
}

func (r *Registry) listTemplates(_ any, _ map[string]any) (any, error) {
	out := make([]protocol.ResourceTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t.template)
	}
	return map[string]any{"resourceTemplates": out}, nil
}

// Lookup resolves a URI against the concrete map first, then each
// template in registration order, returning the reader/stream pair and
// captured path variables.
func (r *Registry) lookup(uri string) (Reader, StreamReader, map[string]string, error) {
	if e, ok := r.concrete.Get(uri); ok {
		return e.read, e.stream, nil, nil
	}

	for _, t := range r.templates {
		m := t.pattern.FindStringSubmatch(uri)
		if m == nil {
			continue
		}
		params := make(map[string]string, len(t.names))
		for i, name := range t.names {
			params[name] = m[i+1]
		}
		return t.read, t.stream, params, nil
	}

	return nil, nil, nil, fmt.Errorf("no resource matches uri %q", uri)
}

func (r *Registry) read(_ any, args map[string]any) (any, error) {
	uri, _ := args["uri"].(string)
	if uri == "" {
		return nil, protocol.NewInvalidParamsError("missing required argument %q", "uri")
	}

	read, stream, params, err := r.lookup(uri)
	if err != nil {
		return nil, protocol.NewInvalidParamsError("%s", err)
	}

	log.Info("reading resource", uri)

	if stream != nil {
		entry, err := stream(uri, params)
		if err != nil {
			return nil, err
		}
		// Streamed reads bypass the buffered content envelope entirely;
		// the dispatcher recognizes *protocol.StreamEntry results and
		// hands them to the streaming encoder instead of json.Marshal.
		return &entry, nil
	}

	content, err := read(uri, params)
	if err != nil {
		return nil, err
	}

	return map[string]any{"contents": []protocol.Content{content}}, nil
}

// complete answers completion/complete for a templated resource's
// argument: it resolves the template by URI (forwarded by
// pkg/server's completeRef as args["name"], the same field prompts'
// complete uses) and runs the completer registered for argumentName, if
// any. Concrete resources and templates with no registered completer
// both yield an empty completion list, matching the original's
// fallback when no closure is registered.
func (r *Registry) complete(_ any, args map[string]any) (any, error) {
	uriTemplate, _ := args["name"].(string)
	argName, _ := args["argumentName"].(string)
	partial, _ := args["value"].(string)

	for _, t := range r.templates {
		if t.template.URITemplate != uriTemplate {
			continue
		}

		fn, ok := t.completers[argName]
		if !ok {
			return map[string]any{"completion": map[string]any{"values": []string{}, "total": 0}}, nil
		}

		values := fn(partial)
		return map[string]any{"completion": map[string]any{"values": values, "total": len(values)}}, nil
	}

	return map[string]any{"completion": map[string]any{"values": []string{}, "total": 0}}, nil
}
