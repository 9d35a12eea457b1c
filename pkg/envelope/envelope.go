// Package envelope is the Unified Output envelope every query operation
// returns: a status, an entity type, a payload shaped as one of a closed
// set of variants, and optional metadata/guidance for the caller.
package envelope

import (
	"github.com/codegraph/codeintel/pkg/codeerr"
)

// Status is the envelope's top-level result classification.
type Status string

const (
	StatusSuccess        Status = "Success"
	StatusNotFound       Status = "NotFound"
	StatusPartialSuccess Status = "PartialSuccess"
	StatusError          Status = "Error"
)

// EntityType names the kind of thing the envelope's data describes.
type EntityType string

const (
	EntitySymbol       EntityType = "Symbol"
	EntityFunction     EntityType = "Function"
	EntityClass        EntityType = "Class"
	EntityTrait        EntityType = "Trait"
	EntityInterface    EntityType = "Interface"
	EntityModule       EntityType = "Module"
	EntityVariable     EntityType = "Variable"
	EntitySearchResult EntityType = "SearchResult"
	EntityImpact       EntityType = "Impact"
	EntityIndexInfo    EntityType = "IndexInfo"
	EntityMixed        EntityType = "Mixed"
)

// RankedResult pairs an item with a relevance score and optional rank and
// per-item metadata, used by the Ranked data variant.
type RankedResult struct {
	Item     any            `json:"item"`
	Score    float32        `json:"score"`
	Rank     int            `json:"rank,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ContextualResult pairs an item with surrounding context and optional
// relationship data, used by the Contextual data variant.
type ContextualResult struct {
	Item          any            `json:"item"`
	Context       string         `json:"context"`
	Relationships map[string]any `json:"relationships,omitempty"`
}

// Data is the envelope's payload, exactly one of its variants populated.
// Kind discriminates which; marshaling emits only the populated variant.
type Data struct {
	Kind Variant `json:"-"`

	Items      []any                       `json:"items,omitempty"`
	Groups     map[string][]any            `json:"groups,omitempty"`
	Contextual []ContextualResult          `json:"results,omitempty"`
	Ranked     []RankedResult              `json:"ranked_results,omitempty"`
	Item       any                         `json:"item,omitempty"`
}

// Variant identifies which shape Data carries.
type Variant int

const (
	VariantEmpty Variant = iota
	VariantItems
	VariantGrouped
	VariantContextual
	VariantRanked
	VariantSingle
)

func Items(items []any) Data        { return Data{Kind: VariantItems, Items: items} }
func Grouped(g map[string][]any) Data {
	return Data{Kind: VariantGrouped, Groups: g}
}
func Contextual(results []ContextualResult) Data {
	return Data{Kind: VariantContextual, Contextual: results}
}
func Ranked(results []RankedResult) Data { return Data{Kind: VariantRanked, Ranked: results} }
func Single(item any) Data               { return Data{Kind: VariantSingle, Item: item} }
func Empty() Data                        { return Data{Kind: VariantEmpty} }

// count derives the envelope's count field from the populated variant.
func (d Data) count() int {
	switch d.Kind {
	case VariantItems:
		return len(d.Items)
	case VariantGrouped:
		n := 0
		for _, items := range d.Groups {
			n += len(items)
		}
		return n
	case VariantContextual:
		return len(d.Contextual)
	case VariantRanked:
		return len(d.Ranked)
	case VariantSingle:
		if d.Item == nil {
			return 0
		}
		return 1
	default:
		return 0
	}
}

func (d Data) isEmpty() bool { return d.count() == 0 }

// Metadata carries optional diagnostic context about how an envelope's
// data was produced.
type Metadata struct {
	Query     string         `json:"query,omitempty"`
	Tool      string         `json:"tool,omitempty"`
	TimingMs  int64          `json:"timing_ms,omitempty"`
	Truncated bool           `json:"truncated,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Envelope is the uniform result shape every query operation returns.
type Envelope struct {
	Status     Status     `json:"status"`
	EntityType EntityType `json:"entity_type"`
	Count      int        `json:"count"`
	Data       Data       `json:"data"`
	Metadata   *Metadata  `json:"metadata,omitempty"`
	Guidance   string     `json:"guidance,omitempty"`

	err *codeerr.Error
}

// New builds an envelope from a payload. Status auto-downgrades to
// NotFound when the data variant is empty, per the builder contract;
// callers that want PartialSuccess or Error must set it explicitly via
// WithStatus/Fail.
func New(entityType EntityType, data Data) Envelope {
	status := StatusSuccess
	if data.isEmpty() {
		status = StatusNotFound
	}
	return Envelope{Status: status, EntityType: entityType, Count: data.count(), Data: data}
}

// Fail builds an Error envelope from a codeerr.Error.
func Fail(entityType EntityType, err *codeerr.Error) Envelope {
	return Envelope{
		Status:     StatusError,
		EntityType: entityType,
		Data:       Empty(),
		Guidance:   guidanceFrom(err),
		err:        err,
	}
}

func guidanceFrom(err *codeerr.Error) string {
	if err == nil || len(err.Suggestions) == 0 {
		return ""
	}
	return err.Suggestions[0]
}

// WithStatus overrides the auto-derived status (e.g. to PartialSuccess
// when some files in a batch failed but others succeeded).
func (e Envelope) WithStatus(s Status) Envelope {
	e.Status = s
	return e
}

// WithMetadata attaches optional query/timing metadata.
func (e Envelope) WithMetadata(m Metadata) Envelope {
	e.Metadata = &m
	return e
}

// WithGuidance attaches a human-readable hint.
func (e Envelope) WithGuidance(g string) Envelope {
	e.Guidance = g
	return e
}

// ExitCode computes the process exit code per the error taxonomy: Success
// and PartialSuccess are 0, NotFound is 3, Error maps through the wrapped
// codeerr.Error's Kind (defaulting to 1 if none was attached).
func (e Envelope) ExitCode() int {
	switch e.Status {
	case StatusSuccess, StatusPartialSuccess:
		return 0
	case StatusNotFound:
		return 3
	case StatusError:
		if e.err != nil {
			return e.err.Kind.ExitCode()
		}
		return 1
	default:
		return 1
	}
}

// Err returns the wrapped error for Error-status envelopes, or nil.
func (e Envelope) Err() *codeerr.Error { return e.err }

// RenderData returns the JSON-serializable payload, matching the teacher's
// Renderable.RenderData contract so the Output Manager and MCP tool
// results share one marshaling path.
func (e Envelope) RenderData() any { return e }
