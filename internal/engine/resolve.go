package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Field selects which column a lookup resolves against.
type Field int

const (
	FieldIdentifier Field = iota
	FieldName
)

// Mode selects exact or substring matching.
type Mode int

const (
	ModeExact Mode = iota
	ModeFuzzy
)

// ParseField maps the transport-level field strings onto a Field. An empty
// string defaults to the identifier.
func ParseField(s string) (Field, error) {
	switch s {
	case "", "identifier", "code":
		return FieldIdentifier, nil
	case "name":
		return FieldName, nil
	}
	return FieldIdentifier, &ConfigurationError{
		Param:  "field",
		Reason: fmt.Sprintf("unknown lookup field %q, want identifier or name", s),
	}
}

// ParseMode maps the transport-level mode strings onto a Mode. An empty
// string defaults to exact.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "exact":
		return ModeExact, nil
	case "fuzzy":
		return ModeFuzzy, nil
	}
	return ModeExact, &ConfigurationError{
		Param:  "mode",
		Reason: fmt.Sprintf("unknown lookup mode %q, want exact or fuzzy", s),
	}
}

// MatchResult is the possibly empty, ordered subset of records satisfying a
// lookup query. Order follows the source dataset, not relevance, and there
// is no upper bound on its size. An empty result is a normal outcome, never
// an error.
type MatchResult []Record

// Resolve matches the trimmed query against the identifier or the name
// column.
//
// Identifier lookups parse the query as a base-10 integer in exact mode
// (*ValidationError when it is not one) and match the identifier's decimal
// string representation by substring in fuzzy mode. Name lookups compare
// case-sensitively, by equality in exact mode and by substring in fuzzy
// mode; records with a missing name are excluded, never an error. Resolving
// by name on a dataset without a name column is a *ConfigurationError, and
// an empty trimmed query is a *ValidationError.
func Resolve(ds *Dataset, cls Classification, query string, field Field, mode Mode) (MatchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Field: "query", Reason: "query must not be empty"}
	}

	switch field {
	case FieldIdentifier:
		return resolveIdentifier(ds, cls, query, mode)
	case FieldName:
		if !cls.HasName() {
			return nil, &ConfigurationError{
				Param:  "field",
				Reason: "dataset has no company name column",
			}
		}
		return resolveName(ds, cls, query, mode)
	}
	return nil, &ConfigurationError{Param: "field", Reason: "unknown lookup field"}
}

func resolveIdentifier(ds *Dataset, cls Classification, query string, mode Mode) (MatchResult, error) {
	match := MatchResult{}

	if mode == ModeExact {
		code, err := strconv.ParseInt(query, 10, 64)
		if err != nil {
			return nil, &ValidationError{Field: "query", Reason: "non-integer identifier"}
		}
		for _, rec := range ds.records {
			if id, ok := rec.Value(cls.IdentifierColumn).Int(); ok && id == code {
				match = append(match, rec)
			}
		}
		return match, nil
	}

	for _, rec := range ds.records {
		id := rec.Value(cls.IdentifierColumn)
		if id.IsMissing() {
			continue
		}
		if strings.Contains(id.Display(), query) {
			match = append(match, rec)
		}
	}
	return match, nil
}

func resolveName(ds *Dataset, cls Classification, query string, mode Mode) (MatchResult, error) {
	match := MatchResult{}
	for _, rec := range ds.records {
		name, ok := rec.Value(cls.NameColumn).Text()
		if !ok {
			continue
		}
		if mode == ModeExact {
			if name == query {
				match = append(match, rec)
			}
			continue
		}
		if strings.Contains(name, query) {
			match = append(match, rec)
		}
	}
	return match, nil
}
