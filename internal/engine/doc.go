// Package engine is the data preparation and query core for digital
// transformation analytics over listed-company datasets. It classifies the
// columns of a loaded dataset into roles, aggregates metrics by industry,
// reshapes wide data into long form for comparison views, ranks companies
// by metric, and resolves free-text lookups against the stock code or the
// company name column.
//
// # Architecture
//
// The package is organized around one immutable Dataset and a derived
// Classification computed once per load:
//
//  1. Classify: assigns column roles (identifier, grouping, name, metrics)
//  2. AggregateByGroup / ToLongForm / SuggestRange: cross-sectional views
//  3. Rank: ordered top-N selection by metric
//  4. Resolve: exact or substring lookup by stock code or company name
//  5. BuildEntityComparison / BuildIndustryComparison: long-form comparison
//     tables for radar and bar style views
//
// # Concurrency
//
// Every operation is a pure, deterministic, in-memory computation over its
// inputs. Dataset and Classification are read-only after construction and
// safe to share across any number of concurrent readers without locking.
// Reloading the source file must produce a new Dataset and Classification
// pair; the engine has no mutation path.
//
// # Error Handling
//
// Failures are typed values, never silent defaults:
//
//   - SchemaError: the identifier column is missing (session-fatal)
//   - ConfigurationError: parameters inconsistent with the classification
//   - ValidationError: malformed or empty user query input
//
// Zero results are a normal outcome, not an error. The engine never formats
// user-facing text; the transport layer translates these errors.
package engine
