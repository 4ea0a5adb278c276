// Package emit defines the contract between the emission pipeline and a
// layout database backend.
//
// A [Backend] opens one design (cell/view) for writing and returns a
// [Block]. The pipeline then issues create calls carrying fully encoded
// records: integer grid coordinates, numeric layer and purpose numbers,
// orientation codes and backend-native via and path parameters. Nothing in
// this package converts units or looks up technology data; see
// [pipeline.Runner] for that.
//
// Two implementations ship with layoutwriter:
//
//   - [record.Backend] keeps every call in memory, in order, and can dump
//     the result as JSON or MessagePack.
//   - [mongo.Backend] stores figures and design summaries in MongoDB.
//
// [pipeline.Runner]: github.com/matzehuels/layoutwriter/pkg/pipeline.Runner
// [record.Backend]: github.com/matzehuels/layoutwriter/pkg/emit/record.Backend
// [mongo.Backend]: github.com/matzehuels/layoutwriter/pkg/emit/mongo.Backend
package emit
