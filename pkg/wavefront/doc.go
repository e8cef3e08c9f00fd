// Package wavefront parses Wavefront object (.obj) and material (.mtl) text.
//
// Parsing runs in two steps. A grammar built from small combinators turns
// the text into a flat list of line values, skipping blank and comment lines
// wherever they occur. A constructor then walks that list once and builds
// the validated result: materials are grouped at each newmtl and checked
// for missing or repeated fields, and faces are resolved against the vertex
// pools as they stood when the face line was read.
//
// Only triangles are supported. Texture maps, free-form geometry and
// multiple objects per file are not modeled.
package wavefront
