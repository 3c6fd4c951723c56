// Package stage defines the scene graph that the framing and verification
// workflows query. A Stage is a tree of prims addressed by absolute,
// slash-separated paths ("/World/clean_object"). Stages are produced by the
// scene-script engine and queried through the host session.
package stage
