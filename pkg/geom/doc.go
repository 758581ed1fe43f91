// Package geom defines the value types shared by the terrain pipeline:
// integer lattice coordinates, chunk-aligned positions, and the wound
// polygons the extractor emits. Float vectors are sdfx v3.Vec values.
package geom
