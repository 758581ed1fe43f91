// Package topology describes the unit cube every lattice cell is made of:
// eight corners, twelve edges, and the neighbor relation between corners.
// The tables are fixed arrays indexed by small enums so the per-cell hot loop
// never hashes. A single immutable Unit cube is shared by every chunk build.
package topology
