// Package extract finds where a sampled density lattice crosses zero and
// groups those crossings into surface patches, one or more per active cell.
//
// A cube edge crosses the surface when its endpoint samples have strictly
// opposite signs. A cell is active when any of its twelve edges crosses.
// Patches are found by flood-filling the cube graph over empty
// (non-negative) corners; every edge from a visited empty corner to a solid
// corner contributes one interpolated vertex.
package extract
