// Package engine owns the single pet record and drives it.
// This is the heartbeat of PocketPet.
//
// ARCHITECTURAL RULE: every action and tick runs through Engine, one at a
// time. Rules stay pure; the engine mutates, persists, journals and renders.
package engine
