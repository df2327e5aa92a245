// Package rules contains the pure calculation logic for pet care.
// This package is PURE and must NOT import any infrastructure packages.
//
// Every function takes a pet.State by value and returns the next state;
// nothing here persists, renders or logs.
package rules
