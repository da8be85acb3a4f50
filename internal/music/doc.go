// Package music implements key arithmetic on the 12-tone chromatic scale.
//
// Keys are the display names in [Scale]. A key string resolves to its pitch class by dropping any
// "/"-separated alternate spelling and matching the sharp-side prefix, so "F#", "F#/Gb" and
// "F#/anything" all resolve to index 6 while a bare flat spelling such as "Gb" does not resolve.
//
// [CalculateTransposition] measures the interval between two keys and suggests a capo for upward
// moves, [CapoKey] names the sounding key for a capo position, and [NewTranspositionChart]
// summarizes a team's preferred keys for one song.
package music
