// Package importer reads catalog data from JSON and YAML files.
//
// Songs, team members and services are decoded strictly: YAML input is coerced to JSON so both
// formats share one decoder that rejects unknown fields. Templates are read from YAML documents,
// walking the structure mapping node by node so sections keep the order they were written in.
//
// Bulk song imports validate each song, skip titles already in the catalog (ignoring case) and
// report what happened in an [ImportResult].
package importer
