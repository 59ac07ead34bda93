// Package output provides the destinations generated scripts are written
// to: a [StdoutWriter] for piping and a [FileWriter] that replaces files
// atomically.
package output
