// Package splice injects a generated data literal into userscript
// templates.
//
// A template carries one region bounded by two marker lines:
//
//	// <COMIC_DATA>
//	const comicData = [];
//	// </COMIC_DATA>
//
// Everything from the start marker through the end marker is replaced with
// the markers around the fresh literal. Bytes outside the region, line
// endings included, are left as they were, so splicing the same literal
// twice yields the same document.
package splice
