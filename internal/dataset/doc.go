// Package dataset turns comic metadata rows read from CSV into a JavaScript
// array literal that can be embedded in a userscript.
//
// Each row becomes one object literal with its columns in header order:
//
//	{id: "1", arc_number: "4", title: "Say \"Hi\""}
//
// Every value is emitted as a double-quoted string. Three encoding rules
// apply, in this order:
//
//   - The arc column is parsed as a float, rounded half-to-even and written
//     as an integer. Unparseable values become "-1".
//   - Values made only of ASCII digits pass through unchanged, so codes with
//     leading zeros such as "007" survive.
//   - Anything else has its double quotes escaped with a backslash.
//
// The records are wrapped in a single assignment statement:
//
//	const comicData = [
//	    {...},
//	    {...}
//	];
package dataset
