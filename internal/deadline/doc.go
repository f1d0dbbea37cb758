// Package deadline finds deadline dates in mail text.
//
// Extraction is a pipeline of independent parsers, each recognising one
// written form of a date:
//
//	Numeric      3/14/2025, 14-03-25
//	ISO          2025-03-14, 2025/3/14
//	MonthName    Mar 14, 2025 / March 14 2025
//	DayMonthName 14 March 2025
//
// Numeric dates are ambiguous between month-first and day-first writing. A
// date with a field above 12 is resolved by its value; otherwise the
// configured Order decides.
//
// An Extractor runs the parsers in order and keeps dates that are not in the
// past. A Matcher decides whether a mail looks like it carries a deadline at
// all.
package deadline
