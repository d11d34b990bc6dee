// Package pro reads and writes PRO files.
//
// A PRO file is comma-delimited text with an optional metadata preamble and a
// leading marker column whose data cells hold a bare "*":
//
//	MODEL_NAME,TERM_LIFE
//	VARIABLE_TYPES,T1,I3,N8,Ddd/mm/yyyy
//	!,POL_NO,AGE,PREMIUM,ENTRY_DATE
//	*,"P001",42,120.5,"01/02/2020"
//	*,"P002",37,99.0,"15/06/2021"
//
// # Reading
//
// [Read] splits the document into preamble and body with [ScanPreamble],
// derives column types from the VARIABLE_TYPES line with [ExtractTypes],
// parses the body with encoding/csv, drops the marker column with
// [DecodeSentinel] and finally coerces each column into pgtype cells.
// Date columns are declared with Excel number formats; [TranslateExcelDate]
// turns them into strftime patterns and [GoLayout] into time layouts.
//
// # Writing
//
// [Write] prepends a marker column carrying a fresh random token
// ([EncodeSentinel]), writes the header with minimal quoting and the body with
// every non-numeric cell quoted, then rewrites the quoted token to "*"
// ([ReplaceSentinel]). Output is single-byte encoded (ISO-8859-1 by default).
//
// # Errors
//
// A line that no decoder in the chain accepts fails the read with a
// [*DecodeError]. A missing VARIABLE_TYPES line only disables type
// coercion. Use [MapError] to turn any codec error into a [UserMessage].
package pro
