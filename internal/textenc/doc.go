// Package textenc detects the text encoding of a log file from its byte-order
// mark and converts raw file bytes into clean text lines.
//
// Lines end at LF. CRLF endings work because CleanLine trims the CR. A lone
// CR, NEL or U+2028 does not end a line, so files written with classic Mac
// OS line endings are only split where an LF appears.
//
// Detection never fails: missing files and read errors fall back to plain
// UTF-8 so callers can keep tailing a file that does not exist yet.
package textenc
