// Package filehandler provides handlers that write formatted log entries
// to a single file.
//
//   - FileHandler appends (or truncates, then appends) to one path, with a
//     configurable record terminator and output encoding.
//   - WatchedFileHandler reopens its path when an external tool moves or
//     deletes the file.
//   - RotatingFileHandler rotates by size and prunes old backups.
//
// All handlers serialize writes so that records from concurrent
// goroutines are never interleaved.
package filehandler
