// Package logger is a standardized event logging framework for the shell.
//
// Events are newline delimited JSON objects, each one a protobuf Struct
// encoded with protojson so the log can be read back without a fixed schema.
package logger
