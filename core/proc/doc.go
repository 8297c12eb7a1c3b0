// Package proc launches external programs and tracks them as jobs.
//
// A command goes through three steps: its redirection operators are resolved
// into stream bindings, its name is resolved against PATH into candidate
// executables, and the first candidate that starts becomes a Job. The
// Controller owns the single foreground slot which the InterruptBridge clears
// when the user presses Ctrl-C.
package proc
