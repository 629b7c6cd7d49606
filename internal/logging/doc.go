// Package logging builds the zap logger shared by the pipelines and the
// model invoker. Diagnostics go to stderr so that command output on stdout
// stays clean; the console encoder is used on terminals and JSON otherwise.
package logging
