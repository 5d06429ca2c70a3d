/*
Package application provides the common glue shared by the keybase-go
executables and their library packages: configuration files with
pluggable encodings, and structured logging.

Configs implement the AppConfig interface and embed a CommonConfig,
which carries the file path, the encoding, and the logger settings.
The actual encode/decode work is behind the ConfigLoader interface so
an executable can switch config formats without touching its config
type.
*/
package application
