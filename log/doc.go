// Package log provides the logging contract used across flowsmith.
//
// A small Logger interface decouples the engine and pipeline builder from
// any concrete logging library. DefaultLogger writes to stderr via the
// standard library; GologLogger adapts kataras/golog; NoOpLogger silences
// everything. A package-level default can be swapped with SetDefaultLogger.
package log
