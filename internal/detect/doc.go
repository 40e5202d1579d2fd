// Package detect identifies the terminal emulator attached to the
// controlling terminal.
//
// It sends a short, adaptive series of device attribute and related
// queries, decodes whatever comes back into an Info, and classifies the
// evidence into an implementation, an emulation level, a version and a
// feature set. Emulators that ignore a query cost a full request delay, so
// later queries are only sent when earlier replies leave the question open.
package detect
