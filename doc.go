// Package terminfo implements a terminal-capability runtime compatible with
// the X/Open terminfo and termcap interfaces.
//
// It parses a terminfo source database (the textual format shipped as
// terminfo.src by ncurses and friends), resolves a single named entry
// (following use= inheritance and boolean cancellations), and evaluates
// the %-language used by parameterized capability strings such as cup or
// setaf.
//
// The package is organized leaves-first, following the data flow of a
// lookup: LoadCaps loads the termcap/terminfo/variable translation table,
// Parse turns a source buffer into a Database, Resolve turns a Database
// entry into a ResolvedEntry, and Compile and Execute turn a capability
// string into its expanded byte form. Terminfo ties all of this together
// as the public facade.
package terminfo
