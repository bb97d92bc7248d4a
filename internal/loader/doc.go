// Package loader imports node units in isolation and converts every
// per-unit failure into a recoverable load record instead of a process
// crash. A unit whose body cannot run still surfaces in the palette as a
// stub descriptor, as long as its static manifest was readable.
package loader
