// Package compiler turns LaTeX-flavoured markup into the opcode stream the
// viewer renders.
//
// Pipeline: source → scanner → command dispatch → emitter → opcode stream
//
// Only a fixed command subset is understood: \frac, ^ and _ scripts, \sqrt,
// sectioning, a handful of argument-transparent style commands, and an alias
// table of symbols substituted as plain text. Anything else is reproduced
// literally; compilation never fails.
package compiler
