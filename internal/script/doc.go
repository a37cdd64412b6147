// Package script generates and parses structured lesson scripts.
//
// The completion service returns section-delimited text using literal
// bracketed tags; the tag list here is the single source of truth shared by
// the prompt builder and the parser so the two cannot drift. Parsing is
// tolerant: missing sections default to empty and the QA gate is
// responsible for catching the resulting defects.
package script
