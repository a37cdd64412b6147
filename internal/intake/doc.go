// Package intake models the structured answer set collected for one lesson
// request and the adaptive conversation that fills it in.
//
// The conversation engine drives a multi-turn dialogue against the
// completion service: each turn runs a structured-extraction pass over the
// latest parent message, merges newly stated facts into the partial intake,
// derives the current phase purely from field presence, and asks the model
// for the next utterance conditioned on history plus a summary of what is
// still missing. Extraction failures never fail the session; the
// conversation simply re-elicits missing fields on later turns.
package intake
