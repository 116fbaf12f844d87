// Package harness runs scripted review scenarios against a real session.
//
// A scenario is a YAML file naming a list of lead texts, a sequence of
// reviewer operations (accept, reject, delete, next, prev, jump, save,
// reload, autosave, wait, reopen, corrupt) and assertions over the final
// state. Each run happens in a fresh temporary directory with a manual
// clock, so the checkpoint files it produces are byte-for-byte stable and can
// be compared against golden files.
//
// Operations may carry an expect clause naming the outcome ("moved",
// "end_of_list", "saved", ...) or the error code the step must produce.
package harness
