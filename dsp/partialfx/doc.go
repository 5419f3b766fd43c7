// Package partialfx transforms partial trajectories before resynthesis.
//
// The effect set is closed: time stretching, random panning, and
// low-frequency amplitude modulation. Enabled effects always run in
// that order so spatial and modulation stages see the stretched
// timeline. All effects mutate the partial set in place and are
// deterministic for a given Settings value.
package partialfx
